package services

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type reportService struct {
	repo    repositories.TransactionRepositoryInterface
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewReportService creates a ReportServiceInterface
func NewReportService(
	repo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ReportServiceInterface {
	return &reportService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// Totals sums the user's income and expense. A type without transactions
// sums to zero.
func (s *reportService) Totals(userID uuid.UUID) (models.TypeTotals, error) {
	totals, err := s.repo.GetTotalsByType(userID)
	if err != nil {
		return models.TypeTotals{}, fmt.Errorf("failed to compute totals: %w", err)
	}
	return totals, nil
}

func (s *reportService) Dashboard(userID uuid.UUID) (*models.Dashboard, error) {
	start := time.Now()

	totals, err := s.Totals(userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListByUser(models.TransactionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	byCategory := ExpenseByCategory(transactions)
	dashboard := &models.Dashboard{
		Totals:            totals,
		ExpenseByCategory: byCategory,
		CategoryBreakdown: SortedBreakdown(byCategory),
		RunningBalance:    RunningBalance(transactions),
	}

	s.metrics.RecordProcessingTime(MetricDashboardBuild, time.Since(start))
	s.metrics.RecordGauge(MetricDashboardTransaction, float64(len(transactions)), nil)
	s.logger.Debug("dashboard built", "user_id", userID, "transactions", len(transactions))

	return dashboard, nil
}

// ExpenseByCategory sums expense amounts per category name. Income is
// ignored.
func ExpenseByCategory(transactions []models.Transaction) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for i := range transactions {
		t := &transactions[i]
		if t.TransactionType != models.TransactionTypeExpense {
			continue
		}
		name := t.CategoryName()
		sums[name] = sums[name].Add(t.Amount)
	}
	return sums
}

// SortedBreakdown lists the sums ordered by category name.
func SortedBreakdown(sums map[string]decimal.Decimal) []models.CategorySummary {
	breakdown := make([]models.CategorySummary, 0, len(sums))
	for name, total := range sums {
		breakdown = append(breakdown, models.CategorySummary{Category: name, TotalAmount: total})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// RunningBalance walks the transactions in date order, adding income and
// subtracting expense. Same-day entries keep their creation order.
func RunningBalance(transactions []models.Transaction) []models.BalancePoint {
	ordered := make([]models.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	points := make([]models.BalancePoint, 0, len(ordered))
	balance := decimal.Zero
	for i := range ordered {
		balance = balance.Add(ordered[i].SignedAmount())
		points = append(points, models.BalancePoint{
			Label:   ordered[i].FormattedDate(),
			Balance: balance,
		})
	}
	return points
}
