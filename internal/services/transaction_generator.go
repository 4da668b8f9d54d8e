package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultSampleCount = 30
	MaxSampleCount     = 500
	DefaultSampleDays  = 90
	MaxSampleDays      = 3650

	// share of generated entries that are income
	incomeRatio = 0.2

	fallbackIncomeCategory  = "Other Income"
	fallbackExpenseCategory = "Other Expenses"
)

var ErrInvalidSampleRequest = errors.New("count and days must not be negative")

var amountRanges = map[string][2]float64{
	"Salary":        {1500, 6000},
	"Bonus":         {200, 3000},
	"Investments":   {20, 1500},
	"Gifts":         {10, 300},
	"Food":          {5, 120},
	"Rent":          {500, 2500},
	"Utilities":     {30, 250},
	"Transport":     {2, 80},
	"Health":        {10, 300},
	"Entertainment": {5, 150},
	"Shopping":      {10, 450},
}

type transactionGenerator struct {
	categories      repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	audit           AuditServiceInterface
	metrics         MetricsRecorderInterface
	today           func() time.Time
	faker           *gofakeit.Faker
	logger          *slog.Logger
}

// NewTransactionGenerator creates the sample data generator. A zero seed
// picks a random one.
func NewTransactionGenerator(
	categories repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	audit AuditServiceInterface,
	metrics MetricsRecorderInterface,
	today func() time.Time,
	seed uint64,
	logger *slog.Logger,
) SampleDataGeneratorInterface {
	if today == nil {
		today = func() time.Time { return models.NormalizeDate(time.Now()) }
	}

	return &transactionGenerator{
		categories:      categories,
		transactionRepo: transactionRepo,
		audit:           audit,
		metrics:         metrics,
		today:           today,
		faker:           gofakeit.New(seed),
		logger:          logger,
	}
}

// Generate stores count random transactions for userID dated within the last
// days days. Only categories visible to the user are used.
func (g *transactionGenerator) Generate(userID uuid.UUID, count, days int) (*dto.SampleDataResponse, error) {
	if count < 0 || days < 0 {
		return nil, ErrInvalidSampleRequest
	}
	count = clamp(count, DefaultSampleCount, MaxSampleCount)
	days = clamp(days, DefaultSampleDays, MaxSampleDays)

	income, err := g.choices(userID, models.TransactionTypeIncome, fallbackIncomeCategory)
	if err != nil {
		return nil, err
	}
	expense, err := g.choices(userID, models.TransactionTypeExpense, fallbackExpenseCategory)
	if err != nil {
		return nil, err
	}

	today := g.today()
	response := &dto.SampleDataResponse{}
	transactions := make([]models.Transaction, 0, count)

	for i := 0; i < count; i++ {
		transactionType, pool := models.TransactionTypeExpense, expense
		if g.faker.Float64() < incomeRatio {
			transactionType, pool = models.TransactionTypeIncome, income
		}
		category := pool[g.faker.IntRange(0, len(pool)-1)]

		description := g.description(transactionType)
		transactions = append(transactions, models.Transaction{
			UserID:          userID,
			Date:            today.AddDate(0, 0, -g.faker.IntRange(0, days-1)),
			CategoryID:      category.ID,
			Amount:          g.GenerateAmount(category.Name, transactionType),
			Description:     &description,
			TransactionType: transactionType,
		})

		if transactionType == models.TransactionTypeIncome {
			response.Income++
		} else {
			response.Expense++
		}
	}

	if err := g.transactionRepo.CreateBatch(transactions); err != nil {
		return nil, fmt.Errorf("failed to store sample data: %w", err)
	}

	response.Created = len(transactions)
	response.Message = fmt.Sprintf("Generated %d transactions over the last %d days", response.Created, days)

	for range transactions {
		g.metrics.IncrementCounter(MetricSampleDataGenerated, nil)
	}
	if err := g.audit.LogResourceChange(userID, models.AuditActionSampleData, models.AuditResourceTransaction, "",
		map[string]interface{}{"count": response.Created, "days": days}); err != nil {
		g.logger.Error("failed to create audit log", "error", err, "user_id", userID)
	}
	g.logger.Info("sample data generated", "user_id", userID, "count", response.Created, "days", days)

	return response, nil
}

// GenerateAmount picks an amount in the usual range of the category. Unknown
// categories get a generic range for their type.
func (g *transactionGenerator) GenerateAmount(categoryName, transactionType string) decimal.Decimal {
	r, ok := amountRanges[categoryName]
	if !ok {
		r = [2]float64{5, 200}
		if transactionType == models.TransactionTypeIncome {
			r = [2]float64{50, 2000}
		}
	}
	return decimal.NewFromFloat(g.faker.Price(r[0], r[1])).Round(models.MaxAmountDecimalPlaces)
}

func (g *transactionGenerator) description(transactionType string) string {
	if transactionType == models.TransactionTypeIncome {
		return "Payment from " + g.faker.Company()
	}
	return g.faker.Company()
}

func (g *transactionGenerator) choices(userID uuid.UUID, categoryType, fallback string) ([]models.Category, error) {
	categories, err := g.categories.ListVisible(userID, categoryType)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	category, err := g.categories.EnsureGlobal(fallback, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback category: %w", err)
	}
	return []models.Category{*category}, nil
}

func clamp(value, fallback, max int) int {
	if value == 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
