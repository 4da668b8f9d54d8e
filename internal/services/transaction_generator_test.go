package services

import (
	"errors"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionGeneratorTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	categories      *repository_mocks.MockCategoryRepositoryInterface
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	auditService    *service_mocks.MockAuditServiceInterface
	generator       *transactionGenerator
	userID          uuid.UUID
	today           time.Time
}

func TestTransactionGeneratorSuite(t *testing.T) {
	suite.Run(t, new(TransactionGeneratorTestSuite))
}

func (s *TransactionGeneratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categories = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.auditService = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.today = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.generator = NewTransactionGenerator(s.categories, s.transactionRepo, s.auditService, NoopMetrics{},
		func() time.Time { return s.today }, 42, discardLogger()).(*transactionGenerator)
	s.userID = uuid.New()
}

func (s *TransactionGeneratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionGeneratorTestSuite) visible() ([]models.Category, []models.Category) {
	income := []models.Category{
		{ID: uuid.New(), Name: "Salary", CategoryType: models.TransactionTypeIncome, IsGlobal: true},
	}
	expense := []models.Category{
		{ID: uuid.New(), Name: "Food", CategoryType: models.TransactionTypeExpense, IsGlobal: true},
		{ID: uuid.New(), Name: "Rent", CategoryType: models.TransactionTypeExpense, IsGlobal: true},
	}
	return income, expense
}

func (s *TransactionGeneratorTestSuite) TestGenerate_StoresBatch() {
	income, expense := s.visible()
	allowed := map[uuid.UUID]string{}
	for _, c := range append(append([]models.Category{}, income...), expense...) {
		allowed[c.ID] = c.CategoryType
	}

	s.categories.EXPECT().ListVisible(s.userID, models.TransactionTypeIncome).Return(income, nil).Times(1)
	s.categories.EXPECT().ListVisible(s.userID, models.TransactionTypeExpense).Return(expense, nil).Times(1)
	s.transactionRepo.EXPECT().CreateBatch(gomock.Any()).DoAndReturn(func(transactions []models.Transaction) error {
		s.Len(transactions, 40)
		oldest := s.today.AddDate(0, 0, -9)
		for _, t := range transactions {
			s.Equal(s.userID, t.UserID)
			s.Equal(allowed[t.CategoryID], t.TransactionType)
			s.False(t.Date.After(s.today))
			s.False(t.Date.Before(oldest))
			s.NoError(models.ValidateAmount(t.Amount))
			s.True(t.Amount.IsPositive())
			s.NotEmpty(t.DescriptionText())
		}
		return nil
	}).Times(1)
	s.auditService.EXPECT().LogResourceChange(s.userID, models.AuditActionSampleData, models.AuditResourceTransaction,
		"", gomock.Any()).Return(nil).Times(1)

	response, err := s.generator.Generate(s.userID, 40, 10)
	s.Require().NoError(err)
	s.Equal(40, response.Created)
	s.Equal(40, response.Income+response.Expense)
	s.Contains(response.Message, "40")
}

func (s *TransactionGeneratorTestSuite) TestGenerate_DefaultsAndLimits() {
	income, expense := s.visible()
	s.categories.EXPECT().ListVisible(gomock.Any(), models.TransactionTypeIncome).Return(income, nil).Times(2)
	s.categories.EXPECT().ListVisible(gomock.Any(), models.TransactionTypeExpense).Return(expense, nil).Times(2)
	s.auditService.EXPECT().LogResourceChange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).Times(2)

	gomock.InOrder(
		s.transactionRepo.EXPECT().CreateBatch(gomock.Any()).DoAndReturn(func(transactions []models.Transaction) error {
			s.Len(transactions, DefaultSampleCount)
			return nil
		}),
		s.transactionRepo.EXPECT().CreateBatch(gomock.Any()).DoAndReturn(func(transactions []models.Transaction) error {
			s.Len(transactions, MaxSampleCount)
			return nil
		}),
	)

	_, err := s.generator.Generate(s.userID, 0, 0)
	s.NoError(err)
	_, err = s.generator.Generate(s.userID, MaxSampleCount+1, MaxSampleDays+1)
	s.NoError(err)
}

func (s *TransactionGeneratorTestSuite) TestGenerate_NegativeInput() {
	_, err := s.generator.Generate(s.userID, -1, 10)
	s.ErrorIs(err, ErrInvalidSampleRequest)

	_, err = s.generator.Generate(s.userID, 10, -1)
	s.ErrorIs(err, ErrInvalidSampleRequest)
}

func (s *TransactionGeneratorTestSuite) TestGenerate_CreatesFallbackCategories() {
	fallbackIncome := &models.Category{ID: uuid.New(), Name: "Other Income", CategoryType: models.TransactionTypeIncome, IsGlobal: true}
	fallbackExpense := &models.Category{ID: uuid.New(), Name: "Other Expenses", CategoryType: models.TransactionTypeExpense, IsGlobal: true}

	s.categories.EXPECT().ListVisible(s.userID, gomock.Any()).Return(nil, nil).Times(2)
	s.categories.EXPECT().EnsureGlobal("Other Income", models.TransactionTypeIncome).Return(fallbackIncome, nil).Times(1)
	s.categories.EXPECT().EnsureGlobal("Other Expenses", models.TransactionTypeExpense).Return(fallbackExpense, nil).Times(1)
	s.transactionRepo.EXPECT().CreateBatch(gomock.Any()).DoAndReturn(func(transactions []models.Transaction) error {
		for _, t := range transactions {
			s.Contains([]uuid.UUID{fallbackIncome.ID, fallbackExpense.ID}, t.CategoryID)
		}
		return nil
	}).Times(1)
	s.auditService.EXPECT().LogResourceChange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).Times(1)

	_, err := s.generator.Generate(s.userID, 5, 5)
	s.NoError(err)
}

func (s *TransactionGeneratorTestSuite) TestGenerate_StoreFailure() {
	income, expense := s.visible()
	s.categories.EXPECT().ListVisible(s.userID, models.TransactionTypeIncome).Return(income, nil).Times(1)
	s.categories.EXPECT().ListVisible(s.userID, models.TransactionTypeExpense).Return(expense, nil).Times(1)
	s.transactionRepo.EXPECT().CreateBatch(gomock.Any()).Return(errors.New("db down")).Times(1)

	_, err := s.generator.Generate(s.userID, 3, 3)
	s.Error(err)
}

func (s *TransactionGeneratorTestSuite) TestGenerateAmount_WithinCategoryRange() {
	for i := 0; i < 200; i++ {
		amount := s.generator.GenerateAmount("Rent", models.TransactionTypeExpense)
		s.True(amount.GreaterThanOrEqual(decimal.NewFromInt(500)), amount.String())
		s.True(amount.LessThanOrEqual(decimal.NewFromInt(2500)), amount.String())
		s.LessOrEqual(-amount.Exponent(), int32(models.MaxAmountDecimalPlaces))
	}
}

func (s *TransactionGeneratorTestSuite) TestGenerateAmount_UnknownCategory() {
	for i := 0; i < 100; i++ {
		income := s.generator.GenerateAmount("Lottery", models.TransactionTypeIncome)
		s.True(income.GreaterThanOrEqual(decimal.NewFromInt(50)))
		s.True(income.LessThanOrEqual(decimal.NewFromInt(2000)))
	}
}

func (s *TransactionGeneratorTestSuite) TestSameSeedSameAmounts() {
	other := NewTransactionGenerator(s.categories, s.transactionRepo, s.auditService, NoopMetrics{},
		nil, 42, discardLogger()).(*transactionGenerator)

	for i := 0; i < 10; i++ {
		a := s.generator.GenerateAmount("Food", models.TransactionTypeExpense)
		b := other.GenerateAmount("Food", models.TransactionTypeExpense)
		s.True(a.Equal(b))
	}
}
