package services

import (
	"errors"
	"testing"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	repo         *repository_mocks.MockCategoryRepositoryInterface
	auditService *service_mocks.MockAuditServiceInterface
	service      CategoryServiceInterface
	userID       uuid.UUID
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (s *CategoryServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.auditService = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.service = NewCategoryService(s.repo, s.auditService, NoopMetrics{}, discardLogger())
	s.userID = uuid.New()
}

func (s *CategoryServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CategoryServiceTestSuite) TestListVisible_RejectsUnknownType() {
	_, err := s.service.ListVisible(s.userID, "transfer")
	s.ErrorIs(err, models.ErrInvalidTransactionType)
}

func (s *CategoryServiceTestSuite) TestListVisible_PassesTypeThrough() {
	expected := []models.Category{{ID: uuid.New(), Name: "Salary", CategoryType: models.TransactionTypeIncome, IsGlobal: true}}
	s.repo.EXPECT().ListVisible(s.userID, models.TransactionTypeIncome).Return(expected, nil).Times(1)

	categories, err := s.service.ListVisible(s.userID, models.TransactionTypeIncome)
	s.NoError(err)
	s.Equal(expected, categories)
}

func (s *CategoryServiceTestSuite) TestListForUser_SplitsByType() {
	owner := s.userID
	s.repo.EXPECT().ListVisible(s.userID, "").Return([]models.Category{
		{Name: "Salary", CategoryType: models.TransactionTypeIncome, IsGlobal: true},
		{Name: "Food", CategoryType: models.TransactionTypeExpense, IsGlobal: true},
		{Name: "Side gig", CategoryType: models.TransactionTypeIncome, UserID: &owner},
	}, nil).Times(1)

	listing, err := s.service.ListForUser(s.userID)
	s.Require().NoError(err)
	s.Len(listing.Income, 2)
	s.Len(listing.Expense, 1)
	s.Equal("Food", listing.Expense[0].Name)
}

func (s *CategoryServiceTestSuite) TestListForUser_EmptyListsAreNotNil() {
	s.repo.EXPECT().ListVisible(s.userID, "").Return(nil, nil).Times(1)

	listing, err := s.service.ListForUser(s.userID)
	s.Require().NoError(err)
	s.NotNil(listing.Income)
	s.NotNil(listing.Expense)
	s.Empty(listing.Income)
}

func (s *CategoryServiceTestSuite) TestCreateFromForm_IncomeWins() {
	s.repo.EXPECT().Create(gomock.Any()).DoAndReturn(func(c *models.Category) error {
		c.ID = uuid.New()
		return nil
	}).Times(1)
	s.auditService.EXPECT().LogResourceChange(s.userID, models.AuditActionCreate, models.AuditResourceCategory,
		gomock.Any(), gomock.Any()).Return(nil).Times(1)

	category, err := s.service.CreateFromForm(s.userID, dto.CategoryForm{
		NewIncomeCategory:  "  Freelance ",
		NewExpenseCategory: "Coffee",
	})
	s.Require().NoError(err)
	s.Equal("Freelance", category.Name)
	s.Equal(models.TransactionTypeIncome, category.CategoryType)
	s.False(category.IsGlobal)
	s.Require().NotNil(category.UserID)
	s.Equal(s.userID, *category.UserID)
}

func (s *CategoryServiceTestSuite) TestCreateFromForm_Expense() {
	s.repo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
	s.auditService.EXPECT().LogResourceChange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("audit down")).Times(1)

	category, err := s.service.CreateFromForm(s.userID, dto.CategoryForm{NewExpenseCategory: "Coffee"})
	s.Require().NoError(err)
	s.Equal("Coffee", category.Name)
	s.Equal(models.TransactionTypeExpense, category.CategoryType)
}

func (s *CategoryServiceTestSuite) TestCreateFromForm_BothBlank() {
	_, err := s.service.CreateFromForm(s.userID, dto.CategoryForm{NewIncomeCategory: "   "})
	s.ErrorIs(err, ErrCategoryNameMissing)
}

func (s *CategoryServiceTestSuite) TestCreateFromForm_RepositoryError() {
	s.repo.EXPECT().Create(gomock.Any()).Return(models.ErrCategoryNameTooLong).Times(1)

	_, err := s.service.CreateFromForm(s.userID, dto.CategoryForm{NewExpenseCategory: "Coffee"})
	s.ErrorIs(err, models.ErrCategoryNameTooLong)
}
