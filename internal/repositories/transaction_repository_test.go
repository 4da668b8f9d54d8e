package repositories

import (
	"testing"
	"time"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestTransactionRepository(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

type TransactionRepositorySuite struct {
	suite.Suite
	db     *database.DB
	repo   TransactionRepositoryInterface
	alice  *models.User
	bob    *models.User
	salary *models.Category
	food   *models.Category
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.alice = database.CreateTestUser(s.T(), s.db, "alice")
	s.bob = database.CreateTestUser(s.T(), s.db, "bob")
	s.salary = database.CreateTestCategory(s.T(), s.db, "Salary", models.TransactionTypeIncome, nil)
	s.food = database.CreateTestCategory(s.T(), s.db, "Food", models.TransactionTypeExpense, nil)
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *TransactionRepositorySuite) newTransaction(owner *models.User, category *models.Category, date time.Time, amount string) *models.Transaction {
	return &models.Transaction{
		UserID:          owner.ID,
		CategoryID:      category.ID,
		Date:            date,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: category.CategoryType,
	}
}

func (s *TransactionRepositorySuite) add(owner *models.User, category *models.Category, date time.Time, amount string) *models.Transaction {
	tx := s.newTransaction(owner, category, date, amount)
	s.Require().NoError(s.repo.Create(tx))
	return tx
}

func (s *TransactionRepositorySuite) TestCreate_NormalizesDate() {
	tx := s.newTransaction(s.alice, s.food, time.Date(2024, 3, 15, 18, 30, 0, 0, time.FixedZone("X", 3600)), "12.50")
	s.Require().NoError(s.repo.Create(tx))

	found, err := s.repo.GetByIDForUser(tx.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal("15-03-2024", found.FormattedDate())
	s.True(decimal.RequireFromString("12.50").Equal(found.Amount))
	s.Require().NotNil(found.Category)
	s.Equal("Food", found.Category.Name)
}

func (s *TransactionRepositorySuite) TestCreate_RejectsNegativeAmount() {
	tx := s.newTransaction(s.alice, s.food, day(2024, 3, 15), "-1")
	s.ErrorIs(s.repo.Create(tx), models.ErrNegativeAmount)
}

func (s *TransactionRepositorySuite) TestCreateBatch() {
	batch := []models.Transaction{
		*s.newTransaction(s.alice, s.salary, day(2024, 1, 1), "100"),
		*s.newTransaction(s.alice, s.food, day(2024, 1, 2), "30"),
	}
	s.Require().NoError(s.repo.CreateBatch(batch))
	s.NoError(s.repo.CreateBatch(nil))

	all, err := s.repo.ListByUser(models.TransactionFilters{UserID: s.alice.ID})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *TransactionRepositorySuite) TestGetByIDForUser_ForeignIsNotFound() {
	tx := s.add(s.alice, s.food, day(2024, 3, 15), "5")

	_, err := s.repo.GetByIDForUser(tx.ID, s.bob.ID)
	s.Equal(ErrTransactionNotFound, err)

	_, err = s.repo.GetByIDForUser(uuid.New(), s.alice.ID)
	s.Equal(ErrTransactionNotFound, err)
}

func (s *TransactionRepositorySuite) TestUpdate() {
	tx := s.add(s.alice, s.food, day(2024, 3, 15), "5")

	description := "groceries"
	tx.Amount = decimal.RequireFromString("7.25")
	tx.Date = day(2024, 3, 16)
	tx.Description = &description
	s.Require().NoError(s.repo.Update(tx))

	found, err := s.repo.GetByIDForUser(tx.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal("16-03-2024", found.FormattedDate())
	s.True(decimal.RequireFromString("7.25").Equal(found.Amount))
	s.Equal("groceries", found.DescriptionText())
	s.Equal(s.alice.ID, found.UserID)
	s.Equal(models.TransactionTypeExpense, found.TransactionType)
}

func (s *TransactionRepositorySuite) TestDeleteForUser() {
	tx := s.add(s.alice, s.food, day(2024, 3, 15), "5")

	s.Equal(ErrTransactionNotFound, s.repo.DeleteForUser(tx.ID, s.bob.ID))
	s.NoError(s.repo.DeleteForUser(tx.ID, s.alice.ID))
	s.Equal(ErrTransactionNotFound, s.repo.DeleteForUser(tx.ID, s.alice.ID))
}

func (s *TransactionRepositorySuite) TestListByUser_DateRangeAndOrder() {
	s.add(s.alice, s.salary, day(2024, 3, 1), "100")
	s.add(s.alice, s.food, day(2024, 3, 10), "30")
	s.add(s.alice, s.food, day(2024, 4, 1), "20")
	s.add(s.bob, s.food, day(2024, 3, 5), "99")

	start, end := day(2024, 3, 1), day(2024, 3, 31)
	march, err := s.repo.ListByUser(models.TransactionFilters{UserID: s.alice.ID, StartDate: &start, EndDate: &end})
	s.Require().NoError(err)
	s.Require().Len(march, 2)
	s.Equal("10-03-2024", march[0].FormattedDate())
	s.Equal("01-03-2024", march[1].FormattedDate())
	s.Equal("Food", march[0].CategoryName())

	expenses, err := s.repo.ListByUser(models.TransactionFilters{UserID: s.alice.ID, Type: models.TransactionTypeExpense})
	s.Require().NoError(err)
	s.Len(expenses, 2)

	all, err := s.repo.ListByUser(models.TransactionFilters{UserID: s.alice.ID})
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *TransactionRepositorySuite) TestGetTotalsByType() {
	totals, err := s.repo.GetTotalsByType(s.alice.ID)
	s.Require().NoError(err)
	s.True(totals.Income.IsZero())
	s.True(totals.Expense.IsZero())

	s.add(s.alice, s.salary, day(2024, 3, 1), "100")
	s.add(s.alice, s.salary, day(2024, 3, 2), "20.50")
	s.add(s.alice, s.food, day(2024, 3, 3), "30.25")
	s.add(s.bob, s.food, day(2024, 3, 3), "1000")

	totals, err = s.repo.GetTotalsByType(s.alice.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("120.50").Equal(totals.Income), totals.Income.String())
	s.True(decimal.RequireFromString("30.25").Equal(totals.Expense), totals.Expense.String())
	s.True(decimal.RequireFromString("90.25").Equal(totals.Balance()))
}

func (s *TransactionRepositorySuite) TestListWithFilters() {
	hobby := database.CreateTestCategory(s.T(), s.db, "Hobby", models.TransactionTypeExpense, &s.bob.ID)

	s.add(s.alice, s.salary, day(2024, 3, 1), "100")
	s.add(s.alice, s.food, day(2024, 3, 2), "30")
	s.add(s.bob, hobby, day(2024, 3, 3), "15")

	results, total, err := s.repo.ListWithFilters(models.AdminTransactionFilters{})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(results, 3)
	s.Equal("bob", results[0].User.Username)
	s.Equal("Hobby", results[0].Category.Name)

	results, total, err = s.repo.ListWithFilters(models.AdminTransactionFilters{UserID: &s.alice.ID, Type: models.TransactionTypeExpense})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Food", results[0].CategoryName())

	results, _, err = s.repo.ListWithFilters(models.AdminTransactionFilters{CategoryType: models.TransactionTypeIncome})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("Salary", results[0].CategoryName())

	results, _, err = s.repo.ListWithFilters(models.AdminTransactionFilters{Search: "BO"})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(s.bob.ID, results[0].UserID)

	results, _, err = s.repo.ListWithFilters(models.AdminTransactionFilters{Search: "foo"})
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("Food", results[0].CategoryName())

	results, total, err = s.repo.ListWithFilters(models.AdminTransactionFilters{Offset: 2, Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(results, 1)
}
