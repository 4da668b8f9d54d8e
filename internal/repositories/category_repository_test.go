package repositories

import (
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestCategoryRepository(t *testing.T) {
	suite.Run(t, new(CategoryRepositorySuite))
}

type CategoryRepositorySuite struct {
	suite.Suite
	db    *database.DB
	repo  CategoryRepositoryInterface
	alice *models.User
	bob   *models.User
}

func (s *CategoryRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewCategoryRepository(s.db.DB)
	s.alice = database.CreateTestUser(s.T(), s.db, "alice")
	s.bob = database.CreateTestUser(s.T(), s.db, "bob")
}

func (s *CategoryRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *CategoryRepositorySuite) TestCreate_EnforcesOwnerInvariant() {
	err := s.repo.Create(&models.Category{
		Name:         "Food",
		CategoryType: models.TransactionTypeExpense,
		IsGlobal:     true,
		UserID:       &s.alice.ID,
	})
	s.ErrorIs(err, models.ErrGlobalCategoryOwner)

	err = s.repo.Create(&models.Category{
		Name:         "Hobby",
		CategoryType: models.TransactionTypeExpense,
	})
	s.ErrorIs(err, models.ErrCategoryOwnerMissing)
}

func (s *CategoryRepositorySuite) TestGetByID() {
	category := database.CreateTestCategory(s.T(), s.db, "Hobby", models.TransactionTypeExpense, &s.alice.ID)

	found, err := s.repo.GetByID(category.ID)
	s.Require().NoError(err)
	s.Equal("Hobby", found.Name)
	s.Require().NotNil(found.User)
	s.Equal("alice", found.User.Username)

	_, err = s.repo.GetByID(uuid.New())
	s.Equal(ErrCategoryNotFound, err)
}

func (s *CategoryRepositorySuite) TestListVisible() {
	database.CreateTestCategory(s.T(), s.db, "Salary", models.TransactionTypeIncome, nil)
	database.CreateTestCategory(s.T(), s.db, "Food", models.TransactionTypeExpense, nil)
	database.CreateTestCategory(s.T(), s.db, "Hobby", models.TransactionTypeExpense, &s.alice.ID)
	database.CreateTestCategory(s.T(), s.db, "Bob's Garage", models.TransactionTypeExpense, &s.bob.ID)

	all, err := s.repo.ListVisible(s.alice.ID, "")
	s.Require().NoError(err)
	s.Equal([]string{"Food", "Hobby", "Salary"}, categoryNames(all))

	expenses, err := s.repo.ListVisible(s.alice.ID, models.TransactionTypeExpense)
	s.Require().NoError(err)
	s.Equal([]string{"Food", "Hobby"}, categoryNames(expenses))

	bobIncome, err := s.repo.ListVisible(s.bob.ID, models.TransactionTypeIncome)
	s.Require().NoError(err)
	s.Equal([]string{"Salary"}, categoryNames(bobIncome))
}

func (s *CategoryRepositorySuite) TestUpdate_GlobalClearsOwner() {
	category := database.CreateTestCategory(s.T(), s.db, "Hobby", models.TransactionTypeExpense, &s.alice.ID)

	category.IsGlobal = true
	category.UserID = nil
	category.User = nil
	s.Require().NoError(s.repo.Update(category))

	found, err := s.repo.GetByID(category.ID)
	s.Require().NoError(err)
	s.True(found.IsGlobal)
	s.Nil(found.UserID)
}

func (s *CategoryRepositorySuite) TestUpdate_RejectsInvalid() {
	category := database.CreateTestCategory(s.T(), s.db, "Hobby", models.TransactionTypeExpense, &s.alice.ID)

	category.IsGlobal = true
	s.ErrorIs(s.repo.Update(category), models.ErrGlobalCategoryOwner)
}

func (s *CategoryRepositorySuite) TestListWithFilters() {
	database.CreateTestCategory(s.T(), s.db, "Food", models.TransactionTypeExpense, nil)
	database.CreateTestCategory(s.T(), s.db, "Fast_Food", models.TransactionTypeExpense, &s.alice.ID)
	database.CreateTestCategory(s.T(), s.db, "Freelance", models.TransactionTypeIncome, &s.bob.ID)

	isGlobal := false
	results, total, err := s.repo.ListWithFilters(models.AdminCategoryFilters{IsGlobal: &isGlobal})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal([]string{"Fast_Food", "Freelance"}, categoryNames(results))

	results, _, err = s.repo.ListWithFilters(models.AdminCategoryFilters{UserID: &s.bob.ID})
	s.Require().NoError(err)
	s.Equal([]string{"Freelance"}, categoryNames(results))
	s.Require().NotNil(results[0].User)
	s.Equal("bob", results[0].User.Username)

	results, _, err = s.repo.ListWithFilters(models.AdminCategoryFilters{CategoryType: models.TransactionTypeExpense, Search: "FOOD"})
	s.Require().NoError(err)
	s.Equal([]string{"Fast_Food", "Food"}, categoryNames(results))

	// the underscore is matched literally
	results, _, err = s.repo.ListWithFilters(models.AdminCategoryFilters{Search: "t_f"})
	s.Require().NoError(err)
	s.Equal([]string{"Fast_Food"}, categoryNames(results))

	results, total, err = s.repo.ListWithFilters(models.AdminCategoryFilters{Offset: 1, Limit: 1})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal([]string{"Food"}, categoryNames(results))
}

func (s *CategoryRepositorySuite) TestEnsureGlobal() {
	first, err := s.repo.EnsureGlobal("Salary", models.TransactionTypeIncome)
	s.Require().NoError(err)
	s.True(first.IsGlobal)

	second, err := s.repo.EnsureGlobal("Salary", models.TransactionTypeIncome)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	other, err := s.repo.EnsureGlobal("Salary", models.TransactionTypeExpense)
	s.Require().NoError(err)
	s.NotEqual(first.ID, other.ID)
}

func (s *CategoryRepositorySuite) TestLikePattern() {
	s.Equal(`%50\%\_off%`, likePattern("50%_OFF"))
	s.Equal(`%a\\b%`, likePattern(`a\b`))
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
