package dto

import "finance-tracker/internal/models"

// CategoryForm is posted by the categories view. Exactly one of the two
// names is used; the income one wins when both are filled.
type CategoryForm struct {
	NewIncomeCategory  string `form:"new_income_category"`
	NewExpenseCategory string `form:"new_expense_category"`
}

// CategoryListing is what the categories view shows: global and own
// categories, split by type.
type CategoryListing struct {
	Income  []models.Category
	Expense []models.Category
}
