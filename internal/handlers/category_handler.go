package handlers

import (
	stderrors "errors"
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler lists and creates the categories a user can book against
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
	pages           *Pages
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryServiceInterface, pages *Pages) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		pages:           pages,
	}
}

// List shows global and own categories split by type.
// GET /categories/
func (h *CategoryHandler) List(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	listing, err := h.categoryService.ListForUser(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return h.pages.Render(c, http.StatusOK, "categories", View{"Listing": listing})
}

// Create adds a private category named by one of the two form fields.
// POST /categories/
func (h *CategoryHandler) Create(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	var form dto.CategoryForm
	if err := c.Bind(&form); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid form data"))
	}

	category, err := h.categoryService.CreateFromForm(userID, form)
	switch {
	case err == nil:
		return h.pages.Redirect(c, FlashSuccess, "Category \""+category.Name+"\" added.", "/categories/")
	case stderrors.Is(err, services.ErrCategoryNameMissing):
		return h.pages.Redirect(c, FlashError, "Enter a name for the new income or expense category.", "/categories/")
	case stderrors.Is(err, models.ErrCategoryNameTooLong), stderrors.Is(err, models.ErrCategoryNameRequired):
		return h.pages.Redirect(c, FlashError, "Category names must be between 1 and 100 characters.", "/categories/")
	default:
		return SendSystemError(c, err)
	}
}
