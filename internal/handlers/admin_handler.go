package handlers

import (
	stderrors "errors"
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"
	"finance-tracker/internal/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the management API
type AdminHandler struct {
	adminService services.AdminServiceInterface
	auditService services.AuditServiceInterface
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService services.AdminServiceInterface, auditService services.AuditServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		auditService: auditService,
	}
}

// ListTransactions lists transactions of every user
// @Summary List transactions (admin)
// @Tags Admin
// @Produce json
// @Param user query string false "Owner ID (UUID)"
// @Param transaction_type query string false "income or expense"
// @Param category_type query string false "income or expense"
// @Param q query string false "Owner username or category name"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page (max 100)" default(20)
// @Success 200 {object} dto.AdminTransactionsListResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid filters"
// @Failure 403 {object} errors.ErrorResponse "AUTH_005 - Requires admin role"
// @Router /admin/api/transactions [get]
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	var query dto.AdminTransactionQuery
	if problem := bindQuery(c, &query); problem != nil {
		return RespondError(c, http.StatusBadRequest, problem)
	}

	userID, _ := parseUUID(query.User)
	offset, limit := services.NormalizePage(query.Offset, query.Limit)

	transactions, total, err := h.adminService.ListTransactions(models.AdminTransactionFilters{
		UserID:       userID,
		Type:         query.TransactionType,
		CategoryType: query.CategoryType,
		Search:       query.Search,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.AdminTransactionResponse, len(transactions))
	for i := range transactions {
		items[i] = toAdminTransaction(&transactions[i])
	}

	return c.JSON(http.StatusOK, dto.AdminTransactionsListResponse{
		Transactions: items,
		Total:        total,
		Offset:       offset,
		Limit:        limit,
	})
}

// ListCategories lists global and private categories
// @Summary List categories (admin)
// @Tags Admin
// @Produce json
// @Param user query string false "Owner ID (UUID)"
// @Param category_type query string false "income or expense"
// @Param is_global query bool false "Only global or only private categories"
// @Param q query string false "Category name"
// @Success 200 {object} dto.AdminCategoriesListResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid filters"
// @Router /admin/api/categories [get]
func (h *AdminHandler) ListCategories(c echo.Context) error {
	var query dto.AdminCategoryQuery
	if problem := bindQuery(c, &query); problem != nil {
		return RespondError(c, http.StatusBadRequest, problem)
	}

	userID, _ := parseUUID(query.User)
	offset, limit := services.NormalizePage(query.Offset, query.Limit)

	filters := models.AdminCategoryFilters{
		UserID:       userID,
		CategoryType: query.CategoryType,
		Search:       query.Search,
		Offset:       offset,
		Limit:        limit,
	}
	if query.IsGlobal != "" {
		isGlobal := query.IsGlobal == "true"
		filters.IsGlobal = &isGlobal
	}

	categories, total, err := h.adminService.ListCategories(filters)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.AdminCategoryResponse, len(categories))
	for i := range categories {
		items[i] = toAdminCategory(&categories[i])
	}

	return c.JSON(http.StatusOK, dto.AdminCategoriesListResponse{
		Categories: items,
		Total:      total,
		Offset:     offset,
		Limit:      limit,
	})
}

// CreateCategory creates a category. Global categories never keep an owner;
// private ones default to the acting administrator.
// @Summary Create category (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.SaveCategoryRequest true "Category"
// @Success 201 {object} dto.AdminCategoryResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid category"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - Owner not found"
// @Router /admin/api/categories [post]
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	return h.saveCategory(c, nil, http.StatusCreated)
}

// UpdateCategory renames or re-scopes a category
// @Summary Update category (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Category ID (UUID)"
// @Param request body dto.SaveCategoryRequest true "Category"
// @Success 200 {object} dto.AdminCategoryResponse
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /admin/api/categories/{id} [put]
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	categoryID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.CategoryNotFound)
	}
	return h.saveCategory(c, &categoryID, http.StatusOK)
}

func (h *AdminHandler) saveCategory(c echo.Context, categoryID *uuid.UUID, status int) error {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	var req dto.SaveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return RespondError(c, http.StatusBadRequest, errors.NewValidationError(validation.FieldErrors(err), getTraceID(c)))
	}

	category, err := h.adminService.SaveCategory(adminID, categoryID, &req)
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrCategoryNotFound):
			return SendError(c, errors.CategoryNotFound)
		case stderrors.Is(err, services.ErrOwnerNotFound):
			return SendError(c, errors.UserNotFound, errors.WithDetails("ownerId: user does not exist"))
		case stderrors.Is(err, models.ErrCategoryNameTooLong), stderrors.Is(err, models.ErrCategoryNameRequired):
			return SendError(c, errors.ValidationGeneral, errors.WithDetails("name: "+err.Error()))
		case stderrors.Is(err, services.ErrInvalidCategoryReq):
			return SendError(c, errors.ValidationGeneral)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(status, toAdminCategory(category))
}

// ListUsers lists accounts with their lock state
// @Summary List users (admin)
// @Tags Admin
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Items per page (max 100)" default(20)
// @Success 200 {object} dto.UsersListResponse
// @Router /admin/api/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var query dto.ListUsersRequest
	if problem := bindQuery(c, &query); problem != nil {
		return RespondError(c, http.StatusBadRequest, problem)
	}

	offset, limit := services.NormalizePage(query.Offset, query.Limit)
	users, total, err := h.adminService.ListUsers(offset, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	items := make([]dto.UserResponse, len(users))
	for i, user := range users {
		items[i] = dto.UserResponse{
			ID:                  user.ID,
			Username:            user.Username,
			Email:               user.Email,
			Role:                user.Role,
			FailedLoginAttempts: user.FailedLoginAttempts,
			LockedAt:            user.LockedAt,
			LastLoginAt:         user.LastLoginAt,
			CreatedAt:           user.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, dto.UsersListResponse{
		Users:  items,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

// UnlockUser unlocks a user account
// @Summary Unlock user account (admin)
// @Tags Admin
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} SuccessResponse "User unlocked successfully"
// @Failure 400 {object} errors.ErrorResponse "USER_002 - Invalid user ID"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - User not found"
// @Router /admin/api/users/{id}/unlock [post]
func (h *AdminHandler) UnlockUser(c echo.Context) error {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	userID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.UserInvalidID, errors.WithDetails("User ID must be a valid UUID"))
	}

	if err := h.adminService.UnlockUser(adminID, userID); err != nil {
		if stderrors.Is(err, services.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "User account unlocked successfully",
		Data:    map[string]interface{}{"user_id": userID},
	})
}

// DeleteUser removes an account with all its categories and transactions
// @Summary Delete user (admin)
// @Tags Admin
// @Param id path string true "User ID (UUID)"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse "USER_003 - Cannot delete own account"
// @Failure 404 {object} errors.ErrorResponse "USER_001 - User not found"
// @Router /admin/api/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	userID, ok := getUUIDParam(c, "id")
	if !ok {
		return SendError(c, errors.UserInvalidID, errors.WithDetails("User ID must be a valid UUID"))
	}

	if err := h.adminService.DeleteUser(adminID, userID); err != nil {
		switch {
		case stderrors.Is(err, services.ErrCannotDeleteSelf):
			return SendError(c, errors.UserSelfDeletion)
		case stderrors.Is(err, services.ErrUserNotFound):
			return SendError(c, errors.UserNotFound)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// AuditLogs pages through one user's audit trail
// @Summary User activity (admin)
// @Tags Admin
// @Produce json
// @Param user query string true "User ID (UUID)"
// @Success 200 {object} dto.AuditLogsListResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Missing user"
// @Router /admin/api/audit-logs [get]
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	var query dto.AuditLogQuery
	if problem := bindQuery(c, &query); problem != nil {
		return RespondError(c, http.StatusBadRequest, problem)
	}

	userID, _ := parseUUID(query.User)
	offset, limit := services.NormalizePage(query.Offset, query.Limit)

	logs, total, err := h.auditService.GetUserActivity(*userID, offset, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AuditLogsListResponse{
		Logs:   logs,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

// bindQuery binds and validates a query DTO. A non-nil result is the 400
// response to send.
func bindQuery(c echo.Context, query interface{}) *errors.ErrorResponse {
	if err := c.Bind(query); err != nil {
		return errors.NewErrorResponse(errors.ValidationGeneral, getTraceID(c), errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(query); err != nil {
		return errors.NewValidationError(validation.FieldErrors(err), getTraceID(c))
	}
	return nil
}

func toAdminTransaction(t *models.Transaction) dto.AdminTransactionResponse {
	response := dto.AdminTransactionResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		Date:            t.FormattedDate(),
		Category:        t.CategoryName(),
		Amount:          t.Amount,
		TransactionType: t.TransactionType,
		Description:     t.DescriptionText(),
	}
	if t.User != nil {
		response.User = t.User.Username
	}
	if t.Category != nil {
		response.CategoryType = t.Category.CategoryType
	}
	return response
}

func toAdminCategory(category *models.Category) dto.AdminCategoryResponse {
	response := dto.AdminCategoryResponse{
		ID:           category.ID,
		Name:         category.Name,
		CategoryType: category.CategoryType,
		IsGlobal:     category.IsGlobal,
		OwnerID:      category.UserID,
	}
	if category.User != nil {
		response.Owner = category.User.Username
	}
	return response
}
