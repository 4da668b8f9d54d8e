package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrOwnerNotFound      = errors.New("category owner not found")
	ErrCannotDeleteSelf   = errors.New("administrators cannot delete their own account")
	ErrInvalidCategoryReq = errors.New("invalid category")
)

type adminService struct {
	userRepo        repositories.UserRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	audit           AuditServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewAdminService creates the service behind the management API
func NewAdminService(
	userRepo repositories.UserRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	audit AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AdminServiceInterface {
	return &adminService{
		userRepo:        userRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		audit:           audit,
		metrics:         metrics,
		logger:          logger,
	}
}

func (s *adminService) ListTransactions(filters models.AdminTransactionFilters) ([]models.Transaction, int64, error) {
	filters.Offset, filters.Limit = NormalizePage(filters.Offset, filters.Limit)
	return s.transactionRepo.ListWithFilters(filters)
}

func (s *adminService) ListCategories(filters models.AdminCategoryFilters) ([]models.Category, int64, error) {
	filters.Offset, filters.Limit = NormalizePage(filters.Offset, filters.Limit)
	return s.categoryRepo.ListWithFilters(filters)
}

// SaveCategory creates a category, or updates it when categoryID is set. A
// global category never has an owner; any other category belongs to the
// submitted owner, or to the acting admin when none is submitted.
//
// The acting admin is deliberately not forced as owner when an owner is
// submitted, so admins can file a personal category on a user's behalf.
// The submitted owner must exist.
func (s *adminService) SaveCategory(adminID uuid.UUID, categoryID *uuid.UUID, req *dto.SaveCategoryRequest) (*models.Category, error) {
	if req == nil {
		return nil, ErrInvalidCategoryReq
	}

	category := &models.Category{}
	action := models.AuditActionCreate
	if categoryID != nil {
		existing, err := s.categoryRepo.GetByID(*categoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		category = existing
		category.User = nil
		action = models.AuditActionUpdate
	}

	category.Name = strings.TrimSpace(req.Name)
	category.CategoryType = req.CategoryType
	category.IsGlobal = req.IsGlobal

	switch {
	case req.IsGlobal:
		category.UserID = nil
	case req.OwnerID != nil:
		if _, err := s.userRepo.GetByID(*req.OwnerID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, err
		}
		owner := *req.OwnerID
		category.UserID = &owner
	default:
		owner := adminID
		category.UserID = &owner
	}

	var err error
	if categoryID == nil {
		err = s.categoryRepo.Create(category)
	} else {
		err = s.categoryRepo.Update(category)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	if action == models.AuditActionCreate {
		s.metrics.IncrementCounter(MetricCategoryCreated, map[string]string{"type": category.CategoryType, "source": "admin"})
	}
	s.auditChange(adminID, action, models.AuditResourceCategory, category.ID.String(), map[string]interface{}{
		"name":          category.Name,
		"category_type": category.CategoryType,
		"is_global":     category.IsGlobal,
	})

	return category, nil
}

func (s *adminService) ListUsers(offset, limit int) ([]*models.User, int64, error) {
	offset, limit = NormalizePage(offset, limit)
	return s.userRepo.ListUsers(offset, limit)
}

func (s *adminService) UnlockUser(adminID, userID uuid.UUID) error {
	if err := s.userRepo.UnlockAccount(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to unlock user: %w", err)
	}

	s.auditChange(adminID, models.AuditActionAccountUnlock, models.AuditResourceUser, userID.String(), nil)
	return nil
}

// DeleteUser removes the user with their categories and transactions
func (s *adminService) DeleteUser(adminID, userID uuid.UUID) error {
	if adminID == userID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID, "username", user.Username, "deleted_by", adminID)
	s.auditChange(adminID, models.AuditActionUserDeleted, models.AuditResourceUser, userID.String(),
		map[string]interface{}{"username": user.Username})

	return nil
}

func (s *adminService) auditChange(actorID uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) {
	if err := s.audit.LogResourceChange(actorID, action, resource, resourceID, metadata); err != nil {
		s.logger.Error("failed to create audit log",
			"error", err,
			"action", action,
			"resource", resource,
			"resource_id", resourceID)
	}
}

// NormalizePage clamps pagination input. A non-positive limit means the
// default page size.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit
}
