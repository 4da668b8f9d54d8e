package services

import (
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

// AuditService handles audit logging operations
type AuditService struct {
	repo repositories.AuditLogRepositoryInterface
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface) AuditServiceInterface {
	return &AuditService{
		repo: repo,
	}
}

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidAuditLog = errors.New("invalid audit log")
	ErrInvalidResource = errors.New("resource is required")
	ErrInvalidAge      = errors.New("age must be positive")
)

var validAuditActions = map[string]bool{
	models.AuditActionLogin:         true,
	models.AuditActionLogout:        true,
	models.AuditActionRegister:      true,
	models.AuditActionFailedLogin:   true,
	models.AuditActionAccountLocked: true,
	models.AuditActionAccountUnlock: true,
	models.AuditActionCreate:        true,
	models.AuditActionUpdate:        true,
	models.AuditActionDelete:        true,
	models.AuditActionUserDeleted:   true,
	models.AuditActionSampleData:    true,
}

// ValidateActivityType validates that the activity type is one of the allowed types
func ValidateActivityType(action string) error {
	if !validAuditActions[action] {
		return fmt.Errorf("invalid activity type: %s", action)
	}
	return nil
}

// CreateAuditLog creates a new audit log entry with validation
func (s *AuditService) CreateAuditLog(log *models.AuditLog) error {
	if log == nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateActivityType(log.Action); err != nil {
		return err
	}

	if log.Resource == "" {
		return ErrInvalidResource
	}

	if err := s.repo.Create(log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetUserActivity returns the newest entries recorded for a user first
func (s *AuditService) GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}

	return s.repo.GetByUserID(userID, offset, limit)
}

// GetResourceHistory returns the entries recorded against one object
func (s *AuditService) GetResourceHistory(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error) {
	if resource == "" {
		return nil, 0, ErrInvalidResource
	}

	return s.repo.GetByResource(resource, resourceID, offset, limit)
}

// LogLogin logs a successful login event
func (s *AuditService) LogLogin(userID uuid.UUID, ipAddress, userAgent string) error {
	return s.CreateAuditLog(sessionEvent(userID, models.AuditActionLogin, ipAddress, userAgent))
}

// LogLogout logs a logout event
func (s *AuditService) LogLogout(userID uuid.UUID, ipAddress, userAgent string) error {
	return s.CreateAuditLog(sessionEvent(userID, models.AuditActionLogout, ipAddress, userAgent))
}

// LogRegistration logs a new account sign-up
func (s *AuditService) LogRegistration(userID uuid.UUID, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionRegister,
		Resource:   models.AuditResourceUser,
		ResourceID: userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
	return s.CreateAuditLog(log)
}

// LogFailedLogin records a rejected login. The attempt may not match any
// user, so only the submitted username is kept.
func (s *AuditService) LogFailedLogin(username, reason, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		Action:    models.AuditActionFailedLogin,
		Resource:  models.AuditResourceSession,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Metadata: models.JSONBMap{
			"username": username,
			"reason":   reason,
		},
	}
	return s.CreateAuditLog(log)
}

// LogAccountLocked logs that too many failed logins locked the account
func (s *AuditService) LogAccountLocked(userID uuid.UUID, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionAccountLocked,
		Resource:   models.AuditResourceUser,
		ResourceID: userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
	return s.CreateAuditLog(log)
}

// LogResourceChange records a create, update or delete performed by actorID
func (s *AuditService) LogResourceChange(actorID uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) error {
	log := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Metadata:   metadata,
	}
	if actorID != uuid.Nil {
		log.UserID = &actorID
	}
	return s.CreateAuditLog(log)
}

// PurgeOlderThan removes entries older than age
func (s *AuditService) PurgeOlderThan(age time.Duration) (int64, error) {
	if age <= 0 {
		return 0, ErrInvalidAge
	}

	removed, err := s.repo.DeleteOlderThan(age)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", err)
	}
	return removed, nil
}

func sessionEvent(userID uuid.UUID, action, ipAddress, userAgent string) *models.AuditLog {
	return &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   models.AuditResourceSession,
		ResourceID: userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
}
