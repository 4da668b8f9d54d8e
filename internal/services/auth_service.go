package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already taken")
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo             repositories.UserRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	auditService         AuditServiceInterface
	passwordService      PasswordServiceInterface
	tokenService         TokenServiceInterface
	metrics              MetricsRecorderInterface
	maxFailedAttempts    int
	logger               *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	auditService AuditServiceInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	maxFailedAttempts int,
	logger *slog.Logger,
) AuthServiceInterface {
	if maxFailedAttempts <= 0 {
		maxFailedAttempts = models.DefaultMaxFailedLoginAttempts
	}

	return &AuthService{
		userRepo:             userRepo,
		blacklistedTokenRepo: blacklistedTokenRepo,
		auditService:         auditService,
		passwordService:      passwordService,
		tokenService:         tokenService,
		metrics:              metrics,
		maxFailedAttempts:    maxFailedAttempts,
		logger:               logger,
	}
}

// Register creates a new user account. It does not sign the user in.
func (s *AuthService) Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	if req.Password != req.Password2 {
		return nil, ErrPasswordMismatch
	}

	exists, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password, req.Username)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent sign-up
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.recordEvent("register")
	if err := s.auditService.LogRegistration(user.ID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "action", models.AuditActionRegister, "user_id", user.ID)
	}

	return user, nil
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(req *dto.LoginRequest, ipAddress, userAgent string) (*models.User, *dto.SessionToken, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.auditFailedLogin(req.Username, "user_not_found", ipAddress, userAgent)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked() {
		s.auditFailedLogin(req.Username, "account_locked", ipAddress, userAgent)
		return nil, nil, ErrAccountLocked
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		locked := user.IncrementFailedAttempts(s.maxFailedAttempts)
		if err := s.userRepo.UpdateFailedLoginAttempts(user); err != nil {
			s.logger.Error("failed to update login attempts",
				"error", err,
				"user_id", user.ID)
		}

		if locked {
			if err := s.auditService.LogAccountLocked(user.ID, ipAddress, userAgent); err != nil {
				s.logger.Error("failed to create audit log", "error", err, "action", models.AuditActionAccountLocked)
			}
		}

		s.auditFailedLogin(req.Username, "invalid_password", ipAddress, userAgent)
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.RecordSuccessfulLogin(user.ID, now); err != nil {
		s.logger.Warn("failed to record login",
			"error", err,
			"user_id", user.ID)
	}
	user.ResetFailedAttempts()
	user.LastLoginAt = &now

	session, err := s.tokenService.GenerateSessionToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session: %w", err)
	}

	s.recordEvent("login")
	if err := s.auditService.LogLogin(user.ID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "action", models.AuditActionLogin, "user_id", user.ID)
	}

	return user, session, nil
}

// Logout revokes the session token. A token that no longer validates is
// already unusable and is ignored.
func (s *AuthService) Logout(sessionToken, ipAddress, userAgent string) error {
	if sessionToken == "" {
		return nil
	}

	claims, err := s.tokenService.ValidateSessionToken(sessionToken)
	if err != nil {
		s.logger.Debug("logout with unusable session", "error", err)
		return nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.blacklistToken(claims.ID, userID, expiresAt); err != nil {
		s.logger.Error("failed to blacklist token",
			"error", err,
			"jti", claims.ID,
			"user_id", userID)
	}

	s.recordEvent("logout")
	if err := s.auditService.LogLogout(userID, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "action", models.AuditActionLogout, "user_id", userID)
	}

	return nil
}

// GetProfile returns the signed-in user
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) blacklistToken(jti string, userID uuid.UUID, expiresAt time.Time) error {
	token := &models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	return s.blacklistedTokenRepo.Create(token)
}

func (s *AuthService) recordEvent(eventType string) {
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": eventType})
}

func (s *AuthService) auditFailedLogin(username, reason, ipAddress, userAgent string) {
	s.recordEvent("failed_login")
	if err := s.auditService.LogFailedLogin(username, reason, ipAddress, userAgent); err != nil {
		s.logger.Error("failed to create audit log",
			"error", err,
			"action", models.AuditActionFailedLogin,
			"reason", reason)
	}
}
