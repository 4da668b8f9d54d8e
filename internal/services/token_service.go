package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrInvalidIssuer     = errors.New("invalid issuer")
	ErrInvalidTokenType  = errors.New("invalid token type")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
)

// TokenService signs and verifies the RS256 session tokens
type TokenService struct {
	config.SessionConfig
}

// NewTokenService creates a new token service from session configuration
func NewTokenService(sessionConfig *config.SessionConfig) TokenServiceInterface {
	return &TokenService{
		SessionConfig: *sessionConfig,
	}
}

// GenerateSessionToken signs a session for user valid for the configured duration
func (ts *TokenService) GenerateSessionToken(user *models.User) (*dto.SessionToken, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}

	now := time.Now()
	expiresAt := now.Add(ts.Duration)
	jti := uuid.New().String()

	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   user.ID.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:    user.ID.String(),
		Username:  user.Username,
		Role:      user.Role,
		TokenType: models.TokenTypeSession,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.SessionToken{
		Token:     tokenString,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSessionToken verifies the signature, expiry, issuer and type
func (ts *TokenService) ValidateSessionToken(tokenString string) (*models.CustomClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.CustomClaims{}, ts.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != ts.Issuer {
		return nil, ErrInvalidIssuer
	}

	if claims.TokenType != models.TokenTypeSession {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts the JWT token from the Authorization header
func (ts *TokenService) ExtractTokenFromHeader(authHeader string) (string, error) {
	const bearerPrefix = "bearer "
	if !strings.HasPrefix(strings.ToLower(authHeader), bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

func (ts *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return ts.PublicKey, nil
}
