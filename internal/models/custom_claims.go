package models

import "github.com/golang-jwt/jwt/v5"

const TokenTypeSession = "session"

// CustomClaims are carried by the signed session token.
type CustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
}
