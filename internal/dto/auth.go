package dto

import "time"

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"omitempty,email"`
	Password  string `form:"password" json:"password" validate:"required"`
	Password2 string `form:"password2" json:"password2" validate:"required"`
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" query:"next" json:"next"`
}

// SessionToken is the signed session handed to the browser as a cookie.
type SessionToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// UserProfileResponse represents the authenticated user's profile
type UserProfileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
