package middleware

import (
	stderrors "errors"
	"net/http"
	"net/url"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sessionErrorKey holds why a presented session was not accepted.
const sessionErrorKey = "session_error"

// Authenticate resolves the session token of the request, from the session
// cookie or a Bearer header, and puts the user into the context. It never
// rejects a request; RequireSession does that for the routes that need it.
// Tokens revoked at logout are ignored.
func Authenticate(
	tokenService services.TokenServiceInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	cookie handlers.SessionCookie,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Token(c)
			if token == "" {
				return next(c)
			}

			claims, err := tokenService.ValidateSessionToken(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					c.Set(sessionErrorKey, errors.AuthExpiredSession)
				} else {
					c.Set(sessionErrorKey, errors.AuthInvalidSession)
				}
				return next(c)
			}

			blacklistedToken, err := blacklistedTokenRepo.GetByJTI(claims.ID)
			switch {
			case err == nil && blacklistedToken != nil:
				c.Set(sessionErrorKey, errors.AuthExpiredSession)
				return next(c)
			case err != nil && !stderrors.Is(err, repositories.ErrTokenNotFound):
				// revocation state unknown
				c.Set(sessionErrorKey, errors.AuthInvalidSession)
				return next(c)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				c.Set(sessionErrorKey, errors.AuthInvalidSession)
				return next(c)
			}

			c.Set("user_id", userID)
			c.Set("username", claims.Username)
			c.Set("user_role", claims.Role)
			c.Set("token_jti", claims.ID)
			c.Set("is_admin", claims.Role == models.RoleAdmin)

			return next(c)
		}
	}
}

// RequireSession lets only authenticated requests through. Browsers are sent
// to the login page and come back afterwards; API clients get a 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get("user_id").(uuid.UUID); ok {
				return next(c)
			}

			if handlers.WantsJSON(c) {
				code, ok := c.Get(sessionErrorKey).(errors.ErrorCode)
				if !ok {
					code = errors.AuthMissingSession
				}
				return handlers.SendError(c, code)
			}

			location := "/login/"
			if c.Request().Method == http.MethodGet {
				location += "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			}
			return c.Redirect(http.StatusFound, location)
		}
	}
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole, ok := c.Get("user_role").(string)
			if !ok {
				return handlers.SendError(c, errors.AuthMissingSession)
			}

			for _, role := range requiredRoles {
				if userRole == role {
					return next(c)
				}
			}

			return handlers.SendError(c, errors.AuthInsufficientPermission)
		}
	}
}

// RequireAdmin is a convenience middleware that requires admin role
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
