package handlers

import (
	"net/http"
	"strings"

	"finance-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

// SessionCookie describes the cookie that carries the signed session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Token returns the session token of the request: the cookie, or a Bearer
// Authorization header for API clients.
func (sc SessionCookie) Token(c echo.Context) string {
	if cookie, err := c.Cookie(sc.Name); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (sc SessionCookie) set(c echo.Context, token *dto.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    token.Token,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc SessionCookie) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
