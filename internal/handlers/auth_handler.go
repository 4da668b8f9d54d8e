package handlers

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"sort"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"
	"finance-tracker/internal/validation"

	"github.com/labstack/echo/v4"
)

const (
	msgRegistered = "Registration successful! Please log in."
	msgLoggedOut  = "You have been logged out."
)

// AuthHandler serves registration, login and logout
type AuthHandler struct {
	authService services.AuthServiceInterface
	pages       *Pages
	cookie      SessionCookie
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface, pages *Pages, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		pages:       pages,
		cookie:      cookie,
	}
}

// ShowRegister renders the sign-up form.
// GET /register/
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "register", View{})
}

// Register creates an account and sends the user to the login page. Every
// failure is flashed on the sign-up form.
// POST /register/
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.ValidationGeneral), "/register/")
	}

	if err := c.Validate(req); err != nil {
		h.flashFieldErrors(c, validation.FieldErrors(err))
		return c.Redirect(http.StatusFound, "/register/")
	}

	_, err := h.authService.Register(&req, getClientIP(c), c.Request().UserAgent())
	switch {
	case err == nil:
		return h.pages.Redirect(c, FlashSuccess, msgRegistered, "/login/")
	case stderrors.Is(err, services.ErrPasswordMismatch):
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.ValidationPasswordMismatch), "/register/")
	case stderrors.Is(err, services.ErrUsernameTaken):
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.ValidationUsernameTaken), "/register/")
	case services.IsPasswordPolicyError(err):
		return h.pages.Redirect(c, FlashError, err.Error(), "/register/")
	default:
		return SendSystemError(c, err)
	}
}

func (h *AuthHandler) flashFieldErrors(c echo.Context, fieldErrors map[string]string) {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		h.pages.Flash(c, FlashError, field+": "+fieldErrors[field])
	}
}

// ShowLogin renders the login form, keeping a safe next parameter.
// GET /login/
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.pages.Render(c, http.StatusOK, "login", View{
		"Next": safeNext(c.QueryParam("next")),
	})
}

// Login signs the user in with a session cookie.
// POST /login/
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.AuthInvalidCredentials), "/login/")
	}

	next := safeNext(req.Next)
	retry := "/login/"
	if next != "" {
		retry += "?next=" + url.QueryEscape(next)
	}

	if err := c.Validate(req); err != nil {
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.AuthInvalidCredentials), retry)
	}

	_, session, err := h.authService.Login(&req, getClientIP(c), c.Request().UserAgent())
	switch {
	case err == nil:
	case stderrors.Is(err, services.ErrAccountLocked):
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.AuthAccountLocked), retry)
	case stderrors.Is(err, services.ErrInvalidCredentials):
		return h.pages.Redirect(c, FlashError, errors.GetErrorMessage(errors.AuthInvalidCredentials), retry)
	default:
		return SendSystemError(c, err)
	}

	h.cookie.set(c, session)
	if next == "" {
		next = "/spending/"
	}
	return c.Redirect(http.StatusFound, next)
}

// Logout revokes the session, if there is one, and always clears the cookie.
// GET /logout/
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := h.cookie.Token(c); token != "" {
		// Logout never fails for the user
		_ = h.authService.Logout(token, getClientIP(c), c.Request().UserAgent())
	}

	h.cookie.clear(c)
	return h.pages.Redirect(c, FlashInfo, msgLoggedOut, "/")
}
