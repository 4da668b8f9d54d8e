package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"finance-tracker/web"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testFlashSecret = []byte("0123456789abcdef0123456789abcdef")

// newTestEcho wires the real templates and validator into a bare echo.
func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	renderer, err := NewTemplateRenderer(web.TemplatesFS)
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Validator = NewValidator()
	return e
}

func newTestPages() (*Pages, *FlashStore) {
	store := NewFlashStore(testFlashSecret, false)
	return NewPages(store), store
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// signedIn builds a context as the session middleware leaves it.
func signedIn(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uuid.UUID) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("username", "alice")
	c.Set("is_admin", false)
	return c
}

// flashesOf replays the cookies of rec on a new request and reads the
// flash messages they carry.
func flashesOf(e *echo.Echo, store *FlashStore, rec *httptest.ResponseRecorder) []Flash {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return store.Pop(e.NewContext(req, httptest.NewRecorder()))
}
