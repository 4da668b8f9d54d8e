package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"/transactions/":          "/transactions/",
		"/transactions/?filter=a": "/transactions/?filter=a",
		"//evil.example/":         "",
		"https://evil.example/":   "",
		"/\\evil.example":         "",
		"spending/":               "",
	}

	for input, want := range tests {
		assert.Equal(t, want, safeNext(input), input)
	}
}

func TestGetClientIP(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(e.NewContext(req, nil)))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(e.NewContext(req, nil)))
}

func TestGetUserIDFromContext(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), nil)

	_, err := getUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrUnauthorized)

	id := uuid.New()
	c.Set("user_id", id)
	got, err := getUserIDFromContext(c)
	assert.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseUUID(t *testing.T) {
	id, err := parseUUID("")
	assert.NoError(t, err)
	assert.Nil(t, id)

	_, err = parseUUID("nope")
	assert.Error(t, err)

	want := uuid.New()
	id, err = parseUUID(want.String())
	assert.NoError(t, err)
	assert.Equal(t, want, *id)
}
