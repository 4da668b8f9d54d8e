package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeDB struct{ err error }

func (f fakeDB) HealthCheck() error { return f.err }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		db         fakeDB
		wantStatus int
		wantBody   string
	}{
		{"healthy", fakeDB{}, http.StatusOK, `"status":"healthy"`},
		{"database down", fakeDB{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "SYSTEM_003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			assert.NoError(t, NewHealthCheckHandler(tt.db).HealthCheck(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
