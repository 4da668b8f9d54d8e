package handlers

import (
	"crypto/md5"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DocsHandler serves the management API reference
type DocsHandler struct {
	scalarHTML []byte
	scalarETag string
	oas3JSON   []byte
}

// NewDocsHandler loads scalar.html and openapi.json from fsys.
func NewDocsHandler(fsys fs.FS) (*DocsHandler, error) {
	scalarHTML, err := fs.ReadFile(fsys, "docs/scalar.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read API reference page: %w", err)
	}
	oas3JSON, err := fs.ReadFile(fsys, "docs/openapi.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}

	return &DocsHandler{
		scalarHTML: scalarHTML,
		scalarETag: generateETag(scalarHTML),
		oas3JSON:   oas3JSON,
	}, nil
}

// ServeScalarUI serves the Scalar HTML page
// @Summary API Documentation UI
// @Description Serves the interactive Scalar documentation interface
// @Tags Documentation
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /admin/docs [get]
func (h *DocsHandler) ServeScalarUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Response().Header().Set("Pragma", "no-cache")
	c.Response().Header().Set("Expires", "0")

	if h.scalarETag != "" {
		c.Response().Header().Set("ETag", h.scalarETag)
		if match := c.Request().Header.Get("If-None-Match"); match != "" && match == h.scalarETag {
			return c.NoContent(http.StatusNotModified)
		}
	}

	return c.HTMLBlob(http.StatusOK, h.scalarHTML)
}

// ServeOAS3JSON serves the OpenAPI document loaded by Scalar
func (h *DocsHandler) ServeOAS3JSON(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, h.oas3JSON)
}

// generateETag creates an ETag hash for cache control
func generateETag(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	hash := md5.Sum(data)
	return fmt.Sprintf("\"%x\"", hash)
}
