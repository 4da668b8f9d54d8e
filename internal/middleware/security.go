package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	defaultCSP = "default-src 'self'; frame-ancestors 'none'"

	// Chart documents are framed by the dashboard and load ECharts from the
	// go-echarts asset host.
	chartsCSP = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' https://go-echarts.github.io; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"frame-ancestors 'self'"

	// The API reference page pulls Scalar from the jsDelivr CDN.
	docsCSP = "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.jsdelivr.net; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com https://cdn.jsdelivr.net; " +
		"font-src 'self' https://fonts.gstatic.com https://cdn.jsdelivr.net data:; " +
		"img-src 'self' data: https: blob:; " +
		"connect-src 'self'; " +
		"worker-src 'self' blob:"

	chartsPathPrefix = "/dashboard/charts/"
	docsPathPrefix   = "/admin/docs"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			path := c.Request().URL.Path

			header.Set("X-Content-Type-Options", "nosniff")
			header.Set("X-XSS-Protection", "1; mode=block")
			header.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			header.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			switch {
			case strings.HasPrefix(path, chartsPathPrefix):
				header.Set("X-Frame-Options", "SAMEORIGIN")
				header.Set("Content-Security-Policy", chartsCSP)
			case strings.HasPrefix(path, docsPathPrefix):
				header.Set("X-Frame-Options", "DENY")
				header.Set("Content-Security-Policy", docsCSP)
			default:
				header.Set("X-Frame-Options", "DENY")
				header.Set("Content-Security-Policy", defaultCSP)
			}

			// Pages show account balances; keep them out of shared caches.
			// Handlers that want caching (static files, docs) override this.
			header.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			header.Set("Pragma", "no-cache")
			header.Set("Expires", "0")

			return next(c)
		}
	}
}
