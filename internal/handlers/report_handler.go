package handlers

import (
	"bytes"
	stderrors "errors"
	"net/http"

	"finance-tracker/internal/charts"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves the landing page and the read-only summary views
type ReportHandler struct {
	reportService services.ReportServiceInterface
	authService   services.AuthServiceInterface
	pages         *Pages
	sampleData    bool
}

// NewReportHandler creates the summary views. sampleData shows the sample
// data button on the account page.
func NewReportHandler(
	reportService services.ReportServiceInterface,
	authService services.AuthServiceInterface,
	pages *Pages,
	sampleData bool,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		authService:   authService,
		pages:         pages,
		sampleData:    sampleData,
	}
}

// Index sends signed-in users to their spending and everyone else to the
// landing page.
// GET /
func (h *ReportHandler) Index(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err == nil {
		return c.Redirect(http.StatusFound, "/spending/")
	}
	return h.pages.Render(c, http.StatusOK, "index", View{})
}

// Spending shows income, expense and balance.
// GET /spending/
func (h *ReportHandler) Spending(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	totals, err := h.reportService.Totals(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return h.pages.Render(c, http.StatusOK, "spending", View{
		"Totals":  totals,
		"Balance": totals.Balance(),
	})
}

// Account shows the profile next to the totals.
// GET /account/
func (h *ReportHandler) Account(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	totals, err := h.reportService.Totals(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return h.pages.Render(c, http.StatusOK, "account", View{
		"Profile":    profile,
		"Totals":     totals,
		"Balance":    totals.Balance(),
		"SampleData": h.sampleData,
	})
}

// Dashboard shows the totals, the expense breakdown and the chart frames.
// GET /dashboard/
func (h *ReportHandler) Dashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	dashboard, err := h.reportService.Dashboard(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return h.pages.Render(c, http.StatusOK, "dashboard", View{
		"Totals":    dashboard.Totals,
		"Balance":   dashboard.Totals.Balance(),
		"Breakdown": dashboard.CategoryBreakdown,
		"Charts":    charts.Kinds,
	})
}

// Chart renders one dashboard chart as its own HTML document.
// GET /dashboard/charts/:chart/
func (h *ReportHandler) Chart(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	kind := c.Param("chart")
	if !isChartKind(kind) {
		return SendError(c, errors.SystemRouteNotFound)
	}

	dashboard, err := h.reportService.Dashboard(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, kind, dashboard); err != nil {
		return SendSystemError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func isChartKind(kind string) bool {
	for _, k := range charts.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
