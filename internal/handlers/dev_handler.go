package handlers

import (
	stderrors "errors"
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints.
// These endpoints should only be available in development environments.
type DevHandler struct {
	generator services.SampleDataGeneratorInterface
	pages     *Pages
}

// NewDevHandler creates a new development handler
func NewDevHandler(generator services.SampleDataGeneratorInterface, pages *Pages) *DevHandler {
	return &DevHandler{
		generator: generator,
		pages:     pages,
	}
}

// GenerateSampleData fills the signed-in user's history with realistic
// income and expense entries.
//
// Method: POST /dev/sample-data/
// Authentication: Required
// Environment: Development only
//
// Parameters (query, form or JSON body):
//   - count: Number of transactions to generate (default: 30, max: 500)
//   - days: Number of days of history to spread them over (default: 90, max: 3650)
//
// JSON clients get the generator's summary; browsers are sent back to the
// account page with the summary flashed.
func (h *DevHandler) GenerateSampleData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	// echo binds the query string on GET only; a body overrides it
	var req dto.SampleDataRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("count and days must be integers"))
	}
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("count and days must be integers"))
	}

	response, err := h.generator.Generate(userID, req.Count, req.Days)
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidSampleRequest) {
			return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	if WantsJSON(c) {
		return c.JSON(http.StatusCreated, response)
	}
	return h.pages.Redirect(c, FlashSuccess, response.Message, "/account/")
}
