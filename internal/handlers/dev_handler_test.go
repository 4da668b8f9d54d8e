package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/services"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type DevHandlerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	generator *service_mocks.MockSampleDataGeneratorInterface
	handler   *DevHandler
	store     *FlashStore
	e         *echo.Echo
	userID    uuid.UUID
}

func TestDevHandlerSuite(t *testing.T) {
	suite.Run(t, new(DevHandlerTestSuite))
}

func (s *DevHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.generator = service_mocks.NewMockSampleDataGeneratorInterface(s.ctrl)
	s.e = newTestEcho(s.T())
	pages, store := newTestPages()
	s.store = store
	s.handler = NewDevHandler(s.generator, pages)
	s.userID = uuid.New()
}

func (s *DevHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DevHandlerTestSuite) TestGenerateSampleData_JSON() {
	s.generator.EXPECT().Generate(s.userID, 25, 14).Return(&dto.SampleDataResponse{
		Created: 25, Income: 5, Expense: 20, Message: "Created 25 sample transactions.",
	}, nil).Times(1)

	rec := httptest.NewRecorder()
	c := signedIn(s.e, jsonRequest(http.MethodPost, "/dev/sample-data/", `{"count":25,"days":14}`), rec, s.userID)

	s.NoError(s.handler.GenerateSampleData(c))
	s.Equal(http.StatusCreated, rec.Code)

	var response dto.SampleDataResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(25, response.Created)
	s.Equal(20, response.Expense)
}

func (s *DevHandlerTestSuite) TestGenerateSampleData_Form() {
	s.generator.EXPECT().Generate(s.userID, 0, 0).Return(&dto.SampleDataResponse{
		Created: 30, Message: "Created 30 sample transactions.",
	}, nil).Times(1)

	rec := httptest.NewRecorder()
	c := signedIn(s.e, formRequest(http.MethodPost, "/dev/sample-data/", url.Values{}), rec, s.userID)

	s.NoError(s.handler.GenerateSampleData(c))
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/account/", rec.Header().Get(echo.HeaderLocation))
	s.Equal([]Flash{{Level: FlashSuccess, Message: "Created 30 sample transactions."}}, flashesOf(s.e, s.store, rec))
}

func (s *DevHandlerTestSuite) TestGenerateSampleData_NegativeCount() {
	s.generator.EXPECT().Generate(s.userID, -1, 0).Return(nil, services.ErrInvalidSampleRequest).Times(1)

	rec := httptest.NewRecorder()
	c := signedIn(s.e, jsonRequest(http.MethodPost, "/dev/sample-data/", `{"count":-1}`), rec, s.userID)

	s.NoError(s.handler.GenerateSampleData(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "VALIDATION_004")
}

func (s *DevHandlerTestSuite) TestGenerateSampleData_QueryString() {
	s.generator.EXPECT().Generate(s.userID, 5, 7).Return(&dto.SampleDataResponse{
		Created: 5, Income: 1, Expense: 4, Message: "Created 5 sample transactions.",
	}, nil).Times(1)

	req := httptest.NewRequest(http.MethodPost, "/dev/sample-data/?count=5&days=7", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := signedIn(s.e, req, rec, s.userID)

	s.NoError(s.handler.GenerateSampleData(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *DevHandlerTestSuite) TestGenerateSampleData_BodyOverridesQuery() {
	s.generator.EXPECT().Generate(s.userID, 12, 7).Return(&dto.SampleDataResponse{Created: 12}, nil).Times(1)

	rec := httptest.NewRecorder()
	c := signedIn(s.e, jsonRequest(http.MethodPost, "/dev/sample-data/?count=5&days=7", `{"count":12}`), rec, s.userID)

	s.NoError(s.handler.GenerateSampleData(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *DevHandlerTestSuite) TestGenerateSampleData_QueryNotANumber() {
	req := httptest.NewRequest(http.MethodPost, "/dev/sample-data/?count=many", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := signedIn(s.e, req, rec, s.userID)

	s.NoError(s.handler.GenerateSampleData(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "VALIDATION_001")
}
