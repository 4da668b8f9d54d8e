package services

import (
	"errors"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// AuditServiceTestSuite is the test suite for AuditService
type AuditServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *repository_mocks.MockAuditLogRepositoryInterface
	service  AuditServiceInterface
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = repository_mocks.NewMockAuditLogRepositoryInterface(s.ctrl)
	s.service = NewAuditService(s.mockRepo)
}

func (s *AuditServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuditServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func (s *AuditServiceTestSuite) TestValidateActivityType() {
	s.NoError(ValidateActivityType(models.AuditActionLogin))
	s.NoError(ValidateActivityType(models.AuditActionSampleData))
	s.Error(ValidateActivityType("invalid_action"))
	s.Error(ValidateActivityType(""))
}

func (s *AuditServiceTestSuite) TestCreateAuditLog_ValidLog() {
	userID := uuid.New()
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionLogin,
		Resource:   models.AuditResourceSession,
		ResourceID: userID.String(),
		IPAddress:  "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
	}

	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(l *models.AuditLog) error {
			l.ID = uuid.New()
			return nil
		}).
		Times(1)

	s.NoError(s.service.CreateAuditLog(log))
	s.NotEqual(uuid.Nil, log.ID)
}

func (s *AuditServiceTestSuite) TestCreateAuditLog_Rejected() {
	s.ErrorIs(s.service.CreateAuditLog(nil), ErrInvalidAuditLog)

	s.Error(s.service.CreateAuditLog(&models.AuditLog{
		Action:   "invalid_action",
		Resource: models.AuditResourceSession,
	}))

	s.ErrorIs(s.service.CreateAuditLog(&models.AuditLog{
		Action: models.AuditActionLogin,
	}), ErrInvalidResource)
}

func (s *AuditServiceTestSuite) TestCreateAuditLog_RepositoryError() {
	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		Return(errors.New("database error")).
		Times(1)

	err := s.service.CreateAuditLog(&models.AuditLog{
		Action:   models.AuditActionLogout,
		Resource: models.AuditResourceSession,
	})
	s.Error(err)
	s.Contains(err.Error(), "failed to create audit log")
}

func (s *AuditServiceTestSuite) TestGetUserActivity() {
	userID := uuid.New()
	expected := []*models.AuditLog{
		{ID: uuid.New(), UserID: &userID, Action: models.AuditActionLogout},
		{ID: uuid.New(), UserID: &userID, Action: models.AuditActionLogin},
	}

	s.mockRepo.EXPECT().
		GetByUserID(userID, 0, 10).
		Return(expected, int64(2), nil).
		Times(1)

	logs, total, err := s.service.GetUserActivity(userID, 0, 10)
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Equal(expected, logs)

	_, _, err = s.service.GetUserActivity(uuid.Nil, 0, 10)
	s.ErrorIs(err, ErrInvalidUserID)
}

func (s *AuditServiceTestSuite) TestGetResourceHistory() {
	categoryID := uuid.New().String()
	s.mockRepo.EXPECT().
		GetByResource(models.AuditResourceCategory, categoryID, 5, 5).
		Return([]*models.AuditLog{}, int64(0), nil).
		Times(1)

	_, total, err := s.service.GetResourceHistory(models.AuditResourceCategory, categoryID, 5, 5)
	s.NoError(err)
	s.Zero(total)

	_, _, err = s.service.GetResourceHistory("", categoryID, 0, 5)
	s.ErrorIs(err, ErrInvalidResource)
}

func (s *AuditServiceTestSuite) TestSessionEvents() {
	userID := uuid.New()

	var recorded []*models.AuditLog
	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(l *models.AuditLog) error {
			recorded = append(recorded, l)
			return nil
		}).
		Times(4)

	s.NoError(s.service.LogLogin(userID, "10.0.0.1", "agent"))
	s.NoError(s.service.LogLogout(userID, "10.0.0.1", "agent"))
	s.NoError(s.service.LogRegistration(userID, "10.0.0.1", "agent"))
	s.NoError(s.service.LogAccountLocked(userID, "10.0.0.1", "agent"))

	s.Require().Len(recorded, 4)
	s.Equal(models.AuditActionLogin, recorded[0].Action)
	s.Equal(models.AuditResourceSession, recorded[0].Resource)
	s.Equal(models.AuditActionLogout, recorded[1].Action)
	s.Equal(models.AuditActionRegister, recorded[2].Action)
	s.Equal(models.AuditResourceUser, recorded[2].Resource)
	s.Equal(models.AuditActionAccountLocked, recorded[3].Action)
	for _, log := range recorded {
		s.Equal(&userID, log.UserID)
		s.Equal(userID.String(), log.ResourceID)
		s.Equal("10.0.0.1", log.IPAddress)
	}
}

func (s *AuditServiceTestSuite) TestLogFailedLogin() {
	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(l *models.AuditLog) error {
			s.Nil(l.UserID)
			s.Equal(models.AuditActionFailedLogin, l.Action)
			s.Equal("mallory", l.GetMetadata("username", ""))
			s.Equal("invalid credentials", l.GetMetadata("reason", ""))
			return nil
		}).
		Times(1)

	s.NoError(s.service.LogFailedLogin("mallory", "invalid credentials", "10.0.0.2", "curl"))
}

func (s *AuditServiceTestSuite) TestLogResourceChange() {
	actorID := uuid.New()
	transactionID := uuid.New().String()

	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(l *models.AuditLog) error {
			s.Equal(&actorID, l.UserID)
			s.Equal(models.AuditActionDelete, l.Action)
			s.Equal(models.AuditResourceTransaction, l.Resource)
			s.Equal(transactionID, l.ResourceID)
			s.Equal("12.50", l.GetMetadata("amount", nil))
			return nil
		}).
		Times(1)

	s.NoError(s.service.LogResourceChange(actorID, models.AuditActionDelete, models.AuditResourceTransaction,
		transactionID, map[string]interface{}{"amount": "12.50"}))
}

func (s *AuditServiceTestSuite) TestLogResourceChange_SystemActor() {
	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(l *models.AuditLog) error {
			s.Nil(l.UserID)
			return nil
		}).
		Times(1)

	s.NoError(s.service.LogResourceChange(uuid.Nil, models.AuditActionCreate, models.AuditResourceCategory, "", nil))
}

func (s *AuditServiceTestSuite) TestPurgeOlderThan() {
	s.mockRepo.EXPECT().
		DeleteOlderThan(90 * 24 * time.Hour).
		Return(int64(7), nil).
		Times(1)

	removed, err := s.service.PurgeOlderThan(90 * 24 * time.Hour)
	s.NoError(err)
	s.Equal(int64(7), removed)

	_, err = s.service.PurgeOlderThan(0)
	s.ErrorIs(err, ErrInvalidAge)
}

func (s *AuditServiceTestSuite) TestPurgeOlderThan_RepositoryError() {
	s.mockRepo.EXPECT().
		DeleteOlderThan(gomock.Any()).
		Return(int64(0), errors.New("database error")).
		Times(1)

	_, err := s.service.PurgeOlderThan(time.Hour)
	s.Error(err)
}
