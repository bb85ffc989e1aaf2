package services

import (
	"class-timetable/database"
	"class-timetable/mail"
	"class-timetable/models"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRepository implements every repository interface the services depend on
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetMembership(classID, userID string) (*models.Membership, error) {
	args := m.Called(classID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockRepository) CreateClass(class *models.Class, invitation *models.Invitation) error {
	return m.Called(class, invitation).Error(0)
}

func (m *MockRepository) GetClass(classID string) (*models.Class, error) {
	args := m.Called(classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockRepository) GetClassesForUser(userID string) ([]models.Class, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Class), args.Error(1)
}

func (m *MockRepository) CreateInvitation(inv *models.Invitation) error {
	return m.Called(inv).Error(0)
}

func (m *MockRepository) GetInvitation(code string) (*models.Invitation, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockRepository) RedeemInvitation(code, userID string, now time.Time) (bool, error) {
	args := m.Called(code, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetWeek(weekID string) (*models.Week, error) {
	args := m.Called(weekID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Week), args.Error(1)
}

func (m *MockRepository) GetWeeksByClass(classID string) ([]models.Week, error) {
	args := m.Called(classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Week), args.Error(1)
}

func (m *MockRepository) GetLessonsByWeek(weekID string, filter database.LessonFilter) ([]models.Lesson, error) {
	args := m.Called(weekID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func (m *MockRepository) GetLessonClassID(lessonID string) (string, error) {
	args := m.Called(lessonID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) UpdateLessonNotes(lessonID, notes string) error {
	return m.Called(lessonID, notes).Error(0)
}

func (m *MockRepository) CreateImportJob(job *models.ImportJob) error {
	return m.Called(job).Error(0)
}

func (m *MockRepository) GetImportJob(jobID string) (*models.ImportJob, error) {
	args := m.Called(jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportJob), args.Error(1)
}

func (m *MockRepository) RetryImportJob(jobID string) error {
	return m.Called(jobID).Error(0)
}

func (m *MockRepository) UpsertUser(user *models.User) error {
	return m.Called(user).Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(user *models.User, accessToken, refreshToken string, tokenExpiry time.Time) (*models.Session, error) {
	args := m.Called(user, accessToken, refreshToken, tokenExpiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Get(sessionID string) (*models.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(sessionID string) error {
	return m.Called(sessionID).Error(0)
}

func (m *MockSessionStore) UpdateUserToken(userID, accessToken, refreshToken string, expiry time.Time) error {
	return m.Called(userID, accessToken, refreshToken, expiry).Error(0)
}

type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) ProcessImmediate(jobID string) {
	m.Called(jobID)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func owner(classID, userID string) *models.Membership {
	return &models.Membership{ClassID: classID, UserID: userID, Role: models.RoleOwner}
}

func member(classID, userID string) *models.Membership {
	return &models.Membership{ClassID: classID, UserID: userID, Role: models.RoleMember}
}
