package mailer

import (
	"context"
	"net/smtp"
	"testing"
	"time"

	"trainhub/training-app/internal/config"
	"trainhub/training-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubReportService struct {
	created []domain.TrainingsReport
	fail    map[primitive.ObjectID]bool
}

func (s *stubReportService) GetAllClientReportData(context.Context, primitive.ObjectID, *time.Time, *time.Time) ([]domain.Chart, error) {
	return nil, nil
}

func (s *stubReportService) GetClientExercisesByDateRange(context.Context, primitive.ObjectID, time.Time, time.Time) ([]domain.ClientExerciseSeries, error) {
	return nil, nil
}

func (s *stubReportService) GetLatestExerciseResults(context.Context, primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	return nil, nil
}

func (s *stubReportService) CreateReport(_ context.Context, userID primitive.ObjectID, fromDate, toDate *time.Time) (*domain.TrainingsReport, error) {
	if s.fail[userID] {
		return nil, assert.AnError
	}
	report := domain.TrainingsReport{
		Token:    "token-" + userID.Hex(),
		UserID:   userID,
		FromDate: fromDate,
		ToDate:   toDate,
	}
	s.created = append(s.created, report)
	return &report, nil
}

func (s *stubReportService) GetReportByToken(context.Context, string) (*domain.TrainingsReport, []domain.Chart, error) {
	return nil, nil, assert.AnError
}

type stubUserRepo struct {
	clients []domain.User
}

func (s *stubUserRepo) Create(context.Context, *domain.User) (primitive.ObjectID, error) {
	return primitive.NilObjectID, assert.AnError
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, assert.AnError
}
func (s *stubUserRepo) GetByID(context.Context, primitive.ObjectID) (*domain.User, error) {
	return nil, assert.AnError
}
func (s *stubUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	if role != domain.RoleClient {
		return nil, nil
	}
	return s.clients, nil
}
func (s *stubUserRepo) GetClientsByTrainerID(context.Context, primitive.ObjectID) ([]domain.User, error) {
	return nil, nil
}
func (s *stubUserRepo) SetActive(context.Context, primitive.ObjectID, bool) error   { return nil }
func (s *stubUserRepo) SetPhotoKey(context.Context, primitive.ObjectID, string) error {
	return nil
}
func (s *stubUserRepo) LinkClientToTrainer(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}
func (s *stubUserRepo) UnlinkClientFromTrainer(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func TestPreviousMonth(t *testing.T) {
	ref := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	from, to := previousMonth(ref)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), to)

	// Year boundary.
	from, to = previousMonth(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), to)
}

func TestRunOnce_SendsLinksToActiveClients(t *testing.T) {
	activeID := primitive.NewObjectID()
	inactiveID := primitive.NewObjectID()
	failingID := primitive.NewObjectID()

	reports := &stubReportService{fail: map[primitive.ObjectID]bool{failingID: true}}
	users := &stubUserRepo{clients: []domain.User{
		{ID: activeID, Name: "Alex", Email: "alex@gym.test", Role: domain.RoleClient, IsActive: true},
		{ID: inactiveID, Name: "Robin", Email: "robin@gym.test", Role: domain.RoleClient, IsActive: false},
		{ID: primitive.NewObjectID(), Name: "NoMail", Role: domain.RoleClient, IsActive: true},
		{ID: failingID, Name: "Kim", Email: "kim@gym.test", Role: domain.RoleClient, IsActive: true},
	}}

	m := NewMailer(config.MailConfig{From: "reports@gym.test", Host: "localhost", Port: 25})
	var sentTo []string
	var sentBodies []string
	m.send = func(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		sentTo = append(sentTo, to...)
		sentBodies = append(sentBodies, string(msg))
		return nil
	}

	d := NewDispatcher(reports, users, m, config.ReportsConfig{
		Enabled:       true,
		PublicBaseURL: "https://gym.test",
	})
	d.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	require.NoError(t, d.RunOnce(context.Background()))

	// Only the active, mailable client whose report creation succeeded.
	require.Equal(t, []string{"alex@gym.test"}, sentTo)
	assert.Contains(t, sentBodies[0], "https://gym.test/reports/token-"+activeID.Hex())

	// The persisted report covers the previous calendar month.
	require.Len(t, reports.created, 1)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *reports.created[0].FromDate)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), *reports.created[0].ToDate)
}

func TestStart_DisabledIsNoop(t *testing.T) {
	d := NewDispatcher(&stubReportService{}, &stubUserRepo{}, NewMailer(config.MailConfig{}), config.ReportsConfig{Enabled: false})
	require.NoError(t, d.Start())
	d.Stop()
}
