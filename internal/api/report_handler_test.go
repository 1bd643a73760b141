package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubReportService struct {
	gotFrom, gotTo *time.Time
	report         *domain.TrainingsReport
}

func (s *stubReportService) GetAllClientReportData(_ context.Context, _ primitive.ObjectID, fromDate, toDate *time.Time) ([]domain.Chart, error) {
	s.gotFrom, s.gotTo = fromDate, toDate
	return []domain.Chart{{Title: domain.ChartTitleCountByType, Data: []map[string]any{}}}, nil
}

func (s *stubReportService) GetClientExercisesByDateRange(context.Context, primitive.ObjectID, time.Time, time.Time) ([]domain.ClientExerciseSeries, error) {
	return []domain.ClientExerciseSeries{}, nil
}

func (s *stubReportService) GetLatestExerciseResults(context.Context, primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	return []domain.ExerciseRecord{}, nil
}

func (s *stubReportService) CreateReport(context.Context, primitive.ObjectID, *time.Time, *time.Time) (*domain.TrainingsReport, error) {
	return s.report, nil
}

func (s *stubReportService) GetReportByToken(_ context.Context, token string) (*domain.TrainingsReport, []domain.Chart, error) {
	if s.report == nil || s.report.Token != token {
		return nil, nil, service.ErrReportNotFound
	}
	return s.report, []domain.Chart{}, nil
}

func newReportRouter(stub *stubReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewReportHandler(stub)
	router.POST("/trainings/client-report", handler.ClientReport)
	router.GET("/reports/:token", handler.GetReportByToken)
	router.GET("/exercises/client-range", handler.ClientRange)
	return router
}

func TestClientReport_ParsesDateBounds(t *testing.T) {
	stub := &stubReportService{}
	router := newReportRouter(stub)
	userID := primitive.NewObjectID()

	body := `{"userId":"` + userID.Hex() + `","date":["2026-02-01","2026-02-28"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trainings/client-report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.gotFrom)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *stub.gotFrom)
	require.NotNil(t, stub.gotTo)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), *stub.gotTo)
}

func TestClientReport_EmptyBoundsStayOpen(t *testing.T) {
	stub := &stubReportService{}
	router := newReportRouter(stub)
	userID := primitive.NewObjectID()

	body := `{"userId":"` + userID.Hex() + `","date":["",""]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trainings/client-report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.gotFrom)
	assert.Nil(t, stub.gotTo)
}

func TestClientReport_RejectsMalformedDate(t *testing.T) {
	stub := &stubReportService{}
	router := newReportRouter(stub)
	userID := primitive.NewObjectID()

	body := `{"userId":"` + userID.Hex() + `","date":["01-02-2026",""]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trainings/client-report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
}

func TestGetReportByToken_NotFound(t *testing.T) {
	stub := &stubReportService{report: &domain.TrainingsReport{Token: "known-token", UserID: primitive.NewObjectID()}}
	router := newReportRouter(stub)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/unknown-token", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/known-token", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientRange_RejectsMalformedDates(t *testing.T) {
	stub := &stubReportService{}
	router := newReportRouter(stub)
	clientID := primitive.NewObjectID().Hex()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/exercises/client-range?clientId="+clientID+"&startDate=2026-99-01&endDate=2026-03-31", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/exercises/client-range?clientId="+clientID+"&startDate=2026-03-01&endDate=2026-03-31", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
