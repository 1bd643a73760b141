package api

import (
	"errors"
	"net/http"
	"time"

	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// reportDateFormat is the date-only format the front end sends.
const reportDateFormat = "2006-01-02"

// ReportHandler holds the report service dependency.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ClientReportRequest is the body of the progress report endpoint. Date
// carries [from, to]; an empty string leaves that bound open.
type ClientReportRequest struct {
	UserID string    `json:"userId" binding:"required"`
	Date   [2]string `json:"date"`
}

// parseBound parses one report date bound. Empty means open.
func parseBound(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(reportDateFormat, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ClientReport handles POST /trainings/client-report and returns the full
// set of progress charts for the client over the requested period.
func (h *ReportHandler) ClientReport(c *gin.Context) {
	var req ClientReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid userId format.")
		return
	}
	fromDate, err := parseBound(req.Date[0])
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD.")
		return
	}
	toDate, err := parseBound(req.Date[1])
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD.")
		return
	}

	charts, err := h.reportService.GetAllClientReportData(c.Request.Context(), userID, fromDate, toDate)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build client report.")
		return
	}
	c.JSON(http.StatusOK, charts)
}

// GetReportByToken handles GET /reports/:token. The token comes from an
// emailed report link; the charts are recomputed over current data with the
// report's persisted period and chart selection.
func (h *ReportHandler) GetReportByToken(c *gin.Context) {
	report, charts, err := h.reportService.GetReportByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			abortWithError(c, http.StatusNotFound, "Report not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load report.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     report.Token,
		"fromDate":  report.FromDate,
		"toDate":    report.ToDate,
		"createdAt": report.CreatedAt,
		"charts":    charts,
	})
}

// ClientRange handles GET /exercises/client-range?clientId&startDate&endDate
// and returns the per-exercise time series of a client's own statistics view.
func (h *ReportHandler) ClientRange(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Query("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing clientId.")
		return
	}
	startDate, err := time.ParseInLocation(reportDateFormat, c.Query("startDate"), time.UTC)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD.")
		return
	}
	endDate, err := time.ParseInLocation(reportDateFormat, c.Query("endDate"), time.UTC)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD.")
		return
	}

	series, err := h.reportService.GetClientExercisesByDateRange(c.Request.Context(), clientID, startDate, endDate)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load client exercise series.")
		return
	}
	c.JSON(http.StatusOK, series)
}

// LatestResults handles GET /exercises/:id/latest-results where id is a
// client id. Returns the client's most recent record of every exercise they
// have ever performed, newest first.
func (h *ReportHandler) LatestResults(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	records, err := h.reportService.GetLatestExerciseResults(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load latest exercise results.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(records))
}
