package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// ExerciseRequest is the JSON body for creating or updating an exercise
// record. UserID/TrainingID are only accepted on the user-exercise upsert
// endpoint; the template endpoints reject them.
type ExerciseRequest struct {
	Name        string               `json:"name" binding:"required"`
	Type        domain.ExerciseType  `json:"type" binding:"required"`
	Sets        []domain.ExerciseSet `json:"sets"`
	RestTime    *int                 `json:"restTime"`
	Duration    *int                 `json:"duration"`
	Result      *domain.CardioResult `json:"result"`
	Description string               `json:"description"`
	UserID      string               `json:"userId"`
	TrainingID  string               `json:"trainingId"`
}

// ExerciseResponse is the DTO for returning exercise records.
type ExerciseResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Type        domain.ExerciseType  `json:"type"`
	Sets        []domain.ExerciseSet `json:"sets,omitempty"`
	RestTime    *int                 `json:"restTime,omitempty"`
	Duration    *int                 `json:"duration,omitempty"`
	Result      *domain.CardioResult `json:"result,omitempty"`
	Description string               `json:"description,omitempty"`
	UserID      string               `json:"userId,omitempty"`
	TrainingID  string               `json:"trainingId,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.ExerciseRecord to its DTO.
func MapExerciseToResponse(rec *domain.ExerciseRecord) ExerciseResponse {
	if rec == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:          rec.ID.Hex(),
		Name:        rec.Name,
		Type:        rec.Type,
		Sets:        rec.Sets,
		RestTime:    rec.RestTime,
		Duration:    rec.Duration,
		Result:      rec.Result,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.UserID != nil {
		resp.UserID = rec.UserID.Hex()
	}
	if rec.TrainingID != nil {
		resp.TrainingID = rec.TrainingID.Hex()
	}
	return resp
}

// MapExercisesToResponse converts a slice of records to DTOs.
func MapExercisesToResponse(records []domain.ExerciseRecord) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(records))
	for i := range records {
		responses[i] = MapExerciseToResponse(&records[i])
	}
	return responses
}

// toRecord converts the request into a domain record. Returns an error
// message instead of a record when the optional IDs are malformed.
func (req *ExerciseRequest) toRecord() (*domain.ExerciseRecord, string) {
	rec := &domain.ExerciseRecord{
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Sets:        req.Sets,
		RestTime:    req.RestTime,
		Duration:    req.Duration,
		Result:      req.Result,
		Description: req.Description,
	}
	if req.UserID != "" {
		id, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, "Invalid userId format."
		}
		rec.UserID = &id
	}
	if req.TrainingID != "" {
		id, err := primitive.ObjectIDFromHex(req.TrainingID)
		if err != nil {
			return nil, "Invalid trainingId format."
		}
		rec.TrainingID = &id
	}
	return rec, ""
}

// --- Handler methods ---

// CreateExercise handles POST /exercises (template library, trainers only).
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rec, errMsg := req.toRecord()
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	created, err := h.exerciseService.CreateExercise(c.Request.Context(), rec)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExerciseNameTaken):
			abortWithError(c, http.StatusConflict, "An exercise with this name already exists.")
		case errors.Is(err, service.ErrExerciseForbidden):
			abortWithError(c, http.StatusForbidden, "Template exercises cannot reference a user or training.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(created))
}

// GetExercises handles GET /exercises and returns the template library.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	records, err := h.exerciseService.GetExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(records))
}

// GetExerciseByID handles GET /exercises/:id.
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	rec, err := h.exerciseService.GetExerciseByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(rec))
}

// UpdateExercise handles PUT /exercises/:id (templates only).
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rec, errMsg := req.toRecord()
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}
	rec.ID = id

	updated, err := h.exerciseService.UpdateExercise(c.Request.Context(), rec)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		case errors.Is(err, service.ErrExerciseNameTaken):
			abortWithError(c, http.StatusConflict, "An exercise with this name already exists.")
		case errors.Is(err, service.ErrExerciseForbidden):
			abortWithError(c, http.StatusForbidden, "Only template exercises can be updated here.")
		case errors.Is(err, service.ErrExerciseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(updated))
}

// DeleteExercise handles DELETE /exercises/:id (templates only).
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		case errors.Is(err, service.ErrExerciseForbidden):
			abortWithError(c, http.StatusForbidden, "Only template exercises can be deleted here.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertUserExercise handles POST /exercises/user-exercise. A trainer logs
// (or re-logs) what a client did on a training; the record is keyed by
// (name, userId, trainingId) so repeated submissions overwrite.
func (h *ExerciseHandler) UpsertUserExercise(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rec, errMsg := req.toRecord()
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	saved, err := h.exerciseService.CreateOrUpdateUserExercise(c.Request.Context(), trainerID, rec)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseForbidden):
			abortWithError(c, http.StatusForbidden, "A user exercise must reference both a user and a training.")
		case errors.Is(err, service.ErrTrainingAccessDenied):
			abortWithError(c, http.StatusForbidden, "You do not manage this training.")
		case errors.Is(err, service.ErrTrainingNotFound):
			abortWithError(c, http.StatusNotFound, "Training not found.")
		case errors.Is(err, service.ErrExerciseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save user exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(saved))
}

// GetUserTrainingExercises handles GET /exercises/user-training-exercises.
// Query: userId, trainingId, names (comma-separated template names of the
// training). Missing performances are filled in from the user's most recent
// records of the same exercises on other trainings.
func (h *ExerciseHandler) GetUserTrainingExercises(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Query("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing userId.")
		return
	}
	trainingID, err := primitive.ObjectIDFromHex(c.Query("trainingId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing trainingId.")
		return
	}

	var names []string
	if raw := c.Query("names"); raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}

	records, err := h.exerciseService.ResolveUserTrainingExercises(c.Request.Context(), userID, trainingID, names)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve training exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(records))
}

// TrainingUsersRequest is the body for removing users' records on a training.
type TrainingUsersRequest struct {
	TrainingID string   `json:"trainingId" binding:"required"`
	UserIDs    []string `json:"userIds" binding:"required"`
}

// DeleteTrainingUsers handles DELETE /exercises/training-users: removes all
// performance records of the given users on the given training.
func (h *ExerciseHandler) DeleteTrainingUsers(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req TrainingUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainingID, err := primitive.ObjectIDFromHex(req.TrainingID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainingId format.")
		return
	}
	userIDs := make([]primitive.ObjectID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid user ID format: "+raw)
			return
		}
		userIDs = append(userIDs, id)
	}

	deleted, err := h.exerciseService.DeleteUsersExercisesOnTraining(c.Request.Context(), trainerID, trainingID, userIDs)
	if err != nil {
		abortTrainingAccessError(c, err, "Failed to delete training user exercises.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// TrainingExercisesRequest is the body for removing named records on a training.
type TrainingExercisesRequest struct {
	TrainingID string   `json:"trainingId" binding:"required"`
	Names      []string `json:"names" binding:"required"`
}

// DeleteTrainingExercises handles DELETE /exercises/training-exercises:
// removes all performance records with the given names on the training.
func (h *ExerciseHandler) DeleteTrainingExercises(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req TrainingExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainingID, err := primitive.ObjectIDFromHex(req.TrainingID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainingId format.")
		return
	}

	deleted, err := h.exerciseService.DeleteExercisesOnTraining(c.Request.Context(), trainerID, trainingID, req.Names)
	if err != nil {
		abortTrainingAccessError(c, err, "Failed to delete training exercises.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// objectIDFromToken extracts the caller's user ID from the JWT context and
// parses it, aborting the request itself on failure.
func objectIDFromToken(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// abortTrainingAccessError maps the common training ownership errors.
func abortTrainingAccessError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTrainingNotFound):
		abortWithError(c, http.StatusNotFound, "Training not found.")
	case errors.Is(err, service.ErrTrainingAccessDenied):
		abortWithError(c, http.StatusForbidden, "You do not manage this training.")
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
