package api

import (
	"errors"
	"net/http"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingHandler holds the training service dependency.
type TrainingHandler struct {
	trainingService service.TrainingService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// --- DTOs ---

// TrainingRequest is the JSON body for creating or updating a training.
type TrainingRequest struct {
	Name        string   `json:"name" binding:"required"`
	UserIDs     []string `json:"userIds"`
	ExerciseIDs []string `json:"exercisesIds"`
}

// TrainingResponse is the DTO for returning trainings.
type TrainingResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	UserIDs     []string  `json:"userIds"`
	ExerciseIDs []string  `json:"exercisesIds"`
	TrainerID   string    `json:"trainerId"`
	IsFinished  bool      `json:"isFinished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapTrainingToResponse converts a domain.Training to its DTO.
func MapTrainingToResponse(t *domain.Training) TrainingResponse {
	if t == nil {
		return TrainingResponse{}
	}
	return TrainingResponse{
		ID:          t.ID.Hex(),
		Name:        t.Name,
		UserIDs:     hexIDs(t.UserIDs),
		ExerciseIDs: hexIDs(t.ExerciseIDs),
		TrainerID:   t.TrainerID.Hex(),
		IsFinished:  t.IsFinished,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// MapTrainingsToResponse converts a slice of trainings to DTOs.
func MapTrainingsToResponse(trainings []domain.Training) []TrainingResponse {
	responses := make([]TrainingResponse, len(trainings))
	for i := range trainings {
		responses[i] = MapTrainingToResponse(&trainings[i])
	}
	return responses
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func parseIDList(raw []string, field string) ([]primitive.ObjectID, string) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, "Invalid " + field + " entry: " + s
		}
		out = append(out, id)
	}
	return out, ""
}

// --- Handler methods ---

// CreateTraining handles POST /trainings (trainers only).
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userIDs, errMsg := parseIDList(req.UserIDs, "userIds")
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}
	exerciseIDs, errMsg := parseIDList(req.ExerciseIDs, "exercisesIds")
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	training, err := h.trainingService.CreateTraining(c.Request.Context(), trainerID, req.Name, userIDs, exerciseIDs)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create training.")
		return
	}
	c.JSON(http.StatusCreated, MapTrainingToResponse(training))
}

// GetTrainings handles GET /trainings. Trainers see the trainings they run,
// clients the trainings they participate in.
func (h *TrainingHandler) GetTrainings(c *gin.Context) {
	callerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "User role not found in context")
		return
	}

	var trainings []domain.Training
	if role == domain.RoleTrainer || role == domain.RoleAdmin {
		trainings, err = h.trainingService.GetTrainingsByTrainer(c.Request.Context(), callerID)
	} else {
		trainings, err = h.trainingService.GetTrainingsByUser(c.Request.Context(), callerID)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainings.")
		return
	}
	c.JSON(http.StatusOK, MapTrainingsToResponse(trainings))
}

// GetTrainingByID handles GET /trainings/:id.
func (h *TrainingHandler) GetTrainingByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format.")
		return
	}

	training, err := h.trainingService.GetTrainingByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, "Training not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve training.")
		}
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// UpdateTraining handles PUT /trainings/:id. Removing users or exercises
// cascades to the matching performance records.
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format.")
		return
	}

	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userIDs, errMsg := parseIDList(req.UserIDs, "userIds")
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}
	exerciseIDs, errMsg := parseIDList(req.ExerciseIDs, "exercisesIds")
	if errMsg != "" {
		abortWithError(c, http.StatusBadRequest, errMsg)
		return
	}

	training, err := h.trainingService.UpdateTraining(c.Request.Context(), trainerID, id, req.Name, userIDs, exerciseIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			abortWithError(c, http.StatusNotFound, "Training not found.")
		case errors.Is(err, service.ErrTrainingAccessDenied):
			abortWithError(c, http.StatusForbidden, "You do not manage this training.")
		case errors.Is(err, service.ErrTrainingFinished):
			abortWithError(c, http.StatusConflict, "A finished training cannot be modified.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update training.")
		}
		return
	}
	c.JSON(http.StatusOK, MapTrainingToResponse(training))
}

// FinishTraining handles POST /trainings/:id/finish.
func (h *TrainingHandler) FinishTraining(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format.")
		return
	}

	if err := h.trainingService.FinishTraining(c.Request.Context(), trainerID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			abortWithError(c, http.StatusNotFound, "Training not found.")
		case errors.Is(err, service.ErrTrainingAccessDenied):
			abortWithError(c, http.StatusForbidden, "You do not manage this training.")
		case errors.Is(err, service.ErrTrainingFinished):
			abortWithError(c, http.StatusConflict, "Training is already finished.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to finish training.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTraining handles DELETE /trainings/:id. Allowed for finished
// trainings too; cascades to the training's performance records.
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training ID format.")
		return
	}

	if err := h.trainingService.DeleteTraining(c.Request.Context(), trainerID, id); err != nil {
		abortTrainingAccessError(c, err, "Failed to delete training.")
		return
	}
	c.Status(http.StatusNoContent)
}
