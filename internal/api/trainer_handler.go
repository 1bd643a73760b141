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

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// AddClientRequest is the body for attaching a client by email.
type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserResponse is the DTO for returning user details.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	TrainerID string      `json:"trainerId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// MapUserToResponse converts a domain.User to its DTO.
func MapUserToResponse(u *domain.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	resp := UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.TrainerID != nil {
		resp.TrainerID = u.TrainerID.Hex()
	}
	return resp
}

// MapUsersToResponse converts a slice of users to DTOs.
func MapUsersToResponse(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = MapUserToResponse(&users[i])
	}
	return responses
}

// AddClient handles POST /trainer/clients: attaches an existing client
// account to the calling trainer by email.
func (h *TrainerHandler) AddClient(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, "No client account with this email.")
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusConflict, "The account with this email is not a client.")
		case errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, "This client is already managed by another trainer.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetClients handles GET /trainer/clients.
func (h *TrainerHandler) GetClients(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(clients))
}

// RemoveClient handles DELETE /trainer/clients/:clientId: detaches the
// client from the calling trainer. The client account itself is kept.
func (h *TrainerHandler) RemoveClient(c *gin.Context) {
	trainerID, ok := objectIDFromToken(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	if err := h.trainerService.RemoveClient(c.Request.Context(), trainerID, clientID); err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, "Client not found.")
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, "This client is not managed by you.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to remove client.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
