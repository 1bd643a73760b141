package api

import (
	"errors"
	"net/http"

	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// PhotoUploadRequest asks for a presigned upload URL for a profile photo.
type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// SetPhotoRequest confirms a completed upload.
type SetPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// NewPhotoUploadURL handles POST /me/photo-upload-url.
func (h *ProfileHandler) NewPhotoUploadURL(c *gin.Context) {
	userID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	uploadURL, objectKey, err := h.profileService.NewPhotoUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}

// SetPhoto handles PUT /me/photo.
func (h *ProfileHandler) SetPhoto(c *gin.Context) {
	userID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	var req SetPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.profileService.SetPhoto(c.Request.Context(), userID, req.ObjectKey); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile photo.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPhotoURL handles GET /me/photo.
func (h *ProfileHandler) GetPhotoURL(c *gin.Context) {
	userID, ok := objectIDFromToken(c)
	if !ok {
		return
	}

	photoURL, err := h.profileService.GetPhotoURL(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load profile photo.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"photoUrl": photoURL})
}
