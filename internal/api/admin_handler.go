package api

import (
	"errors"
	"net/http"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler holds the admin service dependency.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// CreateTrainerRequest is the body for creating a trainer account.
type CreateTrainerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ThemeRequest is the body for updating the site theme. LogoKey is the S3
// object key previously returned by the logo upload URL endpoint.
type ThemeRequest struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	SiteTitle      string `json:"siteTitle"`
	LogoKey        string `json:"logoKey"`
}

// LogoUploadRequest asks for a presigned upload URL for a new logo.
type LogoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// CreateTrainer handles POST /admin/trainers.
func (h *AdminHandler) CreateTrainer(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainer, err := h.adminService.CreateTrainer(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, "An account with this email already exists.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create trainer.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(trainer))
}

// GetTrainers handles GET /admin/trainers.
func (h *AdminHandler) GetTrainers(c *gin.Context) {
	trainers, err := h.adminService.GetTrainers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainers.")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(trainers))
}

// SetTrainerActive handles PATCH /admin/trainers/:id/active.
func (h *AdminHandler) SetTrainerActive(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.adminService.SetTrainerActive(c.Request.Context(), id, *req.Active); err != nil {
		if errors.Is(err, service.ErrTrainerNotFound) {
			abortWithError(c, http.StatusNotFound, "Trainer not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update trainer.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTheme handles GET /theme. Public: the login page needs the theme
// before any authentication happens.
func (h *AdminHandler) GetTheme(c *gin.Context) {
	theme, logoURL, err := h.adminService.GetTheme(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load site theme.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"primaryColor":   theme.PrimaryColor,
		"secondaryColor": theme.SecondaryColor,
		"accentColor":    theme.AccentColor,
		"siteTitle":      theme.SiteTitle,
		"logoUrl":        logoURL,
	})
}

// UpdateTheme handles PUT /admin/theme.
func (h *AdminHandler) UpdateTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	theme := &domain.SiteTheme{
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		AccentColor:    req.AccentColor,
		SiteTitle:      req.SiteTitle,
		LogoKey:        req.LogoKey,
	}
	if err := h.adminService.UpdateTheme(c.Request.Context(), theme); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update site theme.")
		return
	}
	c.Status(http.StatusNoContent)
}

// NewLogoUploadURL handles POST /admin/theme/logo-upload-url and returns a
// presigned S3 PUT URL plus the object key to store back on the theme.
func (h *AdminHandler) NewLogoUploadURL(c *gin.Context) {
	var req LogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	uploadURL, objectKey, err := h.adminService.NewLogoUploadURL(c.Request.Context(), req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}
