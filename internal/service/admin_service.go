package service

import (
	"context"
	"errors"
	"fmt"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"
	"trainhub/training-app/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var ErrTrainerNotFound = errors.New("trainer user not found")

// AdminService covers the admin-facing features: trainer account management
// and site theming. The theme logo lives in S3 and is exchanged through
// presigned URLs.
type AdminService interface {
	CreateTrainer(ctx context.Context, name, email, password string) (*domain.User, error)
	GetTrainers(ctx context.Context) ([]domain.User, error)
	SetTrainerActive(ctx context.Context, trainerID primitive.ObjectID, active bool) error

	GetTheme(ctx context.Context) (*domain.SiteTheme, string, error)
	UpdateTheme(ctx context.Context, theme *domain.SiteTheme) error
	// NewLogoUploadURL returns a presigned PUT URL and the object key to
	// store on the theme once the upload completes.
	NewLogoUploadURL(ctx context.Context, contentType string) (uploadURL, objectKey string, err error)
}

type adminService struct {
	userRepo  repository.UserRepository
	themeRepo repository.ThemeRepository
	files     storage.FileStorage
	log       *logrus.Entry
}

// NewAdminService creates a new admin service.
func NewAdminService(userRepo repository.UserRepository, themeRepo repository.ThemeRepository, files storage.FileStorage) AdminService {
	return &adminService{
		userRepo:  userRepo,
		themeRepo: themeRepo,
		files:     files,
		log:       logrus.WithField("service", "admin"),
	}
}

// CreateTrainer provisions a trainer account.
func (s *adminService) CreateTrainer(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email, and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	trainer := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.RoleTrainer,
		IsActive:     true,
	}
	id, err := s.userRepo.Create(ctx, trainer)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	trainer.ID = id
	trainer.PasswordHash = ""
	s.log.WithFields(logrus.Fields{"trainerId": id.Hex(), "email": email}).Info("trainer account created")
	return trainer, nil
}

// GetTrainers lists all trainer accounts, password hashes cleared.
func (s *adminService) GetTrainers(ctx context.Context) ([]domain.User, error) {
	trainers, err := s.userRepo.GetByRole(ctx, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}
	for i := range trainers {
		trainers[i].PasswordHash = ""
	}
	return trainers, nil
}

// SetTrainerActive enables or disables a trainer account.
func (s *adminService) SetTrainerActive(ctx context.Context, trainerID primitive.ObjectID, active bool) error {
	user, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}
	if !user.IsTrainer() {
		return ErrTrainerNotFound
	}
	return s.userRepo.SetActive(ctx, trainerID, active)
}

// GetTheme returns the site theme and a presigned download URL for the
// logo, empty when no logo has been uploaded.
func (s *adminService) GetTheme(ctx context.Context) (*domain.SiteTheme, string, error) {
	theme, err := s.themeRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.SiteTheme{}, "", nil
		}
		return nil, "", err
	}

	logoURL := ""
	if theme.LogoKey != "" {
		logoURL, err = s.files.GeneratePresignedDownloadURL(ctx, theme.LogoKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, "", err
		}
	}
	return theme, logoURL, nil
}

// UpdateTheme writes the site theme document.
func (s *adminService) UpdateTheme(ctx context.Context, theme *domain.SiteTheme) error {
	if err := s.themeRepo.Upsert(ctx, theme); err != nil {
		return err
	}
	s.log.Info("site theme updated")
	return nil
}

// NewLogoUploadURL mints a fresh object key and a presigned PUT URL for it.
func (s *adminService) NewLogoUploadURL(ctx context.Context, contentType string) (string, string, error) {
	objectKey := fmt.Sprintf("theme/logo-%s", uuid.NewString())
	url, err := s.files.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return url, objectKey, nil
}
