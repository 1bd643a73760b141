package service

import (
	"context"
	"errors"
	"fmt"

	"trainhub/training-app/internal/repository"
	"trainhub/training-app/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = errors.New("profile user not found")

// ProfileService handles the calling user's profile image. Like the theme
// logo, images live in S3 and move through presigned URLs only.
type ProfileService interface {
	// NewPhotoUploadURL returns a presigned PUT URL and the object key to
	// confirm with SetPhoto once the upload completes.
	NewPhotoUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)

	// SetPhoto stores the uploaded object key on the user and removes the
	// previous photo object, if any.
	SetPhoto(ctx context.Context, userID primitive.ObjectID, objectKey string) error

	// GetPhotoURL returns a presigned download URL for the user's photo,
	// empty when none has been uploaded.
	GetPhotoURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type profileService struct {
	userRepo repository.UserRepository
	files    storage.FileStorage
	log      *logrus.Entry
}

// NewProfileService creates a new profile service.
func NewProfileService(userRepo repository.UserRepository, files storage.FileStorage) ProfileService {
	return &profileService{
		userRepo: userRepo,
		files:    files,
		log:      logrus.WithField("service", "profile"),
	}
}

func (s *profileService) NewPhotoUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (string, string, error) {
	objectKey := fmt.Sprintf("profiles/%s/photo-%s", userID.Hex(), uuid.NewString())
	url, err := s.files.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return url, objectKey, nil
}

func (s *profileService) SetPhoto(ctx context.Context, userID primitive.ObjectID, objectKey string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if err := s.userRepo.SetPhotoKey(ctx, userID, objectKey); err != nil {
		return err
	}

	// Best effort: a leaked old object costs storage, not correctness.
	if user.PhotoKey != "" && user.PhotoKey != objectKey {
		if err := s.files.DeleteObject(ctx, user.PhotoKey); err != nil {
			s.log.WithError(err).WithField("objectKey", user.PhotoKey).Warn("failed to delete previous profile photo")
		}
	}
	return nil
}

func (s *profileService) GetPhotoURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	if user.PhotoKey == "" {
		return "", nil
	}
	return s.files.GeneratePresignedDownloadURL(ctx, user.PhotoKey, storage.DefaultPresignedURLExpiry)
}
