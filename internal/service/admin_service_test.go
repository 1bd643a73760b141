package service

import (
	"context"
	"testing"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeThemeRepo struct {
	theme *domain.SiteTheme
}

func (f *fakeThemeRepo) Get(context.Context) (*domain.SiteTheme, error) {
	if f.theme == nil {
		return nil, repository.ErrNotFound
	}
	t := *f.theme
	return &t, nil
}

func (f *fakeThemeRepo) Upsert(_ context.Context, theme *domain.SiteTheme) error {
	t := *theme
	f.theme = &t
	return nil
}

func newAdminFixture() (*fakeUserRepo, *fakeThemeRepo, *fakeFileStorage, AdminService) {
	userRepo := &fakeUserRepo{}
	themeRepo := &fakeThemeRepo{}
	files := &fakeFileStorage{}
	return userRepo, themeRepo, files, NewAdminService(userRepo, themeRepo, files)
}

func TestCreateTrainer(t *testing.T) {
	_, _, _, svc := newAdminFixture()

	trainer, err := svc.CreateTrainer(context.Background(), "Sam", "sam@gym.test", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, trainer.Role)
	assert.True(t, trainer.IsActive)
	assert.Empty(t, trainer.PasswordHash)

	_, err = svc.CreateTrainer(context.Background(), "Sam", "sam@gym.test", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestSetTrainerActive(t *testing.T) {
	userRepo, _, _, svc := newAdminFixture()
	trainerID := userRepo.add(domain.User{Name: "Sam", Email: "sam@gym.test", Role: domain.RoleTrainer, IsActive: true})
	clientID := userRepo.add(domain.User{Name: "Alex", Email: "alex@gym.test", Role: domain.RoleClient, IsActive: true})

	assert.ErrorIs(t, svc.SetTrainerActive(context.Background(), primitive.NewObjectID(), false), ErrTrainerNotFound)
	// Only trainer accounts can be toggled through this path.
	assert.ErrorIs(t, svc.SetTrainerActive(context.Background(), clientID, false), ErrTrainerNotFound)

	require.NoError(t, svc.SetTrainerActive(context.Background(), trainerID, false))
	trainer, err := userRepo.GetByID(context.Background(), trainerID)
	require.NoError(t, err)
	assert.False(t, trainer.IsActive)
}

func TestTheme(t *testing.T) {
	_, _, _, svc := newAdminFixture()

	// Before any update the theme is empty defaults, no error.
	theme, logoURL, err := svc.GetTheme(context.Background())
	require.NoError(t, err)
	assert.Empty(t, theme.SiteTitle)
	assert.Empty(t, logoURL)

	uploadURL, objectKey, err := svc.NewLogoUploadURL(context.Background(), "image/png")
	require.NoError(t, err)
	assert.Contains(t, uploadURL, objectKey)

	require.NoError(t, svc.UpdateTheme(context.Background(), &domain.SiteTheme{
		SiteTitle: "Iron Works",
		LogoKey:   objectKey,
	}))

	theme, logoURL, err = svc.GetTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Iron Works", theme.SiteTitle)
	assert.Contains(t, logoURL, objectKey)
}
