package service

import (
	"context"
	"testing"
	"time"

	"trainhub/training-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewAuthService(userRepo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "Alex", "alex@gym.test", "hunter2hunter2", domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Register(context.Background(), "Alex", "alex@gym.test", "hunter2hunter2", domain.RoleClient)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, logged, err := svc.Login(context.Background(), "alex@gym.test", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	_, _, err = svc.Login(context.Background(), "alex@gym.test", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(context.Background(), "nobody@gym.test", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_DisabledAccount(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewAuthService(userRepo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "Alex", "alex@gym.test", "hunter2hunter2", domain.RoleClient)
	require.NoError(t, err)
	require.NoError(t, userRepo.SetActive(context.Background(), user.ID, false))

	_, _, err = svc.Login(context.Background(), "alex@gym.test", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
