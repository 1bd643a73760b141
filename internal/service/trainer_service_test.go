package service

import (
	"context"
	"testing"

	"trainhub/training-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddClientByEmail(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewTrainerService(userRepo)

	trainerID := userRepo.add(domain.User{Name: "Sam", Email: "sam@gym.test", Role: domain.RoleTrainer, IsActive: true})
	otherTrainer := userRepo.add(domain.User{Name: "Kim", Email: "kim@gym.test", Role: domain.RoleTrainer, IsActive: true})
	userRepo.add(domain.User{Name: "Alex", Email: "alex@gym.test", Role: domain.RoleClient, IsActive: true})
	userRepo.add(domain.User{Name: "Robin", Email: "robin@gym.test", Role: domain.RoleClient, IsActive: true, TrainerID: &otherTrainer})

	_, err := svc.AddClientByEmail(context.Background(), trainerID, "nobody@gym.test")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.AddClientByEmail(context.Background(), trainerID, "kim@gym.test")
	assert.ErrorIs(t, err, ErrClientNotRole)

	_, err = svc.AddClientByEmail(context.Background(), trainerID, "robin@gym.test")
	assert.ErrorIs(t, err, ErrClientAlreadyAssigned)

	client, err := svc.AddClientByEmail(context.Background(), trainerID, "alex@gym.test")
	require.NoError(t, err)
	require.NotNil(t, client.TrainerID)
	assert.Equal(t, trainerID, *client.TrainerID)

	// Re-adding the same client is a no-op, not an error.
	again, err := svc.AddClientByEmail(context.Background(), trainerID, "alex@gym.test")
	require.NoError(t, err)
	assert.Equal(t, client.ID, again.ID)
}

func TestRemoveClient(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewTrainerService(userRepo)

	trainerID := userRepo.add(domain.User{Name: "Sam", Email: "sam@gym.test", Role: domain.RoleTrainer, IsActive: true})
	clientID := userRepo.add(domain.User{Name: "Alex", Email: "alex@gym.test", Role: domain.RoleClient, IsActive: true, TrainerID: &trainerID})
	strayID := userRepo.add(domain.User{Name: "Robin", Email: "robin@gym.test", Role: domain.RoleClient, IsActive: true})

	assert.ErrorIs(t, svc.RemoveClient(context.Background(), trainerID, primitive.NewObjectID()), ErrClientNotFound)
	assert.ErrorIs(t, svc.RemoveClient(context.Background(), trainerID, strayID), ErrClientNotManaged)

	require.NoError(t, svc.RemoveClient(context.Background(), trainerID, clientID))
	client, err := userRepo.GetByID(context.Background(), clientID)
	require.NoError(t, err)
	assert.Nil(t, client.TrainerID)
}

func TestGetManagedClients_ClearsPasswordHash(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewTrainerService(userRepo)

	trainerID := userRepo.add(domain.User{Name: "Sam", Email: "sam@gym.test", Role: domain.RoleTrainer, IsActive: true})
	userRepo.add(domain.User{
		Name: "Alex", Email: "alex@gym.test", Role: domain.RoleClient,
		IsActive: true, TrainerID: &trainerID, PasswordHash: "secret-hash",
	})

	clients, err := svc.GetManagedClients(context.Background(), trainerID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Empty(t, clients[0].PasswordHash)
}
