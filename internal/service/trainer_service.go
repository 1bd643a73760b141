package service

import (
	"context"
	"errors"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
)

// TrainerService manages the trainer↔client relationship.
type TrainerService interface {
	// AddClientByEmail links a client to the trainer. Both user documents
	// are updated in one transaction; any failure is surfaced.
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	RemoveClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
}

type trainerService struct {
	userRepo repository.UserRepository
	log      *logrus.Entry
}

// NewTrainerService creates a new trainer service.
func NewTrainerService(userRepo repository.UserRepository) TrainerService {
	return &trainerService{
		userRepo: userRepo,
		log:      logrus.WithField("service", "trainer"),
	}
}

// AddClientByEmail finds a client by email and assigns them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}
	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			// Already managed by this trainer; nothing to do.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	if err := s.userRepo.LinkClientToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"trainerId": trainerID.Hex(),
		"clientId":  client.ID.Hex(),
	}).Info("client linked to trainer")

	client.TrainerID = &trainerID
	return client, nil
}

// RemoveClient unlinks a client from the trainer.
func (s *trainerService) RemoveClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return ErrClientNotManaged
	}

	if err := s.userRepo.UnlinkClientFromTrainer(ctx, trainerID, clientID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"trainerId": trainerID.Hex(),
		"clientId":  clientID.Hex(),
	}).Info("client unlinked from trainer")
	return nil
}

// GetManagedClients retrieves the clients managed by the trainer, with
// password hashes cleared.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}
