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
	ErrTrainingNotFound     = errors.New("training not found")
	ErrTrainingAccessDenied = errors.New("access denied to modify this training")
	ErrTrainingFinished     = errors.New("training already finished")
)

// TrainingService manages the training lifecycle: creation, structural
// updates with performance-record cascades, the monotonic finish flag, and
// deletion.
type TrainingService interface {
	CreateTraining(ctx context.Context, trainerID primitive.ObjectID, name string, userIDs, exerciseIDs []primitive.ObjectID) (*domain.Training, error)
	GetTrainingByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	GetTrainingsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Training, error)
	GetTrainingsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Training, error)

	// UpdateTraining replaces the name, participant set, and exercise set.
	// Performance records of removed users, and records named after removed
	// exercise templates, are deleted in bulk.
	UpdateTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID, name string, userIDs, exerciseIDs []primitive.ObjectID) (*domain.Training, error)

	// FinishTraining flips the monotonic isFinished flag. A finished
	// training rejects all further structural updates.
	FinishTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID) error

	// DeleteTraining removes the training and cascades deletion of its
	// performance records by template name.
	DeleteTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID) error
}

type trainingService struct {
	trainingRepo repository.TrainingRepository
	exerciseRepo repository.ExerciseRepository
	log          *logrus.Entry
}

// NewTrainingService creates a new training service.
func NewTrainingService(trainingRepo repository.TrainingRepository, exerciseRepo repository.ExerciseRepository) TrainingService {
	return &trainingService{
		trainingRepo: trainingRepo,
		exerciseRepo: exerciseRepo,
		log:          logrus.WithField("service", "training"),
	}
}

// CreateTraining creates a training owned by the given trainer.
func (s *trainingService) CreateTraining(ctx context.Context, trainerID primitive.ObjectID, name string, userIDs, exerciseIDs []primitive.ObjectID) (*domain.Training, error) {
	if trainerID == primitive.NilObjectID || name == "" {
		return nil, errors.New("trainer ID and training name are required")
	}

	training := &domain.Training{
		Name:        name,
		UserIDs:     userIDs,
		ExerciseIDs: exerciseIDs,
		TrainerID:   trainerID,
	}
	id, err := s.trainingRepo.Create(ctx, training)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"trainingId": id.Hex(), "trainerId": trainerID.Hex()}).Info("training created")
	return s.trainingRepo.GetByID(ctx, id)
}

// GetTrainingByID retrieves a single training.
func (s *trainingService) GetTrainingByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return training, nil
}

// GetTrainingsByTrainer retrieves all trainings owned by a trainer.
func (s *trainingService) GetTrainingsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Training, error) {
	return s.trainingRepo.GetByTrainerID(ctx, trainerID)
}

// GetTrainingsByUser retrieves all trainings a user participates in.
func (s *trainingService) GetTrainingsByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Training, error) {
	return s.trainingRepo.GetByUserID(ctx, userID)
}

// UpdateTraining replaces the training's mutable fields and cascades
// performance-record deletion for removed users and exercise templates.
func (s *trainingService) UpdateTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID, name string, userIDs, exerciseIDs []primitive.ObjectID) (*domain.Training, error) {
	existing, err := s.ownedMutableTraining(ctx, trainerID, trainingID)
	if err != nil {
		return nil, err
	}

	removedUsers := missingFrom(existing.UserIDs, userIDs)
	removedExercises := missingFrom(existing.ExerciseIDs, exerciseIDs)

	existing.Name = name
	existing.UserIDs = userIDs
	existing.ExerciseIDs = exerciseIDs
	if err := s.trainingRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	if len(removedUsers) > 0 {
		deleted, err := s.exerciseRepo.DeleteByUsersOnTraining(ctx, removedUsers, trainingID)
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"trainingId": trainingID.Hex(),
			"users":      len(removedUsers),
			"deleted":    deleted,
		}).Info("cascaded performance deletion for removed users")
	}
	if len(removedExercises) > 0 {
		names, err := s.templateNames(ctx, removedExercises)
		if err != nil {
			return nil, err
		}
		deleted, err := s.exerciseRepo.DeleteByNamesOnTraining(ctx, names, trainingID)
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"trainingId": trainingID.Hex(),
			"names":      len(names),
			"deleted":    deleted,
		}).Info("cascaded performance deletion for removed exercises")
	}

	return s.trainingRepo.GetByID(ctx, trainingID)
}

// FinishTraining marks the training finished, once.
func (s *trainingService) FinishTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID) error {
	if _, err := s.ownedMutableTraining(ctx, trainerID, trainingID); err != nil {
		return err
	}
	return s.trainingRepo.SetFinished(ctx, trainingID)
}

// DeleteTraining removes the training and its performance records.
// Deletion is allowed on finished trainings; only updates are not.
func (s *trainingService) DeleteTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID) error {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	if training.TrainerID != trainerID {
		return ErrTrainingAccessDenied
	}

	if len(training.ExerciseIDs) > 0 {
		names, err := s.templateNames(ctx, training.ExerciseIDs)
		if err != nil {
			return err
		}
		if _, err := s.exerciseRepo.DeleteByNamesOnTraining(ctx, names, trainingID); err != nil {
			return err
		}
	}

	if err := s.trainingRepo.Delete(ctx, trainingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	s.log.WithField("trainingId", trainingID.Hex()).Info("training deleted")
	return nil
}

// ownedMutableTraining loads a training and verifies both that the acting
// trainer owns it and that it has not been finished.
func (s *trainingService) ownedMutableTraining(ctx context.Context, trainerID, trainingID primitive.ObjectID) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	if training.TrainerID != trainerID {
		return nil, ErrTrainingAccessDenied
	}
	if training.IsFinished {
		return nil, ErrTrainingFinished
	}
	return training, nil
}

func (s *trainingService) templateNames(ctx context.Context, ids []primitive.ObjectID) ([]string, error) {
	templates, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return names, nil
}

// missingFrom returns the IDs present in old but absent from updated.
func missingFrom(old, updated []primitive.ObjectID) []primitive.ObjectID {
	kept := make(map[primitive.ObjectID]bool, len(updated))
	for _, id := range updated {
		kept[id] = true
	}
	var removed []primitive.ObjectID
	for _, id := range old {
		if !kept[id] {
			removed = append(removed, id)
		}
	}
	return removed
}
