package service

import (
	"context"
	"errors"
	"strings"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrExerciseForbidden  = errors.New("forbidden exercise operation")
	ErrExerciseNameTaken  = errors.New("exercise with this name already exists")
	ErrExerciseValidation = errors.New("exercise validation failed")
)

// ExerciseService manages library templates, per-client performance records,
// and the progression carry-forward lookup.
type ExerciseService interface {
	// Template CRUD. These operate on library templates only: any payload
	// or target carrying a user/training reference is rejected with
	// ErrExerciseForbidden.
	CreateExercise(ctx context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error)
	GetExerciseByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseRecord, error)
	GetExercises(ctx context.Context) ([]domain.ExerciseRecord, error)
	UpdateExercise(ctx context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error

	// CreateOrUpdateUserExercise upserts the performance record keyed on
	// (name, userId, trainingId). The acting user must own the training.
	CreateOrUpdateUserExercise(ctx context.Context, actingTrainerID primitive.ObjectID, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error)

	// Bulk deletion of performance records when a training drops users or
	// exercise names. The acting user must own the training.
	DeleteUsersExercisesOnTraining(ctx context.Context, actingTrainerID, trainingID primitive.ObjectID, userIDs []primitive.ObjectID) (int64, error)
	DeleteExercisesOnTraining(ctx context.Context, actingTrainerID, trainingID primitive.ObjectID, names []string) (int64, error)

	// ResolveUserTrainingExercises returns, for each assigned exercise
	// name, the value to pre-fill when a client performs a training:
	// records already logged for this training win; otherwise the user's
	// most recent prior performance of that name is carried forward.
	ResolveUserTrainingExercises(ctx context.Context, userID, trainingID primitive.ObjectID, exerciseNames []string) ([]domain.ExerciseRecord, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	trainingRepo repository.TrainingRepository
	log          *logrus.Entry
}

// NewExerciseService creates a new exercise service.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, trainingRepo repository.TrainingRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		trainingRepo: trainingRepo,
		log:          logrus.WithField("service", "exercise"),
	}
}

// CreateExercise inserts a new library template.
func (s *exerciseService) CreateExercise(ctx context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error) {
	if record.Name == "" {
		return nil, ErrExerciseValidation
	}
	if record.UserID != nil || record.TrainingID != nil {
		return nil, ErrExerciseForbidden
	}

	// Template names are unique case-insensitively.
	existing, err := s.exerciseRepo.GetTemplateByName(ctx, record.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrExerciseNameTaken
	}

	id, err := s.exerciseRepo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"exerciseId": id.Hex(), "name": record.Name}).Info("exercise template created")
	return s.exerciseRepo.GetByID(ctx, id)
}

// GetExerciseByID retrieves a single exercise record.
func (s *exerciseService) GetExerciseByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseRecord, error) {
	record, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return record, nil
}

// GetExercises retrieves all library templates.
func (s *exerciseService) GetExercises(ctx context.Context) ([]domain.ExerciseRecord, error) {
	return s.exerciseRepo.GetTemplates(ctx)
}

// UpdateExercise modifies a library template. Neither the target nor the
// payload may carry a user/training reference; a template cannot be turned
// into a performance record through this path, nor the other way around.
func (s *exerciseService) UpdateExercise(ctx context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error) {
	if record.ID == primitive.NilObjectID || record.Name == "" {
		return nil, ErrExerciseValidation
	}
	if record.UserID != nil || record.TrainingID != nil {
		return nil, ErrExerciseForbidden
	}

	existing, err := s.exerciseRepo.GetByID(ctx, record.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !existing.IsTemplate() {
		return nil, ErrExerciseForbidden
	}

	if !strings.EqualFold(existing.Name, record.Name) {
		collision, err := s.exerciseRepo.GetTemplateByName(ctx, record.Name)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if collision != nil && collision.ID != record.ID {
			return nil, ErrExerciseNameTaken
		}
	}

	if err := s.exerciseRepo.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, record.ID)
}

// DeleteExercise removes a library template.
func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if !existing.IsTemplate() {
		return ErrExerciseForbidden
	}
	return s.exerciseRepo.Delete(ctx, id)
}

// CreateOrUpdateUserExercise upserts a client's performance record for a
// training. Authorization is by ownership of the training, not by role.
func (s *exerciseService) CreateOrUpdateUserExercise(ctx context.Context, actingTrainerID primitive.ObjectID, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error) {
	if record.Name == "" {
		return nil, ErrExerciseValidation
	}
	if record.UserID == nil || record.TrainingID == nil {
		return nil, ErrExerciseForbidden
	}

	training, err := s.trainingRepo.GetByID(ctx, *record.TrainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	if training.TrainerID != actingTrainerID {
		return nil, ErrTrainingAccessDenied
	}

	stored, err := s.exerciseRepo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"userId":     record.UserID.Hex(),
		"trainingId": record.TrainingID.Hex(),
		"name":       record.Name,
	}).Debug("user exercise upserted")
	return stored, nil
}

// DeleteUsersExercisesOnTraining bulk-deletes the performance records of
// the given users on a training.
func (s *exerciseService) DeleteUsersExercisesOnTraining(ctx context.Context, actingTrainerID, trainingID primitive.ObjectID, userIDs []primitive.ObjectID) (int64, error) {
	if err := s.requireTrainingOwner(ctx, actingTrainerID, trainingID); err != nil {
		return 0, err
	}
	return s.exerciseRepo.DeleteByUsersOnTraining(ctx, userIDs, trainingID)
}

// DeleteExercisesOnTraining bulk-deletes performance records by exercise
// name on a training.
func (s *exerciseService) DeleteExercisesOnTraining(ctx context.Context, actingTrainerID, trainingID primitive.ObjectID, names []string) (int64, error) {
	if err := s.requireTrainingOwner(ctx, actingTrainerID, trainingID); err != nil {
		return 0, err
	}
	return s.exerciseRepo.DeleteByNamesOnTraining(ctx, names, trainingID)
}

func (s *exerciseService) requireTrainingOwner(ctx context.Context, actingTrainerID, trainingID primitive.ObjectID) error {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	if training.TrainerID != actingTrainerID {
		return ErrTrainingAccessDenied
	}
	return nil
}

// ResolveUserTrainingExercises implements the progression carry-forward.
//
// Records already logged for (userID, trainingID) are returned as-is (with
// the description projected out). If every requested name is covered, no
// historical lookup happens. For the uncovered names, the user's most
// recent prior performance per name is carried forward with its
// user/training scope and description stripped, so the caller receives a
// neutral pre-fill value. Records are matched to names case-insensitively;
// the caller reconciles output order by name.
func (s *exerciseService) ResolveUserTrainingExercises(ctx context.Context, userID, trainingID primitive.ObjectID, exerciseNames []string) ([]domain.ExerciseRecord, error) {
	if len(exerciseNames) == 0 {
		return []domain.ExerciseRecord{}, nil
	}

	recorded, err := s.exerciseRepo.FindPerformances(ctx, userID, trainingID)
	if err != nil {
		return nil, err
	}
	if len(recorded) == len(exerciseNames) {
		return recorded, nil
	}

	covered := make(map[string]bool, len(recorded))
	for _, rec := range recorded {
		covered[strings.ToLower(rec.Name)] = true
	}
	var uncovered []string
	for _, name := range exerciseNames {
		if !covered[strings.ToLower(name)] {
			uncovered = append(uncovered, name)
		}
	}
	if len(uncovered) == 0 {
		return recorded, nil
	}

	// History comes back sorted ascending by creation time, so the last
	// record seen per name is the most recent one; insertion order breaks
	// timestamp ties (last write wins).
	history, err := s.exerciseRepo.FindPerformancesByNames(ctx, userID, uncovered)
	if err != nil {
		return nil, err
	}
	lastByName := make(map[string]domain.ExerciseRecord, len(uncovered))
	for _, rec := range history {
		lastByName[strings.ToLower(rec.Name)] = rec
	}

	result := append([]domain.ExerciseRecord{}, recorded...)
	for _, name := range uncovered {
		rec, ok := lastByName[strings.ToLower(name)]
		if !ok {
			continue
		}
		// Strip the original scope and description: the carried-forward
		// value is a suggestion, not a record of this training.
		rec.UserID = nil
		rec.TrainingID = nil
		rec.Description = ""
		result = append(result, rec)
	}
	return result, nil
}
