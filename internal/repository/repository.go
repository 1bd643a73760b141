package repository

import (
	"context"
	"time"

	"trainhub/training-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDuplicate    = RepositoryError("duplicate document")
)

// RepositoryError helps distinguish repository errors from other failures.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error

	// LinkClientToTrainer and UnlinkClientFromTrainer mutate both user
	// documents inside a single mongo session transaction; any failure is
	// returned to the caller, never swallowed.
	LinkClientToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	UnlinkClientFromTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise
// records, both library templates and per-client performance records.
type ExerciseRepository interface {
	Create(ctx context.Context, record *domain.ExerciseRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseRecord, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseRecord, error)
	GetTemplates(ctx context.Context) ([]domain.ExerciseRecord, error)
	// GetTemplateByName matches template records case-insensitively.
	GetTemplateByName(ctx context.Context, name string) (*domain.ExerciseRecord, error)
	Update(ctx context.Context, record *domain.ExerciseRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Upsert creates or replaces the performance record keyed on
	// (name, userId, trainingId) and returns the stored document.
	Upsert(ctx context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error)

	// FindPerformances returns the performance records of a user on a
	// training, with the description field projected out.
	FindPerformances(ctx context.Context, userID, trainingID primitive.ObjectID) ([]domain.ExerciseRecord, error)
	// FindPerformancesByNames returns all of a user's performance records
	// whose name is in names, sorted ascending by creation time.
	FindPerformancesByNames(ctx context.Context, userID primitive.ObjectID, names []string) ([]domain.ExerciseRecord, error)
	// FindByUserInRange returns a user's performance records with createdAt
	// in [from, to] inclusive, sorted ascending by creation time. Zero
	// bounds disable that side of the range.
	FindByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ExerciseRecord, error)
	// FindByUserOnTrainings returns a user's performance records scoped to
	// any of the given trainings, sorted ascending by creation time.
	FindByUserOnTrainings(ctx context.Context, userID primitive.ObjectID, trainingIDs []primitive.ObjectID) ([]domain.ExerciseRecord, error)

	DeleteByUsersOnTraining(ctx context.Context, userIDs []primitive.ObjectID, trainingID primitive.ObjectID) (int64, error)
	DeleteByNamesOnTraining(ctx context.Context, names []string, trainingID primitive.ObjectID) (int64, error)
}

// TrainingRepository defines the interface for interacting with trainings.
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Training, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Training, error)
	// GetByUserInRange returns trainings the user participates in whose
	// createdAt falls within the given inclusive bounds. A nil bound
	// disables that side of the range.
	GetByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.Training, error)
	Update(ctx context.Context, training *domain.Training) error
	SetFinished(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ReportRepository persists report requests so report links can be replayed.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.TrainingsReport) (primitive.ObjectID, error)
	GetByToken(ctx context.Context, token string) (*domain.TrainingsReport, error)
}

// ThemeRepository stores the single site theme document.
type ThemeRepository interface {
	Get(ctx context.Context) (*domain.SiteTheme, error)
	Upsert(ctx context.Context, theme *domain.SiteTheme) error
}
