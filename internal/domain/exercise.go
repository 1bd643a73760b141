package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseType categorizes an exercise. The three constants below are the
// well-known values, but the field is stored as free text because the UI
// allows trainers to introduce custom types. Do not validate against a
// closed set.
type ExerciseType string

const (
	TypeStrength ExerciseType = "Strength"
	TypeCardio   ExerciseType = "Cardio"
	TypeCrossfit ExerciseType = "Crossfit"
)

// ExerciseSet is a single set within a Strength or Crossfit exercise.
// All fields are optional; a trainer may pre-fill only part of a set.
type ExerciseSet struct {
	Weight   *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Reps     *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Duration *int     `bson:"duration,omitempty" json:"duration,omitempty"` // seconds
}

// CardioResult holds the outcome of a Cardio exercise.
type CardioResult struct {
	Distance *float64 `bson:"distance,omitempty" json:"distance,omitempty"` // meters
	Energy   *float64 `bson:"energy,omitempty" json:"energy,omitempty"`     // kcal
}

// ExerciseRecord is either a template or a performance record:
//
//   - a template has neither UserID nor TrainingID and lives in the shared
//     exercise library, with a case-insensitively unique name;
//   - a performance record has both UserID and TrainingID set and captures
//     what a specific client did within a specific training.
//
// Records with exactly one of the two references set are invalid and are
// rejected by every write path.
type ExerciseRecord struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Type        ExerciseType        `bson:"type" json:"type"`
	Sets        []ExerciseSet       `bson:"sets,omitempty" json:"sets,omitempty"`
	RestTime    *int                `bson:"restTime,omitempty" json:"restTime,omitempty"` // seconds
	Duration    *int                `bson:"duration,omitempty" json:"duration,omitempty"` // seconds, Cardio only
	Result      *CardioResult       `bson:"result,omitempty" json:"result,omitempty"`     // Cardio only
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	UserID      *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	TrainingID  *primitive.ObjectID `bson:"trainingId,omitempty" json:"trainingId,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsTemplate reports whether the record belongs to the shared library.
func (e *ExerciseRecord) IsTemplate() bool {
	return e.UserID == nil && e.TrainingID == nil
}

// IsPerformance reports whether the record is a client's logged performance.
func (e *ExerciseRecord) IsPerformance() bool {
	return e.UserID != nil && e.TrainingID != nil
}

// IsMixedScope reports whether exactly one of UserID/TrainingID is set.
func (e *ExerciseRecord) IsMixedScope() bool {
	return (e.UserID == nil) != (e.TrainingID == nil)
}

// LastSet returns the final set of the record, or nil if there are none.
// Charting treats the last set as "the" weight/reps of a session.
func (e *ExerciseRecord) LastSet() *ExerciseSet {
	if len(e.Sets) == 0 {
		return nil
	}
	return &e.Sets[len(e.Sets)-1]
}

// MaxSetWeight returns the largest positive weight across the record's sets
// and whether any set carried a positive weight at all.
func (e *ExerciseRecord) MaxSetWeight() (float64, bool) {
	var max float64
	found := false
	for _, s := range e.Sets {
		if s.Weight != nil && *s.Weight > 0 {
			if !found || *s.Weight > max {
				max = *s.Weight
			}
			found = true
		}
	}
	return max, found
}

// TotalSetReps sums the reps across the record's sets.
func (e *ExerciseRecord) TotalSetReps() int {
	total := 0
	for _, s := range e.Sets {
		if s.Reps != nil {
			total += *s.Reps
		}
	}
	return total
}
