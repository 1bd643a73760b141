package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Training groups a set of exercise templates assigned to a set of clients
// under a single trainer. Once finished, a training becomes read-only: the
// participant and exercise lists can no longer change, only reads and
// deletion are allowed.
type Training struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	UserIDs     []primitive.ObjectID `bson:"userIds,omitempty" json:"userIds,omitempty"`
	ExerciseIDs []primitive.ObjectID `bson:"exercisesIds,omitempty" json:"exercisesIds,omitempty"`
	TrainerID   primitive.ObjectID   `bson:"trainerId" json:"trainerId"`
	IsFinished  bool                 `bson:"isFinished" json:"isFinished"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasUser reports whether the given user participates in the training.
func (t *Training) HasUser(userID primitive.ObjectID) bool {
	for _, id := range t.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasExercise reports whether the given template is part of the training.
func (t *Training) HasExercise(exerciseID primitive.ObjectID) bool {
	for _, id := range t.ExerciseIDs {
		if id == exerciseID {
			return true
		}
	}
	return false
}
