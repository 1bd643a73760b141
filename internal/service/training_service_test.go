package service

import (
	"context"
	"testing"

	"trainhub/training-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTrainingFixture() (*fakeExerciseRepo, *fakeTrainingRepo, TrainingService) {
	exRepo := &fakeExerciseRepo{}
	trRepo := &fakeTrainingRepo{}
	return exRepo, trRepo, NewTrainingService(trRepo, exRepo)
}

func TestFinishTraining_Monotonic(t *testing.T) {
	_, trRepo, svc := newTrainingFixture()
	trainerID := primitive.NewObjectID()
	trainingID := trRepo.add(domain.Training{Name: "Week 1", TrainerID: trainerID})

	require.NoError(t, svc.FinishTraining(context.Background(), trainerID, trainingID))

	// A finished training rejects re-finishing and structural updates.
	assert.ErrorIs(t, svc.FinishTraining(context.Background(), trainerID, trainingID), ErrTrainingFinished)
	_, err := svc.UpdateTraining(context.Background(), trainerID, trainingID, "Week 1 updated", nil, nil)
	assert.ErrorIs(t, err, ErrTrainingFinished)

	// Deletion stays allowed.
	assert.NoError(t, svc.DeleteTraining(context.Background(), trainerID, trainingID))
}

func TestUpdateTraining_OwnershipRequired(t *testing.T) {
	_, trRepo, svc := newTrainingFixture()
	trainingID := trRepo.add(domain.Training{Name: "Week 1", TrainerID: primitive.NewObjectID()})

	_, err := svc.UpdateTraining(context.Background(), primitive.NewObjectID(), trainingID, "Week 1", nil, nil)
	assert.ErrorIs(t, err, ErrTrainingAccessDenied)

	err = svc.FinishTraining(context.Background(), primitive.NewObjectID(), trainingID)
	assert.ErrorIs(t, err, ErrTrainingAccessDenied)

	err = svc.DeleteTraining(context.Background(), primitive.NewObjectID(), trainingID)
	assert.ErrorIs(t, err, ErrTrainingAccessDenied)
}

func TestUpdateTraining_CascadesRemovedUsers(t *testing.T) {
	exRepo, trRepo, svc := newTrainingFixture()
	trainerID := primitive.NewObjectID()
	keptUser := primitive.NewObjectID()
	removedUser := primitive.NewObjectID()
	trainingID := trRepo.add(domain.Training{
		Name: "Week 1", TrainerID: trainerID,
		UserIDs: []primitive.ObjectID{keptUser, removedUser},
	})
	exRepo.add(domain.ExerciseRecord{
		Name: "Squat", Type: domain.TypeStrength,
		UserID: &keptUser, TrainingID: &trainingID, CreatedAt: day(1),
	})
	exRepo.add(domain.ExerciseRecord{
		Name: "Squat", Type: domain.TypeStrength,
		UserID: &removedUser, TrainingID: &trainingID, CreatedAt: day(1),
	})

	_, err := svc.UpdateTraining(context.Background(), trainerID, trainingID, "Week 1", []primitive.ObjectID{keptUser}, nil)
	require.NoError(t, err)

	kept, err := exRepo.FindPerformances(context.Background(), keptUser, trainingID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
	gone, err := exRepo.FindPerformances(context.Background(), removedUser, trainingID)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestUpdateTraining_CascadesRemovedExercises(t *testing.T) {
	exRepo, trRepo, svc := newTrainingFixture()
	trainerID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	squatTemplate := exRepo.add(domain.ExerciseRecord{Name: "Squat", Type: domain.TypeStrength, CreatedAt: day(1)})
	benchTemplate := exRepo.add(domain.ExerciseRecord{Name: "Bench press", Type: domain.TypeStrength, CreatedAt: day(1)})
	trainingID := trRepo.add(domain.Training{
		Name: "Week 1", TrainerID: trainerID,
		UserIDs:     []primitive.ObjectID{userID},
		ExerciseIDs: []primitive.ObjectID{squatTemplate, benchTemplate},
	})
	exRepo.add(domain.ExerciseRecord{
		Name: "Squat", Type: domain.TypeStrength,
		UserID: &userID, TrainingID: &trainingID, CreatedAt: day(2),
	})
	exRepo.add(domain.ExerciseRecord{
		Name: "Bench press", Type: domain.TypeStrength,
		UserID: &userID, TrainingID: &trainingID, CreatedAt: day(2),
	})

	// Dropping the squat template deletes the matching performance records.
	_, err := svc.UpdateTraining(context.Background(), trainerID, trainingID, "Week 1",
		[]primitive.ObjectID{userID}, []primitive.ObjectID{benchTemplate})
	require.NoError(t, err)

	remaining, err := exRepo.FindPerformances(context.Background(), userID, trainingID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Bench press", remaining[0].Name)
}

func TestDeleteTraining_CascadesPerformanceRecords(t *testing.T) {
	exRepo, trRepo, svc := newTrainingFixture()
	trainerID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	otherTraining := primitive.NewObjectID()

	squatTemplate := exRepo.add(domain.ExerciseRecord{Name: "Squat", Type: domain.TypeStrength, CreatedAt: day(1)})
	trainingID := trRepo.add(domain.Training{
		Name: "Week 1", TrainerID: trainerID,
		UserIDs:     []primitive.ObjectID{userID},
		ExerciseIDs: []primitive.ObjectID{squatTemplate},
	})
	exRepo.add(domain.ExerciseRecord{
		Name: "Squat", Type: domain.TypeStrength,
		UserID: &userID, TrainingID: &trainingID, CreatedAt: day(2),
	})
	// Same exercise on another training must survive.
	exRepo.add(domain.ExerciseRecord{
		Name: "Squat", Type: domain.TypeStrength,
		UserID: &userID, TrainingID: &otherTraining, CreatedAt: day(2),
	})

	require.NoError(t, svc.DeleteTraining(context.Background(), trainerID, trainingID))

	_, err := svc.GetTrainingByID(context.Background(), trainingID)
	assert.ErrorIs(t, err, ErrTrainingNotFound)

	onDeleted, err := exRepo.FindPerformances(context.Background(), userID, trainingID)
	require.NoError(t, err)
	assert.Empty(t, onDeleted)
	onOther, err := exRepo.FindPerformances(context.Background(), userID, otherTraining)
	require.NoError(t, err)
	assert.Len(t, onOther, 1)
}
