package mongo

import (
	"context"
	"errors"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainingCollectionName = "trainings"

// mongoTrainingRepository implements repository.TrainingRepository.
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new training repository backed by MongoDB.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

// Create inserts a new training.
func (r *mongoTrainingRepository) Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error) {
	if training.Name == "" || training.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("training name and trainer ID are required")
	}

	training.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	training.CreatedAt = now
	training.UpdatedAt = now
	training.IsFinished = false

	result, err := r.collection.InsertOne(ctx, training)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a training by its ID.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

// GetByTrainerID retrieves all trainings owned by a trainer, newest first.
func (r *mongoTrainingRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findAll(ctx, bson.M{"trainerId": trainerID}, opts)
}

// GetByUserID retrieves all trainings the user participates in.
func (r *mongoTrainingRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findAll(ctx, bson.M{"userIds": userID}, opts)
}

// GetByUserInRange retrieves trainings the user participates in whose
// createdAt is within the inclusive bounds. A nil bound is open-ended.
func (r *mongoTrainingRepository) GetByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.Training, error) {
	filter := bson.M{"userIds": userID}
	createdAt := bson.M{}
	if from != nil {
		createdAt["$gte"] = *from
	}
	if to != nil {
		createdAt["$lte"] = *to
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findAll(ctx, filter, opts)
}

// Update rewrites the mutable fields of a training. The owning trainer and
// creation time never change.
func (r *mongoTrainingRepository) Update(ctx context.Context, training *domain.Training) error {
	if training.ID == primitive.NilObjectID {
		return errors.New("training ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":         training.Name,
			"userIds":      training.UserIDs,
			"exercisesIds": training.ExerciseIDs,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": training.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetFinished marks a training finished. The flag is monotonic; there is no
// way back to unfinished.
func (r *mongoTrainingRepository) SetFinished(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"isFinished": true,
			"updatedAt":  time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a training by ID.
func (r *mongoTrainingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainingRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Training, error) {
	var trainings []domain.Training

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if trainings == nil {
		trainings = []domain.Training{}
	}
	return trainings, nil
}

// EnsureTrainingIndexes creates the indexes for the trainings collection.
func EnsureTrainingIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userIds", Value: 1}},
			Options: options.Index(),
		},
		{
			// Report range matches filter on this.
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.WithError(err).Warn("failed to create training indexes")
	}
}
