package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// templateFilter matches library templates: records with neither a user nor
// a training reference.
func templateFilter() bson.M {
	return bson.M{
		"userId":     bson.M{"$exists": false},
		"trainingId": bson.M{"$exists": false},
	}
}

// mongoExerciseRepository implements repository.ExerciseRepository.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise record.
func (r *mongoExerciseRepository) Create(ctx context.Context, record *domain.ExerciseRecord) (primitive.ObjectID, error) {
	if record.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an exercise record by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseRecord, error) {
	var record domain.ExerciseRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetByIDs retrieves all records whose ID is in ids.
func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	if len(ids) == 0 {
		return []domain.ExerciseRecord{}, nil
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// GetTemplates retrieves all library templates, newest first.
func (r *mongoExerciseRepository) GetTemplates(ctx context.Context) ([]domain.ExerciseRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findAll(ctx, templateFilter(), opts)
}

// GetTemplateByName retrieves the library template matching name
// case-insensitively.
func (r *mongoExerciseRepository) GetTemplateByName(ctx context.Context, name string) (*domain.ExerciseRecord, error) {
	filter := templateFilter()
	filter["name"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}

	var record domain.ExerciseRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Update modifies an existing record. The user/training scope of a record
// is never changed here; only content fields are written.
func (r *mongoExerciseRepository) Update(ctx context.Context, record *domain.ExerciseRecord) error {
	if record.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if record.Name == "" {
		return errors.New("exercise name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":        record.Name,
			"type":        record.Type,
			"sets":        record.Sets,
			"restTime":    record.RestTime,
			"duration":    record.Duration,
			"result":      record.Result,
			"description": record.Description,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a record by ID.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Upsert creates or replaces the performance record keyed on
// (name, userId, trainingId) and returns the stored document.
func (r *mongoExerciseRepository) Upsert(ctx context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error) {
	if record.UserID == nil || record.TrainingID == nil {
		return nil, errors.New("upsert requires both userId and trainingId")
	}

	filter := bson.M{
		"name":       record.Name,
		"userId":     *record.UserID,
		"trainingId": *record.TrainingID,
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"type":        record.Type,
			"sets":        record.Sets,
			"restTime":    record.RestTime,
			"duration":    record.Duration,
			"result":      record.Result,
			"description": record.Description,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored domain.ExerciseRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindPerformances returns the performance records of a user on a training,
// with the description projected out.
func (r *mongoExerciseRepository) FindPerformances(ctx context.Context, userID, trainingID primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	filter := bson.M{"userId": userID, "trainingId": trainingID}
	opts := options.Find().
		SetProjection(bson.M{"description": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findAll(ctx, filter, opts)
}

// FindPerformancesByNames returns all of a user's performance records whose
// name is in names, sorted ascending by creation time.
func (r *mongoExerciseRepository) FindPerformancesByNames(ctx context.Context, userID primitive.ObjectID, names []string) ([]domain.ExerciseRecord, error) {
	if len(names) == 0 {
		return []domain.ExerciseRecord{}, nil
	}
	filter := bson.M{
		"userId":     userID,
		"trainingId": bson.M{"$exists": true},
		"name":       bson.M{"$in": names},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findAll(ctx, filter, opts)
}

// FindByUserInRange returns a user's performance records with createdAt in
// [from, to] inclusive, sorted ascending. Zero bounds are open-ended.
func (r *mongoExerciseRepository) FindByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ExerciseRecord, error) {
	filter := bson.M{"userId": userID}
	createdAt := bson.M{}
	if !from.IsZero() {
		createdAt["$gte"] = from
	}
	if !to.IsZero() {
		createdAt["$lte"] = to
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findAll(ctx, filter, opts)
}

// FindByUserOnTrainings returns a user's performance records scoped to any
// of the given trainings, sorted ascending by creation time.
func (r *mongoExerciseRepository) FindByUserOnTrainings(ctx context.Context, userID primitive.ObjectID, trainingIDs []primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	if len(trainingIDs) == 0 {
		return []domain.ExerciseRecord{}, nil
	}
	filter := bson.M{
		"userId":     userID,
		"trainingId": bson.M{"$in": trainingIDs},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.findAll(ctx, filter, opts)
}

// DeleteByUsersOnTraining removes all performance records of the given
// users on the given training.
func (r *mongoExerciseRepository) DeleteByUsersOnTraining(ctx context.Context, userIDs []primitive.ObjectID, trainingID primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"userId":     bson.M{"$in": userIDs},
		"trainingId": trainingID,
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByNamesOnTraining removes all performance records with the given
// names on the given training.
func (r *mongoExerciseRepository) DeleteByNamesOnTraining(ctx context.Context, names []string, trainingID primitive.ObjectID) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"name":       bson.M{"$in": names},
		"trainingId": trainingID,
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoExerciseRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.ExerciseRecord, error) {
	var records []domain.ExerciseRecord

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.ExerciseRecord{}
	}
	return records, nil
}

// EnsureExerciseIndexes creates the indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Upsert key and performance lookups.
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "trainingId", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			// "Last known performance" and range queries sort on this.
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}

	// Non-fatal: queries still work unindexed.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.WithError(err).Warn("failed to create exercise indexes")
	}
}
