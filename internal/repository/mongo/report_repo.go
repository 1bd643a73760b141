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

const reportCollectionName = "trainings_reports"

// mongoReportRepository implements repository.ReportRepository.
type mongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new report repository backed by MongoDB.
func NewMongoReportRepository(db *mongo.Database) repository.ReportRepository {
	return &mongoReportRepository{
		collection: db.Collection(reportCollectionName),
	}
}

// Create persists a report request. Reports are write-once.
func (r *mongoReportRepository) Create(ctx context.Context, report *domain.TrainingsReport) (primitive.ObjectID, error) {
	if report.Token == "" || report.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("report token and user ID are required")
	}

	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByToken retrieves a persisted report by its link token.
func (r *mongoReportRepository) GetByToken(ctx context.Context, token string) (*domain.TrainingsReport, error) {
	var report domain.TrainingsReport
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// EnsureReportIndexes creates the indexes for the reports collection.
func EnsureReportIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.WithError(err).Warn("failed to create report indexes")
	}
}
