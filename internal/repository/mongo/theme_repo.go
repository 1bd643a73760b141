package mongo

import (
	"context"
	"errors"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const themeCollectionName = "site_theme"

// mongoThemeRepository implements repository.ThemeRepository. A single
// theme document exists per deployment.
type mongoThemeRepository struct {
	collection *mongo.Collection
}

// NewMongoThemeRepository creates a new theme repository backed by MongoDB.
func NewMongoThemeRepository(db *mongo.Database) repository.ThemeRepository {
	return &mongoThemeRepository{
		collection: db.Collection(themeCollectionName),
	}
}

// Get retrieves the site theme document.
func (r *mongoThemeRepository) Get(ctx context.Context) (*domain.SiteTheme, error) {
	var theme domain.SiteTheme
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&theme)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// Upsert writes the site theme document, creating it on first use.
func (r *mongoThemeRepository) Upsert(ctx context.Context, theme *domain.SiteTheme) error {
	update := bson.M{
		"$set": bson.M{
			"primaryColor":   theme.PrimaryColor,
			"secondaryColor": theme.SecondaryColor,
			"accentColor":    theme.AccentColor,
			"siteTitle":      theme.SiteTitle,
			"logoKey":        theme.LogoKey,
			"updatedAt":      time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
