package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteTheme holds the site-wide theming managed by admins. A single
// document exists per deployment; the logo image itself lives in S3 and is
// referenced by its object key.
type SiteTheme struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PrimaryColor   string             `bson:"primaryColor,omitempty" json:"primaryColor,omitempty"`
	SecondaryColor string             `bson:"secondaryColor,omitempty" json:"secondaryColor,omitempty"`
	AccentColor    string             `bson:"accentColor,omitempty" json:"accentColor,omitempty"`
	SiteTitle      string             `bson:"siteTitle,omitempty" json:"siteTitle,omitempty"`
	LogoKey        string             `bson:"logoKey,omitempty" json:"-"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
