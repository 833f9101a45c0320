package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a subscription tier. Price 0 is the free tier. Admin-managed.
type Plan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	ListingLimit  int                `bson:"listingLimit" json:"listingLimit"`
	FeaturedLimit int                `bson:"featuredLimit" json:"featuredLimit"`
	DurationDays  int                `bson:"durationDays" json:"durationDays"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
