package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription is embedded in the user document. It is replaced wholesale
// when the user subscribes to a plan; usedListings counts successful
// listing creations within the current period and is never decremented.
type Subscription struct {
	PlanID       primitive.ObjectID `bson:"plan" json:"plan"`
	StartDate    time.Time          `bson:"startDate" json:"startDate"`
	ExpiryDate   time.Time          `bson:"expiryDate" json:"expiryDate"`
	UsedListings int                `bson:"usedListings" json:"usedListings"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"password,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Subscription *Subscription      `bson:"subscription,omitempty" json:"subscription,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
