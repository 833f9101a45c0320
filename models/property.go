package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property types accepted by the listing form.
var PropertyTypes = []string{"House", "Apartment", "Office", "Villa", "Land", "Commercial"}

// Property statuses. Every non-admin listing starts as pending and is
// moderated from there.
const (
	PropertyPending  = "pending"
	PropertyApproved = "approved"
	PropertyRejected = "rejected"
)

// Availability values. Legacy documents may still carry "buy"/"Buy";
// those normalize to "sale" on the way in.
const (
	AvailabilitySale = "sale"
	AvailabilityRent = "rent"
)

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Property struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	Location      string             `bson:"location" json:"location"`
	Price         float64            `bson:"price" json:"price"`
	Beds          int                `bson:"beds" json:"beds"`
	Baths         int                `bson:"baths" json:"baths"`
	Sqft          int                `bson:"sqft" json:"sqft"`
	Type          string             `bson:"type" json:"type"`
	Availability  string             `bson:"availability" json:"availability"`
	Description   string             `bson:"description" json:"description"`
	Amenities     []string           `bson:"amenities" json:"amenities"`
	Images        []string           `bson:"image" json:"image"`
	Phone         string             `bson:"phone" json:"phone"`
	GoogleMapLink string             `bson:"googleMapLink,omitempty" json:"googleMapLink,omitempty"`
	Coordinates   *Coordinates       `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	Status        string             `bson:"status" json:"status"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	IsVerified    bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidPropertyStatus(s string) bool {
	return s == PropertyPending || s == PropertyApproved || s == PropertyRejected
}

func ValidPropertyType(s string) bool {
	for _, t := range PropertyTypes {
		if s == t {
			return true
		}
	}
	return false
}
