package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// GuestInfo holds contact details for a viewing booked without an account.
// An appointment carries either a userId or guestInfo, never both.
type GuestInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type Feedback struct {
	Rating  int    `bson:"rating" json:"rating"`
	Comment string `bson:"comment" json:"comment"`
}

// Appointment is a viewing request for a property. Date and time are
// opaque slot identifiers supplied by the client; the backend only
// compares them for equality when enforcing slot uniqueness.
type Appointment struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	PropertyID   primitive.ObjectID  `bson:"propertyId" json:"propertyId"`
	UserID       *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Guest        *GuestInfo          `bson:"guestInfo,omitempty" json:"guestInfo,omitempty"`
	Date         string              `bson:"date" json:"date"`
	Time         string              `bson:"time" json:"time"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       string              `bson:"status" json:"status"`
	MeetingLink  string              `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	CancelReason string              `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	Feedback     *Feedback           `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}
