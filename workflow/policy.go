package workflow

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

// Actor is the authenticated identity a request acts as.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// IsPrivileged reports whether the actor bypasses entitlement checks and
// ownership gates. Kept as the single role predicate so individual
// operations never test the role string themselves.
func IsPrivileged(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}

// CanModify is the shared ownership gate for property update and delete:
// the owner or any admin.
func CanModify(actor Actor, property *models.Property) bool {
	return IsPrivileged(actor) || property.Owner == actor.ID
}

// ownsAppointment reports whether the actor is the booking user. Guest
// bookings have no owning user; only admins may act on those.
func ownsAppointment(actor Actor, appt *models.Appointment) bool {
	return appt.UserID != nil && *appt.UserID == actor.ID
}
