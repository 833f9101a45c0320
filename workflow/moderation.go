package workflow

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

// SetPropertyStatus moves a listing between pending, approved and
// rejected. Any transition is allowed, including re-setting the current
// status, and no notification is sent for property moderation.
func (s *Service) SetPropertyStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidPropertyStatus(status) {
		return errValidation("status must be pending, approved or rejected")
	}
	if err := s.Properties.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound("property not found")
		}
		return err
	}
	return nil
}

// SetAppointmentStatus overwrites an appointment's status and sends the
// matching status email to the booking user or guest, best-effort.
func (s *Service) SetAppointmentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidAppointmentStatus(status) {
		return errValidation("invalid appointment status")
	}

	appt, err := s.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound("appointment not found")
		}
		return err
	}

	if err := s.Appointments.SetStatus(ctx, id, status); err != nil {
		return err
	}

	s.notify(s.contactEmail(ctx, appt), status, map[string]string{
		"date": appt.Date,
		"time": appt.Time,
	})
	return nil
}
