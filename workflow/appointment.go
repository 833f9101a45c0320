package workflow

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

// ScheduleRequest is a viewing booking, either by an authenticated user
// (UserID set) or a guest (Guest set). Never both.
type ScheduleRequest struct {
	PropertyID primitive.ObjectID
	UserID     *primitive.ObjectID
	Guest      *models.GuestInfo
	Date       string
	Time       string
	Notes      string
}

// ScheduleViewing books a viewing slot. The slot-uniqueness rule (at
// most one non-cancelled appointment per property/date/time) is enforced
// by the store's unique constraint, so two racing requests cannot both
// take the slot.
func (s *Service) ScheduleViewing(ctx context.Context, req ScheduleRequest) (*models.Appointment, error) {
	if req.Date == "" || req.Time == "" {
		return nil, errValidation("date and time are required")
	}
	if req.UserID == nil {
		if req.Guest == nil || req.Guest.Email == "" {
			return nil, errValidation("guest contact info required")
		}
	} else if req.Guest != nil {
		return nil, errValidation("provide either a user or guest contact, not both")
	}

	property, err := s.Properties.Get(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errNotFound("property not found")
		}
		return nil, err
	}

	appt := &models.Appointment{
		PropertyID: req.PropertyID,
		UserID:     req.UserID,
		Guest:      req.Guest,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
		Status:     models.AppointmentPending,
		CreatedAt:  s.now(),
	}

	if err := s.Appointments.Insert(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, errConflict("slot already booked, please pick a different time")
		}
		return nil, err
	}

	s.notify(s.contactEmail(ctx, appt), TemplateScheduled, map[string]string{
		"property": property.Title,
		"date":     appt.Date,
		"time":     appt.Time,
	})

	return appt, nil
}

// CancelAppointment cancels a booking. Allowed for the booking user and
// for admins (who are the only ones able to act on guest bookings).
func (s *Service) CancelAppointment(ctx context.Context, actor Actor, id primitive.ObjectID, reason string) error {
	appt, err := s.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound("appointment not found")
		}
		return err
	}
	if !ownsAppointment(actor, appt) && !IsPrivileged(actor) {
		return errAuthorization("not allowed to cancel this appointment")
	}

	if err := s.Appointments.Cancel(ctx, id, reason); err != nil {
		return err
	}

	s.notify(s.contactEmail(ctx, appt), TemplateCancelled, map[string]string{
		"date":   appt.Date,
		"time":   appt.Time,
		"reason": reason,
	})
	return nil
}

// SubmitFeedback records a rating and comment from the booking user and
// moves the appointment to completed, whatever its current status.
func (s *Service) SubmitFeedback(ctx context.Context, actor Actor, id primitive.ObjectID, rating int, comment string) error {
	appt, err := s.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound("appointment not found")
		}
		return err
	}
	if !ownsAppointment(actor, appt) {
		return errAuthorization("only the booking user can leave feedback")
	}
	return s.Appointments.SetFeedback(ctx, id, models.Feedback{Rating: rating, Comment: comment})
}

// UpdateMeetingLink stores a meeting link on the appointment. The
// notification goes out with the confirmed template whatever the current
// status; the admin console has always behaved this way and clients
// depend on the wording.
func (s *Service) UpdateMeetingLink(ctx context.Context, id primitive.ObjectID, link string) error {
	appt, err := s.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotFound("appointment not found")
		}
		return err
	}

	if err := s.Appointments.SetMeetingLink(ctx, id, link); err != nil {
		return err
	}

	s.notify(s.contactEmail(ctx, appt), TemplateConfirmed, map[string]string{
		"date":        appt.Date,
		"time":        appt.Time,
		"meetingLink": link,
	})
	return nil
}
