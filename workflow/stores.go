package workflow

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

// UserStore is the slice of user/subscription persistence the workflow
// needs. ConsumeListing must be a single conditional write: increment
// usedListings only while it is still below limit, and report
// ErrLimitReached when the condition no longer holds. That write, not the
// preceding read, is what keeps the cap intact under concurrent creates.
type UserStore interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetPlan(ctx context.Context, id primitive.ObjectID) (*models.Plan, error)
	ConsumeListing(ctx context.Context, userID primitive.ObjectID, limit int) error
	ReleaseListing(ctx context.Context, userID primitive.ObjectID) error
}

type PropertyStore interface {
	Insert(ctx context.Context, p *models.Property) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AppointmentStore persists viewing appointments. Insert must fail with
// ErrSlotTaken when a non-cancelled appointment already holds the same
// (propertyId, date, time) slot; the backing store enforces this with a
// unique constraint rather than a read-then-write.
type AppointmentStore interface {
	Insert(ctx context.Context, a *models.Appointment) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Cancel(ctx context.Context, id primitive.ObjectID, reason string) error
	SetMeetingLink(ctx context.Context, id primitive.ObjectID, link string) error
	SetFeedback(ctx context.Context, id primitive.ObjectID, fb models.Feedback) error
}

// ImageStore persists uploaded listing photos and returns their public
// URLs. A placeholder implementation may return a stock URL without
// storing anything.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// Notifier sends a templated email. Callers treat delivery as
// best-effort; errors are logged, never propagated.
type Notifier interface {
	Send(toEmail, template string, data map[string]string) error
}

// Notification templates.
const (
	TemplateScheduled = "scheduled"
	TemplatePending   = "pending"
	TemplateConfirmed = "confirmed"
	TemplateCancelled = "cancelled"
	TemplateCompleted = "completed"
)

// Service wires the listing workflow and moderation operations to their
// collaborators.
type Service struct {
	Users        UserStore
	Properties   PropertyStore
	Appointments AppointmentStore
	Images       ImageStore
	Notifier     Notifier

	// now is swappable for tests.
	now func() time.Time

	wg sync.WaitGroup
}

func NewService(users UserStore, properties PropertyStore, appointments AppointmentStore, images ImageStore, notifier Notifier) *Service {
	return &Service{
		Users:        users,
		Properties:   properties,
		Appointments: appointments,
		Images:       images,
		Notifier:     notifier,
		now:          time.Now,
	}
}

// notify dispatches an email without blocking the caller. Failures are
// logged and swallowed; the triggering operation has already committed.
func (s *Service) notify(toEmail, template string, data map[string]string) {
	if s.Notifier == nil || toEmail == "" {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Notifier.Send(toEmail, template, data); err != nil {
			log.Printf("notification %q to %s failed: %v", template, toEmail, err)
		}
	}()
}

// Flush waits for in-flight notifications. Called on shutdown and by
// tests that assert on the notifier.
func (s *Service) Flush() {
	s.wg.Wait()
}

// contactEmail resolves the address for an appointment's notifications,
// looking the booking user up when the appointment is not a guest one.
func (s *Service) contactEmail(ctx context.Context, appt *models.Appointment) string {
	if appt.Guest != nil {
		return appt.Guest.Email
	}
	if appt.UserID == nil {
		return ""
	}
	user, err := s.Users.GetUser(ctx, *appt.UserID)
	if err != nil {
		log.Printf("resolving contact for appointment %s: %v", appt.ID.Hex(), err)
		return ""
	}
	return user.Email
}
