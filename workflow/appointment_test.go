package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

func (e *testEnv) addApprovedProperty(t *testing.T) *models.Property {
	t.Helper()
	owner := e.addSubscribedUser(10, 0, future())
	p, err := e.svc.CreateProperty(context.Background(), owner, validInput(), oneImage())
	require.NoError(t, err)
	require.NoError(t, e.properties.SetStatus(context.Background(), p.ID, models.PropertyApproved))
	return p
}

func guestReq(propertyID primitive.ObjectID, date, timeSlot string) ScheduleRequest {
	return ScheduleRequest{
		PropertyID: propertyID,
		Guest:      &models.GuestInfo{Name: "Asha", Email: "asha@example.com", Phone: "555"},
		Date:       date,
		Time:       timeSlot,
	}
}

func TestScheduleViewingGuest(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)

	appt, err := env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-01", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.Nil(t, appt.UserID)
	require.NotNil(t, appt.Guest)

	env.svc.Flush()
	mails := env.notifier.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "asha@example.com", mails[0].To)
	assert.Equal(t, TemplateScheduled, mails[0].Template)
	assert.Equal(t, p.Title, mails[0].Data["property"])
}

func TestScheduleViewingUnknownProperty(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ScheduleViewing(context.Background(), guestReq(primitive.NewObjectID(), "2024-06-01", "10:00"))
	kind, _ := KindOf(err)
	assert.Equal(t, KindNotFound, kind)
}

func TestScheduleViewingValidation(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)

	req := guestReq(p.ID, "", "10:00")
	_, err := env.svc.ScheduleViewing(context.Background(), req)
	kind, _ := KindOf(err)
	assert.Equal(t, KindValidation, kind)

	req = ScheduleRequest{PropertyID: p.ID, Date: "2024-06-01", Time: "10:00"}
	_, err = env.svc.ScheduleViewing(context.Background(), req)
	kind, _ = KindOf(err)
	assert.Equal(t, KindValidation, kind, "no user and no guest contact")
}

func TestScheduleViewingSlotConflict(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)

	first, err := env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-01", "10:00"))
	require.NoError(t, err)

	_, err = env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-01", "10:00"))
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindConflict, kind)

	// A different slot on the same property is fine.
	_, err = env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-01", "11:00"))
	require.NoError(t, err)

	// Cancelling the first frees its slot for rebooking.
	admin := Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	require.NoError(t, env.svc.CancelAppointment(context.Background(), admin, first.ID, "owner unavailable"))

	_, err = env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-01", "10:00"))
	require.NoError(t, err)
}

func TestScheduleViewingAuthenticatedUser(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)
	booker := env.addUser("booker@example.com")

	id := booker.ID
	appt, err := env.svc.ScheduleViewing(context.Background(), ScheduleRequest{
		PropertyID: p.ID, UserID: &id, Date: "2024-06-02", Time: "09:00",
	})
	require.NoError(t, err)
	require.NotNil(t, appt.UserID)
	assert.Nil(t, appt.Guest)

	env.svc.Flush()
	mails := env.notifier.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "booker@example.com", mails[0].To, "notification resolves the booking user's email")
}

func TestCancelAppointmentAuthorization(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)
	booker := env.addUser("booker@example.com")

	id := booker.ID
	appt, err := env.svc.ScheduleViewing(context.Background(), ScheduleRequest{
		PropertyID: p.ID, UserID: &id, Date: "2024-06-02", Time: "09:00",
	})
	require.NoError(t, err)

	stranger := env.addUser("stranger@example.com")
	err = env.svc.CancelAppointment(context.Background(), stranger, appt.ID, "nope")
	kind, _ := KindOf(err)
	assert.Equal(t, KindAuthorization, kind)

	require.NoError(t, env.svc.CancelAppointment(context.Background(), booker, appt.ID, "can't make it"))
	got, err := env.appointments.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, got.Status)
	assert.Equal(t, "can't make it", got.CancelReason)

	env.svc.Flush()
	mails := env.notifier.mails()
	require.NotEmpty(t, mails)
	assert.Equal(t, TemplateCancelled, mails[len(mails)-1].Template)
}

func TestSubmitFeedbackForcesCompleted(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)
	booker := env.addUser("booker@example.com")

	id := booker.ID
	appt, err := env.svc.ScheduleViewing(context.Background(), ScheduleRequest{
		PropertyID: p.ID, UserID: &id, Date: "2024-06-02", Time: "09:00",
	})
	require.NoError(t, err)

	// Not even an admin can leave feedback on someone else's booking.
	admin := Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	err = env.svc.SubmitFeedback(context.Background(), admin, appt.ID, 5, "great")
	kind, _ := KindOf(err)
	assert.Equal(t, KindAuthorization, kind)

	// Feedback lands even while the appointment is still pending and
	// jumps it straight to completed.
	require.NoError(t, env.svc.SubmitFeedback(context.Background(), booker, appt.ID, 4, "nice place"))
	got, err := env.appointments.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, got.Status)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, 4, got.Feedback.Rating)
}

func TestUpdateMeetingLinkUsesConfirmedTemplate(t *testing.T) {
	env := newTestEnv()
	p := env.addApprovedProperty(t)

	appt, err := env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-03", "14:00"))
	require.NoError(t, err)
	env.svc.Flush()

	require.NoError(t, env.svc.UpdateMeetingLink(context.Background(), appt.ID, "https://meet.example.com/xyz"))
	env.svc.Flush()

	got, err := env.appointments.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/xyz", got.MeetingLink)
	assert.Equal(t, models.AppointmentPending, got.Status, "setting a link does not change status")

	mails := env.notifier.mails()
	require.Len(t, mails, 2)
	assert.Equal(t, TemplateConfirmed, mails[1].Template,
		"meeting-link mail always uses the confirmed template")
	assert.Equal(t, "https://meet.example.com/xyz", mails[1].Data["meetingLink"])
}

func TestNotifierFailureDoesNotFailOperation(t *testing.T) {
	env := newTestEnv()
	env.notifier.err = errBoom
	p := env.addApprovedProperty(t)

	appt, err := env.svc.ScheduleViewing(context.Background(), guestReq(p.ID, "2024-06-01", "10:00"))
	require.NoError(t, err, "mail failure never surfaces to the booking caller")
	env.svc.Flush()

	got, err := env.appointments.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, got.Status)
}
