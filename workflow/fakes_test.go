package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
	plans map[primitive.ObjectID]*models.Plan

	consumeErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[primitive.ObjectID]*models.User),
		plans: make(map[primitive.ObjectID]*models.Plan),
	}
}

func (f *fakeUserStore) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeUserStore) ConsumeListing(ctx context.Context, userID primitive.ObjectID, limit int) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	u, ok := f.users[userID]
	if !ok || u.Subscription == nil {
		return ErrLimitReached
	}
	if u.Subscription.UsedListings >= limit {
		return ErrLimitReached
	}
	u.Subscription.UsedListings++
	return nil
}

func (f *fakeUserStore) ReleaseListing(ctx context.Context, userID primitive.ObjectID) error {
	if u, ok := f.users[userID]; ok && u.Subscription != nil && u.Subscription.UsedListings > 0 {
		u.Subscription.UsedListings--
	}
	return nil
}

type fakePropertyStore struct {
	byID map[primitive.ObjectID]*models.Property

	insertErr  error
	lastUpdate map[string]interface{}
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{byID: make(map[primitive.ObjectID]*models.Property)}
}

func (f *fakePropertyStore) Insert(ctx context.Context, p *models.Property) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	p.ID = primitive.NewObjectID()
	f.byID[p.ID] = p
	return nil
}

func (f *fakePropertyStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePropertyStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	p, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	f.lastUpdate = fields
	if v, ok := fields["title"].(string); ok {
		p.Title = v
	}
	if v, ok := fields["availability"].(string); ok {
		p.Availability = v
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := fields["status"].(string); ok {
		p.Status = v
	}
	if v, ok := fields["isFeatured"].(bool); ok {
		p.IsFeatured = v
	}
	return nil
}

func (f *fakePropertyStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	p, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakePropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeAppointmentStore struct {
	byID map[primitive.ObjectID]*models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{byID: make(map[primitive.ObjectID]*models.Appointment)}
}

func (f *fakeAppointmentStore) Insert(ctx context.Context, a *models.Appointment) error {
	for _, existing := range f.byID {
		if existing.PropertyID == a.PropertyID &&
			existing.Date == a.Date && existing.Time == a.Time &&
			existing.Status != models.AppointmentCancelled {
			return ErrSlotTaken
		}
	}
	a.ID = primitive.NewObjectID()
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAppointmentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAppointmentStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAppointmentStore) Cancel(ctx context.Context, id primitive.ObjectID, reason string) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = models.AppointmentCancelled
	a.CancelReason = reason
	return nil
}

func (f *fakeAppointmentStore) SetMeetingLink(ctx context.Context, id primitive.ObjectID, link string) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.MeetingLink = link
	return nil
}

func (f *fakeAppointmentStore) SetFeedback(ctx context.Context, id primitive.ObjectID, fb models.Feedback) error {
	a, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Feedback = &fb
	a.Status = models.AppointmentCompleted
	return nil
}

type fakeImageStore struct {
	uploads int
	err     error
}

func (f *fakeImageStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return "https://img.test/" + filename, nil
}

type sentMail struct {
	To       string
	Template string
	Data     map[string]string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) Send(toEmail, template string, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: toEmail, Template: template, Data: data})
	return f.err
}

func (f *fakeNotifier) mails() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMail, len(f.sent))
	copy(out, f.sent)
	return out
}

type testEnv struct {
	svc          *Service
	users        *fakeUserStore
	properties   *fakePropertyStore
	appointments *fakeAppointmentStore
	images       *fakeImageStore
	notifier     *fakeNotifier
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:        newFakeUserStore(),
		properties:   newFakePropertyStore(),
		appointments: newFakeAppointmentStore(),
		images:       &fakeImageStore{},
		notifier:     &fakeNotifier{},
	}
	env.svc = NewService(env.users, env.properties, env.appointments, env.images, env.notifier)
	return env
}

// addSubscribedUser registers a user on a fresh plan and returns the
// user's actor identity.
func (e *testEnv) addSubscribedUser(limit, used int, expiry time.Time) Actor {
	planID := primitive.NewObjectID()
	e.users.plans[planID] = &models.Plan{
		ID: planID, Name: "Test", ListingLimit: limit, DurationDays: 30,
	}
	userID := primitive.NewObjectID()
	e.users.users[userID] = &models.User{
		ID:    userID,
		Email: "owner@example.com",
		Role:  models.RoleUser,
		Subscription: &models.Subscription{
			PlanID:       planID,
			StartDate:    expiry.AddDate(0, 0, -30),
			ExpiryDate:   expiry,
			UsedListings: used,
		},
	}
	return Actor{ID: userID, Role: models.RoleUser}
}

func (e *testEnv) addUser(email string) Actor {
	userID := primitive.NewObjectID()
	e.users.users[userID] = &models.User{ID: userID, Email: email, Role: models.RoleUser}
	return Actor{ID: userID, Role: models.RoleUser}
}

func validInput() PropertyInput {
	return PropertyInput{
		Title:        "Sunny two-bed flat",
		Location:     "Kathmandu",
		Price:        "45000",
		Beds:         "2",
		Baths:        "1",
		Sqft:         "900",
		Type:         "Apartment",
		Availability: "rent",
		Phone:        "+977-1-5550000",
		Amenities:    []string{"Parking", "Balcony"},
	}
}

func oneImage() []ImageUpload {
	return []ImageUpload{{Data: []byte("jpegdata"), Filename: "front.jpg"}}
}

var errBoom = errors.New("boom")
