package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// Minimal in-memory stores for driving the handler through the full
// workflow without Mongo.

type memPropertyStore struct {
	byID map[primitive.ObjectID]*models.Property
}

func (m *memPropertyStore) Insert(ctx context.Context, p *models.Property) error {
	p.ID = primitive.NewObjectID()
	m.byID[p.ID] = p
	return nil
}

func (m *memPropertyStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return p, nil
}

func (m *memPropertyStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	return nil
}

func (m *memPropertyStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return nil
}

func (m *memPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

type memAppointmentStore struct {
	byID map[primitive.ObjectID]*models.Appointment
}

func (m *memAppointmentStore) Insert(ctx context.Context, a *models.Appointment) error {
	for _, existing := range m.byID {
		if existing.PropertyID == a.PropertyID && existing.Date == a.Date &&
			existing.Time == a.Time && existing.Status != models.AppointmentCancelled {
			return workflow.ErrSlotTaken
		}
	}
	a.ID = primitive.NewObjectID()
	m.byID[a.ID] = a
	return nil
}

func (m *memAppointmentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return a, nil
}

func (m *memAppointmentStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return nil
}

func (m *memAppointmentStore) Cancel(ctx context.Context, id primitive.ObjectID, reason string) error {
	return nil
}

func (m *memAppointmentStore) SetMeetingLink(ctx context.Context, id primitive.ObjectID, link string) error {
	return nil
}

func (m *memAppointmentStore) SetFeedback(ctx context.Context, id primitive.ObjectID, fb models.Feedback) error {
	return nil
}

func TestScheduleAppointmentHandler(t *testing.T) {
	properties := &memPropertyStore{byID: make(map[primitive.ObjectID]*models.Property)}
	appointments := &memAppointmentStore{byID: make(map[primitive.ObjectID]*models.Appointment)}

	property := &models.Property{Title: "Test flat", Status: models.PropertyApproved}
	require.NoError(t, properties.Insert(context.Background(), property))

	svc := workflow.NewService(nil, properties, appointments, nil, nil)
	handler := ScheduleAppointment(svc)

	book := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{
			"propertyId": property.ID.Hex(),
			"date":       "2024-06-01",
			"time":       "10:00",
			"guestInfo":  map[string]string{"name": "Asha", "email": "asha@example.com", "phone": "555"},
		})
		r := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler(w, r)
		return w
	}

	w := book()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.AppointmentPending, created.Status)
	require.NotNil(t, created.Guest)

	// Same slot again: the conflict surfaces as a 400.
	w = book()
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slot already booked")
}

func TestScheduleAppointmentHandlerBadProperty(t *testing.T) {
	svc := workflow.NewService(nil, &memPropertyStore{byID: map[primitive.ObjectID]*models.Property{}},
		&memAppointmentStore{byID: map[primitive.ObjectID]*models.Appointment{}}, nil, nil)
	handler := ScheduleAppointment(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"propertyId": primitive.NewObjectID().Hex(),
		"date":       "2024-06-01",
		"time":       "10:00",
		"guestInfo":  map[string]string{"name": "Asha", "email": "asha@example.com"},
	})
	r := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
