package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// AppointmentStore persists viewing appointments. It implements
// workflow.AppointmentStore. Slot uniqueness is carried by the partial
// unique index created in EnsureIndexes, so a losing concurrent insert
// surfaces here as a duplicate-key error.
type AppointmentStore struct {
	coll *mongo.Collection
}

func NewAppointmentStore(coll *mongo.Collection) *AppointmentStore {
	return &AppointmentStore{coll: coll}
}

func (s *AppointmentStore) Insert(ctx context.Context, a *models.Appointment) error {
	a.ID = primitive.NewObjectID()
	_, err := s.coll.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return workflow.ErrSlotTaken
	}
	return err
}

func (s *AppointmentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *AppointmentStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return s.set(ctx, id, bson.M{"status": status})
}

func (s *AppointmentStore) Cancel(ctx context.Context, id primitive.ObjectID, reason string) error {
	return s.set(ctx, id, bson.M{"status": models.AppointmentCancelled, "cancelReason": reason})
}

func (s *AppointmentStore) SetMeetingLink(ctx context.Context, id primitive.ObjectID, link string) error {
	return s.set(ctx, id, bson.M{"meetingLink": link})
}

// SetFeedback stores the rating and forces the appointment to completed
// in the same write.
func (s *AppointmentStore) SetFeedback(ctx context.Context, id primitive.ObjectID, fb models.Feedback) error {
	return s.set(ctx, id, bson.M{"feedback": fb, "status": models.AppointmentCompleted})
}

func (s *AppointmentStore) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (s *AppointmentStore) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *AppointmentStore) List(ctx context.Context) ([]models.Appointment, error) {
	return s.find(ctx, bson.M{})
}

func (s *AppointmentStore) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *AppointmentStore) CountsByStatus(ctx context.Context) (map[string]int64, error) {
	return countsByStatus(ctx, s.coll)
}
