package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// PlanStore persists subscription plans. Admin-managed only.
type PlanStore struct {
	coll *mongo.Collection
}

func NewPlanStore(coll *mongo.Collection) *PlanStore {
	return &PlanStore{coll: coll}
}

func (s *PlanStore) Insert(ctx context.Context, plan *models.Plan) error {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	_, err := s.coll.InsertOne(ctx, plan)
	return err
}

func (s *PlanStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Plan, error) {
	var plan models.Plan
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *PlanStore) List(ctx context.Context) ([]models.Plan, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []models.Plan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *PlanStore) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (s *PlanStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

// SeedDefaults inserts the starter plan set when the collection is
// empty. Used by bhumictl; a second run is a no-op.
func (s *PlanStore) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	defaults := []models.Plan{
		{Name: "Basic", Price: 0, ListingLimit: 2, FeaturedLimit: 0, DurationDays: 30, Description: "Free tier, two listings a month"},
		{Name: "Standard", Price: 999, ListingLimit: 10, FeaturedLimit: 2, DurationDays: 30, Description: "Ten listings with two featured slots"},
		{Name: "Premium", Price: 2499, ListingLimit: 50, FeaturedLimit: 10, DurationDays: 30, Description: "For agencies"},
	}
	for i := range defaults {
		if err := s.Insert(ctx, &defaults[i]); err != nil {
			return i, err
		}
	}
	return len(defaults), nil
}
