package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// UserStore persists users, their embedded subscription, and plans. It
// implements workflow.UserStore.
type UserStore struct {
	users *mongo.Collection
	plans *mongo.Collection
}

func NewUserStore(users, plans *mongo.Collection) *UserStore {
	return &UserStore{users: users, plans: plans}
}

func (s *UserStore) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	_, err := s.users.InsertOne(ctx, user)
	return err
}

func (s *UserStore) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.Plan, error) {
	var plan models.Plan
	err := s.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ConsumeListing increments usedListings only while it is below limit,
// in one conditional update. Two concurrent listing creations by the
// same user at the cap cannot both match the filter, which is what makes
// the limit safe without a transaction.
func (s *UserStore) ConsumeListing(ctx context.Context, userID primitive.ObjectID, limit int) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID, "subscription.usedListings": bson.M{"$lt": limit}},
		bson.M{"$inc": bson.M{"subscription.usedListings": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrLimitReached
	}
	return nil
}

// ReleaseListing hands one slot back after a failed insert. Guarded so
// the counter never goes negative.
func (s *UserStore) ReleaseListing(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID, "subscription.usedListings": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"subscription.usedListings": -1}},
	)
	return err
}

// SetSubscription replaces the user's subscription wholesale; any prior
// plan, expiry and counter are discarded.
func (s *UserStore) SetSubscription(ctx context.Context, userID primitive.ObjectID, sub models.Subscription) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"subscription": sub}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.users.CountDocuments(ctx, bson.M{})
}

// SubscribersByPlan groups subscribed users by plan for the dashboard.
// Keys are plan ObjectID hex strings.
func (s *UserStore) SubscribersByPlan(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"subscription": bson.M{"$exists": true}}}},
		{{Key: "$group", Value: bson.M{"_id": "$subscription.plan", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			PlanID primitive.ObjectID `bson:"_id"`
			Count  int64              `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.PlanID.Hex()] = row.Count
	}
	return counts, cursor.Err()
}

// Promote grants the admin role to the user with the given email. Used
// by the ops CLI; there is no HTTP surface for this.
func (s *UserStore) Promote(ctx context.Context, email string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}
