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

// PropertyStore persists listings. It implements workflow.PropertyStore.
type PropertyStore struct {
	coll *mongo.Collection
}

func NewPropertyStore(coll *mongo.Collection) *PropertyStore {
	return &PropertyStore{coll: coll}
}

func (s *PropertyStore) Insert(ctx context.Context, p *models.Property) error {
	p.ID = primitive.NewObjectID()
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *PropertyStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *PropertyStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (s *PropertyStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

func (s *PropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

// Find runs an already-built filter against the collection. The filter
// construction lives with the browse handler; this only caps the result
// size and decodes.
func (s *PropertyStore) Find(ctx context.Context, filter bson.M, limit int64) ([]models.Property, error) {
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *PropertyStore) ByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Property, error) {
	return s.Find(ctx, bson.M{"owner": owner}, 100)
}

// CountsByStatus groups the collection by status for the dashboard.
func (s *PropertyStore) CountsByStatus(ctx context.Context) (map[string]int64, error) {
	return countsByStatus(ctx, s.coll)
}

func countsByStatus(ctx context.Context, coll *mongo.Collection) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cursor.Err()
}
