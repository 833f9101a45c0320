package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/models"
)

// EnsureIndexes creates the indexes the workflow depends on. Safe to run
// repeatedly; Mongo treats matching existing indexes as a no-op.
//
// The partial unique index on appointments is the slot-uniqueness
// constraint: at most one non-cancelled appointment per
// (propertyId, date, time). The $in partial filter needs MongoDB 6.0+.
func EnsureIndexes(ctx context.Context, users, properties, appointments *mongo.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = properties.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = appointments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "propertyId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": bson.A{
					models.AppointmentPending,
					models.AppointmentConfirmed,
					models.AppointmentCompleted,
				}},
			}),
	})
	return err
}
