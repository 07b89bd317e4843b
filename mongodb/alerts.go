package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/garoto002/siku-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Store) InsertAlert(ctx context.Context, alert *models.Alert) error {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	res, err := s.collection(AlertCollection).InsertOne(ctx, alert)
	if err != nil {
		return fmt.Errorf("error creating alert: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		alert.ID = id
	}
	return nil
}

// ListAlerts returns the caller's alerts newest first along with the total
// count for pagination.
func (s *Store) ListAlerts(ctx context.Context, userID bson.ObjectID, limit, skip int64) ([]models.Alert, int64, error) {
	coll := s.collection(AlertCollection)
	filter := bson.M{"user": userID}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error fetching alerts: %w", err)
	}
	defer cursor.Close(ctx)

	alerts := []models.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, 0, fmt.Errorf("error decoding alerts: %w", err)
	}

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting alerts: %w", err)
	}
	return alerts, count, nil
}

func (s *Store) MarkAlertRead(ctx context.Context, userID, alertID bson.ObjectID) (*models.Alert, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var alert models.Alert
	err := s.collection(AlertCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": alertID, "user": userID},
		bson.M{"$set": bson.M{"read": true}},
		opts,
	).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error marking alert read: %w", err)
	}
	return &alert, nil
}

func (s *Store) DeleteAlert(ctx context.Context, userID, alertID bson.ObjectID) error {
	res, err := s.collection(AlertCollection).DeleteOne(ctx, bson.M{"_id": alertID, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting alert: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HasUnreadAlert reports whether an unread alert with the given dedup key
// already exists for the user. Only consulted when dedup is enabled.
func (s *Store) HasUnreadAlert(ctx context.Context, userID bson.ObjectID, dedupKey string) (bool, error) {
	filter := bson.M{"user": userID, "read": false, "dedup_key": dedupKey}
	count, err := s.collection(AlertCollection).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking for duplicate alert: %w", err)
	}
	return count > 0, nil
}
