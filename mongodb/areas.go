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

func (s *Store) CreateArea(ctx context.Context, area *models.Area) error {
	area.CreatedAt = time.Now()
	area.UpdatedAt = area.CreatedAt

	res, err := s.collection(AreaCollection).InsertOne(ctx, area)
	if err != nil {
		return fmt.Errorf("error creating area: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		area.ID = id
	}
	return nil
}

func (s *Store) ListAreas(ctx context.Context, userID bson.ObjectID) ([]models.Area, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection(AreaCollection).Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching areas: %w", err)
	}
	defer cursor.Close(ctx)

	areas := []models.Area{}
	if err := cursor.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("error decoding areas: %w", err)
	}
	return areas, nil
}

func (s *Store) UpdateArea(ctx context.Context, userID, id bson.ObjectID, updates bson.M) (*models.Area, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var area models.Area
	err := s.collection(AreaCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": updates},
		opts,
	).Decode(&area)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating area: %w", err)
	}
	return &area, nil
}

func (s *Store) DeleteArea(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(AreaCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting area: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
