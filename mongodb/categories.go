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

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	res, err := s.collection(CategoryCollection).InsertOne(ctx, category)
	if err != nil {
		return fmt.Errorf("error creating category: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		category.ID = id
	}
	return nil
}

// ListCategories returns the user's categories, optionally narrowed to one
// area.
func (s *Store) ListCategories(ctx context.Context, userID bson.ObjectID, areaID *bson.ObjectID) ([]models.Category, error) {
	filter := bson.M{"user": userID}
	if areaID != nil {
		filter["area"] = *areaID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection(CategoryCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("error decoding categories: %w", err)
	}
	return categories, nil
}

func (s *Store) UpdateCategory(ctx context.Context, userID, id bson.ObjectID, updates bson.M) (*models.Category, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var category models.Category
	err := s.collection(CategoryCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": updates},
		opts,
	).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating category: %w", err)
	}
	return &category, nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(CategoryCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
