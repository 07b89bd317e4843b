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

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	if project.Status == "" {
		project.Status = models.ProjectActive
	}

	res, err := s.collection(ProjectCollection).InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		project.ID = id
	}
	return nil
}

func (s *Store) ListProjects(ctx context.Context, userID bson.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection(ProjectCollection).Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("error decoding projects: %w", err)
	}
	return projects, nil
}

func (s *Store) UpdateProject(ctx context.Context, userID, id bson.ObjectID, updates bson.M) (*models.Project, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project models.Project
	err := s.collection(ProjectCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": updates},
		opts,
	).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating project: %w", err)
	}
	return &project, nil
}

func (s *Store) DeleteProject(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(ProjectCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
