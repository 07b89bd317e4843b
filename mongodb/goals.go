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

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) error {
	goal.CreatedAt = time.Now()
	if goal.Status == "" {
		goal.Status = models.GoalPending
	}
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	}

	res, err := s.collection(GoalCollection).InsertOne(ctx, goal)
	if err != nil {
		return fmt.Errorf("error creating goal: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		goal.ID = id
	}
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID bson.ObjectID) ([]models.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := s.collection(GoalCollection).Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching goals: %w", err)
	}
	defer cursor.Close(ctx)

	goals := []models.Goal{}
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("error decoding goals: %w", err)
	}
	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id bson.ObjectID, updates bson.M) (*models.Goal, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var goal models.Goal
	err := s.collection(GoalCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": updates},
		opts,
	).Decode(&goal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating goal: %w", err)
	}
	return &goal, nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(GoalCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountGoalsByStatus returns (total, done) goal counts for the insights
// report.
func (s *Store) CountGoalsByStatus(ctx context.Context, userID bson.ObjectID) (int64, int64, error) {
	coll := s.collection(GoalCollection)
	total, err := coll.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, 0, fmt.Errorf("error counting goals: %w", err)
	}
	done, err := coll.CountDocuments(ctx, bson.M{"user": userID, "status": models.GoalDone})
	if err != nil {
		return 0, 0, fmt.Errorf("error counting done goals: %w", err)
	}
	return total, done, nil
}
