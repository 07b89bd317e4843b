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

// ActivityFilter narrows activity listings; zero values mean "no filter".
// Categories with more than one entry turn into an $in match.
type ActivityFilter struct {
	Status     string
	Priority   string
	Categories []string
	From       time.Time
	To         time.Time
	Page       int64
	Limit      int64
}

func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) error {
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt

	res, err := s.collection(ActivityCollection).InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("error creating activity: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		activity.ID = id
	}
	return nil
}

func (s *Store) ListActivities(ctx context.Context, userID bson.ObjectID, filter ActivityFilter) ([]models.Activity, int64, error) {
	coll := s.collection(ActivityCollection)
	query := bson.M{"user": userID}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	switch len(filter.Categories) {
	case 0:
	case 1:
		query["category"] = filter.Categories[0]
	default:
		query["category"] = bson.M{"$in": filter.Categories}
	}
	if !filter.From.IsZero() || !filter.To.IsZero() {
		dateRange := bson.M{}
		if !filter.From.IsZero() {
			dateRange["$gte"] = filter.From
		}
		if !filter.To.IsZero() {
			dateRange["$lte"] = filter.To
		}
		query["date"] = dateRange
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	// Upcoming first, newest created first within a day.
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error fetching activities: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, 0, fmt.Errorf("error decoding activities: %w", err)
	}

	count, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting activities: %w", err)
	}
	return activities, count, nil
}

func (s *Store) GetActivity(ctx context.Context, userID, id bson.ObjectID) (*models.Activity, error) {
	var activity models.Activity
	err := s.collection(ActivityCollection).FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching activity: %w", err)
	}
	return &activity, nil
}

func (s *Store) UpdateActivity(ctx context.Context, userID, id bson.ObjectID, updates bson.M) (*models.Activity, error) {
	updates["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var activity models.Activity
	err := s.collection(ActivityCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": updates},
		opts,
	).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating activity: %w", err)
	}
	return &activity, nil
}

func (s *Store) DeleteActivity(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(ActivityCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting activity: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivityStats aggregates one user's activities: status counts, overdue
// (past date, not done or cancelled), completion rate, and counts by
// priority and category.
func (s *Store) ActivityStats(ctx context.Context, userID bson.ObjectID, now time.Time) (*models.ActivityStats, error) {
	coll := s.collection(ActivityCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"done": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.ActivityDone}}, 1, 0},
			}},
			"pending": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.ActivityPending}}, 1, 0},
			}},
			"in_progress": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.ActivityInProgress}}, 1, 0},
			}},
			"overdue": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$and": bson.A{
					bson.M{"$ne": bson.A{"$status", models.ActivityDone}},
					bson.M{"$ne": bson.A{"$status", models.ActivityCancelled}},
					bson.M{"$lt": bson.A{"$date", now}},
				}}, 1, 0},
			}},
		}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating activity stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total      int64 `bson:"total"`
		Done       int64 `bson:"done"`
		Pending    int64 `bson:"pending"`
		InProgress int64 `bson:"in_progress"`
		Overdue    int64 `bson:"overdue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding activity stats: %w", err)
	}

	stats := &models.ActivityStats{ByPriority: []models.LabelCount{}, ByCategory: []models.LabelCount{}}
	if len(rows) > 0 {
		stats.Total = rows[0].Total
		stats.Done = rows[0].Done
		stats.Pending = rows[0].Pending
		stats.InProgress = rows[0].InProgress
		stats.Overdue = rows[0].Overdue
		if stats.Total > 0 {
			stats.CompletionRate = float64(stats.Done) / float64(stats.Total) * 100
		}
	}

	byPriority, err := s.countActivitiesBy(ctx, userID, "$priority")
	if err != nil {
		return nil, err
	}
	stats.ByPriority = byPriority

	byCategory, err := s.countActivitiesBy(ctx, userID, "$category")
	if err != nil {
		return nil, err
	}
	stats.ByCategory = byCategory

	return stats, nil
}

func (s *Store) countActivitiesBy(ctx context.Context, userID bson.ObjectID, field string) ([]models.LabelCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := s.collection(ActivityCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error counting activities by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	counts := []models.LabelCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("error decoding activity counts: %w", err)
	}
	return counts, nil
}
