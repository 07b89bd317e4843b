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

// categoryKey groups by the category ObjectID rendered as hex, with
// missing/null categories collapsing into the sentinel bucket.
var categoryKey = bson.M{"$ifNull": bson.A{bson.M{"$toString": "$category"}, models.UncategorizedKey}}

// CategoryWindowSums aggregates per-category expense totals inside a
// window. The window is closed on both ends when closedUpper is true
// (current window) and half-open on its upper bound otherwise (previous
// window).
func (s *Store) CategoryWindowSums(ctx context.Context, userID bson.ObjectID, from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
	upperOp := "$lt"
	if closedUpper {
		upperOp = "$lte"
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user": userID,
			"date": bson.M{"$gte": from, upperOp: to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   categoryKey,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := s.collection(ExpenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating category sums: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []models.CategoryTotal
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("error decoding category sums: %w", err)
	}
	return totals, nil
}

// WindowStats computes the global average and population standard
// deviation of expense amounts inside [from, to].
func (s *Store) WindowStats(ctx context.Context, userID bson.ObjectID, from, to time.Time) (models.WindowStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user": userID,
			"date": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$amount"},
			"std":   bson.M{"$stdDevPop": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.collection(ExpenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return models.WindowStats{}, fmt.Errorf("error aggregating window stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.WindowStats
	if err := cursor.All(ctx, &rows); err != nil {
		return models.WindowStats{}, fmt.Errorf("error decoding window stats: %w", err)
	}
	if len(rows) == 0 {
		return models.WindowStats{}, nil
	}
	return rows[0], nil
}

// LifetimeAverage returns the average expense amount across the user's
// whole history, 0 when no expenses exist.
func (s *Store) LifetimeAverage(ctx context.Context, userID bson.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$amount"},
		}}},
	}

	cursor, err := s.collection(ExpenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error aggregating lifetime average: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("error decoding lifetime average: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

// MonthlyCategoryBuckets buckets expenses of the trailing three calendar
// months by (category, "YYYY-MM") and reports, per category, the number of
// distinct month buckets and the average bucket sum.
func (s *Store) MonthlyCategoryBuckets(ctx context.Context, userID bson.ObjectID, now time.Time) ([]models.CategoryMonthly, error) {
	threeMonthsAgo := now.AddDate(0, -3, 0)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user": userID,
			"date": bson.M{"$gte": threeMonthsAgo, "$lte": now},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"category": categoryKey,
				"month":    bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$date"}},
			},
			"total": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$_id.category",
			"months": bson.M{"$sum": 1},
			"avg":    bson.M{"$avg": "$total"},
		}}},
	}

	cursor, err := s.collection(ExpenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating monthly buckets: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.CategoryMonthly
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding monthly buckets: %w", err)
	}
	return rows, nil
}

// ExpensesOver lists current-window expenses above the threshold, newest
// first, capped at limit. The comparison includes the threshold itself
// when inclusive is true (large transactions) and is strict otherwise
// (anomalies, so a zero-variance window does not flag every expense).
func (s *Store) ExpensesOver(ctx context.Context, userID bson.ObjectID, from, to time.Time, threshold float64, inclusive bool, limit int64) ([]models.Expense, error) {
	amountOp := "$gt"
	if inclusive {
		amountOp = "$gte"
	}
	filter := bson.M{
		"user":   userID,
		"date":   bson.M{"$gte": from, "$lte": to},
		"amount": bson.M{amountOp: threshold},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection(ExpenseCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching expenses over threshold: %w", err)
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("error decoding expenses: %w", err)
	}
	return expenses, nil
}

// UpcomingGoals lists goals that are not done and start on or before the
// given calendar date ("2006-01-02" string compare, matching how goal
// dates are stored).
func (s *Store) UpcomingGoals(ctx context.Context, userID bson.ObjectID, startBefore string) ([]models.Goal, error) {
	filter := bson.M{
		"user":       userID,
		"status":     bson.M{"$ne": models.GoalDone},
		"start_date": bson.M{"$lte": startBefore},
	}

	cursor, err := s.collection(GoalCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching upcoming goals: %w", err)
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("error decoding goals: %w", err)
	}
	return goals, nil
}
