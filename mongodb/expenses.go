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

// ExpenseFilter narrows expense listings; zero values mean "no filter".
type ExpenseFilter struct {
	From  time.Time
	To    time.Time
	Page  int64
	Limit int64
}

func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt

	res, err := s.collection(ExpenseCollection).InsertOne(ctx, expense)
	if err != nil {
		return fmt.Errorf("error creating expense: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		expense.ID = id
	}
	return nil
}

func (s *Store) InsertExpenses(ctx context.Context, expenses []models.Expense) (int, error) {
	if len(expenses) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(expenses))
	now := time.Now()
	for i := range expenses {
		expenses[i].CreatedAt = now
		expenses[i].UpdatedAt = now
		docs[i] = expenses[i]
	}
	res, err := s.collection(ExpenseCollection).InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("error inserting expenses: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (s *Store) ListExpenses(ctx context.Context, userID bson.ObjectID, filter ExpenseFilter) ([]models.Expense, int64, error) {
	coll := s.collection(ExpenseCollection)
	query := ownerDateFilter(userID, filter.From, filter.To)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error fetching expenses: %w", err)
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, 0, fmt.Errorf("error decoding expenses: %w", err)
	}

	count, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting expenses: %w", err)
	}
	return expenses, count, nil
}

func (s *Store) GetExpense(ctx context.Context, userID, id bson.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	err := s.collection(ExpenseCollection).FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&expense)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching expense: %w", err)
	}
	return &expense, nil
}

// UpdateExpense applies the set fields and clears the unset fields, so an
// update dropping the area or category reference removes it instead of
// storing a zero ObjectID.
func (s *Store) UpdateExpense(ctx context.Context, userID, id bson.ObjectID, set, unset bson.M) (*models.Expense, error) {
	set["updated_at"] = time.Now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var expense models.Expense
	err := s.collection(ExpenseCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		update,
		opts,
	).Decode(&expense)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating expense: %w", err)
	}
	return &expense, nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(ExpenseCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpenseTotals buckets the user's expenses either by calendar period
// (daily, weekly, monthly, yearly) or by a grouping field (area,
// category). Mirrors the totals report of the original system.
func (s *Store) ExpenseTotals(ctx context.Context, userID bson.ObjectID, period, groupBy string, from, to time.Time, limit int64) ([]models.PeriodTotal, error) {
	match := ownerDateFilter(userID, from, to)
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}

	if groupBy == "" || groupBy == "none" {
		var periodKey bson.M
		switch period {
		case "weekly":
			periodKey = bson.M{"$concat": bson.A{
				bson.M{"$toString": bson.M{"$isoWeekYear": "$date"}},
				"-",
				bson.M{"$toString": bson.M{"$isoWeek": "$date"}},
			}}
		case "monthly":
			periodKey = bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$date"}}
		case "yearly":
			periodKey = bson.M{"$dateToString": bson.M{"format": "%Y", "date": "$date"}}
		default: // daily
			periodKey = bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$date"}}
		}
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{"period_key": periodKey}}},
			bson.D{{Key: "$group", Value: bson.M{"_id": "$period_key", "total": bson.M{"$sum": "$amount"}, "count": bson.M{"$sum": 1}}}},
			bson.D{{Key: "$project", Value: bson.M{"_id": 0, "key": "$_id", "total": 1, "count": 1}}},
			bson.D{{Key: "$sort", Value: bson.M{"key": 1}}},
		)
	} else {
		groupKey := bson.M{"$ifNull": bson.A{bson.M{"$toString": "$" + groupBy}, models.UncategorizedKey}}
		pipeline = append(pipeline,
			bson.D{{Key: "$group", Value: bson.M{"_id": groupKey, "total": bson.M{"$sum": "$amount"}, "count": bson.M{"$sum": 1}}}},
			bson.D{{Key: "$project", Value: bson.M{"_id": 0, "key": "$_id", "total": 1, "count": 1}}},
			bson.D{{Key: "$sort", Value: bson.M{"total": -1}}},
		)
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := s.collection(ExpenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating expense totals: %w", err)
	}
	defer cursor.Close(ctx)

	totals := []models.PeriodTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("error decoding expense totals: %w", err)
	}
	return totals, nil
}

func ownerDateFilter(userID bson.ObjectID, from, to time.Time) bson.M {
	filter := bson.M{"user": userID}
	if !from.IsZero() || !to.IsZero() {
		dateRange := bson.M{}
		if !from.IsZero() {
			dateRange["$gte"] = from
		}
		if !to.IsZero() {
			dateRange["$lte"] = to
		}
		filter["date"] = dateRange
	}
	return filter
}
