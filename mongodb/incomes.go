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

func (s *Store) CreateIncome(ctx context.Context, income *models.Income) error {
	income.CreatedAt = time.Now()
	income.UpdatedAt = income.CreatedAt

	res, err := s.collection(IncomeCollection).InsertOne(ctx, income)
	if err != nil {
		return fmt.Errorf("error creating income: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		income.ID = id
	}
	return nil
}

func (s *Store) ListIncomes(ctx context.Context, userID bson.ObjectID, filter ExpenseFilter) ([]models.Income, int64, error) {
	coll := s.collection(IncomeCollection)
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
		return nil, 0, fmt.Errorf("error fetching incomes: %w", err)
	}
	defer cursor.Close(ctx)

	incomes := []models.Income{}
	if err := cursor.All(ctx, &incomes); err != nil {
		return nil, 0, fmt.Errorf("error decoding incomes: %w", err)
	}

	count, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting incomes: %w", err)
	}
	return incomes, count, nil
}

func (s *Store) UpdateIncome(ctx context.Context, userID, id bson.ObjectID, set, unset bson.M) (*models.Income, error) {
	set["updated_at"] = time.Now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var income models.Income
	err := s.collection(IncomeCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user": userID},
		update,
		opts,
	).Decode(&income)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating income: %w", err)
	}
	return &income, nil
}

func (s *Store) DeleteIncome(ctx context.Context, userID, id bson.ObjectID) error {
	res, err := s.collection(IncomeCollection).DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return fmt.Errorf("error deleting income: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncomeSum totals income amounts in [from, to].
func (s *Store) IncomeSum(ctx context.Context, userID bson.ObjectID, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: ownerDateFilter(userID, from, to)}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := s.collection(IncomeCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error aggregating income sum: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("error decoding income sum: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// ExpenseSum totals expense amounts in [from, to].
func (s *Store) ExpenseSum(ctx context.Context, userID bson.ObjectID, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: ownerDateFilter(userID, from, to)}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := s.collection(ExpenseCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error aggregating expense sum: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("error decoding expense sum: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
