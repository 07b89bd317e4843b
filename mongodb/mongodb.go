package mongodb

import (
	"context"
	"fmt"

	"github.com/garoto002/siku-backend/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	UserCollection     = "users"
	ExpenseCollection  = "expenses"
	IncomeCollection   = "incomes"
	AreaCollection     = "areas"
	CategoryCollection = "categories"
	GoalCollection     = "goals"
	ProjectCollection  = "projects"
	ActivityCollection = "activities"
	AlertCollection    = "alerts"
)

// Store wraps the Mongo client and database name. It is constructed once
// at process start and passed into everything that touches persistence.
type Store struct {
	client   *mongo.Client
	database string
}

func Connect(uri, database string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Get().Error("failed to connect to MongoDB",
			zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	logger.Get().Info("successfully connected to MongoDB",
		zap.String("database", database))
	return &Store{client: client, database: database}, nil
}

func (s *Store) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB",
			zap.Error(err))
		return
	}
	logger.Get().Info("successfully disconnected from MongoDB")
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.database).Collection(name)
}
