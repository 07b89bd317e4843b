package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garoto002/siku-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	res, err := s.collection(UserCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}

	var user models.User
	err := s.collection(UserCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection(UserCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

func (s *Store) SetPushToken(ctx context.Context, userID bson.ObjectID, token string) error {
	_, err := s.collection(UserCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"expo_push_token": token, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error registering push token: %w", err)
	}
	return nil
}

func (s *Store) UpdateAlertSettings(ctx context.Context, userID bson.ObjectID, settings models.AlertSettings) error {
	_, err := s.collection(UserCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"alerts_settings": settings, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error updating alert settings: %w", err)
	}
	return nil
}

// ListAlertEnabledUserIDs returns ids of every user whose alert settings
// are not explicitly disabled. Users without settings count as enabled.
func (s *Store) ListAlertEnabledUserIDs(ctx context.Context) ([]bson.ObjectID, error) {
	filter := bson.M{"alerts_settings.enabled": bson.M{"$ne": false}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := s.collection(UserCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing alert-enabled users: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []bson.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID bson.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding user id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return ids, nil
}
