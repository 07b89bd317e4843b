package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectFinished ProjectStatus = "finished"
)

type Project struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User        bson.ObjectID `bson:"user" json:"user"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Status      ProjectStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}
