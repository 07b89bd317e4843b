package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Area is a top-level user-defined grouping for transactions.
type Area struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Name      string        `bson:"name" json:"name"`
	Color     string        `bson:"color,omitempty" json:"color,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// Category is a sub-grouping within an Area.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Area      bson.ObjectID `bson:"area" json:"area"`
	Name      string        `bson:"name" json:"name"`
	Color     string        `bson:"color,omitempty" json:"color,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
