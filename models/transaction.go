package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Expense is a dated, valued outgoing transaction owned by exactly one
// user. Amounts are raw decimal values in a single currency.
type Expense struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User        bson.ObjectID `bson:"user" json:"user"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64       `bson:"amount" json:"amount"`
	Date        time.Time     `bson:"date" json:"date"`
	Area        bson.ObjectID `bson:"area,omitempty" json:"area,omitempty"`
	Category    bson.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// Income mirrors Expense for incoming transactions.
type Income struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User        bson.ObjectID `bson:"user" json:"user"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64       `bson:"amount" json:"amount"`
	Date        time.Time     `bson:"date" json:"date"`
	Area        bson.ObjectID `bson:"area,omitempty" json:"area,omitempty"`
	Category    bson.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}
