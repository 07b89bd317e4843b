package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type GoalStatus string

const (
	GoalPending    GoalStatus = "pending"
	GoalInProgress GoalStatus = "in_progress"
	GoalDone       GoalStatus = "done"
)

type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Goal start and end dates are calendar-date strings ("2006-01-02"), not
// timestamps. The goal-reminder detector compares them lexicographically.
type Goal struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User        bson.ObjectID `bson:"user" json:"user"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   string        `bson:"start_date" json:"start_date"`
	EndDate     string        `bson:"end_date" json:"end_date"`
	Status      GoalStatus    `bson:"status" json:"status"`
	Priority    GoalPriority  `bson:"priority" json:"priority"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}
