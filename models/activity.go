package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "pending"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityDone       ActivityStatus = "done"
	ActivityCancelled  ActivityStatus = "cancelled"
)

// DefaultActivityCategory groups activities created without one.
const DefaultActivityCategory = "general"

// Reminder is one scheduled nudge attached to an activity.
type Reminder struct {
	Type          string `bson:"type" json:"type"`
	MinutesBefore int    `bson:"minutes_before" json:"minutes_before"`
	Active        bool   `bson:"active" json:"active"`
}

// Activity is a dated productivity item: a scheduled task with optional
// start/end times ("HH:MM" strings), a free-form category label, and
// reminders. Unlike expenses, activity categories are plain strings rather
// than Category references.
type Activity struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	User        bson.ObjectID  `bson:"user" json:"user"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Date        time.Time      `bson:"date" json:"date"`
	StartTime   string         `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     string         `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Priority    GoalPriority   `bson:"priority" json:"priority"`
	Status      ActivityStatus `bson:"status" json:"status"`
	Category    string         `bson:"category" json:"category"`
	Reminders   []Reminder     `bson:"reminders" json:"reminders"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`
}

// Overdue reports whether the activity's date has passed without it being
// finished or cancelled.
func (a Activity) Overdue(now time.Time) bool {
	return a.Status != ActivityDone && a.Status != ActivityCancelled && a.Date.Before(now)
}

// ActivityStats is the aggregate served by the activity stats endpoint.
type ActivityStats struct {
	Total          int64            `json:"total"`
	Done           int64            `json:"done"`
	Pending        int64            `json:"pending"`
	InProgress     int64            `json:"in_progress"`
	Overdue        int64            `json:"overdue"`
	CompletionRate float64          `json:"completion_rate"`
	ByPriority     []LabelCount     `json:"by_priority"`
	ByCategory     []LabelCount     `json:"by_category"`
}

// LabelCount is one row of a count-by-label aggregation.
type LabelCount struct {
	Label string `bson:"_id" json:"label"`
	Count int64  `bson:"count" json:"count"`
}
