package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AlertKind string

const (
	AlertSpendingIncrease AlertKind = "spending_increase"
	AlertLargeTransaction AlertKind = "large_transaction"
	AlertRecurringExpense AlertKind = "recurring_expense"
	AlertGoalReminder     AlertKind = "goal_reminder"
	AlertAnomalies        AlertKind = "anomalies"
	AlertCustom           AlertKind = "custom"
)

// AllAlertKinds lists the kinds the detection engine can emit, in the
// order their detectors run.
var AllAlertKinds = []AlertKind{
	AlertSpendingIncrease,
	AlertLargeTransaction,
	AlertRecurringExpense,
	AlertGoalReminder,
	AlertAnomalies,
}

type Alert struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Kind      AlertKind     `bson:"kind" json:"kind"`
	Title     string        `bson:"title" json:"title"`
	Message   string        `bson:"message" json:"message"`
	Read      bool          `bson:"read" json:"read"`
	Meta      bson.M        `bson:"meta,omitempty" json:"meta,omitempty"`
	DedupKey  string        `bson:"dedup_key,omitempty" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// AlertMeta is the typed payload attached to an alert. Each kind carries a
// fixed shape; Document flattens it into the free-form meta stored on the
// alert document, and DedupKey identifies the triggering entity so repeated
// runs can optionally be suppressed.
type AlertMeta interface {
	Kind() AlertKind
	DedupKey() string
	Document() bson.M
}

type SpendingIncreaseMeta struct {
	Category string  `json:"category"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Percent  int     `json:"percent"`
}

func (m SpendingIncreaseMeta) Kind() AlertKind { return AlertSpendingIncrease }
func (m SpendingIncreaseMeta) DedupKey() string {
	return string(AlertSpendingIncrease) + ":" + m.Category
}
func (m SpendingIncreaseMeta) Document() bson.M {
	return bson.M{"category": m.Category, "current": m.Current, "previous": m.Previous, "percent": m.Percent}
}

type LargeTransactionMeta struct {
	ExpenseID string  `json:"expense_id"`
	Amount    float64 `json:"amount"`
}

func (m LargeTransactionMeta) Kind() AlertKind { return AlertLargeTransaction }
func (m LargeTransactionMeta) DedupKey() string {
	return string(AlertLargeTransaction) + ":" + m.ExpenseID
}
func (m LargeTransactionMeta) Document() bson.M {
	return bson.M{"expense_id": m.ExpenseID, "amount": m.Amount}
}

type RecurringExpenseMeta struct {
	Category   string  `json:"category"`
	MonthlyAvg float64 `json:"monthly_avg"`
}

func (m RecurringExpenseMeta) Kind() AlertKind { return AlertRecurringExpense }
func (m RecurringExpenseMeta) DedupKey() string {
	return string(AlertRecurringExpense) + ":" + m.Category
}
func (m RecurringExpenseMeta) Document() bson.M {
	return bson.M{"category": m.Category, "monthly_avg": m.MonthlyAvg}
}

type GoalReminderMeta struct {
	GoalID string `json:"goal_id"`
}

func (m GoalReminderMeta) Kind() AlertKind  { return AlertGoalReminder }
func (m GoalReminderMeta) DedupKey() string { return string(AlertGoalReminder) + ":" + m.GoalID }
func (m GoalReminderMeta) Document() bson.M {
	return bson.M{"goal_id": m.GoalID}
}

type AnomalyMeta struct {
	ExpenseID string  `json:"expense_id"`
	Amount    float64 `json:"amount"`
	WindowAvg float64 `json:"window_avg"`
}

func (m AnomalyMeta) Kind() AlertKind  { return AlertAnomalies }
func (m AnomalyMeta) DedupKey() string { return string(AlertAnomalies) + ":" + m.ExpenseID }
func (m AnomalyMeta) Document() bson.M {
	return bson.M{"expense_id": m.ExpenseID, "amount": m.Amount, "window_avg": m.WindowAvg}
}
