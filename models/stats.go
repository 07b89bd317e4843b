package models

// UncategorizedKey is the sentinel grouping key for transactions without a
// category reference.
const UncategorizedKey = "uncategorized"

// CategoryTotal is one row of a per-category aggregation: the category's
// ObjectID hex, or UncategorizedKey.
type CategoryTotal struct {
	Category string  `bson:"_id" json:"category"`
	Total    float64 `bson:"total" json:"total"`
}

// WindowStats holds the global average and population standard deviation
// of expense amounts inside one window. Both are 0 for an empty window;
// StdDev is 0 for a singleton.
type WindowStats struct {
	Avg    float64 `bson:"avg" json:"avg"`
	StdDev float64 `bson:"std" json:"std"`
	Count  int64   `bson:"count" json:"count"`
}

// CategoryMonthly is one row of the trailing-3-month bucket aggregation:
// how many distinct "YYYY-MM" buckets the category appeared in and the
// average bucket sum.
type CategoryMonthly struct {
	Category  string  `bson:"_id" json:"category"`
	Months    int     `bson:"months" json:"months"`
	AvgBucket float64 `bson:"avg" json:"avg"`
}

// PeriodTotal is one bucket of the expense/income totals report.
type PeriodTotal struct {
	Key   string  `bson:"key" json:"key"`
	Total float64 `bson:"total" json:"total"`
	Count int64   `bson:"count" json:"count"`
}
