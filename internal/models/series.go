package models

import "time"

// GroupKey selects how records are bucketed
type GroupKey string

const (
	KeyHourOfDay GroupKey = "hour"
	KeyDayOfWeek GroupKey = "weekday"
	KeyHourly    GroupKey = "hourly"
	KeyDaily     GroupKey = "daily"
	KeyWeekly    GroupKey = "weekly"
	KeyItem      GroupKey = "item"
	KeyStatus    GroupKey = "status"
)

// IsTimeline reports whether the key produces a calendar timeline that can be forecast.
func (k GroupKey) IsTimeline() bool {
	return k == KeyHourly || k == KeyDaily || k == KeyWeekly
}

// Step returns the bucket width of a timeline key
func (k GroupKey) Step() time.Duration {
	switch k {
	case KeyHourly:
		return time.Hour
	case KeyDaily:
		return 24 * time.Hour
	case KeyWeekly:
		return 7 * 24 * time.Hour
	}
	return 0
}

// Advance moves a timeline bucket start forward by n steps. Daily and weekly
// keys use calendar arithmetic so buckets stay on local midnight across DST.
func (k GroupKey) Advance(t time.Time, n int) time.Time {
	switch k {
	case KeyDaily:
		return t.AddDate(0, 0, n)
	case KeyWeekly:
		return t.AddDate(0, 0, 7*n)
	}
	return t.Add(time.Duration(n) * time.Hour)
}

// Metric selects the value computed per bucket
type Metric string

const (
	MetricCount    Metric = "count"
	MetricOrders   Metric = "orders"
	MetricQuantity Metric = "quantity"
	MetricRevenue  Metric = "revenue"
)

// Bucket is a derived grouping key. Start is set for timeline keys,
// Ordinal for hour-of-day and day-of-week.
type Bucket struct {
	Label   string    `json:"label"`
	Start   time.Time `json:"start,omitempty"`
	Ordinal int       `json:"ordinal"`
}

// Point is one (bucket, value) pair of an aggregate series
type Point struct {
	Bucket Bucket  `json:"bucket"`
	Value  float64 `json:"value"`
}

// Series is an aggregate series sorted by bucket
type Series struct {
	Key    GroupKey `json:"key"`
	Metric Metric   `json:"metric"`
	Points []Point  `json:"points"`
}

func (s Series) Len() int { return len(s.Points) }

// Values returns the metric values in bucket order
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}
