// Package aggregate groups feature rows into sorted, gap-free series.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/rajanjha2004/HotelData/internal/features"
	"github.com/rajanjha2004/HotelData/internal/models"
)

const (
	hourLabel   = "2006-01-02 15:00"
	dayLabel    = "2006-01-02"
	unknownName = "unknown"
)

// Keys lists every supported grouping key
var Keys = []models.GroupKey{
	models.KeyHourOfDay, models.KeyDayOfWeek,
	models.KeyHourly, models.KeyDaily, models.KeyWeekly,
	models.KeyItem, models.KeyStatus,
}

// Metrics lists every supported metric
var Metrics = []models.Metric{
	models.MetricCount, models.MetricOrders, models.MetricQuantity, models.MetricRevenue,
}

type accumulator struct {
	bucket   models.Bucket
	lines    int
	quantity float64
	revenue  float64
	orders   map[string]struct{}
}

func (a *accumulator) add(r features.Row) {
	a.lines++
	a.quantity += r.Quantity
	a.revenue += r.Total()
	if id := orderKey(r); id != "" {
		a.orders[id] = struct{}{}
	}
}

func (a *accumulator) value(metric models.Metric, haveOrderIDs bool) float64 {
	switch metric {
	case models.MetricOrders:
		if haveOrderIDs {
			return float64(len(a.orders))
		}
		return float64(a.lines)
	case models.MetricQuantity:
		return a.quantity
	case models.MetricRevenue:
		return a.revenue
	default:
		return float64(a.lines)
	}
}

func orderKey(r features.Row) string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.OrderNo
}

// Aggregate groups rows by key and computes metric per bucket.
// Timeline keys yield every bucket from the first to the last observation,
// zero-filled; categorical keys yield observed buckets only.
func Aggregate(rows []features.Row, key models.GroupKey, metric models.Metric) (models.Series, error) {
	if err := validate(key, metric); err != nil {
		return models.Series{}, err
	}
	series := models.Series{Key: key, Metric: metric, Points: []models.Point{}}
	if len(rows) == 0 {
		return series, nil
	}

	haveOrderIDs := false
	groups := make(map[string]*accumulator)
	for _, r := range rows {
		if orderKey(r) != "" {
			haveOrderIDs = true
		}
		b := bucketOf(r, key)
		id := bucketID(b, key)
		acc, ok := groups[id]
		if !ok {
			acc = &accumulator{bucket: b, orders: make(map[string]struct{})}
			groups[id] = acc
		}
		acc.add(r)
	}

	accs := make([]*accumulator, 0, len(groups))
	for _, acc := range groups {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool {
		return less(accs[i].bucket, accs[j].bucket, key)
	})

	if key.IsTimeline() {
		accs = fillTimeline(accs, key)
	}

	series.Points = make([]models.Point, len(accs))
	for i, acc := range accs {
		series.Points[i] = models.Point{Bucket: acc.bucket, Value: acc.value(metric, haveOrderIDs)}
	}
	return series, nil
}

func validate(key models.GroupKey, metric models.Metric) error {
	keyOK, metricOK := false, false
	for _, k := range Keys {
		if k == key {
			keyOK = true
		}
	}
	for _, m := range Metrics {
		if m == metric {
			metricOK = true
		}
	}
	if !keyOK {
		return &models.ConfigError{Field: "key", Reason: fmt.Sprintf("unknown grouping key %q", key)}
	}
	if !metricOK {
		return &models.ConfigError{Field: "metric", Reason: fmt.Sprintf("unknown metric %q", metric)}
	}
	return nil
}

// bucketOf derives the bucket of a row for the given key
func bucketOf(r features.Row, key models.GroupKey) models.Bucket {
	switch key {
	case models.KeyHourOfDay:
		return models.Bucket{Label: fmt.Sprintf("%02d:00", r.Hour), Ordinal: r.Hour}
	case models.KeyDayOfWeek:
		return models.Bucket{Label: r.Weekday.String(), Ordinal: features.MondayIndex(r.Weekday)}
	case models.KeyHourly:
		return timelineBucket(features.HourStart(r.CreatedAt), key)
	case models.KeyDaily:
		return timelineBucket(r.Date, key)
	case models.KeyWeekly:
		return timelineBucket(features.WeekStart(r.CreatedAt), key)
	case models.KeyStatus:
		s := string(r.NormalizedStatus())
		if s == "" {
			s = unknownName
		}
		return models.Bucket{Label: s}
	default:
		name := r.Item
		if name == "" {
			name = unknownName
		}
		return models.Bucket{Label: name}
	}
}

func timelineBucket(start time.Time, key models.GroupKey) models.Bucket {
	layout := dayLabel
	if key == models.KeyHourly {
		layout = hourLabel
	}
	return models.Bucket{Label: start.Format(layout), Start: start}
}

func bucketID(b models.Bucket, key models.GroupKey) string {
	switch {
	case key.IsTimeline():
		return fmt.Sprint(b.Start.Unix())
	case key == models.KeyHourOfDay || key == models.KeyDayOfWeek:
		return fmt.Sprint(b.Ordinal)
	}
	return b.Label
}

func less(a, b models.Bucket, key models.GroupKey) bool {
	switch {
	case key.IsTimeline():
		return a.Start.Before(b.Start)
	case key == models.KeyHourOfDay || key == models.KeyDayOfWeek:
		return a.Ordinal < b.Ordinal
	}
	return a.Label < b.Label
}

func fillTimeline(sorted []*accumulator, key models.GroupKey) []*accumulator {
	first := sorted[0].bucket.Start
	last := sorted[len(sorted)-1].bucket.Start

	byStart := make(map[int64]*accumulator, len(sorted))
	for _, acc := range sorted {
		byStart[acc.bucket.Start.Unix()] = acc
	}

	filled := make([]*accumulator, 0, len(sorted))
	for t := first; !t.After(last); t = key.Advance(t, 1) {
		if acc, ok := byStart[t.Unix()]; ok {
			filled = append(filled, acc)
			continue
		}
		filled = append(filled, &accumulator{bucket: timelineBucket(t, key), orders: map[string]struct{}{}})
	}
	return filled
}
