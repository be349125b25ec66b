package aggregate

import (
	"sort"
	"time"

	"github.com/rajanjha2004/HotelData/internal/features"
	"github.com/rajanjha2004/HotelData/internal/models"
)

// Top returns the n points with the largest values. Ties keep bucket order.
func Top(series models.Series, n int) []models.Point {
	if n <= 0 {
		return []models.Point{}
	}
	points := make([]models.Point, len(series.Points))
	copy(points, series.Points)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	if n < len(points) {
		points = points[:n]
	}
	return points
}

// PeakBuckets returns the buckets of the n highest points
func PeakBuckets(series models.Series, n int) []models.Bucket {
	top := Top(series, n)
	out := make([]models.Bucket, len(top))
	for i, p := range top {
		out[i] = p.Bucket
	}
	return out
}

// MovingAverage smooths the series with a trailing window. The first points
// average over however many values are available.
func MovingAverage(series models.Series, window int) (models.Series, error) {
	if window <= 0 {
		return models.Series{}, &models.ConfigError{Field: "window", Reason: "must be positive"}
	}
	out := models.Series{Key: series.Key, Metric: series.Metric, Points: make([]models.Point, len(series.Points))}
	sum := 0.0
	for i, p := range series.Points {
		sum += p.Value
		if i >= window {
			sum -= series.Points[i-window].Value
		}
		n := window
		if i+1 < window {
			n = i + 1
		}
		out.Points[i] = models.Point{Bucket: p.Bucket, Value: sum / float64(n)}
	}
	return out, nil
}

// Summary holds the headline figures shown on the overview and revenue tabs
type Summary struct {
	LineItems         int            `json:"line_items"`
	Orders            int            `json:"orders"`
	Quantity          float64        `json:"quantity"`
	Revenue           float64        `json:"revenue"`
	DistinctItems     int            `json:"distinct_items"`
	From              time.Time      `json:"from"`
	To                time.Time      `json:"to"`
	Days              int            `json:"days"`
	AvgDailyRevenue   float64        `json:"avg_daily_revenue"`
	AvgOrderValue     float64        `json:"avg_order_value"`
	AvgItemsPerOrder  float64        `json:"avg_items_per_order"`
	AvgItemPrice      float64        `json:"avg_item_price"`
	AvgProcessingTime time.Duration  `json:"avg_processing_time"`
	StatusCounts      map[string]int `json:"status_counts"`
}

// Summarize computes totals over rows. Orders are counted by order id when
// present, otherwise every line counts as an order.
func Summarize(rows []features.Row) Summary {
	s := Summary{StatusCounts: map[string]int{}}
	if len(rows) == 0 {
		return s
	}

	items := make(map[string]struct{})
	orders := make(map[string]struct{})
	var processing time.Duration
	processed := 0

	s.From, s.To = rows[0].CreatedAt, rows[0].CreatedAt
	for _, r := range rows {
		s.LineItems++
		s.Quantity += r.Quantity
		s.Revenue += r.Total()
		items[r.Item] = struct{}{}
		if id := orderKey(r); id != "" {
			orders[id] = struct{}{}
		}
		if r.CreatedAt.Before(s.From) {
			s.From = r.CreatedAt
		}
		if r.CreatedAt.After(s.To) {
			s.To = r.CreatedAt
		}
		status := string(r.NormalizedStatus())
		if status == "" {
			status = unknownName
		}
		s.StatusCounts[status]++
		if r.Completed && r.ProcessingTime > 0 {
			processing += r.ProcessingTime
			processed++
		}
	}

	s.DistinctItems = len(items)
	s.Orders = len(orders)
	if s.Orders == 0 {
		s.Orders = s.LineItems
	}

	first := features.Derive(models.OrderRecord{CreatedAt: s.From}).Date
	last := features.Derive(models.OrderRecord{CreatedAt: s.To}).Date
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		s.Days++
	}

	s.AvgDailyRevenue = s.Revenue / float64(s.Days)
	s.AvgOrderValue = s.Revenue / float64(s.Orders)
	s.AvgItemsPerOrder = s.Quantity / float64(s.Orders)
	if s.Quantity > 0 {
		s.AvgItemPrice = s.Revenue / s.Quantity
	}
	if processed > 0 {
		s.AvgProcessingTime = processing / time.Duration(processed)
	}
	return s
}
