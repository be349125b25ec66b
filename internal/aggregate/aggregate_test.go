package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajanjha2004/HotelData/internal/features"
	"github.com/rajanjha2004/HotelData/internal/models"
)

func ts(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func sampleRows() []features.Row {
	table := models.NewOrderTable("t", []models.OrderRecord{
		{OrderID: "1", Item: "Coffee", Quantity: 2, Price: 4, Status: "completed", CreatedAt: ts(4, 8), UpdatedAt: ts(4, 8).Add(10 * time.Minute)},
		{OrderID: "1", Item: "Pancakes", Quantity: 1, Price: 10, Status: "completed", CreatedAt: ts(4, 8), UpdatedAt: ts(4, 8).Add(20 * time.Minute)},
		{OrderID: "2", Item: "Coffee", Quantity: 1, Price: 4, Status: "pending", CreatedAt: ts(4, 19)},
		// nothing on the 5th
		{OrderID: "3", Item: "Steak Dinner", Quantity: 1, Price: 30, Status: "Cancelled", CreatedAt: ts(6, 19)},
	}, 0)
	return features.Extract(table)
}

func TestAggregate_DailyIsZeroFilled(t *testing.T) {
	series, err := Aggregate(sampleRows(), models.KeyDaily, models.MetricCount)
	require.NoError(t, err)

	require.Len(t, series.Points, 3)
	assert.Equal(t, []float64{3, 0, 1}, series.Values())
	assert.Equal(t, "2024-03-05", series.Points[1].Bucket.Label)
	assert.Equal(t, ts(5, 0), series.Points[1].Bucket.Start)
}

func TestAggregate_Metrics(t *testing.T) {
	rows := sampleRows()
	tests := []struct {
		metric models.Metric
		want   []float64
	}{
		{models.MetricCount, []float64{3, 0, 1}},
		{models.MetricOrders, []float64{2, 0, 1}},
		{models.MetricQuantity, []float64{4, 0, 1}},
		{models.MetricRevenue, []float64{22, 0, 30}},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			series, err := Aggregate(rows, models.KeyDaily, tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, series.Values())
		})
	}
}

func TestAggregate_OrdersFallsBackToLines(t *testing.T) {
	rows := sampleRows()
	for i := range rows {
		rows[i].OrderID = ""
	}
	series, err := Aggregate(rows, models.KeyDaily, models.MetricOrders)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 0, 1}, series.Values())
}

func TestAggregate_Categorical(t *testing.T) {
	rows := sampleRows()

	hours, err := Aggregate(rows, models.KeyHourOfDay, models.MetricCount)
	require.NoError(t, err)
	require.Len(t, hours.Points, 2)
	assert.Equal(t, "08:00", hours.Points[0].Bucket.Label)
	assert.Equal(t, 19, hours.Points[1].Bucket.Ordinal)

	days, err := Aggregate(rows, models.KeyDayOfWeek, models.MetricCount)
	require.NoError(t, err)
	// Monday (4th) before Wednesday (6th)
	assert.Equal(t, "Monday", days.Points[0].Bucket.Label)
	assert.Equal(t, "Wednesday", days.Points[1].Bucket.Label)

	items, err := Aggregate(rows, models.KeyItem, models.MetricQuantity)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", items.Points[0].Bucket.Label)
	assert.Equal(t, 3.0, items.Points[0].Value)
	assert.Equal(t, "Steak Dinner", items.Points[2].Bucket.Label)

	statuses, err := Aggregate(rows, models.KeyStatus, models.MetricCount)
	require.NoError(t, err)
	assert.Equal(t, "canceled", statuses.Points[0].Bucket.Label)
}

func TestAggregate_HourlyAndWeekly(t *testing.T) {
	rows := sampleRows()

	hourly, err := Aggregate(rows, models.KeyHourly, models.MetricCount)
	require.NoError(t, err)
	// 4th 08:00 through 6th 19:00 inclusive
	assert.Len(t, hourly.Points, 2*24+11+1)
	assert.Equal(t, 2.0, hourly.Points[0].Value)

	weekly, err := Aggregate(rows, models.KeyWeekly, models.MetricCount)
	require.NoError(t, err)
	require.Len(t, weekly.Points, 1)
	assert.Equal(t, 4.0, weekly.Points[0].Value)
	assert.Equal(t, ts(4, 0), weekly.Points[0].Bucket.Start)
}

func TestAggregate_HourlyHalfHourZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	table := models.NewOrderTable("t", []models.OrderRecord{
		{Item: "Masala Chai", Quantity: 1, Price: 2, CreatedAt: time.Date(2024, time.March, 1, 10, 15, 0, 0, ist)},
		{Item: "Masala Chai", Quantity: 1, Price: 2, CreatedAt: time.Date(2024, time.March, 1, 10, 50, 0, 0, ist)},
		{Item: "Dosa", Quantity: 1, Price: 6, CreatedAt: time.Date(2024, time.March, 1, 12, 5, 0, 0, ist)},
	}, 0)
	rows := features.Extract(table)
	require.Equal(t, 10, rows[0].Hour)

	series, err := Aggregate(rows, models.KeyHourly, models.MetricCount)
	require.NoError(t, err)
	require.Len(t, series.Points, 3)

	first := series.Points[0]
	assert.Equal(t, "2024-03-01 10:00", first.Bucket.Label)
	assert.True(t, time.Date(2024, time.March, 1, 10, 0, 0, 0, ist).Equal(first.Bucket.Start))
	assert.Equal(t, 2.0, first.Value)

	assert.Equal(t, "2024-03-01 11:00", series.Points[1].Bucket.Label)
	assert.Equal(t, 0.0, series.Points[1].Value)
	assert.Equal(t, "2024-03-01 12:00", series.Points[2].Bucket.Label)
	assert.Equal(t, 1.0, series.Points[2].Value)
}

func TestAggregate_BucketsStrictlyIncrease(t *testing.T) {
	rows := sampleRows()
	for _, key := range []models.GroupKey{models.KeyHourly, models.KeyDaily, models.KeyWeekly} {
		series, err := Aggregate(rows, key, models.MetricRevenue)
		require.NoError(t, err)
		for i := 1; i < len(series.Points); i++ {
			assert.True(t, series.Points[i-1].Bucket.Start.Before(series.Points[i].Bucket.Start), "%s point %d", key, i)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := sampleRows()
	first, err := Aggregate(rows, models.KeyDaily, models.MetricRevenue)
	require.NoError(t, err)
	second, err := Aggregate(rows, models.KeyDaily, models.MetricRevenue)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregate_EmptyInput(t *testing.T) {
	series, err := Aggregate(nil, models.KeyDaily, models.MetricCount)
	require.NoError(t, err)
	assert.Empty(t, series.Points)
}

func TestAggregate_UnknownKeyOrMetric(t *testing.T) {
	_, err := Aggregate(sampleRows(), "minute", models.MetricCount)
	assert.Equal(t, models.KindConfig, models.ErrorKind(err))

	_, err = Aggregate(sampleRows(), models.KeyDaily, "profit")
	assert.Equal(t, models.KindConfig, models.ErrorKind(err))
}

func TestTopAndPeaks(t *testing.T) {
	series := models.Series{Points: []models.Point{
		{Bucket: models.Bucket{Label: "a"}, Value: 1},
		{Bucket: models.Bucket{Label: "b"}, Value: 5},
		{Bucket: models.Bucket{Label: "c"}, Value: 3},
		{Bucket: models.Bucket{Label: "d"}, Value: 5},
	}}

	top := Top(series, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Bucket.Label)
	assert.Equal(t, "d", top[1].Bucket.Label)
	assert.Equal(t, "c", top[2].Bucket.Label)

	assert.Len(t, PeakBuckets(series, 10), 4)
	assert.Empty(t, Top(series, 0))
	// input untouched
	assert.Equal(t, "a", series.Points[0].Bucket.Label)
}

func TestMovingAverage(t *testing.T) {
	series := models.Series{Points: []models.Point{{Value: 2}, {Value: 4}, {Value: 6}, {Value: 8}}}

	ma, err := MovingAverage(series, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 6}, ma.Values())

	_, err = MovingAverage(series, 0)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRows())

	assert.Equal(t, 4, s.LineItems)
	assert.Equal(t, 3, s.Orders)
	assert.Equal(t, 3, s.DistinctItems)
	assert.InDelta(t, 52.0, s.Revenue, 1e-9)
	assert.Equal(t, 3, s.Days)
	assert.InDelta(t, 52.0/3, s.AvgDailyRevenue, 1e-9)
	assert.InDelta(t, 52.0/3, s.AvgOrderValue, 1e-9)
	assert.InDelta(t, 52.0/5, s.AvgItemPrice, 1e-9)
	assert.Equal(t, 15*time.Minute, s.AvgProcessingTime)
	assert.Equal(t, map[string]int{"completed": 2, "pending": 1, "canceled": 1}, s.StatusCounts)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Revenue)
	assert.Zero(t, s.Days)
}
