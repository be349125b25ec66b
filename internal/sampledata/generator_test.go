package sampledata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajanjha2004/HotelData/internal/features"
)

var end = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

func TestGenerator_Deterministic(t *testing.T) {
	opts := Options{Orders: 500, Start: end.AddDate(0, 0, -30), End: end, Seed: 7}

	a := NewGenerator(opts).Records()
	b := NewGenerator(opts).Records()

	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestGenerator_RecordsAreValid(t *testing.T) {
	start := end.AddDate(0, 0, -30)
	table := NewGenerator(Options{Orders: 800, Start: start, End: end, Seed: 1}).Table("gen")

	prices := make(map[string]float64)
	for _, m := range Menu {
		prices[m.Name] = m.Price
	}
	for _, r := range table.Records() {
		assert.False(t, r.CreatedAt.Before(start))
		assert.True(t, r.CreatedAt.Before(end))
		assert.GreaterOrEqual(t, r.Quantity, 1.0)
		assert.LessOrEqual(t, r.Quantity, 3.0)
		assert.Equal(t, prices[r.Item], r.Price, r.Item)
		assert.Contains(t, []string{"completed", "pending", "canceled"}, r.Status)
		assert.True(t, r.UpdatedAt.After(r.CreatedAt))
	}
}

func TestGenerator_MealTimesDominate(t *testing.T) {
	table := NewGenerator(Options{Orders: 5000, Start: end.AddDate(0, 0, -60), End: end, Seed: 3}).Table("gen")

	meal, night := 0, 0
	for _, row := range features.Extract(table) {
		switch {
		case mealHours[row.Hour]:
			meal++
		case row.Hour < 7 || row.Hour > 22:
			night++
		}
	}
	// 7 meal hours against 8 night hours, with night orders thinned to 10%
	assert.Greater(t, meal, 3*night)
}

func TestDemo(t *testing.T) {
	table, recipes := Demo(end, 42)

	assert.Greater(t, table.Len(), 1000)
	assert.Equal(t, DemoSource, table.Source)
	first, last := table.Span()
	assert.True(t, last.Sub(first) > 80*24*time.Hour)

	require.Len(t, recipes, len(Menu))
	for item, recipe := range recipes {
		assert.GreaterOrEqual(t, len(recipe), 2, item)
		assert.LessOrEqual(t, len(recipe), 5, item)
		for _, qty := range recipe {
			assert.Greater(t, qty, 0.0)
		}
	}
}
