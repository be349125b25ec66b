// Package features derives calendar and status attributes from order records.
package features

import (
	"time"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// Row is an order record enriched with derived calendar features
type Row struct {
	models.OrderRecord

	Hour      int          `json:"hour"`
	Weekday   time.Weekday `json:"weekday"`
	ISOYear   int          `json:"iso_year"`
	ISOWeek   int          `json:"iso_week"`
	Month     time.Month   `json:"month"`
	Year      int          `json:"year"`
	Date      time.Time    `json:"date"`
	IsWeekend bool         `json:"is_weekend"`

	// ProcessingTime is UpdatedAt - CreatedAt, zero when UpdatedAt is unknown.
	ProcessingTime time.Duration `json:"processing_time"`
	Completed      bool          `json:"completed"`
	Canceled       bool          `json:"canceled"`
}

// Extract derives features for every record of the table, preserving order.
func Extract(table *models.OrderTable) []Row {
	rows := make([]Row, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		rows = append(rows, Derive(table.At(i)))
	}
	return rows
}

// Derive computes the features of a single record
func Derive(rec models.OrderRecord) Row {
	ts := rec.CreatedAt
	isoYear, isoWeek := ts.ISOWeek()

	row := Row{
		OrderRecord: rec,
		Hour:        ts.Hour(),
		Weekday:     ts.Weekday(),
		ISOYear:     isoYear,
		ISOWeek:     isoWeek,
		Month:       ts.Month(),
		Year:        ts.Year(),
		Date:        time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		IsWeekend:   ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday,
	}

	if !rec.UpdatedAt.IsZero() && !rec.UpdatedAt.Before(ts) {
		row.ProcessingTime = rec.UpdatedAt.Sub(ts)
	}

	switch rec.NormalizedStatus() {
	case models.OrderStatusCompleted:
		row.Completed = true
	case models.OrderStatusCanceled:
		row.Canceled = true
	}
	return row
}

// MondayIndex maps a weekday onto 0 (Monday) .. 6 (Sunday).
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekStart returns midnight of the Monday that starts the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -MondayIndex(day.Weekday()))
}

// HourStart returns the start of the local clock hour containing t. Unlike
// Truncate it follows the zone offset, so zones off by half an hour still
// get buckets on the hour.
func HourStart(t time.Time) time.Time {
	within := time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return t.Add(-within)
}
