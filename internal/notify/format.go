// Package notify formats forecast alerts and delivers them to Slack.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/rajanjha2004/HotelData/internal/forecast"
	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/staffing"
)

const (
	DefaultPeakCount       = 3
	DefaultIngredientCount = 5
	DefaultStaffingShifts  = 3
)

func timeLabel(t time.Time, key models.GroupKey) string {
	if key == models.KeyHourly {
		return t.Format("Monday, Jan 02 15:04")
	}
	return t.Format("Monday, Jan 02")
}

// PeakAlert lists the top forecast buckets. With a positive threshold only
// buckets whose estimate exceeds it are listed.
func PeakAlert(result *models.ForecastResult, threshold float64, topN int) string {
	if topN <= 0 {
		topN = DefaultPeakCount
	}
	var b strings.Builder
	b.WriteString("HOTEL ORDER FORECAST ALERT\n\n")
	b.WriteString("Expected peak order times for the forecast period:\n\n")

	peaks := forecast.Peaks(result, result.Horizon())
	n := 0
	for _, p := range peaks {
		if n == topN {
			break
		}
		if threshold > 0 && p.Estimate <= threshold {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s: ~%d orders\n", n, timeLabel(p.Time, result.Granularity), int(p.Estimate))
	}
	if n == 0 {
		b.WriteString("No buckets exceed the alert threshold.\n")
	}

	b.WriteString("\nThis forecast helps you prepare staffing and inventory in advance.")
	return b.String()
}

// InventoryAlert lists the ingredients with the largest projected usage.
func InventoryAlert(totals map[string]float64, topN int) string {
	if topN <= 0 {
		topN = DefaultIngredientCount
	}
	ranked := ingredients.Ranked(totals)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	var b strings.Builder
	b.WriteString("INGREDIENT INVENTORY ALERT\n\n")
	fmt.Fprintf(&b, "Top %d ingredients needed for the forecast period:\n\n", len(ranked))
	for i, r := range ranked {
		fmt.Fprintf(&b, "%d. %s: %.1f units\n", i+1, r.Ingredient, r.Needed)
	}
	b.WriteString("\nMake sure to stock up on these ingredients to meet demand.")
	return b.String()
}

// StaffingAlert describes the first shifts of a schedule
func StaffingAlert(sched staffing.Schedule, granularity models.GroupKey, shifts int) string {
	if shifts <= 0 {
		shifts = DefaultStaffingShifts
	}
	var b strings.Builder
	b.WriteString("STAFFING REQUIREMENTS ALERT\n\n")

	if len(sched.Shifts) == 0 {
		b.WriteString("No staffing data available for the requested period.\n\n")
	}
	for i, s := range sched.Shifts {
		if i == shifts {
			break
		}
		fmt.Fprintf(&b, "Date: %s\n", timeLabel(s.Time, granularity))
		fmt.Fprintf(&b, "- Predicted orders: %d\n", s.PredictedOrders)
		fmt.Fprintf(&b, "- Total staff: %d\n", s.TotalStaff)
		for _, r := range staffing.AllRoles {
			if n, ok := s.Roles[r]; ok {
				fmt.Fprintf(&b, "- %s: %d\n", r, n)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Please adjust staffing schedules accordingly to ensure proper coverage during peak times.")
	return b.String()
}
