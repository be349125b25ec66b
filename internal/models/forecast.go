package models

import "time"

// ForecastPoint is a projected value with its uncertainty bounds
type ForecastPoint struct {
	Time     time.Time `json:"time"`
	Estimate float64   `json:"estimate"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// ForecastResult holds the projection for the requested horizon.
// Fitted carries the in-sample one-step predictions for charting next to history.
type ForecastResult struct {
	Granularity GroupKey        `json:"granularity"`
	Confidence  float64         `json:"confidence"`
	Model       string          `json:"model"`
	Points      []ForecastPoint `json:"points"`
	Fitted      []ForecastPoint `json:"fitted,omitempty"`
}

func (r *ForecastResult) Horizon() int {
	if r == nil {
		return 0
	}
	return len(r.Points)
}

// StaffSlot is the recommended head count for one future bucket
type StaffSlot struct {
	Time  time.Time `json:"time"`
	Staff int       `json:"staff"`
}

// StaffingRecommendation maps each forecast bucket to a staff count, in time order.
type StaffingRecommendation struct {
	Ratio float64     `json:"ratio"`
	Slots []StaffSlot `json:"slots"`
}
