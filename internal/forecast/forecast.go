// Package forecast projects aggregate timelines forward with uncertainty bounds.
package forecast

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// Model is a forecasting strategy
type Model interface {
	Name() string
	Fit(history []float64, season int) (Fit, error)
}

// Fit is a model fitted to one history
type Fit interface {
	// Fitted returns the in-sample one-step predictions.
	Fitted() []float64
	// Sigma is the standard deviation of the one-step residuals.
	Sigma() float64
	// Forecast returns h point estimates and their standard errors.
	Forecast(h int) (means []float64, stderr []float64)
}

// Params are the user-controlled forecast settings
type Params struct {
	Horizon    int     `json:"horizon"`
	Confidence float64 `json:"confidence"`
}

const (
	DefaultHorizon    = 7
	DefaultConfidence = 90

	// MaxHorizon caps how far ahead a forecast may reach: 90 days of hourly buckets.
	MaxHorizon = 24 * 90
)

// Forecaster turns an aggregate timeline into a ForecastResult
type Forecaster struct {
	Model Model
}

// New returns a forecaster backed by Holt-Winters
func New() *Forecaster {
	return &Forecaster{Model: HoltWinters{}}
}

// SeasonLength is the number of buckets in one seasonal cycle of a timeline key
func SeasonLength(key models.GroupKey) int {
	switch key {
	case models.KeyHourly:
		return 24
	case models.KeyDaily:
		return 7
	case models.KeyWeekly:
		return 4
	}
	return 0
}

// MinObservations is the shortest history accepted for a key: two seasonal cycles.
func MinObservations(key models.GroupKey) int {
	return 2 * SeasonLength(key)
}

// Forecast projects series for p.Horizon buckets past its last point.
func (f *Forecaster) Forecast(series models.Series, p Params) (*models.ForecastResult, error) {
	if !series.Key.IsTimeline() {
		return nil, &models.ConfigError{Field: "granularity", Reason: fmt.Sprintf("%q is not a timeline", series.Key)}
	}
	if p.Horizon <= 0 {
		return nil, &models.ConfigError{Field: "horizon", Reason: "must be positive"}
	}
	if p.Horizon > MaxHorizon {
		return nil, &models.ConfigError{Field: "horizon", Reason: fmt.Sprintf("must be at most %d", MaxHorizon)}
	}
	if p.Confidence <= 0 || p.Confidence >= 100 {
		return nil, &models.ConfigError{Field: "confidence", Reason: "must be between 0 and 100 percent"}
	}

	season := SeasonLength(series.Key)
	if need := MinObservations(series.Key); series.Len() < need {
		return nil, &models.InsufficientDataError{Have: series.Len(), Need: need}
	}

	model := f.Model
	if model == nil {
		model = HoltWinters{}
	}
	fit, err := model.Fit(series.Values(), season)
	if err != nil {
		return nil, err
	}

	z := distuv.UnitNormal.Quantile(0.5 + p.Confidence/200)

	result := &models.ForecastResult{
		Granularity: series.Key,
		Confidence:  p.Confidence,
		Model:       model.Name(),
		Points:      make([]models.ForecastPoint, p.Horizon),
		Fitted:      make([]models.ForecastPoint, series.Len()),
	}

	sigma := fit.Sigma()
	for i, v := range fit.Fitted() {
		result.Fitted[i] = models.ForecastPoint{
			Time:     series.Points[i].Bucket.Start,
			Estimate: v,
			Lower:    v - z*sigma,
			Upper:    v + z*sigma,
		}
	}

	means, stderr := fit.Forecast(p.Horizon)
	last := series.Points[series.Len()-1].Bucket.Start
	for k := range means {
		result.Points[k] = models.ForecastPoint{
			Time:     series.Key.Advance(last, k+1),
			Estimate: means[k],
			Lower:    means[k] - z*stderr[k],
			Upper:    means[k] + z*stderr[k],
		}
	}
	return result, nil
}

// Peaks returns the n forecast points with the highest estimates, earliest first on ties.
func Peaks(result *models.ForecastResult, n int) []models.ForecastPoint {
	if result == nil || n <= 0 {
		return []models.ForecastPoint{}
	}
	points := make([]models.ForecastPoint, len(result.Points))
	copy(points, result.Points)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Estimate > points[j].Estimate
	})
	if n < len(points) {
		points = points[:n]
	}
	return points
}

// ScaleRevenue converts an order-volume forecast into a revenue forecast
// using the average revenue per item.
func ScaleRevenue(result *models.ForecastResult, avgItemPrice float64) *models.ForecastResult {
	if result == nil {
		return nil
	}
	scale := func(in []models.ForecastPoint) []models.ForecastPoint {
		out := make([]models.ForecastPoint, len(in))
		for i, p := range in {
			out[i] = models.ForecastPoint{
				Time:     p.Time,
				Estimate: p.Estimate * avgItemPrice,
				Lower:    p.Lower * avgItemPrice,
				Upper:    p.Upper * avgItemPrice,
			}
		}
		return out
	}
	return &models.ForecastResult{
		Granularity: result.Granularity,
		Confidence:  result.Confidence,
		Model:       result.Model,
		Points:      scale(result.Points),
		Fitted:      scale(result.Fitted),
	}
}
