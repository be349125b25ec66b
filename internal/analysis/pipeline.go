// Package analysis runs one synchronous pass from a session's order table to
// the figures shown on each dashboard tab.
package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rajanjha2004/HotelData/internal/aggregate"
	"github.com/rajanjha2004/HotelData/internal/features"
	"github.com/rajanjha2004/HotelData/internal/forecast"
	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/monitoring"
	"github.com/rajanjha2004/HotelData/internal/session"
	"github.com/rajanjha2004/HotelData/internal/staffing"
)

// Stage names, as reported to monitoring
const (
	StageFeatures    = "features"
	StageAggregate   = "aggregate"
	StageForecast    = "forecast"
	StageStaffing    = "staffing"
	StageIngredients = "ingredients"
	StageRevenue     = "revenue"
)

const (
	topItemCount  = 10
	peakHourCount = 3
	trendWindow   = 7
)

// Options carries the settings that are fixed for the life of the server
type Options struct {
	HourlyRates map[staffing.Role]float64
	ShiftHours  float64
	Thresholds  map[string]float64
}

// Pipeline wires the analysis stages together
type Pipeline struct {
	forecaster *forecast.Forecaster
	monitor    *monitoring.Monitor
	opts       Options
}

func NewPipeline(forecaster *forecast.Forecaster, monitor *monitoring.Monitor, opts Options) *Pipeline {
	if forecaster == nil {
		forecaster = forecast.New()
	}
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}
	if opts.ShiftHours <= 0 {
		opts.ShiftHours = 8
	}
	return &Pipeline{forecaster: forecaster, monitor: monitor, opts: opts}
}

// StageError is a failed stage as shown to the user
type StageError struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Overview is the content of the overview tab
type Overview struct {
	Summary    aggregate.Summary `json:"summary"`
	ByHour     models.Series     `json:"by_hour"`
	ByWeekday  models.Series     `json:"by_weekday"`
	Daily      models.Series     `json:"daily"`
	DailyTrend models.Series     `json:"daily_trend"`
	ByStatus   models.Series     `json:"by_status"`
	TopItems   []models.Point    `json:"top_items"`
	PeakHours  []models.Bucket   `json:"peak_hours"`
}

// StaffingReport is the content of the staffing tab
type StaffingReport struct {
	Recommendation models.StaffingRecommendation `json:"recommendation"`
	Schedule       staffing.Schedule             `json:"schedule"`
	Costs          staffing.CostReport           `json:"costs"`
}

// IngredientsReport is the content of the ingredients tab
type IngredientsReport struct {
	Usage  []ingredients.Usage `json:"usage"`
	Totals []ingredients.Need  `json:"totals"`
	Needs  []ingredients.Need  `json:"needs"`
}

// RevenueReport is the content of the revenue tab
type RevenueReport struct {
	History        models.Series          `json:"history"`
	Trend          models.Series          `json:"trend"`
	RevenuePerLine float64                `json:"revenue_per_line"`
	Forecast       *models.ForecastResult `json:"forecast,omitempty"`
}

// Report is the output of one pipeline pass. Forecast-dependent sections are
// nil when forecasting failed; the failure is listed in Errors.
type Report struct {
	SessionID   string                 `json:"session_id"`
	Params      session.Params         `json:"params"`
	Overview    Overview               `json:"overview"`
	Aggregate   models.Series          `json:"aggregate"`
	Forecast    *models.ForecastResult `json:"forecast,omitempty"`
	Staffing    *StaffingReport        `json:"staffing,omitempty"`
	Ingredients *IngredientsReport     `json:"ingredients,omitempty"`
	Revenue     *RevenueReport         `json:"revenue,omitempty"`
	Errors      []StageError           `json:"errors"`
}

// Run executes every stage for sess with params. Errors in filtering or
// aggregation end the pass; a forecast error is recorded and the remaining
// history-only figures are still returned.
func (p *Pipeline) Run(ctx context.Context, sess *session.Session, params session.Params) (*Report, error) {
	rows, err := p.Rows(sess, params)
	if err != nil {
		return nil, err
	}

	report := &Report{SessionID: sess.ID, Params: params, Errors: []StageError{}}

	if report.Overview, err = p.Overview(rows); err != nil {
		return nil, err
	}
	if report.Aggregate, err = p.Aggregate(rows, params.GroupKey, params.Metric); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.Forecast(rows, params)
	if err != nil {
		report.fail(StageForecast, err)
		report.Revenue, err = p.Revenue(rows, nil, params.Granularity)
		if err != nil {
			return nil, err
		}
		return report, nil
	}
	report.Forecast = result

	if report.Staffing, err = p.Staffing(result, params); err != nil {
		report.fail(StageStaffing, err)
	}
	report.Ingredients = p.Ingredients(rows, result, sess.Recipes, params.Inventory)
	if report.Revenue, err = p.Revenue(rows, result, params.Granularity); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Report) fail(stage string, err error) {
	r.Errors = append(r.Errors, StageError{Stage: stage, Kind: models.ErrorKind(err), Message: err.Error()})
}

// timed runs fn as a monitored stage
func (p *Pipeline) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.monitor.RecordStage(stage, time.Since(start), err)
	if err != nil {
		log.Printf("%s stage failed: %v", stage, err)
	}
	return err
}

// Rows filters the session's table to the requested date range and derives features.
func (p *Pipeline) Rows(sess *session.Session, params session.Params) ([]features.Row, error) {
	var rows []features.Row
	err := p.timed(StageFeatures, func() error {
		if !params.From.IsZero() && !params.To.IsZero() && params.To.Before(params.From) {
			return &models.ConfigError{Field: "date range", Reason: "end is before start"}
		}
		rows = features.Extract(sess.Table.Between(params.From, params.To))
		return nil
	})
	return rows, err
}

// Overview computes the history figures that need no forecast
func (p *Pipeline) Overview(rows []features.Row) (Overview, error) {
	var ov Overview
	err := p.timed(StageAggregate, func() error {
		var err error
		ov.Summary = aggregate.Summarize(rows)
		if ov.ByHour, err = aggregate.Aggregate(rows, models.KeyHourOfDay, models.MetricCount); err != nil {
			return err
		}
		if ov.ByWeekday, err = aggregate.Aggregate(rows, models.KeyDayOfWeek, models.MetricCount); err != nil {
			return err
		}
		if ov.Daily, err = aggregate.Aggregate(rows, models.KeyDaily, models.MetricCount); err != nil {
			return err
		}
		if ov.DailyTrend, err = aggregate.MovingAverage(ov.Daily, trendWindow); err != nil {
			return err
		}
		if ov.ByStatus, err = aggregate.Aggregate(rows, models.KeyStatus, models.MetricCount); err != nil {
			return err
		}
		items, err := aggregate.Aggregate(rows, models.KeyItem, models.MetricQuantity)
		if err != nil {
			return err
		}
		ov.TopItems = aggregate.Top(items, topItemCount)
		ov.PeakHours = aggregate.PeakBuckets(ov.ByHour, peakHourCount)
		return nil
	})
	return ov, err
}

// Aggregate groups rows by any supported key and metric
func (p *Pipeline) Aggregate(rows []features.Row, key models.GroupKey, metric models.Metric) (models.Series, error) {
	var series models.Series
	err := p.timed(StageAggregate, func() error {
		var err error
		series, err = aggregate.Aggregate(rows, key, metric)
		return err
	})
	return series, err
}

// Forecast projects order line volume at params.Granularity
func (p *Pipeline) Forecast(rows []features.Row, params session.Params) (*models.ForecastResult, error) {
	var result *models.ForecastResult
	err := p.timed(StageForecast, func() error {
		if !params.Granularity.IsTimeline() {
			return &models.ConfigError{Field: "granularity", Reason: fmt.Sprintf("%q is not hourly, daily or weekly", params.Granularity)}
		}
		series, err := aggregate.Aggregate(rows, params.Granularity, models.MetricCount)
		if err != nil {
			return err
		}
		result, err = p.forecaster.Forecast(series, params.Forecast)
		return err
	})
	return result, err
}

// Staffing turns a forecast into head counts, a role schedule and its cost
func (p *Pipeline) Staffing(result *models.ForecastResult, params session.Params) (*StaffingReport, error) {
	var report *StaffingReport
	err := p.timed(StageStaffing, func() error {
		rec, err := staffing.Estimate(result, params.Ratio)
		if err != nil {
			return err
		}
		sched, err := staffing.Plan(result, params.Staffing)
		if err != nil {
			return err
		}
		costs, err := staffing.Costs(sched, p.opts.HourlyRates, p.opts.ShiftHours)
		if err != nil {
			return err
		}
		report = &StaffingReport{Recommendation: rec, Schedule: sched, Costs: costs}
		return nil
	})
	return report, err
}

// Ingredients projects ingredient use over the forecast and compares it with stock
func (p *Pipeline) Ingredients(rows []features.Row, result *models.ForecastResult, recipes ingredients.Recipes, inventory map[string]float64) *IngredientsReport {
	var report *IngredientsReport
	_ = p.timed(StageIngredients, func() error {
		usage := ingredients.Predict(rows, result, recipes)
		totals := ingredients.Totals(usage)
		report = &IngredientsReport{
			Usage:  usage,
			Totals: ingredients.Ranked(totals),
			Needs:  ingredients.InventoryNeeds(totals, inventory, p.opts.Thresholds),
		}
		return nil
	})
	return report
}

// Revenue reports historical revenue at granularity and, when a forecast is
// given, the projected revenue at the historical revenue per order line.
func (p *Pipeline) Revenue(rows []features.Row, result *models.ForecastResult, granularity models.GroupKey) (*RevenueReport, error) {
	var report *RevenueReport
	err := p.timed(StageRevenue, func() error {
		if !granularity.IsTimeline() {
			granularity = models.KeyDaily
		}
		history, err := aggregate.Aggregate(rows, granularity, models.MetricRevenue)
		if err != nil {
			return err
		}
		trend, err := aggregate.MovingAverage(history, forecast.SeasonLength(granularity))
		if err != nil {
			return err
		}
		report = &RevenueReport{History: history, Trend: trend}

		summary := aggregate.Summarize(rows)
		if summary.LineItems > 0 {
			report.RevenuePerLine = summary.Revenue / float64(summary.LineItems)
		}
		report.Forecast = forecast.ScaleRevenue(result, report.RevenuePerLine)
		return nil
	})
	return report, err
}
