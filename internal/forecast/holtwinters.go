package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// DefaultGrid is the set of smoothing parameters tried for alpha, beta and gamma.
var DefaultGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}

// HoltWinters is additive triple exponential smoothing with smoothing
// parameters chosen by grid search on in-sample squared error.
type HoltWinters struct {
	Grid []float64
}

func (HoltWinters) Name() string { return "holt-winters" }

// Fit fits the model to history with the given season length.
func (hw HoltWinters) Fit(history []float64, season int) (Fit, error) {
	if season < 1 {
		season = 1
	}
	if len(history) < 2*season {
		return nil, &models.InsufficientDataError{Have: len(history), Need: 2 * season}
	}

	grid := hw.Grid
	if len(grid) == 0 {
		grid = DefaultGrid
	}

	var best *hwFit
	for _, a := range grid {
		for _, b := range grid {
			for _, g := range grid {
				f := runHoltWinters(history, season, a, b, g)
				if best == nil || f.sse < best.sse {
					best = f
				}
			}
		}
	}
	return best, nil
}

type hwFit struct {
	alpha, beta, gamma float64
	season             int
	n                  int

	level, trend float64
	seasonals    []float64
	fitted       []float64
	sse          float64
	sigma        float64
}

func runHoltWinters(y []float64, m int, alpha, beta, gamma float64) *hwFit {
	first := stat.Mean(y[:m], nil)
	second := stat.Mean(y[m:2*m], nil)

	f := &hwFit{
		alpha:     alpha,
		beta:      beta,
		gamma:     gamma,
		season:    m,
		n:         len(y),
		level:     first,
		trend:     (second - first) / float64(m),
		seasonals: make([]float64, m),
		fitted:    make([]float64, len(y)),
	}
	for i := 0; i < m; i++ {
		f.seasonals[i] = y[i] - first
	}

	residuals := make([]float64, len(y))
	for t, obs := range y {
		s := f.seasonals[t%m]
		pred := f.level + f.trend + s
		f.fitted[t] = pred
		residuals[t] = obs - pred
		f.sse += residuals[t] * residuals[t]

		level := alpha*(obs-s) + (1-alpha)*(f.level+f.trend)
		f.trend = beta*(level-f.level) + (1-beta)*f.trend
		f.seasonals[t%m] = gamma*(obs-level) + (1-gamma)*s
		f.level = level
	}
	f.sigma = stat.StdDev(residuals, nil)
	if math.IsNaN(f.sigma) {
		f.sigma = 0
	}
	return f
}

func (f *hwFit) Fitted() []float64 {
	out := make([]float64, len(f.fitted))
	copy(out, f.fitted)
	return out
}

func (f *hwFit) Sigma() float64 { return f.sigma }

// Forecast projects h steps ahead. The standard error of step k grows with
// the accumulated smoothing weights of the intermediate steps.
func (f *hwFit) Forecast(h int) ([]float64, []float64) {
	means := make([]float64, h)
	stderr := make([]float64, h)
	acc := 1.0
	for k := 1; k <= h; k++ {
		means[k-1] = f.level + float64(k)*f.trend + f.seasonals[(f.n+k-1)%f.season]
		stderr[k-1] = f.sigma * math.Sqrt(acc)

		c := f.alpha * (1 + float64(k)*f.beta)
		if k%f.season == 0 {
			c += f.gamma
		}
		acc += c * c
	}
	return means, stderr
}
