package staffing

import (
	"fmt"
	"math"
	"time"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// Policy controls the role-based staffing plan
type Policy struct {
	OrdersPerStaff float64 `json:"orders_per_staff" mapstructure:"orders_per_staff"`
	MinStaff       int     `json:"min_staff" mapstructure:"min_staff"`
	PrepTimeFactor float64 `json:"prep_time_factor" mapstructure:"prep_time_factor"`
	// HoursPerBucket spreads a bucket's orders over its operating hours.
	// Zero selects the default for the forecast granularity.
	HoursPerBucket float64 `json:"hours_per_bucket" mapstructure:"hours_per_bucket"`
	Roles          []Role  `json:"roles" mapstructure:"roles"`
}

// DefaultPolicy returns the plan settings used when none are configured
func DefaultPolicy() Policy {
	return Policy{
		OrdersPerStaff: DefaultRatio,
		MinStaff:       2,
		PrepTimeFactor: 1.0,
		Roles:          []Role{RoleChef, RoleWaiter, RoleKitchenHelp},
	}
}

// operating hours covered by one bucket
func defaultHours(key models.GroupKey) float64 {
	switch key {
	case models.KeyDaily:
		return 12
	case models.KeyWeekly:
		return 7 * 12
	}
	return 1
}

func (p Policy) validate() error {
	if p.OrdersPerStaff <= 0 || math.IsNaN(p.OrdersPerStaff) {
		return &models.ConfigError{Field: "orders_per_staff", Reason: "must be positive"}
	}
	if p.MinStaff < 0 {
		return &models.ConfigError{Field: "min_staff", Reason: "must not be negative"}
	}
	if p.PrepTimeFactor <= 0 || math.IsNaN(p.PrepTimeFactor) {
		return &models.ConfigError{Field: "prep_time_factor", Reason: "must be positive"}
	}
	if p.HoursPerBucket < 0 {
		return &models.ConfigError{Field: "hours_per_bucket", Reason: "must not be negative"}
	}
	for _, r := range p.Roles {
		if _, ok := RoleShares[r]; !ok {
			return &models.ConfigError{Field: "roles", Reason: fmt.Sprintf("unknown role %q", r)}
		}
	}
	return nil
}

// Shift is the plan for one forecast bucket
type Shift struct {
	Time            time.Time    `json:"time"`
	PredictedOrders int          `json:"predicted_orders"`
	LowerBound      int          `json:"lower_bound"`
	UpperBound      int          `json:"upper_bound"`
	TotalStaff      int          `json:"total_staff"`
	Roles           map[Role]int `json:"roles"`
}

// Schedule is a staffing plan over the forecast horizon
type Schedule struct {
	Policy Policy  `json:"policy"`
	Shifts []Shift `json:"shifts"`
}

// Plan sizes the team for each forecast bucket and splits it across roles.
// Every selected role gets at least one person.
func Plan(result *models.ForecastResult, policy Policy) (Schedule, error) {
	if err := policy.validate(); err != nil {
		return Schedule{}, err
	}
	sched := Schedule{Policy: policy, Shifts: []Shift{}}
	if result == nil {
		return sched, nil
	}

	hours := policy.HoursPerBucket
	if hours == 0 {
		hours = defaultHours(result.Granularity)
	}
	sched.Policy.HoursPerBucket = hours

	for _, p := range result.Points {
		predicted := math.Max(p.Estimate, 0)
		rate := predicted * policy.PrepTimeFactor / hours
		total := int(math.Ceil(rate / policy.OrdersPerStaff))
		if total < policy.MinStaff {
			total = policy.MinStaff
		}

		shift := Shift{
			Time:            p.Time,
			PredictedOrders: int(predicted),
			LowerBound:      int(math.Max(p.Lower, 0)),
			UpperBound:      int(math.Max(p.Upper, 0)),
			TotalStaff:      total,
			Roles:           make(map[Role]int, len(policy.Roles)),
		}
		for _, r := range policy.Roles {
			n := int(float64(total) * RoleShares[r])
			if n < 1 {
				n = 1
			}
			shift.Roles[r] = n
		}
		sched.Shifts = append(sched.Shifts, shift)
	}
	return sched, nil
}

// SlotCost is the wage bill of one shift
type SlotCost struct {
	Time  time.Time        `json:"time"`
	Costs map[Role]float64 `json:"costs"`
	Total float64          `json:"total"`
}

// CostReport summarizes the wage bill of a schedule
type CostReport struct {
	Slots  []SlotCost       `json:"slots"`
	ByRole map[Role]float64 `json:"by_role"`
	Total  float64          `json:"total"`
}

// Costs prices each shift's roles at the given hourly rates. Roles without a
// rate are left out.
func Costs(sched Schedule, hourlyRates map[Role]float64, shiftHours float64) (CostReport, error) {
	if shiftHours <= 0 {
		return CostReport{}, &models.ConfigError{Field: "shift_hours", Reason: "must be positive"}
	}
	report := CostReport{Slots: make([]SlotCost, 0, len(sched.Shifts)), ByRole: map[Role]float64{}}
	for _, shift := range sched.Shifts {
		slot := SlotCost{Time: shift.Time, Costs: map[Role]float64{}}
		for _, r := range AllRoles {
			count, ok := shift.Roles[r]
			rate, priced := hourlyRates[r]
			if !ok || !priced {
				continue
			}
			cost := float64(count) * rate * shiftHours
			slot.Costs[r] = cost
			slot.Total += cost
			report.ByRole[r] += cost
		}
		report.Total += slot.Total
		report.Slots = append(report.Slots, slot)
	}
	return report, nil
}
