// Package staffing converts order forecasts into staff counts and costs.
package staffing

import (
	"fmt"
	"math"
	"strings"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// DefaultRatio is the number of orders one staff member handles per bucket.
const DefaultRatio = 5.0

// Estimate recommends ceil(estimate / ratio) staff for every forecast bucket.
// Negative estimates count as zero orders.
func Estimate(result *models.ForecastResult, ratio float64) (models.StaffingRecommendation, error) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return models.StaffingRecommendation{}, &models.ConfigError{Field: "ratio", Reason: fmt.Sprintf("must be a positive number, got %v", ratio)}
	}
	rec := models.StaffingRecommendation{Ratio: ratio, Slots: []models.StaffSlot{}}
	if result == nil {
		return rec, nil
	}
	rec.Slots = make([]models.StaffSlot, len(result.Points))
	for i, p := range result.Points {
		rec.Slots[i] = models.StaffSlot{
			Time:  p.Time,
			Staff: int(math.Ceil(math.Max(p.Estimate, 0) / ratio)),
		}
	}
	return rec, nil
}

// Role is a staff category used in plans and cost reports
type Role string

const (
	RoleChef        Role = "Chefs"
	RoleWaiter      Role = "Waiters"
	RoleKitchenHelp Role = "Kitchen helpers"
	RoleBartender   Role = "Bartenders"
)

// RoleShares is the fraction of the total head count assigned to each role.
var RoleShares = map[Role]float64{
	RoleChef:        0.35,
	RoleWaiter:      0.40,
	RoleKitchenHelp: 0.15,
	RoleBartender:   0.10,
}

// AllRoles lists the known roles in display order
var AllRoles = []Role{RoleChef, RoleWaiter, RoleKitchenHelp, RoleBartender}

// ParseRoles parses a comma separated role list, case-insensitively.
func ParseRoles(s string) ([]Role, error) {
	var roles []Role
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		found := false
		for _, r := range AllRoles {
			if strings.EqualFold(string(r), name) {
				roles = append(roles, r)
				found = true
				break
			}
		}
		if !found {
			return nil, &models.ConfigError{Field: "roles", Reason: fmt.Sprintf("unknown role %q", name)}
		}
	}
	return roles, nil
}
