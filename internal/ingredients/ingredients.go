// Package ingredients turns order forecasts into ingredient usage and reorder advice.
package ingredients

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rajanjha2004/HotelData/internal/features"
	"github.com/rajanjha2004/HotelData/internal/models"
)

// Recipes maps a menu item to the quantity of each ingredient one serving uses
type Recipes map[string]map[string]float64

type recipeFile struct {
	Recipes Recipes `yaml:"recipes"`
}

// LoadRecipes reads a YAML recipe file of the form
//
//	recipes:
//	  Caesar Salad:
//	    Lettuce: 0.5
//	    Cheese: 0.1
func LoadRecipes(path string) (Recipes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}
	return ParseRecipes(data)
}

// ParseRecipes decodes recipe YAML. Negative quantities are rejected.
func ParseRecipes(data []byte) (Recipes, error) {
	var f recipeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &models.ParseError{Column: "recipes", Err: err}
	}
	for item, ings := range f.Recipes {
		for ing, qty := range ings {
			if qty < 0 || math.IsNaN(qty) {
				return nil, &models.ConfigError{Field: "recipes", Reason: fmt.Sprintf("%s uses a negative amount of %s", item, ing)}
			}
		}
	}
	if f.Recipes == nil {
		f.Recipes = Recipes{}
	}
	return f.Recipes, nil
}

// Usage is the projected ingredient consumption of one forecast bucket
type Usage struct {
	Time        time.Time          `json:"time"`
	Ingredients map[string]float64 `json:"ingredients"`
}

// ItemShares returns each item's share of the total quantity sold.
func ItemShares(rows []features.Row) map[string]float64 {
	shares := make(map[string]float64)
	total := 0.0
	for _, r := range rows {
		shares[r.Item] += r.Quantity
		total += r.Quantity
	}
	if total == 0 {
		return map[string]float64{}
	}
	for item := range shares {
		shares[item] /= total
	}
	return shares
}

// Predict distributes each forecast estimate over items by their historical
// share and multiplies by the recipe amounts. Items without a recipe are ignored.
func Predict(rows []features.Row, result *models.ForecastResult, recipes Recipes) []Usage {
	if result == nil {
		return []Usage{}
	}
	shares := ItemShares(rows)
	usage := make([]Usage, len(result.Points))
	for i, p := range result.Points {
		day := Usage{Time: p.Time, Ingredients: map[string]float64{}}
		for item, share := range shares {
			recipe, ok := recipes[item]
			if !ok {
				continue
			}
			expected := p.Estimate * share
			for ing, qty := range recipe {
				day.Ingredients[ing] += expected * qty
			}
		}
		for ing, qty := range day.Ingredients {
			day.Ingredients[ing] = round2(qty)
		}
		usage[i] = day
	}
	return usage
}

// Totals sums usage over the horizon
func Totals(usage []Usage) map[string]float64 {
	totals := make(map[string]float64)
	for _, u := range usage {
		for ing, qty := range u.Ingredients {
			totals[ing] += qty
		}
	}
	return totals
}

// DefaultThresholdShare is the reorder threshold as a share of the projected need.
const DefaultThresholdShare = 0.2

// Need is the shortfall of one ingredient over the forecast horizon
type Need struct {
	Ingredient string  `json:"ingredient"`
	Current    float64 `json:"current"`
	Needed     float64 `json:"needed"`
	Deficit    float64 `json:"deficit"`
	Reorder    bool    `json:"reorder"`
}

// InventoryNeeds lists every ingredient whose stock is below the projected
// need, largest deficit first. Reorder is set when stock is also below the
// threshold, which defaults to DefaultThresholdShare of the need.
func InventoryNeeds(totals, current, thresholds map[string]float64) []Need {
	needs := []Need{}
	for ing, needed := range totals {
		have, _ := lookup(current, ing)
		if have >= needed {
			continue
		}
		threshold, ok := lookup(thresholds, ing)
		if !ok {
			threshold = needed * DefaultThresholdShare
		}
		needs = append(needs, Need{
			Ingredient: ing,
			Current:    have,
			Needed:     needed,
			Deficit:    needed - have,
			Reorder:    have < threshold,
		})
	}
	sort.Slice(needs, func(i, j int) bool {
		if needs[i].Deficit != needs[j].Deficit {
			return needs[i].Deficit > needs[j].Deficit
		}
		return needs[i].Ingredient < needs[j].Ingredient
	})
	return needs
}

// Ranked returns ingredient totals sorted by quantity, largest first.
func Ranked(totals map[string]float64) []Need {
	out := make([]Need, 0, len(totals))
	for ing, qty := range totals {
		out = append(out, Need{Ingredient: ing, Needed: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Needed != out[j].Needed {
			return out[i].Needed > out[j].Needed
		}
		return out[i].Ingredient < out[j].Ingredient
	})
	return out
}

// lookup matches ingredient names case-insensitively, since config keys
// arrive lower-cased.
func lookup(m map[string]float64, name string) (float64, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
