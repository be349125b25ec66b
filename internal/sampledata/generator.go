// Package sampledata generates realistic hotel order histories for demos and tests.
package sampledata

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/jaswdr/faker"

	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/models"
)

// MenuItem is a dish with its list price
type MenuItem struct {
	Name  string
	Price float64
}

// Menu is the default hotel menu
var Menu = []MenuItem{
	{"Burger and Fries", 15.99},
	{"Pasta Carbonara", 18.99},
	{"Grilled Salmon", 24.99},
	{"Caesar Salad", 12.99},
	{"Club Sandwich", 14.99},
	{"Steak Dinner", 29.99},
	{"Vegetable Stir Fry", 16.99},
	{"Seafood Platter", 32.99},
	{"Chicken Curry", 19.99},
	{"Pizza Margherita", 17.99},
	{"Mushroom Risotto", 20.99},
	{"Fish and Chips", 18.99},
	{"Beef Lasagna", 21.99},
	{"Shrimp Scampi", 25.99},
	{"Chocolate Cake", 8.99},
	{"Cheesecake", 9.99},
	{"Ice Cream Sundae", 7.99},
	{"Coffee", 3.99},
	{"Soft Drink", 2.99},
	{"Glass of Wine", 10.99},
}

// CommonIngredients is the pool used for generated recipes
var CommonIngredients = []string{
	"Flour", "Sugar", "Eggs", "Milk", "Butter",
	"Chicken", "Beef", "Vegetables", "Cheese", "Rice",
	"Pasta", "Tomatoes", "Onions", "Garlic", "Oil",
}

var mealHours = map[int]bool{7: true, 8: true, 12: true, 13: true, 18: true, 19: true, 20: true}

// Options configures a generated history
type Options struct {
	Orders int
	Start  time.Time
	End    time.Time
	Seed   int64
	Hotels int
}

// Generator produces order lines from a seeded faker
type Generator struct {
	opts Options
	fake faker.Faker
}

func NewGenerator(opts Options) *Generator {
	if opts.Hotels <= 0 {
		opts.Hotels = 5
	}
	if opts.End.IsZero() {
		opts.End = time.Now()
	}
	if opts.Start.IsZero() {
		opts.Start = opts.End.AddDate(0, 0, -90)
	}
	return &Generator{
		opts: opts,
		fake: faker.NewWithSeed(rand.NewSource(opts.Seed)),
	}
}

// chance returns true with the given probability in percent
func (g *Generator) chance(pct int) bool {
	return g.fake.IntBetween(1, 100) <= pct
}

func (g *Generator) status() string {
	switch n := g.fake.IntBetween(1, 100); {
	case n <= 85:
		return string(models.OrderStatusCompleted)
	case n <= 95:
		return string(models.OrderStatusPending)
	default:
		return string(models.OrderStatusCanceled)
	}
}

// Records draws Orders candidate orders uniformly over [Start, End). Orders
// outside meal times and on weekdays are thinned out, so the history shows
// the usual daily and weekly peaks.
func (g *Generator) Records() []models.OrderRecord {
	span := int(g.opts.End.Sub(g.opts.Start) / time.Second)
	if span <= 0 {
		return nil
	}

	var records []models.OrderRecord
	for i := 1; i <= g.opts.Orders; i++ {
		created := g.opts.Start.Add(time.Duration(g.fake.IntBetween(0, span-1)) * time.Second)

		hour := created.Hour()
		switch {
		case hour < 7 || hour > 22:
			if g.chance(90) {
				continue
			}
		case !mealHours[hour]:
			if g.chance(60) {
				continue
			}
		}
		if wd := created.Weekday(); wd != time.Saturday && wd != time.Sunday && g.chance(30) {
			continue
		}

		orderID := fmt.Sprintf("ORD-%06d", i)
		orderNo := fmt.Sprintf("ON-%06d", i)
		hotel := strconv.Itoa(g.fake.IntBetween(1, g.opts.Hotels))
		items := g.fake.IntBetween(1, 5)
		for j := 0; j < items; j++ {
			item := Menu[g.fake.IntBetween(0, len(Menu)-1)]
			records = append(records, models.OrderRecord{
				OrderID:   orderID,
				HotelID:   hotel,
				OrderNo:   orderNo,
				Item:      item.Name,
				Quantity:  float64(g.fake.IntBetween(1, 3)),
				Price:     item.Price,
				Status:    g.status(),
				CreatedAt: created,
				UpdatedAt: created.Add(time.Duration(g.fake.IntBetween(10, 59)) * time.Minute),
			})
		}
	}
	return records
}

// Table generates a full order table
func (g *Generator) Table(source string) *models.OrderTable {
	return models.NewOrderTable(source, g.Records(), 0)
}

// Recipes assigns two to five ingredients with random per-serving amounts to each item.
func (g *Generator) Recipes(items []string) ingredients.Recipes {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)

	recipes := make(ingredients.Recipes, len(sorted))
	for _, item := range sorted {
		pool := append([]string(nil), CommonIngredients...)
		for i := len(pool) - 1; i > 0; i-- {
			j := g.fake.IntBetween(0, i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		n := g.fake.IntBetween(2, 5)
		recipe := make(map[string]float64, n)
		for _, ing := range pool[:n] {
			recipe[ing] = math.Round(g.fake.Float64(2, 10, 200)) / 100
		}
		recipes[item] = recipe
	}
	return recipes
}

// DemoSource is the source name used for generated demo tables
const DemoSource = "demo"

// Demo returns the 90-day demo history ending at now, with recipes for its menu.
func Demo(now time.Time, seed int64) (*models.OrderTable, ingredients.Recipes) {
	g := NewGenerator(Options{
		Orders: 4000,
		Start:  now.AddDate(0, 0, -90),
		End:    now,
		Seed:   seed,
	})
	table := g.Table(DemoSource)

	names := make([]string, len(Menu))
	for i, m := range Menu {
		names[i] = m.Name
	}
	return table, g.Recipes(names)
}
