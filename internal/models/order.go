package models

import (
	"sort"
	"strings"
	"time"
)

// OrderRecord represents one order line loaded from the input file
type OrderRecord struct {
	OrderID   string    `json:"order_id,omitempty"`
	HotelID   string    `json:"hotel_id,omitempty"`
	OrderNo   string    `json:"order_no,omitempty"`
	Item      string    `json:"item"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status,omitempty"`
	Room      string    `json:"room,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Total returns the line revenue
func (r OrderRecord) Total() float64 {
	return r.Quantity * r.Price
}

// OrderStatus represents the normalized status of an order line
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// NormalizedStatus lower-cases the status and folds the "cancelled" spelling.
func (r OrderRecord) NormalizedStatus() OrderStatus {
	s := strings.ToLower(strings.TrimSpace(r.Status))
	if s == "cancelled" {
		return OrderStatusCanceled
	}
	return OrderStatus(s)
}

// OrderTable is the immutable in-memory table produced by the loader.
// Records are kept sorted by CreatedAt.
type OrderTable struct {
	records  []OrderRecord
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Skipped  int       `json:"skipped"`
}

// NewOrderTable copies and sorts the given records into a new table
func NewOrderTable(source string, records []OrderRecord, skipped int) *OrderTable {
	rs := make([]OrderRecord, len(records))
	copy(rs, records)
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
	return &OrderTable{
		records:  rs,
		Source:   source,
		LoadedAt: time.Now(),
		Skipped:  skipped,
	}
}

func (t *OrderTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

func (t *OrderTable) At(i int) OrderRecord {
	return t.records[i]
}

// Records returns a copy of the table rows
func (t *OrderTable) Records() []OrderRecord {
	if t == nil {
		return nil
	}
	out := make([]OrderRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Span returns the first and last timestamps. Both are zero for an empty table.
func (t *OrderTable) Span() (time.Time, time.Time) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	return t.records[0].CreatedAt, t.records[len(t.records)-1].CreatedAt
}

// Between returns a new table holding the records with from <= CreatedAt < to.
// A zero bound is open.
func (t *OrderTable) Between(from, to time.Time) *OrderTable {
	if t == nil {
		return NewOrderTable("", nil, 0)
	}
	lo := 0
	if !from.IsZero() {
		lo = sort.Search(len(t.records), func(i int) bool {
			return !t.records[i].CreatedAt.Before(from)
		})
	}
	hi := len(t.records)
	if !to.IsZero() {
		hi = sort.Search(len(t.records), func(i int) bool {
			return !t.records[i].CreatedAt.Before(to)
		})
	}
	if hi < lo {
		hi = lo
	}
	sub := &OrderTable{
		records:  make([]OrderRecord, hi-lo),
		Source:   t.Source,
		LoadedAt: t.LoadedAt,
		Skipped:  t.Skipped,
	}
	copy(sub.records, t.records[lo:hi])
	return sub
}

// Clone returns an independent copy, used to give each session its own table.
func (t *OrderTable) Clone() *OrderTable {
	return t.Between(time.Time{}, time.Time{})
}
