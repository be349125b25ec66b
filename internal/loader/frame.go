package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// Frame is the raw tabular form every source is read into before validation
type Frame struct {
	Header []string
	Rows   [][]string
}

type column int

const (
	colTimestamp column = iota
	colItem
	colQuantity
	colPrice
	colOrderID
	colHotelID
	colOrderNo
	colStatus
	colUpdatedAt
	colRoom
	numColumns
)

var columnNames = [numColumns]string{
	colTimestamp: "timestamp",
	colItem:      "item",
	colQuantity:  "quantity",
	colPrice:     "price",
	colOrderID:   "order_id",
	colHotelID:   "hotel_id",
	colOrderNo:   "order_no",
	colStatus:    "status",
	colUpdatedAt: "updated_at",
	colRoom:      "room",
}

var requiredColumns = []column{colTimestamp, colItem, colQuantity, colPrice}

// Accepted header spellings after normalization (lower case, no separators).
var columnAliases = map[string]column{
	"timestamp":    colTimestamp,
	"createdat":    colTimestamp,
	"datetime":     colTimestamp,
	"item":         colItem,
	"itemname":     colItem,
	"quantity":     colQuantity,
	"itemquantity": colQuantity,
	"qty":          colQuantity,
	"price":        colPrice,
	"itemprice":    colPrice,
	"unitprice":    colPrice,
	"orderid":      colOrderID,
	"hotelid":      colHotelID,
	"orderno":      colOrderNo,
	"ordernumber":  colOrderNo,
	"status":       colStatus,
	"updatedat":    colUpdatedAt,
	"room":         colRoom,
	"roomno":       colRoom,
	"table":        colRoom,
	"tableno":      colRoom,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// earliestPlausible is the lower bound of the historical range accepted by Build.
var earliestPlausible = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.NewReplacer("_", "", " ", "", "-", "", ".", "").Replace(h)
}

// resolveColumns maps each known column to its index in the header, -1 when absent.
func resolveColumns(header []string) ([numColumns]int, error) {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	for i, h := range header {
		c, ok := columnAliases[normalizeHeader(h)]
		if !ok || idx[c] >= 0 {
			continue
		}
		idx[c] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if idx[c] < 0 {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return idx, &models.SchemaError{Missing: missing}
	}
	return idx, nil
}

// Build validates the frame and converts it into an order table.
// Rows with a non-positive quantity, a negative price, or a timestamp outside
// [2000-01-01, now] are skipped and counted. Any parse failure aborts the load.
func Build(source string, f Frame, opts Options) (*models.OrderTable, error) {
	opts = opts.withDefaults()

	idx, err := resolveColumns(f.Header)
	if err != nil {
		return nil, err
	}

	now := opts.Now()
	records := make([]models.OrderRecord, 0, len(f.Rows))
	skipped := 0
	for i, row := range f.Rows {
		rowNum := i + 1
		if isBlank(row) {
			continue
		}
		rec, err := buildRecord(row, idx, rowNum, opts.Location)
		if err != nil {
			return nil, err
		}
		if rec.Quantity <= 0 || rec.Price < 0 {
			skipped++
			continue
		}
		if rec.CreatedAt.Before(earliestPlausible) || rec.CreatedAt.After(now) {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return models.NewOrderTable(source, records, skipped), nil
}

func buildRecord(row []string, idx [numColumns]int, rowNum int, loc *time.Location) (models.OrderRecord, error) {
	var rec models.OrderRecord
	var err error

	raw := cell(row, idx[colTimestamp])
	if rec.CreatedAt, err = parseTimestamp(raw, loc); err != nil {
		return rec, &models.ParseError{Row: rowNum, Column: columnNames[colTimestamp], Value: raw, Err: err}
	}
	if raw = cell(row, idx[colUpdatedAt]); raw != "" {
		if rec.UpdatedAt, err = parseTimestamp(raw, loc); err != nil {
			return rec, &models.ParseError{Row: rowNum, Column: columnNames[colUpdatedAt], Value: raw, Err: err}
		}
	}
	raw = cell(row, idx[colQuantity])
	if rec.Quantity, err = parseNumber(raw); err != nil {
		return rec, &models.ParseError{Row: rowNum, Column: columnNames[colQuantity], Value: raw, Err: err}
	}
	raw = cell(row, idx[colPrice])
	if rec.Price, err = parseNumber(raw); err != nil {
		return rec, &models.ParseError{Row: rowNum, Column: columnNames[colPrice], Value: raw, Err: err}
	}

	rec.Item = cell(row, idx[colItem])
	rec.OrderID = cell(row, idx[colOrderID])
	rec.HotelID = cell(row, idx[colHotelID])
	rec.OrderNo = cell(row, idx[colOrderNo])
	rec.Status = cell(row, idx[colStatus])
	rec.Room = cell(row, idx[colRoom])
	return rec, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

// parseNumber treats an empty or NaN cell as zero.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, nil
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("value out of range")
	}
	return v, nil
}
