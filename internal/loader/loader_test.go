package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/rajanjha2004/HotelData/internal/models"
)

var fixedNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func testLoader() *Loader {
	return New(Options{Now: func() time.Time { return fixedNow }})
}

const originalFormatCSV = `orderId,hotelId,orderNo,itemName,itemQuantity,itemPrice,status,createdAt,updatedAt
ORD-1,1,ON-1,Coffee,2,3.99,completed,2024-03-04 08:15:00,2024-03-04 08:40:00
ORD-1,1,ON-1,Club Sandwich,1,14.99,completed,2024-03-04 08:15:00,2024-03-04 08:40:00
ORD-2,2,ON-2,Steak Dinner,1,29.99,Cancelled,2024-03-03T19:30:00Z,
`

func TestLoadCSV_OriginalColumnNames(t *testing.T) {
	table, err := testLoader().LoadCSV("orders.csv", strings.NewReader(originalFormatCSV))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	// sorted by timestamp
	first := table.At(0)
	assert.Equal(t, "Steak Dinner", first.Item)
	assert.Equal(t, models.OrderStatusCanceled, first.NormalizedStatus())
	assert.True(t, first.UpdatedAt.IsZero())

	second := table.At(1)
	assert.Equal(t, "ORD-1", second.OrderID)
	assert.Equal(t, 2.0, second.Quantity)
	assert.InDelta(t, 7.98, second.Total(), 1e-9)
	assert.Equal(t, 25*time.Minute, second.UpdatedAt.Sub(second.CreatedAt))
}

func TestLoadCSV_MissingTimestampIsSchemaError(t *testing.T) {
	input := "item,quantity,price\nCoffee,1,3.99\n"

	table, err := testLoader().LoadCSV("orders.csv", strings.NewReader(input))

	assert.Nil(t, table)
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"timestamp"}, schemaErr.Missing)
}

func TestLoadCSV_EmptyFileIsSchemaError(t *testing.T) {
	_, err := testLoader().LoadCSV("empty.csv", strings.NewReader(""))
	assert.Equal(t, models.KindSchema, models.ErrorKind(err))
}

func TestLoadCSV_MalformedValues(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		column string
		row    int
	}{
		{"bad timestamp", "timestamp,item,quantity,price\n2024-01-01 10:00,Tea,1,2\nyesterday,Tea,1,2\n", "timestamp", 2},
		{"bad quantity", "timestamp,item,quantity,price\n2024-01-01 10:00,Tea,two,2\n", "quantity", 1},
		{"bad price", "timestamp,item,quantity,price\n2024-01-01 10:00,Tea,1,$2\n", "price", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := testLoader().LoadCSV("orders.csv", strings.NewReader(tc.input))
			assert.Nil(t, table)
			var parseErr *models.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.column, parseErr.Column)
			assert.Equal(t, tc.row, parseErr.Row)
		})
	}
}

func TestLoadCSV_SkipsInvalidRows(t *testing.T) {
	input := `timestamp,item,quantity,price
2024-01-01 10:00,Tea,1,2
2024-01-01 11:00,Tea,0,2
2024-01-01 12:00,Tea,-1,2
2024-01-01 13:00,Tea,1,-2
1999-12-31 23:00,Tea,1,2
2030-01-01 10:00,Tea,1,2
2024-01-01 14:00,Tea,,2

`
	table, err := testLoader().LoadCSV("orders.csv", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 6, table.Skipped)
}

func TestLoadCSV_ConvertsOffsetsToLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	l := New(Options{Location: loc, Now: func() time.Time { return fixedNow }})

	table, err := l.LoadCSV("orders.csv", strings.NewReader("timestamp,item,quantity,price\n2024-01-01T07:00:00Z,Tea,1,2\n2024-01-01 07:00,Tea,1,2\n"))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, 7, table.At(0).CreatedAt.Hour())
	assert.Equal(t, 10, table.At(1).CreatedAt.Hour())
}

func TestLoadUpload_RejectsDatabaseFiles(t *testing.T) {
	_, err := testLoader().LoadUpload("orders.db", []byte("x"))
	assert.Equal(t, models.KindConfig, models.ErrorKind(err))
}

func strPtr(s string) *string { return &s }

// parquetOrder is the layout the order exports are written with
type parquetOrder struct {
	Timestamp string  `parquet:"name=timestamp, type=BYTE_ARRAY, convertedtype=UTF8"`
	Item      string  `parquet:"name=item, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity  float64 `parquet:"name=quantity, type=DOUBLE"`
	Price     float64 `parquet:"name=price, type=DOUBLE"`
	OrderID   *string `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	HotelID   *string `parquet:"name=hotel_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	OrderNo   *string `parquet:"name=order_no, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Status    *string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	UpdatedAt *string `parquet:"name=updated_at, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Room      *string `parquet:"name=room, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

type requiredOnlyRow struct {
	CreatedAt string  `parquet:"name=created_at, type=BYTE_ARRAY, convertedtype=UTF8"`
	ItemName  string  `parquet:"name=item_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity  int64   `parquet:"name=item_quantity, type=INT64"`
	Price     float32 `parquet:"name=item_price, type=FLOAT"`
}

type noTimestampRow struct {
	Item     string  `parquet:"name=item, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity float64 `parquet:"name=quantity, type=DOUBLE"`
	Price    float64 `parquet:"name=price, type=DOUBLE"`
}

func writeParquet(t *testing.T, schema interface{}, rows ...interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.parquet")
	fw, err := local.NewLocalFileWriter(path)
	require.NoError(t, err)
	pw, err := writer.NewParquetWriter(fw, schema, 1)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, pw.Write(r))
	}
	require.NoError(t, pw.WriteStop())
	require.NoError(t, fw.Close())
	return path
}

func TestLoadParquet(t *testing.T) {
	path := writeParquet(t, new(parquetOrder),
		parquetOrder{Timestamp: "2024-02-01 12:00:00", Item: "Pasta Carbonara", Quantity: 2, Price: 18.99, OrderID: strPtr("ORD-9"), Status: strPtr("completed")},
		parquetOrder{Timestamp: "2024-02-01 19:00:00", Item: "Glass of Wine", Quantity: 1, Price: 10.99},
	)

	table, err := testLoader().LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "ORD-9", table.At(0).OrderID)
	assert.Equal(t, "Glass of Wine", table.At(1).Item)
	assert.Equal(t, 19, table.At(1).CreatedAt.Hour())
}

func TestLoadParquet_RequiredColumnsOnly(t *testing.T) {
	path := writeParquet(t, new(requiredOnlyRow),
		requiredOnlyRow{CreatedAt: "2024-02-02 07:30:00", ItemName: "Espresso", Quantity: 3, Price: 2.5},
		requiredOnlyRow{CreatedAt: "2024-02-01 21:00:00", ItemName: "Cheesecake", Quantity: 1, Price: 9.5},
	)

	table, err := testLoader().LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Cheesecake", table.At(0).Item)
	assert.Equal(t, 3.0, table.At(1).Quantity)
	assert.Equal(t, 2.5, table.At(1).Price)
	assert.Empty(t, table.At(1).OrderID)
}

func TestLoadParquet_MissingTimestamp(t *testing.T) {
	path := writeParquet(t, new(noTimestampRow), noTimestampRow{Item: "Coffee", Quantity: 1, Price: 3})

	_, err := testLoader().LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, models.KindSchema, models.ErrorKind(err))

	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "timestamp")
}

func TestLoadParquet_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.parquet")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,item\n"), 0o644))

	_, err := testLoader().LoadFile(path)
	assert.Equal(t, models.KindParse, models.ErrorKind(err))
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	db, err := gorm.Open("sqlite3", path)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE orders (order_id TEXT, item_name TEXT, item_quantity INTEGER, item_price REAL, created_at TEXT)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO orders VALUES ('A', 'Coffee', 2, 3.99, '2024-03-01 08:00:00'), ('B', 'Cheesecake', 1, 9.99, '2024-03-01 20:00:00')`).Error)
	require.NoError(t, db.Close())

	table, err := testLoader().LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 2.0, table.At(0).Quantity)
	assert.Equal(t, "Cheesecake", table.At(1).Item)
}

func TestLoadSQLite_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := gorm.Open("sqlite3", path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = testLoader().LoadFile(path)
	assert.Equal(t, models.KindSchema, models.ErrorKind(err))
}

func TestLoadSQLite_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")

	_, err := testLoader().LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

type fakeObjects struct {
	body   string
	bucket string
	key    string
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = *in.Bucket
	f.key = *in.Key
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadS3(t *testing.T) {
	objects := &fakeObjects{body: originalFormatCSV}
	l := testLoader().WithObjectGetter(objects)

	table, err := l.Load(context.Background(), "s3://hotel-exports/2024/orders.csv")
	require.NoError(t, err)

	assert.Equal(t, "hotel-exports", objects.bucket)
	assert.Equal(t, "2024/orders.csv", objects.key)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "s3://hotel-exports/2024/orders.csv", table.Source)
}

func TestLoadS3_BadURL(t *testing.T) {
	_, err := testLoader().WithObjectGetter(&fakeObjects{}).LoadS3(context.Background(), "s3://bucket-only")
	assert.Equal(t, models.KindConfig, models.ErrorKind(err))
}
