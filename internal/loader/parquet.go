package loader

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/schema"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// LoadParquet reads a local parquet file. The file's own schema drives the
// read, so columns are resolved the same way as CSV headers.
func (l *Loader) LoadParquet(path string) (table *models.OrderTable, err error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file %s: %w", path, err)
	}
	defer fr.Close()

	// parquet-go panics on layouts it cannot map
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, &models.ParseError{Column: "parquet", Value: path, Err: fmt.Errorf("%v", r)}
		}
	}()

	pr, err := reader.NewParquetReader(fr, nil, 4)
	if err != nil {
		return nil, &models.ParseError{Column: "parquet footer", Value: path, Err: err}
	}
	defer pr.ReadStop()

	header := topLevelColumns(pr.SchemaHandler)
	if _, err := resolveColumns(header); err != nil {
		return nil, err
	}

	num := int(pr.GetNumRows())
	frame := Frame{Header: header, Rows: make([][]string, 0, num)}
	if num > 0 {
		rows, err := pr.ReadByNumber(num)
		if err != nil {
			return nil, &models.ParseError{Column: "parquet rows", Value: path, Err: err}
		}
		for _, r := range rows {
			frame.Rows = append(frame.Rows, parquetRow(reflect.ValueOf(r), len(header)))
		}
	}

	table, err = Build(path, frame, l.opts)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d order lines from parquet %s (%d skipped)", table.Len(), path, table.Skipped)
	return table, nil
}

// topLevelColumns lists the external names of the root's direct children,
// in the field order of the row type the reader builds.
func topLevelColumns(sh *schema.SchemaHandler) []string {
	var names []string
	for i := 1; i < len(sh.SchemaElements); i++ {
		if len(common.StrToPath(sh.IndexMap[int32(i)])) == 2 {
			names = append(names, sh.Infos[i].ExName)
		}
	}
	return names
}

func parquetRow(v reflect.Value, width int) []string {
	fields := make([]string, width)
	for i := 0; i < width && i < v.NumField(); i++ {
		fields[i] = parquetCell(v.Field(i))
	}
	return fields
}

func parquetCell(v reflect.Value) string {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	}
	return ""
}

// loadParquetBytes spools an uploaded parquet buffer to a temporary file,
// since the parquet reader needs a seekable source.
func (l *Loader) loadParquetBytes(name string, data []byte) (*models.OrderTable, error) {
	tmp, err := os.CreateTemp("", "upload-*.parquet")
	if err != nil {
		return nil, fmt.Errorf("spool parquet upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spool parquet upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("spool parquet upload: %w", err)
	}

	table, err := l.LoadParquet(tmp.Name())
	if err != nil {
		return nil, err
	}
	table.Source = name
	return table, nil
}
