package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rajanjha2004/HotelData/internal/database"
	"github.com/rajanjha2004/HotelData/internal/models"
)

// Options controls how raw values are interpreted
type Options struct {
	// Location is used for timestamps without an offset; offsets are converted to it.
	Location *time.Location
	// Now bounds the plausible historical range.
	Now func() time.Time
	// SQLTable is the table read from SQLite and PostgreSQL sources.
	SQLTable string
	// S3Region is used when a source is an s3:// URL.
	S3Region string
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.SQLTable == "" {
		o.SQLTable = "orders"
	}
	return o
}

// Loader reads order tables from files, uploaded buffers, databases and S3
type Loader struct {
	opts Options

	mu      sync.Mutex
	objects ObjectGetter
}

// New creates a loader. The S3 client is created on first use.
func New(opts Options) *Loader {
	return &Loader{opts: opts.withDefaults()}
}

// WithObjectGetter replaces the S3 client, mainly for tests.
func (l *Loader) WithObjectGetter(g ObjectGetter) *Loader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.objects = g
	return l
}

// Load resolves a source string: s3://bucket/key, postgres://dsn, or a local
// file whose extension selects the format (.csv, .parquet, .db/.sqlite/.sqlite3).
func (l *Loader) Load(ctx context.Context, source string) (*models.OrderTable, error) {
	switch {
	case strings.HasPrefix(source, "s3://"):
		return l.LoadS3(ctx, source)
	case database.DialectFor(source) == database.Postgres:
		return l.LoadSQL(database.Postgres, source, l.opts.SQLTable)
	}
	return l.LoadFile(source)
}

// LoadFile reads a local file
func (l *Loader) LoadFile(path string) (*models.OrderTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return l.LoadParquet(path)
	case ".db", ".sqlite", ".sqlite3":
		return l.LoadSQL(database.SQLite, path, l.opts.SQLTable)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return l.LoadCSV(filepath.Base(path), f)
}

// LoadUpload reads an uploaded buffer, using the file name to pick the format.
func (l *Loader) LoadUpload(name string, data []byte) (*models.OrderTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".parquet":
		return l.loadParquetBytes(name, data)
	case ".db", ".sqlite", ".sqlite3":
		return nil, &models.ConfigError{Field: "upload", Reason: "database files must be loaded by path"}
	}
	return l.LoadCSV(name, bytes.NewReader(data))
}

// LoadCSV reads a CSV stream with a header row
func (l *Loader) LoadCSV(source string, r io.Reader) (*models.OrderTable, error) {
	frame, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	table, err := Build(source, frame, l.opts)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d order lines from %s (%d skipped)", table.Len(), source, table.Skipped)
	return table, nil
}

func readCSV(r io.Reader) (Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Frame{}, &models.SchemaError{Missing: requiredNames()}
	}
	if err != nil {
		return Frame{}, &models.ParseError{Column: "header", Err: err}
	}

	frame := Frame{Header: header}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			row := 0
			if errors.As(err, &pe) {
				row = pe.Line - 1
			}
			return Frame{}, &models.ParseError{Row: row, Column: "record", Err: err}
		}
		frame.Rows = append(frame.Rows, fields)
	}
	return frame, nil
}

func requiredNames() []string {
	names := make([]string, len(requiredColumns))
	for i, c := range requiredColumns {
		names[i] = columnNames[c]
	}
	return names
}
