package loader

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/rajanjha2004/HotelData/internal/database"
	"github.com/rajanjha2004/HotelData/internal/models"
)

// LoadSQL reads every row of table from a SQLite file or a PostgreSQL DSN.
// Column names follow the same contract as CSV headers.
func (l *Loader) LoadSQL(dialect, dsn, table string) (*models.OrderTable, error) {
	db, err := database.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if !db.HasTable(table) {
		return nil, &models.SchemaError{Missing: []string{"table " + table}}
	}

	rows, err := db.Table(table).Rows()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	frame, err := scanFrame(rows)
	if err != nil {
		return nil, err
	}

	source := dialect + ":" + table
	result, err := Build(source, frame, l.opts)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d order lines from %s (%d skipped)", result.Len(), source, result.Skipped)
	return result, nil
}

func scanFrame(rows *sql.Rows) (Frame, error) {
	header, err := rows.Columns()
	if err != nil {
		return Frame{}, fmt.Errorf("read columns: %w", err)
	}

	frame := Frame{Header: header}
	values := make([]sql.NullString, len(header))
	dest := make([]interface{}, len(header))
	for i := range values {
		dest[i] = &values[i]
	}

	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(dest...); err != nil {
			return Frame{}, &models.ParseError{Row: row, Column: "record", Err: err}
		}
		fields := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				fields[i] = v.String
			}
		}
		frame.Rows = append(frame.Rows, fields)
	}
	if err := rows.Err(); err != nil {
		return Frame{}, fmt.Errorf("iterate rows: %w", err)
	}
	return frame, nil
}
