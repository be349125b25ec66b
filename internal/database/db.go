// Package database opens the SQL sources orders can be read from.
package database

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Supported dialects
const (
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

// DialectFor picks the dialect of a source: PostgreSQL URLs, otherwise a SQLite file.
func DialectFor(source string) string {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// Open connects to dsn. The caller closes the returned handle.
// SQLite files are opened read-only and must already exist.
func Open(dialect, dsn string) (*gorm.DB, error) {
	switch dialect {
	case Postgres:
	case SQLite:
		if _, err := os.Stat(dsn); err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		dsn = readOnlyURI(dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	return db, nil
}

func readOnlyURI(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
}
