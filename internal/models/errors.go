package models

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from the input
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseError reports a malformed timestamp or numeric field
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: cannot parse %s value %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot parse %s value %q: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InsufficientDataError is returned when a series is too short to forecast
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for forecasting: have %d observations, need at least %d", e.Have, e.Need)
}

// ConfigError reports an invalid parameter such as a non-positive staffing ratio
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Error kinds as shown to the user
const (
	KindSchema           = "schema"
	KindParse            = "parse"
	KindInsufficientData = "insufficient_data"
	KindConfig           = "config"
	KindInternal         = "internal"
)

// ErrorKind maps an error onto the taxonomy above
func ErrorKind(err error) string {
	var (
		schemaErr *SchemaError
		parseErr  *ParseError
		dataErr   *InsufficientDataError
		cfgErr    *ConfigError
	)
	switch {
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &dataErr):
		return KindInsufficientData
	case errors.As(err, &cfgErr):
		return KindConfig
	default:
		return KindInternal
	}
}
