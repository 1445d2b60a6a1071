package database

import (
	"fmt"

	"github.com/attendly/attendly-backend/pkg/config"
)

// Dialect renders the SQL fragments that differ between SQLite and Postgres.
// Arguments are SQL expressions or named parameters (":start").
type Dialect interface {
	Name() string
	// DateSpine renders a recursive CTE body "name(d) AS (...)" yielding one
	// row per calendar day in [start, end].
	DateSpine(name, start, end string) string
	// DateOf truncates a timestamp expression to its calendar date.
	DateOf(expr string) string
	// DateParam casts a 'YYYY-MM-DD' parameter to the date type DateOf yields.
	DateParam(param string) string
	// TimeOfDay yields a comparable time-of-day from a timestamp or time expression.
	TimeOfDay(expr string) string
	// YearMonth formats a date expression as 'YYYY-MM'.
	YearMonth(expr string) string
	// Year and Month format a date expression as 'YYYY' and 'MM'.
	Year(expr string) string
	Month(expr string) string
}

// DialectFor returns the dialect for a driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return SQLite{}, nil
	case config.DriverPostgres:
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// SQLite is the dialect of the attendance device database
type SQLite struct{}

func (SQLite) Name() string { return config.DriverSQLite }

func (SQLite) DateSpine(name, start, end string) string {
	return fmt.Sprintf(
		"%[1]s(d) AS (SELECT date(%[2]s) UNION ALL SELECT date(d, '+1 day') FROM %[1]s WHERE d < date(%[3]s))",
		name, start, end,
	)
}

func (SQLite) DateOf(expr string) string { return "date(" + expr + ")" }
func (SQLite) DateParam(param string) string { return "date(" + param + ")" }
func (SQLite) TimeOfDay(expr string) string { return "time(" + expr + ")" }
func (SQLite) YearMonth(expr string) string { return "strftime('%Y-%m', " + expr + ")" }
func (SQLite) Year(expr string) string { return "strftime('%Y', " + expr + ")" }
func (SQLite) Month(expr string) string { return "strftime('%m', " + expr + ")" }

// Postgres avoids the "::" cast shorthand, which sqlx treats as an escaped colon
type Postgres struct{}

func (Postgres) Name() string { return config.DriverPostgres }

func (Postgres) DateSpine(name, start, end string) string {
	return fmt.Sprintf(
		"%[1]s(d) AS (SELECT CAST(%[2]s AS date) UNION ALL SELECT d + 1 FROM %[1]s WHERE d < CAST(%[3]s AS date))",
		name, start, end,
	)
}

func (Postgres) DateOf(expr string) string { return "CAST(" + expr + " AS date)" }
func (Postgres) DateParam(param string) string { return "CAST(" + param + " AS date)" }
func (Postgres) TimeOfDay(expr string) string { return "CAST(" + expr + " AS time)" }
func (Postgres) YearMonth(expr string) string { return "to_char(" + expr + ", 'YYYY-MM')" }
func (Postgres) Year(expr string) string { return "to_char(" + expr + ", 'YYYY')" }
func (Postgres) Month(expr string) string { return "to_char(" + expr + ", 'MM')" }
