package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/errors"
)

// DateLayout is the wire format of every date parameter
const DateLayout = "2006-01-02"

// EmployeeIDParam accepts an employee id sent either as a JSON number or a string
type EmployeeIDParam string

// UnmarshalJSON implements json.Unmarshaler
func (p *EmployeeIDParam) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = EmployeeIDParam(s)
		return nil
	}
	*p = EmployeeIDParam(data)
	return nil
}

// SearchRequest is the body of the attendance search
type SearchRequest struct {
	Name       string          `json:"name"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Department string          `json:"department"`
	EmployeeID EmployeeIDParam `json:"employeeId"`
	Status     string          `json:"status"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
}

// MonthlyRequest is the body of the punch-day report
type MonthlyRequest struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Department string `json:"department"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

// DateRange is a validated inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartDate returns the start as 'YYYY-MM-DD'
func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate returns the end as 'YYYY-MM-DD'
func (r DateRange) EndDate() string { return r.End.Format(DateLayout) }

// ParseRange validates an inclusive date range of at most maxDays days
func ParseRange(start, end string, maxDays int) (DateRange, error) {
	s, err := time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		return DateRange{}, errors.BadRequestWithKey("errors.invalid_date")
	}
	e, err := time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		return DateRange{}, errors.BadRequestWithKey("errors.invalid_date")
	}
	if e.Before(s) {
		return DateRange{}, errors.BadRequestWithKey("errors.invalid_range")
	}
	if maxDays > 0 && int(e.Sub(s).Hours()/24)+1 > maxDays {
		return DateRange{}, errors.BadRequestWithKey("errors.range_too_large", map[string]string{
			"days": strconv.Itoa(maxDays),
		})
	}
	return DateRange{Start: s, End: e}, nil
}

// MonthRange returns the calendar month containing now
func MonthRange(now time.Time) DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}

// ParseEmployeeID converts an optional employee id. Non-numeric input is rejected.
func ParseEmployeeID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.BadRequestWithKey("errors.invalid_employee_id")
	}
	return &id, nil
}

// ParseStatus normalizes the status filter; empty and "Todos" disable it
func ParseStatus(raw string) (string, error) {
	switch raw {
	case "", repository.StatusAll:
		return "", nil
	case repository.StatusComplete, repository.StatusPending, repository.StatusMissing:
		return raw, nil
	default:
		return "", errors.BadRequestWithKey("errors.invalid_status")
	}
}

// Pagination is a resolved 1-based page
type Pagination struct {
	Page     int
	PageSize int
}

// Repo converts the page to a repository window
func (p Pagination) Repo() repository.Page {
	return repository.Page{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

// ResolvePage applies the configured default and maximum page sizes
func ResolvePage(page, pageSize int, cfg config.ReportsConfig) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if cfg.MaxPageSize > 0 && pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// ParsePeriod validates a dashboard year and optional month and pads the month
func ParsePeriod(year, month string) (repository.PeriodFilter, error) {
	year = strings.TrimSpace(year)
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 || y < 1900 {
		return repository.PeriodFilter{}, errors.Validation(map[string]string{"year": "must be a four digit year"})
	}
	p := repository.PeriodFilter{Year: year}

	month = strings.TrimSpace(month)
	if month == "" {
		return p, nil
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return repository.PeriodFilter{}, errors.Validation(map[string]string{"month": "must be between 1 and 12"})
	}
	p.Month = fmt.Sprintf("%02d", m)
	return p, nil
}

// withQueryTimeout bounds the queries of one operation by
// reports.query_timeout. A deadline hit surfaces as QUERY_TIMEOUT.
func withQueryTimeout(ctx context.Context, cfg config.ReportsConfig) (context.Context, context.CancelFunc) {
	if cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.QueryTimeout)
}
