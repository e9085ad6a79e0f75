package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharath018/golftrip-backend/internal/event"
)

var ErrInvalidFilter = errors.New("invalid report filter")

// GetDateRange returns start and end time for the given preset or custom (startStr/endStr required for custom).
// startStr/endStr expected in "2006-01-02" format when dateRange == DateRangeCustom.
func GetDateRange(dateRange, startStr, endStr string) (time.Time, time.Time, error) {
	now := time.Now()
	loc := now.Location()

	switch dateRange {
	case DateRangeDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end := start.Add(24*time.Hour - time.Second)
		return start, end, nil
	case DateRangeWeekly:
		// last 7 days (including today)
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, loc)
		start := time.Date(now.Year(), now.Month(), now.Day()-6, 0, 0, 0, 0, loc)
		return start, end, nil
	case DateRangeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		return start, end, nil
	case DateRangeYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		end := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, loc)
		return start, end, nil
	case DateRangeAll:
		return time.Time{}, time.Time{}, nil
	case DateRangeCustom:
		if startStr == "" || endStr == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date and end_date required for custom range", ErrInvalidFilter)
		}
		start, err := time.ParseInLocation("2006-01-02", startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", ErrInvalidFilter, err)
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", ErrInvalidFilter, err)
		}
		// include entire end day
		end = end.Add(24*time.Hour - time.Second)
		if start.After(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date must be before end_date", ErrInvalidFilter)
		}
		return start, end, nil
	default:
		// default to last 7 days
		return GetDateRange(DateRangeWeekly, "", "")
	}
}

// NormalizeFormat maps the accepted format spellings onto the exporter formats.
// An empty format means a JSON preview.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "":
		return "", nil
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidFilter, format)
	}
}

// ValidateRosterFilter checks the optional status and role filters.
func ValidateRosterFilter(status, role string) error {
	switch status {
	case "", event.StatusInvited, event.StatusAccepted:
	default:
		return fmt.Errorf("%w: status must be %s or %s", ErrInvalidFilter, event.StatusInvited, event.StatusAccepted)
	}
	switch role {
	case "", event.RoleAdmin, event.RolePlayer:
	default:
		return fmt.Errorf("%w: role must be %s or %s", ErrInvalidFilter, event.RoleAdmin, event.RolePlayer)
	}
	return nil
}
