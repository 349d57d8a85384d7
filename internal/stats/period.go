// Package stats turns a user's transactions into the summary figures shown on
// the dashboard: period resolution, date-range filtering and aggregation.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/jbudget-be/internal/models"
)

// Period names a date range relative to the time it is resolved.
type Period string

const (
	All     Period = "all"
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
	Year    Period = "year"
	Custom  Period = "custom"
)

// ParsePeriod maps a keyword to a Period. An empty keyword means All.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return All, nil
	case All, Week, Month, Quarter, Year, Custom:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Range is an inclusive date range. A zero bound leaves that side open.
type Range struct {
	Start models.Date
	End   models.Date
}

// Unbounded reports whether the range filters nothing.
func (r Range) Unbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether d lies within the range.
func (r Range) Contains(d models.Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// Resolve turns a period into a concrete range as seen from now. Only Custom
// looks at start and end, and takes them verbatim; either may be zero. A custom
// period with both dates empty therefore filters nothing.
func Resolve(p Period, now time.Time, start, end models.Date) Range {
	today := models.DateOf(now)
	switch p {
	case Week:
		return Range{Start: today.AddDays(-7)}
	case Month:
		return Range{Start: models.NewDate(today.Year(), today.Month(), 1)}
	case Quarter:
		first := time.Month((int(today.Month())-1)/3*3 + 1)
		return Range{Start: models.NewDate(today.Year(), first, 1)}
	case Year:
		return Range{Start: models.NewDate(today.Year(), time.January, 1)}
	case Custom:
		return Range{Start: start, End: end}
	default:
		return Range{}
	}
}
