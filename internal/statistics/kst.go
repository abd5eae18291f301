package statistics

import (
	"fmt"
	"strings"
	"time"

	"github.com/salesdash/backend-go/internal/domain"
)

// DefaultUTCOffsetHours is Korea Standard Time.
const DefaultUTCOffsetHours = 9

const calendarLayout = "2006-01-02"

// Zone converts stored UTC instants into the business calendar. Every date
// decision of the statistics endpoints goes through one Zone so the variants
// cannot drift apart.
type Zone struct {
	offset time.Duration
}

// KST is the zone used by the dashboard.
var KST = NewZone(DefaultUTCOffsetHours)

// NewZone builds a fixed-offset zone.
func NewZone(offsetHours int) Zone {
	return Zone{offset: time.Duration(offsetHours) * time.Hour}
}

// Shift moves a stored instant by the zone offset. Calendar fields are read
// off the shifted instant in UTC.
func (z Zone) Shift(t time.Time) time.Time {
	return t.UTC().Add(z.offset)
}

// QueryBounds converts caller calendar dates into store bounds: the start is
// moved forward by the offset, the end is moved by the offset and then pinned
// to 23:59:59.999 of that day.
func (z Zone) QueryBounds(filter domain.StatisticsFilter) domain.DateBounds {
	var bounds domain.DateBounds

	if filter.StartDate != nil {
		from := z.Shift(*filter.StartDate)
		bounds.From = &from
	}

	if filter.EndDate != nil {
		shifted := z.Shift(*filter.EndDate)
		to := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
		bounds.To = &to
	}

	return bounds
}

// ParseCalendarDate parses a YYYY-MM-DD query value. An empty value yields nil.
func ParseCalendarDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(calendarLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &t, nil
}
