package statistics

import (
	"time"

	"github.com/salesdash/backend-go/internal/domain"
)

// GroupKey returns the period bucket label of a plan date.
func (z Zone) GroupKey(planDate time.Time, period domain.Period) string {
	shifted := z.Shift(planDate)

	switch period {
	case domain.PeriodYearly:
		return shifted.Format("2006")
	case domain.PeriodMonthly:
		return shifted.Format("2006-01")
	default:
		return shifted.Format(calendarLayout)
	}
}

// rowGroupKey returns the bucket of a row and false when the row has no plan date.
func (z Zone) rowGroupKey(row *domain.PerformanceRow, period domain.Period) (string, bool) {
	date := row.PlanDate()
	if date == nil {
		return "", false
	}
	return z.GroupKey(*date, period), true
}
