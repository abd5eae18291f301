package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/salesdash/backend-go/internal/domain"
)

const dateLayout = "2006-01-02"

// filterClause collects positional predicates ($1, $2, ...) for a query.
type filterClause struct {
	clauses []string
	args    []interface{}
}

// add appends a predicate; format receives the placeholder index of arg.
func (f *filterClause) add(format string, arg interface{}) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, fmt.Sprintf(format, len(f.args)))
}

// arg registers a value without a predicate and returns its placeholder.
func (f *filterClause) arg(v interface{}) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

// and renders the predicates as " AND ..." for appending to a WHERE clause.
func (f *filterClause) and() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(f.clauses, " AND ")
}

// addPlanDateBounds restricts plan_date by store bounds. The bound literal is
// truncated to its calendar date, the way the date column compares it.
func (f *filterClause) addPlanDateBounds(alias string, bounds domain.DateBounds) {
	if bounds.From != nil {
		f.add(alias+"plan_date >= $%d::date", bounds.From.UTC().Format(dateLayout))
	}
	if bounds.To != nil {
		f.add(alias+"plan_date <= $%d::date", bounds.To.UTC().Format(dateLayout))
	}
}

// addPlanDateRange applies the plain YYYY-MM-DD range of the CRUD lists.
func (f *filterClause) addPlanDateRange(alias string, filter domain.SalesPlanFilter) {
	if filter.StartDate != "" {
		f.add(alias+"plan_date >= $%d::date", filter.StartDate)
	}
	if filter.EndDate != "" {
		f.add(alias+"plan_date <= $%d::date", filter.EndDate)
	}
	if filter.ChannelID != nil {
		f.add(alias+"channel_id = $%d", *filter.ChannelID)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
