package postgres

import (
	"testing"
	"time"

	"github.com/salesdash/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAddPlanDateBounds(t *testing.T) {
	from := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	var f filterClause
	f.addPlanDateBounds("sp.", domain.DateBounds{From: &from, To: &to})

	assert.Equal(t, " AND sp.plan_date >= $1::date AND sp.plan_date <= $2::date", f.and())
	assert.Equal(t, []interface{}{"2024-03-01", "2024-03-31"}, f.args)
}

func TestAddPlanDateRange(t *testing.T) {
	channelID := int64(3)

	var f filterClause
	f.addPlanDateRange("sp.", domain.SalesPlanFilter{EndDate: "2024-03-31", ChannelID: &channelID})

	assert.Equal(t, " AND sp.plan_date <= $1::date AND sp.channel_id = $2", f.and())
	assert.Equal(t, []interface{}{"2024-03-31", int64(3)}, f.args)

	var empty filterClause
	assert.Equal(t, "", empty.and())
}

func TestFilterClauseArg(t *testing.T) {
	var f filterClause
	f.add("a = $%d", 1)
	assert.Equal(t, "$2", f.arg("x"))
	assert.Len(t, f.args, 2)
}
