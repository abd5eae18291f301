package statistics

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/salesdash/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustDate takes a calendar date or an RFC3339 instant, the two shapes plan
// dates come back from the driver in.
func mustDate(t *testing.T, value string) *time.Time {
	t.Helper()
	layout := calendarLayout
	if strings.Contains(value, "T") {
		layout = time.RFC3339
	}
	d, err := time.Parse(layout, value)
	require.NoError(t, err)
	d = d.UTC()
	return &d
}

func setProduct(id int64, code, name, products string) *domain.SetProductSnapshot {
	return &domain.SetProductSnapshot{ID: id, SetID: code, SetName: name, IndividualProductIDs: products}
}

func planRow(t *testing.T, planID int64, date string, set *domain.SetProductSnapshot, sizes domain.SizeSet) domain.PerformanceRow {
	t.Helper()
	plan := &domain.SalesPlanSnapshot{ID: planID, ProductName: "plan product", SetProduct: set}
	if date != "" {
		plan.PlanDate = mustDate(t, date)
	}
	return domain.PerformanceRow{ID: planID * 100, Plan: plan, Sizes: sizes}
}

func TestGroupKeyPrefixes(t *testing.T) {
	date := *mustDate(t, "2024-03-20")

	yearly := KST.GroupKey(date, domain.PeriodYearly)
	monthly := KST.GroupKey(date, domain.PeriodMonthly)
	daily := KST.GroupKey(date, domain.PeriodDaily)

	assert.Equal(t, "2024", yearly)
	assert.Equal(t, "2024-03", monthly)
	assert.Equal(t, "2024-03-20", daily)
	assert.True(t, strings.HasPrefix(monthly, yearly))
	assert.True(t, strings.HasPrefix(daily, monthly))
	assert.Equal(t, daily, KST.GroupKey(date, domain.PeriodCustom))
	assert.Equal(t, daily, KST.GroupKey(date, domain.Period("weekly")))
}

func TestGroupKeyShiftsIntoNextDay(t *testing.T) {
	date := *mustDate(t, "2024-03-20T15:00:00Z")
	assert.Equal(t, "2024-03-21", KST.GroupKey(date, domain.PeriodDaily))

	date = *mustDate(t, "2024-12-31T15:00:00Z")
	assert.Equal(t, "2025", KST.GroupKey(date, domain.PeriodYearly))
	assert.Equal(t, "2024", NewZone(0).GroupKey(date, domain.PeriodYearly))
}

func TestQueryBounds(t *testing.T) {
	start, err := ParseCalendarDate("2024-03-20")
	require.NoError(t, err)
	end, err := ParseCalendarDate("2024-03-21")
	require.NoError(t, err)

	bounds := KST.QueryBounds(domain.StatisticsFilter{StartDate: start, EndDate: end})
	require.NotNil(t, bounds.From)
	require.NotNil(t, bounds.To)
	assert.Equal(t, "2024-03-20T09:00:00Z", bounds.From.Format(time.RFC3339))
	assert.Equal(t, "2024-03-21T23:59:59.999Z", bounds.To.Format(time.RFC3339Nano))

	empty := KST.QueryBounds(domain.StatisticsFilter{})
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)

	missing, err := ParseCalendarDate("")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = ParseCalendarDate("2024/03/20")
	assert.Error(t, err)
}

func TestAggregateAssortScenario(t *testing.T) {
	rows := []domain.PerformanceRow{
		planRow(t, 1, "2024-03-20T15:00:00Z", setProduct(7, "SET-007", "린넨 세트", ""), domain.SizeSet{XS: 2, S: 8}),
	}

	stats := KST.AggregateAssort(rows, domain.PeriodDaily)
	require.Len(t, stats, 1)
	entries := stats["2024-03-21"]
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "린넨 세트", entry.ProductName)
	assert.Equal(t, "SET-007", entry.SetProductCode)
	assert.Equal(t, 10, entry.TotalQuantity)
	assert.Equal(t, 20.0, entry.AssortShares.XS)
	assert.Equal(t, 80.0, entry.AssortShares.S)
	assert.Equal(t, 0.0, entry.AssortShares.M)
	assert.Equal(t, 2, entry.AssortOrder.XS)
	assert.Equal(t, 1, entry.AssortOrder.S)
	assert.Equal(t, 0, entry.AssortOrder.M)
}

func TestAggregateAssortMergesFromTotals(t *testing.T) {
	set := setProduct(7, "SET-007", "린넨 세트", "")
	rows := []domain.PerformanceRow{
		planRow(t, 1, "2024-03-20", set, domain.SizeSet{XS: 2, S: 8}),
		planRow(t, 2, "2024-03-20", set, domain.SizeSet{XS: 3}),
	}

	stats := KST.AggregateAssort(rows, domain.PeriodDaily)
	entries := stats["2024-03-20"]
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, 5, entry.SizeSet.XS)
	assert.Equal(t, 8, entry.SizeSet.S)
	assert.Equal(t, 13, entry.TotalQuantity)
	// 5/13 and 8/13, not the average of 20% and 100%
	assert.Equal(t, 38.5, entry.AssortShares.XS)
	assert.Equal(t, 61.5, entry.AssortShares.S)
}

func TestAggregateAssortDropsRowsWithoutPlanDate(t *testing.T) {
	rows := []domain.PerformanceRow{
		planRow(t, 1, "", setProduct(1, "SET-1", "a", ""), domain.SizeSet{M: 4}),
		{ID: 99, Sizes: domain.SizeSet{M: 1}},
		planRow(t, 2, "2024-03-20", setProduct(2, "SET-2", "b", ""), domain.SizeSet{L: 1}),
	}

	stats := KST.AggregateAssort(rows, domain.PeriodMonthly)
	require.Len(t, stats, 1)
	entries := stats["2024-03"]
	require.Len(t, entries, 1)
	assert.Equal(t, "SET-2", entries[0].SetProductCode)
}

func TestAggregateAssortWithoutSetProduct(t *testing.T) {
	rows := []domain.PerformanceRow{
		planRow(t, 1, "2024-03-20", nil, domain.SizeSet{M: 1}),
		planRow(t, 2, "2024-03-20", nil, domain.SizeSet{L: 1}),
	}

	entries := KST.AggregateAssort(rows, domain.PeriodDaily)["2024-03-20"]
	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].SetProductCode)
	assert.Equal(t, "plan product", entries[0].ProductName)
	assert.Equal(t, 100.0, entries[0].AssortShares.M)
}

const maxShareDrift = 7 * 0.05

func TestAssortSharesProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	zero := AssortSharesOf(domain.SizeSet{})
	assert.Equal(t, domain.AssortShares{}, zero)

	for i := 0; i < 500; i++ {
		sizes := domain.SizeSet{
			XS: rnd.Intn(20), S: rnd.Intn(20), M: rnd.Intn(20), L: rnd.Intn(20),
			XL: rnd.Intn(20), XXL: rnd.Intn(20), FourXL: rnd.Intn(3),
		}
		shares := AssortSharesOf(sizes)
		sum := shares.XS + shares.S + shares.M + shares.L + shares.XL + shares.XXL + shares.FourXL

		if sizes.Total() == 0 {
			assert.Equal(t, 0.0, sum)
			continue
		}
		// Shares are rounded one by one, so the sum is not forced to 100. Each
		// of the seven sizes can move by at most 0.05, bounding the drift.
		assert.LessOrEqual(t, math.Abs(sum-100), maxShareDrift+1e-9, "sizes %+v", sizes)
		assert.LessOrEqual(t, sum, 100+maxShareDrift+1e-9, "sizes %+v", sizes)
	}
}

func TestAssortMergeIsOrderIndependent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	set := setProduct(1, "SET-1", "a", "")

	for i := 0; i < 100; i++ {
		a := domain.SizeSet{XS: rnd.Intn(9), M: rnd.Intn(9), XL: rnd.Intn(9)}
		b := domain.SizeSet{XS: rnd.Intn(9), S: rnd.Intn(9), FourXL: rnd.Intn(9)}

		forward := KST.AggregateAssort([]domain.PerformanceRow{
			planRow(t, 1, "2024-01-05", set, a),
			planRow(t, 2, "2024-01-05", set, b),
		}, domain.PeriodDaily)["2024-01-05"][0]
		backward := KST.AggregateAssort([]domain.PerformanceRow{
			planRow(t, 2, "2024-01-05", set, b),
			planRow(t, 1, "2024-01-05", set, a),
		}, domain.PeriodDaily)["2024-01-05"][0]

		direct := AssortSharesOf(a.Add(b))
		assert.Equal(t, direct, forward.AssortShares)
		assert.Equal(t, direct, backward.AssortShares)
	}
}

func TestAssortOrderTies(t *testing.T) {
	order := AssortOrderOf(domain.SizeSet{M: 5, L: 5, XL: 2})
	assert.Equal(t, domain.AssortOrder{M: 1, L: 1, XL: 3}, order)
}

func TestAggregateProductSales(t *testing.T) {
	products := ProductIndex([]*domain.Product{
		{ProductCode: "P-M", ItemNumber: "IT-1", ProductName: "셔츠", Specification: "M"},
		{ProductCode: "P-L", ItemNumber: "IT-1", ProductName: "셔츠", Specification: "l"},
		{ProductCode: "P-F", ItemNumber: "IT-2", ProductName: "모자", Specification: "FREE"},
		nil,
	})

	channel := &domain.ChannelSnapshot{ID: 1, ChannelName: "GS샵"}
	plan1 := &domain.SalesPlanSnapshot{
		ID: 1, PlanDate: mustDate(t, "2024-03-20"), SalePrice: decimal.NewFromInt(10000), Channel: channel,
		SetProduct: setProduct(10, "SET-10", "셔츠 세트", "P-M, P-L,MISSING,P-F"),
	}
	plan2 := &domain.SalesPlanSnapshot{
		ID: 2, PlanDate: mustDate(t, "2024-03-20"), SalePrice: decimal.NewFromInt(12000),
		SetProduct: setProduct(11, "SET-11", "셔츠 단품", `["P-M"]`),
	}
	plan3 := &domain.SalesPlanSnapshot{ID: 3, PlanDate: mustDate(t, "2024-04-02"), SalePrice: decimal.NewFromInt(5000)}

	rows := []domain.PerformanceRow{
		{ID: 1, Plan: plan1, Performance: 5, Sizes: domain.SizeSet{M: 2, L: 1}},
		{ID: 2, Plan: plan1, Performance: 3, Sizes: domain.SizeSet{M: 1}},
		{ID: 3, Plan: plan2, Performance: 2, Sizes: domain.SizeSet{M: 1, XS: 4}},
		{ID: 4, Plan: plan3, Performance: 1, Sizes: domain.SizeSet{M: 9}},
	}

	stats := KST.AggregateProductSales(rows, products, domain.PeriodDaily)
	require.Len(t, stats, 1)
	_, ok := stats["2024-04-02"]
	assert.False(t, ok)

	entries := stats["2024-03-20"]
	require.Len(t, entries, 2)

	m := entries[0]
	assert.Equal(t, "P-M", m.ProductCode)
	assert.Equal(t, 4, m.Quantity)
	assert.Equal(t, 42000.0, m.SalesAmount)
	assert.Equal(t, 10, m.Performance)
	assert.Equal(t, 80.0, m.Share)
	assert.Equal(t, "GS샵", m.ChannelName)

	l := entries[1]
	assert.Equal(t, "P-L", l.ProductCode)
	assert.Equal(t, 1, l.Quantity)
	assert.Equal(t, 10000.0, l.SalesAmount)
	assert.Equal(t, 20.0, l.Share)
}

func TestSplitProductIDs(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitProductIDs(" A, ,B "))
	assert.Equal(t, []string{"A", "B"}, splitProductIDs(`["A","B"]`))
	assert.Equal(t, []string{"A", "B"}, splitProductIDs(`[A, B]`))
	assert.Nil(t, splitProductIDs(""))
}

func channelRows(t *testing.T) []domain.PerformanceRow {
	gs := &domain.ChannelSnapshot{ID: 1, ChannelName: "GS샵"}
	cj := &domain.ChannelSnapshot{ID: 2, ChannelName: "CJ온스타일"}

	plan1 := &domain.SalesPlanSnapshot{ID: 1, PlanDate: mustDate(t, "2024-03-20"), Channel: gs, ChannelDetail: "TV",
		SalePrice: decimal.NewFromInt(1000), TargetQuantity: 100}
	plan2 := &domain.SalesPlanSnapshot{ID: 2, PlanDate: mustDate(t, "2024-03-20"), Channel: cj,
		SalePrice: decimal.NewFromInt(2000), TargetQuantity: 0}
	plan3 := &domain.SalesPlanSnapshot{ID: 3, PlanDate: mustDate(t, "2024-03-25"), Channel: gs, ChannelDetail: "데이터",
		SalePrice: decimal.NewFromInt(1000), TargetQuantity: 50}

	return []domain.PerformanceRow{
		{ID: 1, Plan: plan1, Performance: 40, Sizes: domain.SizeSet{M: 6, L: 4}},
		{ID: 2, Plan: plan1, Performance: 20, Sizes: domain.SizeSet{S: 5}},
		{ID: 3, Plan: plan2, Performance: 10, Sizes: domain.SizeSet{XL: 5}},
		{ID: 4, Plan: plan3, Performance: 5, Sizes: domain.SizeSet{M: 5}},
		{ID: 5, Sizes: domain.SizeSet{M: 100}},
	}
}

func TestAggregateChannelsDaily(t *testing.T) {
	stats := KST.AggregateChannels(channelRows(t), domain.StatisticsFilter{Period: domain.PeriodDaily})
	require.Len(t, stats, 2)

	group := stats["2024-03-20"]
	require.NotNil(t, group)
	assert.Equal(t, "2024-03-20", group.Date)
	require.Len(t, group.Channels, 2)

	gs := group.Channels[0]
	assert.Equal(t, "GS샵", gs.ChannelName)
	assert.Equal(t, "TV", gs.ChannelDetail)
	assert.Equal(t, 15, gs.Quantity)
	assert.Equal(t, 15000.0, gs.Amount)
	assert.Equal(t, 100, gs.TargetQuantity)
	assert.Equal(t, 60, gs.Performance)
	assert.Equal(t, 60.0, gs.AchievementRate)
	assert.Equal(t, 60.0, gs.Share)
	assert.Equal(t, ChannelColor("GS샵"), gs.Color)

	cj := group.Channels[1]
	assert.Equal(t, 0.0, cj.AchievementRate)
	assert.Equal(t, 40.0, cj.Share)
}

func TestAggregateChannelsCustomCollapses(t *testing.T) {
	start, _ := ParseCalendarDate("2024-03-01")
	end, _ := ParseCalendarDate("2024-03-31")

	stats := KST.AggregateChannels(channelRows(t), domain.StatisticsFilter{
		Period: domain.PeriodCustom, StartDate: start, EndDate: end,
	})
	require.Len(t, stats, 1)

	group := stats["2024-03-01~2024-03-31"]
	require.NotNil(t, group)
	require.Len(t, group.Channels, 2)

	gs := group.Channels[0]
	assert.Equal(t, "TV, 데이터", gs.ChannelDetail)
	assert.Equal(t, 20, gs.Quantity)
	assert.Equal(t, 150, gs.TargetQuantity)
	assert.Equal(t, 65, gs.Performance)
	assert.Equal(t, 43.3, gs.AchievementRate)
	assert.Equal(t, 66.7, gs.Share)
	assert.Equal(t, 33.3, group.Channels[1].Share)

	open := KST.AggregateChannels(channelRows(t), domain.StatisticsFilter{Period: domain.PeriodCustom})
	_, ok := open["2024-03-20~2024-03-25"]
	assert.True(t, ok)
}

func TestChannelRatesAreFinite(t *testing.T) {
	plan := &domain.SalesPlanSnapshot{ID: 1, PlanDate: mustDate(t, "2024-03-20"), Channel: &domain.ChannelSnapshot{ID: 1}}
	stats := KST.AggregateChannels([]domain.PerformanceRow{{ID: 1, Plan: plan}}, domain.StatisticsFilter{Period: domain.PeriodDaily})

	entry := stats["2024-03-20"].Channels[0]
	for _, v := range []float64{entry.AchievementRate, entry.Share, entry.Amount} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.Equal(t, 0.0, v)
	}
}

func TestChannelColorIsStable(t *testing.T) {
	assert.Equal(t, ChannelColor("GS샵"), ChannelColor("GS샵"))
	assert.True(t, strings.HasPrefix(ChannelColor(""), "#"))
}

func TestAchievementRate(t *testing.T) {
	assert.Equal(t, 75.0, AchievementRate(30, 40))
	assert.Equal(t, 33.3, AchievementRate(1, 3))
	assert.Equal(t, 0.0, AchievementRate(12, 0))
}
