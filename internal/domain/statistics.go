package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period selects how plan dates are bucketed.
type Period string

const (
	PeriodYearly  Period = "yearly"
	PeriodMonthly Period = "monthly"
	PeriodDaily   Period = "daily"
	PeriodCustom  Period = "custom"
)

// ParsePeriod maps the query value to a Period; unknown values fall back to daily.
func ParsePeriod(value string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(value))); p {
	case PeriodYearly, PeriodMonthly, PeriodDaily, PeriodCustom:
		return p
	default:
		return PeriodDaily
	}
}

// StatisticsFilter is the caller-facing filter of the statistics endpoints.
// StartDate and EndDate are local calendar dates (midnight UTC of that day).
type StatisticsFilter struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Period    Period     `json:"period"`
}

// DateBounds are the store-side bounds derived from a StatisticsFilter.
type DateBounds struct {
	From *time.Time
	To   *time.Time
}

// ChannelSnapshot is the channel joined to a sales plan.
type ChannelSnapshot struct {
	ID          int64  `json:"id"`
	ChannelCode string `json:"channel_code"`
	ChannelName string `json:"channel_name"`
}

// SetProductSnapshot is the set product joined to a sales plan.
type SetProductSnapshot struct {
	ID                   int64  `json:"id"`
	SetID                string `json:"set_id"`
	SetName              string `json:"set_name"`
	IndividualProductIDs string `json:"individual_product_ids"`
	Remarks              string `json:"remarks"`
}

// SalesPlanSnapshot is the sales plan joined to a performance record.
type SalesPlanSnapshot struct {
	ID                  int64               `json:"id"`
	Season              string              `json:"season"`
	PlanDate            *time.Time          `json:"plan_date"`
	PlanTime            string              `json:"plan_time"`
	ChannelDetail       string              `json:"channel_detail"`
	ProductCategory     string              `json:"product_category"`
	ProductName         string              `json:"product_name"`
	ProductSummary      string              `json:"product_summary"`
	QuantityComposition string              `json:"quantity_composition"`
	ProductCode         string              `json:"product_code"`
	SalePrice           decimal.Decimal     `json:"sale_price"`
	CommissionRate      decimal.Decimal     `json:"commission_rate"`
	TargetQuantity      int                 `json:"target_quantity"`
	SetProduct          *SetProductSnapshot `json:"set_products"`
	Channel             *ChannelSnapshot    `json:"sales_channels"`
}

// PerformanceRow is one performance record with its nested joins.
type PerformanceRow struct {
	ID              int64              `json:"id"`
	Performance     int                `json:"performance"`
	AchievementRate float64            `json:"achievement_rate"`
	Temperature     float64            `json:"temperature"`
	Sizes           SizeSet            `json:"sizes"`
	Plan            *SalesPlanSnapshot `json:"sales_plans"`
}

// PlanDate returns the plan date of the row, nil when the join is missing.
func (r *PerformanceRow) PlanDate() *time.Time {
	if r == nil || r.Plan == nil {
		return nil
	}
	return r.Plan.PlanDate
}

// AssortShares are the per-size percentages of an assort entry.
type AssortShares struct {
	XS     float64 `json:"xs_assort"`
	S      float64 `json:"s_assort"`
	M      float64 `json:"m_assort"`
	L      float64 `json:"l_assort"`
	XL     float64 `json:"xl_assort"`
	XXL    float64 `json:"xxl_assort"`
	FourXL float64 `json:"fourxl_assort"`
}

// AssortOrder ranks sizes by quantity inside one entry (1 = largest).
type AssortOrder struct {
	XS     int `json:"xs_order"`
	S      int `json:"s_order"`
	M      int `json:"m_order"`
	L      int `json:"l_order"`
	XL     int `json:"xl_order"`
	XXL    int `json:"xxl_order"`
	FourXL int `json:"fourxl_order"`
}

// AssortEntry is the size breakdown of one set product in a period bucket.
type AssortEntry struct {
	ProductName    string `json:"product_name"`
	SetProductCode string `json:"set_product_code"`
	SizeSet
	AssortShares
	AssortOrder
	TotalQuantity int                `json:"total_quantity"`
	SalesPlan     *SalesPlanSnapshot `json:"sales_plans"`
}

// ProductSalesEntry is one product/size row of the sales statistics.
type ProductSalesEntry struct {
	ProductCode    string  `json:"product_code"`
	ItemNumber     string  `json:"item_number"`
	ProductName    string  `json:"product_name"`
	Specification  string  `json:"specification"`
	SetProductCode string  `json:"set_product_code"`
	ChannelName    string  `json:"channel_name"`
	Quantity       int     `json:"quantity"`
	SalePrice      float64 `json:"sale_price"`
	SalesAmount    float64 `json:"sales_amount"`
	Performance    int     `json:"performance"`
	Share          float64 `json:"share"`
}

// ChannelEntry is the per-channel result in a period bucket.
type ChannelEntry struct {
	ChannelID       int64   `json:"channel_id"`
	ChannelName     string  `json:"channel_name"`
	ChannelDetail   string  `json:"channel_detail"`
	Color           string  `json:"color"`
	Quantity        int     `json:"quantity"`
	Amount          float64 `json:"amount"`
	TargetQuantity  int     `json:"target_quantity"`
	Performance     int     `json:"performance"`
	AchievementRate float64 `json:"achievement_rate"`
	Share           float64 `json:"share"`
}

// ChannelGroup is one period bucket of the channel statistics.
type ChannelGroup struct {
	Date     string          `json:"date"`
	Channels []*ChannelEntry `json:"channels"`
}

type (
	AssortStatistics       map[string][]*AssortEntry
	ProductSalesStatistics map[string][]*ProductSalesEntry
	ChannelStatistics      map[string]*ChannelGroup
)
