package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SalesPlanInput is the payload of the plan registration / edit form.
type SalesPlanInput struct {
	Season              string          `json:"season"`
	PlanDate            string          `json:"plan_date"`
	PlanTime            string          `json:"plan_time"`
	ChannelID           *int64          `json:"channel_id"`
	ChannelDetail       string          `json:"channel_detail"`
	ProductCategory     string          `json:"product_category"`
	ProductName         string          `json:"product_name"`
	ProductSummary      string          `json:"product_summary"`
	QuantityComposition string          `json:"quantity_composition"`
	SetItemID           *int64          `json:"set_item_code"`
	ProductCode         string          `json:"product_code"`
	SalePrice           decimal.Decimal `json:"sale_price"`
	CommissionRate      decimal.Decimal `json:"commission_rate"`
	TargetQuantity      int             `json:"target_quantity"`
}

// Validate checks the mandatory plan fields and normalizes free text.
func (in *SalesPlanInput) Validate() error {
	in.Season = strings.TrimSpace(in.Season)
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.PlanDate = strings.TrimSpace(in.PlanDate)

	if in.PlanDate == "" {
		return NewValidationError("plan_date", "required")
	}
	if _, err := time.Parse("2006-01-02", in.PlanDate); err != nil {
		return NewValidationError("plan_date", "must be YYYY-MM-DD")
	}
	if in.ChannelID == nil {
		return NewValidationError("channel_id", "required")
	}
	if in.ProductName == "" {
		return NewValidationError("product_name", "required")
	}
	if in.SalePrice.IsNegative() {
		return NewValidationError("sale_price", "must not be negative")
	}
	if in.CommissionRate.IsNegative() || in.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("commission_rate", "must be between 0 and 100")
	}
	if in.TargetQuantity < 0 {
		return NewValidationError("target_quantity", "must not be negative")
	}
	return nil
}

// SalesPerformanceInput records the realized sizes of a plan.
type SalesPerformanceInput struct {
	SalesPlanID int64   `json:"sales_plan_id"`
	Performance int     `json:"performance"`
	Temperature float64 `json:"temperature"`
	Sizes       SizeSet `json:"sizes"`
}

// Validate rejects negative quantities.
func (in *SalesPerformanceInput) Validate() error {
	if in.SalesPlanID <= 0 {
		return NewValidationError("sales_plan_id", "required")
	}
	if in.Performance < 0 {
		return NewValidationError("performance", "must not be negative")
	}
	for _, size := range Sizes {
		if in.Sizes.Get(size) < 0 {
			return NewValidationError(size.Key()+"_size", "must not be negative")
		}
	}
	return nil
}

// SalesChannelInput creates or updates a channel.
type SalesChannelInput struct {
	ChannelCode    string   `json:"channel_code"`
	ChannelName    string   `json:"channel_name"`
	ChannelDetails []string `json:"channel_details"`
}

// Validate trims the channel fields and drops empty detail labels.
func (in *SalesChannelInput) Validate() error {
	in.ChannelCode = strings.TrimSpace(in.ChannelCode)
	in.ChannelName = strings.TrimSpace(in.ChannelName)
	if in.ChannelCode == "" {
		return NewValidationError("channel_code", "required")
	}
	if in.ChannelName == "" {
		return NewValidationError("channel_name", "required")
	}

	details := make([]string, 0, len(in.ChannelDetails))
	for _, d := range in.ChannelDetails {
		if d = strings.TrimSpace(d); d != "" {
			details = append(details, d)
		}
	}
	in.ChannelDetails = details
	return nil
}

// SalesPlanFilter filters the plan list.
type SalesPlanFilter struct {
	StartDate string
	EndDate   string
	ChannelID *int64
}

// CatalogSearch filters catalog lists.
type CatalogSearch struct {
	Search string
	Limit  int
	Offset int
}
