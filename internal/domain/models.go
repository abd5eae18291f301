// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesChannel represents a broadcast / sales channel (home shopping, live commerce, ...)
type SalesChannel struct {
	ID             int64     `json:"id" db:"id"`
	ChannelCode    string    `json:"channel_code" db:"channel_code"`
	ChannelName    string    `json:"channel_name" db:"channel_name"`
	ChannelDetails []string  `json:"channel_details" db:"-"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SetProduct is a sellable bundle referencing several catalog products
type SetProduct struct {
	ID                   int64     `json:"id" db:"id"`
	SetID                string    `json:"set_id" db:"set_id"`
	SetName              string    `json:"set_name" db:"set_name"`
	IndividualProductIDs string    `json:"individual_product_ids" db:"individual_product_ids"`
	Remarks              string    `json:"remarks" db:"remarks"`
	IsActive             bool      `json:"is_active" db:"is_active"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// Product is a catalog item. Specification carries the size label (XS..4XL).
type Product struct {
	ID            int64           `json:"id" db:"id"`
	ProductCode   string          `json:"product_code" db:"product_code"`
	ItemNumber    string          `json:"item_number" db:"item_number"`
	ProductName   string          `json:"product_name" db:"product_name"`
	Specification string          `json:"specification" db:"specification"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price" db:"selling_price"`
	TagPrice      decimal.Decimal `json:"tag_price" db:"tag_price"`
	Barcode       string          `json:"barcode" db:"barcode"`
	BarcodeInfo   string          `json:"barcode_info" db:"barcode_info"`
}

// SalesPlan describes a planned sale on a channel
type SalesPlan struct {
	ID                  int64           `json:"id"`
	Season              string          `json:"season"`
	PlanDate            string          `json:"plan_date"`
	PlanTime            string          `json:"plan_time"`
	ChannelID           *int64          `json:"channel_id"`
	ChannelName         string          `json:"channel_name,omitempty"`
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
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
}

// SalesPerformance is the realized result of one sales plan
type SalesPerformance struct {
	ID              int64     `json:"id"`
	SalesPlanID     int64     `json:"sales_plan_id"`
	Performance     int       `json:"performance"`
	AchievementRate float64   `json:"achievement_rate"`
	Temperature     float64   `json:"temperature"`
	Sizes           SizeSet   `json:"sizes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SalesPlanOptions feeds the plan registration form
type SalesPlanOptions struct {
	Channels    []*SalesChannel `json:"channels"`
	SetProducts []*SetProduct   `json:"set_products"`
	Categories  []string        `json:"categories"`
}
