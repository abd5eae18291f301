package statistics

import (
	"github.com/salesdash/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// planTotals is one sales plan merged inside a period bucket.
type planTotals struct {
	plan        *domain.SalesPlanSnapshot
	sizes       domain.SizeSet
	performance int
}

// productRow accumulates one product/size row of a bucket.
type productRow struct {
	entry  *domain.ProductSalesEntry
	amount decimal.Decimal
}

// AggregateProductSales explodes every set product into its catalog products
// and reports quantity, amount and share per product and size.
//
// Rows are first merged per sales plan inside a bucket. Each plan's set is
// then resolved through products (keyed by product_code); the size column of
// a product is picked by matching its specification against the size labels
// and only ordered sizes produce rows. Rows with the same
// "{product_code}-{specification}" in a bucket are merged before shares are
// computed against the bucket's total quantity.
func (z Zone) AggregateProductSales(rows []domain.PerformanceRow, products map[string]*domain.Product, period domain.Period) domain.ProductSalesStatistics {
	groups, plans := z.mergePlans(rows, period)

	result := make(domain.ProductSalesStatistics)
	for _, groupKey := range groups {
		var (
			order  []*productRow
			merged = make(map[string]*productRow)
		)

		for _, totals := range plans[groupKey] {
			for _, row := range explodePlan(totals, products) {
				key := row.entry.ProductCode + "-" + row.entry.Specification
				if existing, ok := merged[key]; ok {
					existing.entry.Quantity += row.entry.Quantity
					existing.entry.Performance += row.entry.Performance
					existing.amount = existing.amount.Add(row.amount)
					continue
				}
				merged[key] = row
				order = append(order, row)
			}
		}

		if len(order) == 0 {
			continue
		}

		totalQuantity := 0
		for _, row := range order {
			totalQuantity += row.entry.Quantity
		}

		entries := make([]*domain.ProductSalesEntry, 0, len(order))
		for _, row := range order {
			row.entry.SalesAmount = row.amount.InexactFloat64()
			row.entry.Share = percentInt(row.entry.Quantity, totalQuantity)
			entries = append(entries, row.entry)
		}
		result[groupKey] = entries
	}

	return result
}

// mergePlans buckets rows and merges them per sales plan id, keeping first-seen order.
func (z Zone) mergePlans(rows []domain.PerformanceRow, period domain.Period) ([]string, map[string][]*planTotals) {
	var groups []string
	plans := make(map[string][]*planTotals)
	index := make(map[string]map[int64]*planTotals)

	for i := range rows {
		row := &rows[i]
		groupKey, ok := z.rowGroupKey(row, period)
		if !ok {
			continue
		}

		bucket, ok := index[groupKey]
		if !ok {
			bucket = make(map[int64]*planTotals)
			index[groupKey] = bucket
			groups = append(groups, groupKey)
		}

		if totals, ok := bucket[row.Plan.ID]; ok {
			totals.sizes = totals.sizes.Add(row.Sizes)
			totals.performance += row.Performance
			continue
		}

		totals := &planTotals{plan: row.Plan, sizes: row.Sizes, performance: row.Performance}
		bucket[row.Plan.ID] = totals
		plans[groupKey] = append(plans[groupKey], totals)
	}

	return groups, plans
}

func explodePlan(totals *planTotals, products map[string]*domain.Product) []*productRow {
	set := totals.plan.SetProduct
	if set == nil {
		return nil
	}

	channelName := ""
	if totals.plan.Channel != nil {
		channelName = totals.plan.Channel.ChannelName
	}

	var rows []*productRow
	for _, code := range splitProductIDs(set.IndividualProductIDs) {
		product, ok := products[code]
		if !ok || product == nil {
			continue
		}

		size, ok := domain.ParseSizeLabel(product.Specification)
		if !ok {
			continue
		}

		qty := totals.sizes.Get(size)
		if qty <= 0 {
			continue
		}

		amount := totals.plan.SalePrice.Mul(decimal.NewFromInt(int64(qty)))
		rows = append(rows, &productRow{
			entry: &domain.ProductSalesEntry{
				ProductCode:    product.ProductCode,
				ItemNumber:     product.ItemNumber,
				ProductName:    product.ProductName,
				Specification:  product.Specification,
				SetProductCode: set.SetID,
				ChannelName:    channelName,
				Quantity:       qty,
				SalePrice:      totals.plan.SalePrice.InexactFloat64(),
				Performance:    totals.performance,
			},
			amount: amount,
		})
	}
	return rows
}

// ProductIndex keys catalog products by product_code.
func ProductIndex(products []*domain.Product) map[string]*domain.Product {
	index := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		if p == nil || p.ProductCode == "" {
			continue
		}
		index[p.ProductCode] = p
	}
	return index
}
