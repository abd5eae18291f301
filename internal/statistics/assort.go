package statistics

import (
	"fmt"

	"github.com/salesdash/backend-go/internal/domain"
)

// AggregateAssort buckets rows by period and set product and computes the
// size breakdown of every set. Rows of the same set in the same bucket are
// merged by summing sizes; percentages are always recomputed from the sums.
func (z Zone) AggregateAssort(rows []domain.PerformanceRow, period domain.Period) domain.AssortStatistics {
	result := make(domain.AssortStatistics)
	index := make(map[string]map[string]*domain.AssortEntry)

	for i := range rows {
		row := &rows[i]
		groupKey, ok := z.rowGroupKey(row, period)
		if !ok {
			continue
		}

		bucket, ok := index[groupKey]
		if !ok {
			bucket = make(map[string]*domain.AssortEntry)
			index[groupKey] = bucket
		}

		innerKey := assortKey(row)
		if entry, ok := bucket[innerKey]; ok {
			entry.SizeSet = entry.SizeSet.Add(row.Sizes)
			refreshAssort(entry)
			continue
		}

		entry := newAssortEntry(row)
		bucket[innerKey] = entry
		result[groupKey] = append(result[groupKey], entry)
	}

	return result
}

// assortKey is the set product id; rows without a set stay separate per plan.
func assortKey(row *domain.PerformanceRow) string {
	if row.Plan.SetProduct != nil {
		return fmt.Sprintf("set:%d", row.Plan.SetProduct.ID)
	}
	return fmt.Sprintf("plan:%d", row.Plan.ID)
}

func newAssortEntry(row *domain.PerformanceRow) *domain.AssortEntry {
	entry := &domain.AssortEntry{
		ProductName: row.Plan.ProductName,
		SizeSet:     row.Sizes,
		SalesPlan:   row.Plan,
	}
	if set := row.Plan.SetProduct; set != nil {
		entry.SetProductCode = set.SetID
		if set.SetName != "" {
			entry.ProductName = set.SetName
		}
	}
	refreshAssort(entry)
	return entry
}

func refreshAssort(entry *domain.AssortEntry) {
	entry.TotalQuantity = entry.SizeSet.Total()
	entry.AssortShares = AssortSharesOf(entry.SizeSet)
	entry.AssortOrder = AssortOrderOf(entry.SizeSet)
}

// AssortSharesOf computes the percentage of every size against the total.
func AssortSharesOf(sizes domain.SizeSet) domain.AssortShares {
	total := sizes.Total()
	share := func(size domain.Size) float64 {
		return percentInt(sizes.Get(size), total)
	}

	return domain.AssortShares{
		XS:     share(domain.SizeXS),
		S:      share(domain.SizeS),
		M:      share(domain.SizeM),
		L:      share(domain.SizeL),
		XL:     share(domain.SizeXL),
		XXL:    share(domain.SizeXXL),
		FourXL: share(domain.Size4XL),
	}
}

// AssortOrderOf ranks the ordered sizes by quantity. Equal quantities share a
// rank and the next rank is skipped ("1, 1, 3"); sizes without orders get 0.
func AssortOrderOf(sizes domain.SizeSet) domain.AssortOrder {
	rank := func(size domain.Size) int {
		qty := sizes.Get(size)
		if qty <= 0 {
			return 0
		}
		r := 1
		for _, other := range domain.Sizes {
			if sizes.Get(other) > qty {
				r++
			}
		}
		return r
	}

	return domain.AssortOrder{
		XS:     rank(domain.SizeXS),
		S:      rank(domain.SizeS),
		M:      rank(domain.SizeM),
		L:      rank(domain.SizeL),
		XL:     rank(domain.SizeXL),
		XXL:    rank(domain.SizeXXL),
		FourXL: rank(domain.Size4XL),
	}
}
