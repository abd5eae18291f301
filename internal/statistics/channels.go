package statistics

import (
	"strings"

	"github.com/salesdash/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

type channelTotals struct {
	entry   *domain.ChannelEntry
	amount  decimal.Decimal
	plans   map[int64]struct{}
	details []string
}

// AggregateChannels reports quantity, amount, target and achievement per
// channel and period bucket. With the custom period every bucket collapses
// into a single one labelled "<start>~<end>".
func (z Zone) AggregateChannels(rows []domain.PerformanceRow, filter domain.StatisticsFilter) domain.ChannelStatistics {
	keys := make([]string, len(rows))
	var minDay, maxDay string

	for i := range rows {
		groupKey, ok := z.rowGroupKey(&rows[i], filter.Period)
		if !ok {
			continue
		}
		keys[i] = groupKey

		if minDay == "" || groupKey < minDay {
			minDay = groupKey
		}
		if groupKey > maxDay {
			maxDay = groupKey
		}
	}

	if filter.Period == domain.PeriodCustom && minDay != "" {
		label := customLabel(filter, minDay, maxDay)
		for i := range keys {
			if keys[i] != "" {
				keys[i] = label
			}
		}
	}

	var groups []string
	channels := make(map[string][]*channelTotals)
	index := make(map[string]map[int64]*channelTotals)

	for i := range rows {
		groupKey := keys[i]
		if groupKey == "" {
			continue
		}
		row := &rows[i]

		bucket, ok := index[groupKey]
		if !ok {
			bucket = make(map[int64]*channelTotals)
			index[groupKey] = bucket
			groups = append(groups, groupKey)
		}

		channelID, channelName := channelOf(row.Plan)
		totals, ok := bucket[channelID]
		if !ok {
			totals = &channelTotals{
				entry: &domain.ChannelEntry{
					ChannelID:   channelID,
					ChannelName: channelName,
					Color:       ChannelColor(channelName),
				},
				amount: decimal.Zero,
				plans:  make(map[int64]struct{}),
			}
			bucket[channelID] = totals
			channels[groupKey] = append(channels[groupKey], totals)
		}
		totals.add(row)
	}

	result := make(domain.ChannelStatistics, len(groups))
	for _, groupKey := range groups {
		groupAmount := decimal.Zero
		for _, totals := range channels[groupKey] {
			groupAmount = groupAmount.Add(totals.amount)
		}

		entries := make([]*domain.ChannelEntry, 0, len(channels[groupKey]))
		for _, totals := range channels[groupKey] {
			e := totals.entry
			e.Amount = totals.amount.InexactFloat64()
			e.ChannelDetail = strings.Join(totals.details, ", ")
			e.AchievementRate = percentInt(e.Performance, e.TargetQuantity)
			e.Share = percent(totals.amount, groupAmount)
			entries = append(entries, e)
		}

		result[groupKey] = &domain.ChannelGroup{Date: groupKey, Channels: entries}
	}

	return result
}

func (t *channelTotals) add(row *domain.PerformanceRow) {
	qty := row.Sizes.Total()
	t.entry.Quantity += qty
	t.entry.Performance += row.Performance
	t.amount = t.amount.Add(row.Plan.SalePrice.Mul(decimal.NewFromInt(int64(qty))))

	if _, seen := t.plans[row.Plan.ID]; !seen {
		t.plans[row.Plan.ID] = struct{}{}
		t.entry.TargetQuantity += row.Plan.TargetQuantity
	}

	if detail := strings.TrimSpace(row.Plan.ChannelDetail); detail != "" {
		for _, d := range t.details {
			if d == detail {
				return
			}
		}
		t.details = append(t.details, detail)
	}
}

func channelOf(plan *domain.SalesPlanSnapshot) (int64, string) {
	if plan.Channel == nil {
		return 0, ""
	}
	return plan.Channel.ID, plan.Channel.ChannelName
}

// customLabel prefers the requested range and falls back to the observed days.
func customLabel(filter domain.StatisticsFilter, minDay, maxDay string) string {
	start, end := minDay, maxDay
	if filter.StartDate != nil {
		start = filter.StartDate.Format(calendarLayout)
	}
	if filter.EndDate != nil {
		end = filter.EndDate.Format(calendarLayout)
	}
	return start + "~" + end
}
