package usecase

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// unknownGroup buckets tasks whose grouping field is empty.
const unknownGroup = "Unknown"

// Aggregate recomputes every grouped view over the merged task set. Costs
// accumulate as exact decimals; only the per-task costs feeding them were
// rounded. Cross-currency sums are never produced: the grand total is the
// per-currency subtotal list.
func Aggregate(tasks []domain.Task) domain.Aggregates {
	agg := domain.Aggregates{
		BySwimlane:        map[string]domain.GroupStat{},
		ByOwner:           map[string]domain.GroupStat{},
		ByStatus:          map[string]domain.GroupStat{},
		ByDocStatus:       map[string]domain.GroupStat{},
		ByPriority:        map[string]domain.GroupStat{},
		ByTool:            map[string]domain.GroupStat{},
		ByToolCombination: map[string]domain.GroupStat{},
	}

	currency := map[string]*domain.CurrencyTotal{}

	for _, task := range tasks {
		addStat(agg.BySwimlane, orUnknown(task.Swimlane), task)
		addStat(agg.ByOwner, orUnknown(task.Owner), task)
		addStat(agg.ByStatus, orUnknown(task.Status), task)
		addStat(agg.ByDocStatus, string(task.DocStatus), task)
		addStat(agg.ByPriority, orUnknown(task.IssuesPriority), task)

		for _, tool := range task.Tools {
			addStat(agg.ByTool, tool, task)
		}
		if combo := toolCombinationKey(task.Tools); combo != "" {
			addStat(agg.ByToolCombination, combo, task)
		}

		code := orUnknown(task.Currency)
		sub, ok := currency[code]
		if !ok {
			sub = &domain.CurrencyTotal{Currency: code, TotalCost: decimal.Zero}
			currency[code] = sub
		}
		sub.TaskCount++
		sub.TotalCost = sub.TotalCost.Add(decimal.NewFromFloat(task.TotalCost))
		sub.TimeMinutes += task.TimeMinutes

		agg.TotalTimeMinutes += task.TimeMinutes
	}

	agg.CurrencyTotals = make([]domain.CurrencyTotal, 0, len(currency))
	for _, sub := range currency {
		agg.CurrencyTotals = append(agg.CurrencyTotals, *sub)
	}
	sort.Slice(agg.CurrencyTotals, func(i, j int) bool {
		return agg.CurrencyTotals[i].Currency < agg.CurrencyTotals[j].Currency
	})

	return agg
}

func addStat(m map[string]domain.GroupStat, key string, task domain.Task) {
	stat := m[key]
	stat.TaskCount++
	stat.TotalCost = stat.TotalCost.Add(decimal.NewFromFloat(task.TotalCost))
	stat.TimeMinutes += task.TimeMinutes
	m[key] = stat
}

// toolCombinationKey canonicalizes the unordered tool set on one task so
// tasks using the same tools land in the same combination bucket regardless
// of listing order.
func toolCombinationKey(tools []string) string {
	if len(tools) == 0 {
		return ""
	}
	sorted := make([]string, len(tools))
	copy(sorted, tools)
	sort.Strings(sorted)
	return strings.Join(sorted, " + ")
}

func orUnknown(s string) string {
	if s == "" {
		return unknownGroup
	}
	return s
}
