package engine

import (
	"sort"
)

// AggregateCategories produces the descending category ranking, the optional
// category x month-year pivot, and per-category insight for the top five
// categories. Unavailable without a spending column.
func AggregateCategories(s *Statement) CategoryBreakdown {
	if !s.SpendingColumn.OK {
		return CategoryBreakdown{Reason: s.SpendingColumn.Reason}
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, tx := range s.Transactions {
		totals[tx.Category] += tx.Spending
		counts[tx.Category]++
	}

	ranked := make([]CategoryTotal, 0, len(totals))
	for cat, amount := range totals {
		ranked = append(ranked, CategoryTotal{Category: cat, Amount: amount})
	}
	// Descending by amount; equal amounts rank alphabetically so the order
	// is deterministic.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Category < ranked[j].Category
	})

	b := CategoryBreakdown{
		Available: true,
		Totals:    ranked,
		Insights:  make(map[string]CategoryInsight),
	}

	if s.DateColumn.OK {
		b.OverTime = make(map[string]map[string]float64)
		for _, tx := range s.Transactions {
			if tx.Date == nil {
				continue
			}
			mk := monthKey(tx)
			if b.OverTime[mk] == nil {
				b.OverTime[mk] = make(map[string]float64)
			}
			b.OverTime[mk][tx.Category] += tx.Spending
		}
	}

	for i, ct := range ranked {
		if i >= 5 {
			break
		}
		count := counts[ct.Category]
		insight := CategoryInsight{
			TotalSpent:           ct.Amount,
			TransactionCount:     count,
			RecommendedInsurance: dominantLabel(s.Transactions, ct.Category),
		}
		if count > 0 {
			insight.AverageTransaction = ct.Amount / float64(count)
		}
		b.Insights[ct.Category] = insight
		b.InsightOrder = append(b.InsightOrder, ct.Category)
	}

	return b
}

// dominantLabel is the mode of labels within a category. Ties go to the label
// encountered first in input order. "N/A" when the category has no rows.
func dominantLabel(txs []*Transaction, category string) string {
	counts := make(map[Label]int)
	firstSeen := make(map[Label]int)

	for i, tx := range txs {
		if tx.Category != category {
			continue
		}
		if _, ok := firstSeen[tx.Label]; !ok {
			firstSeen[tx.Label] = i
		}
		counts[tx.Label]++
	}
	if len(counts) == 0 {
		return "N/A"
	}

	var best Label
	bestCount := -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && firstSeen[label] < firstSeen[best]) {
			best = label
			bestCount = count
		}
	}
	return string(best)
}
