package engine

import (
	"sort"
)

// budgetReductionFactor is the flat 10% reduction applied to the monthly
// average to produce the budget target.
const budgetReductionFactor = 0.9

// percentile computes the q-th percentile (0..1) using linear interpolation
// between closest ranks.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// SynthesizeAdvice derives budget targets and savings-opportunity clusters
// from the aggregates. Optional fields stay absent, never zero, when their
// inputs are unavailable.
func SynthesizeAdvice(s *Statement, buckets PeriodBuckets, recs map[Label]Recommendation) FinancialAdvice {
	if !s.SpendingColumn.OK {
		return FinancialAdvice{}
	}

	total := 0.0
	for _, tx := range s.Transactions {
		total += tx.Spending
	}
	advice := FinancialAdvice{TotalSpending: total}

	if buckets.Available && len(buckets.Monthly) > 0 {
		avg := total / float64(len(buckets.Monthly))
		budget := avg * budgetReductionFactor
		advice.AvgMonthlySpending = &avg
		advice.BudgetRecommendation = &budget
	}

	advice.SavingsOpportunities, advice.savingsOrder = savingsOpportunities(s.Transactions)

	if len(recs) > 0 {
		advice.InsuranceRecommendations = make(map[Label]InsuranceHighlight, len(recs))
		advice.highlightOrder = sortedRecommendationLabels(recs)
		for label, rec := range recs {
			advice.InsuranceRecommendations[label] = InsuranceHighlight{
				Priority:   rec.Priority,
				Percentage: rec.Percentage,
			}
		}
	}

	return advice
}

// savingsOpportunities surfaces frequent-small-transaction categories:
// rows strictly below the 25th spending percentile, grouped by category,
// top three by transaction count. An explicit heuristic for impulse-spending
// candidates, not a statistical guarantee.
func savingsOpportunities(txs []*Transaction) (map[string]SavingsOpportunity, []string) {
	values := make([]float64, len(txs))
	for i, tx := range txs {
		values[i] = tx.Spending
	}
	cutoff := percentile(values, 0.25)

	counts := make(map[string]int)
	totals := make(map[string]float64)
	for _, tx := range txs {
		if tx.Spending < cutoff {
			counts[tx.Category]++
			totals[tx.Category] += tx.Spending
		}
	}
	if len(counts) == 0 {
		return nil, nil
	}

	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	// Top categories by count; equal counts rank alphabetically.
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > 3 {
		cats = cats[:3]
	}

	out := make(map[string]SavingsOpportunity, len(cats))
	for _, cat := range cats {
		out[cat] = SavingsOpportunity{
			TransactionCount: counts[cat],
			TotalAmount:      totals[cat],
		}
	}
	return out, cats
}
