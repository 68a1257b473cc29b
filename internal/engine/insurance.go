package engine

import (
	"sort"
	"strings"
)

const (
	// concentrationThreshold is the share of restricted total spending above
	// which a label becomes a recommendation. Strictly greater-than.
	concentrationThreshold = 0.15

	// highPriorityThreshold promotes a recommendation to High priority.
	// Strictly greater-than: exactly 25% stays Medium.
	highPriorityThreshold = 0.25
)

var recommendationReasons = map[Label]string{
	LabelHealth:    "Your significant healthcare spending indicates a need for comprehensive health insurance.",
	LabelLife:      "Your lifestyle expenses suggest life insurance would provide important financial security.",
	LabelTravel:    "Your frequent travel expenses indicate travel insurance could benefit you.",
	LabelMotor:     "Your vehicle-related expenses suggest motor insurance is important for you.",
	LabelCredit:    "Your financial transactions indicate credit protection insurance could be valuable.",
	LabelLiability: "Your liability-related expenses suggest liability insurance coverage would be beneficial.",
	LabelAccident:  "Your activities suggest accident insurance coverage would provide important protection.",
	LabelHome:      "Your home-related expenses indicate home insurance would be a valuable protection.",
}

// Labels whose reason string gets the top spending categories appended.
var reasonsWithCategories = map[Label]bool{
	LabelHealth: true,
	LabelLife:   true,
	LabelTravel: true,
	LabelMotor:  true,
}

// InferInsurance converts label-level spending concentration into prioritized
// recommendations. The denominator is the restricted total: spending across
// labeled rows excluding Other, Error and API Error. Those rows stay in raw
// counts but must not dilute or inflate other labels' shares.
func InferInsurance(s *Statement) map[Label]Recommendation {
	recs := make(map[Label]Recommendation)
	if !s.SpendingColumn.OK {
		return recs
	}

	labelSpending := make(map[Label]float64)
	restrictedTotal := 0.0
	for _, tx := range s.Transactions {
		labelSpending[tx.Label] += tx.Spending
		if !excludedFromRecommendations[tx.Label] && tx.Label != LabelUnknown {
			restrictedTotal += tx.Spending
		}
	}
	if restrictedTotal == 0 {
		return recs
	}

	for label, amount := range labelSpending {
		if excludedFromRecommendations[label] || label == LabelUnknown {
			continue
		}
		share := amount / restrictedTotal
		if share <= concentrationThreshold {
			continue
		}

		priority := "Medium"
		if share > highPriorityThreshold {
			priority = "High"
		}

		recs[label] = Recommendation{
			Priority:   priority,
			Percentage: share * 100,
			Amount:     amount,
			Reason:     recommendationReason(label, s),
		}
	}

	return recs
}

// recommendationReason builds the human-readable reason from the fixed
// template table, appending the label's top three spending categories for
// Health, Life, Travel and Motor.
func recommendationReason(label Label, s *Statement) string {
	reason := recommendationReasons[label]
	if !reasonsWithCategories[label] || !s.SpendingColumn.OK {
		return reason
	}

	top := topCategoriesForLabel(s.Transactions, label, 3)
	if len(top) > 0 {
		reason += " Top spending categories: " + strings.Join(top, ", ") + "."
	}
	return reason
}

func topCategoriesForLabel(txs []*Transaction, label Label, n int) []string {
	totals := make(map[string]float64)
	firstSeen := make(map[string]int)
	for i, tx := range txs {
		if tx.Label != label {
			continue
		}
		if _, ok := firstSeen[tx.Category]; !ok {
			firstSeen[tx.Category] = i
		}
		totals[tx.Category] += tx.Spending
	}

	cats := make([]string, 0, len(totals))
	for cat := range totals {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if totals[cats[i]] != totals[cats[j]] {
			return totals[cats[i]] > totals[cats[j]]
		}
		return firstSeen[cats[i]] < firstSeen[cats[j]]
	})

	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// sortedRecommendationLabels orders recommendation keys High before Medium,
// then by descending percentage. The renderer and the advice section share
// this ordering.
func sortedRecommendationLabels(recs map[Label]Recommendation) []Label {
	labels := make([]Label, 0, len(recs))
	for label := range recs {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := recs[labels[i]], recs[labels[j]]
		if a.Priority != b.Priority {
			return a.Priority == "High"
		}
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return labels[i] < labels[j]
	})
	return labels
}

// labelCounts tallies every label, classifier failures included.
func labelCounts(txs []*Transaction) map[Label]int {
	counts := make(map[Label]int)
	for _, tx := range txs {
		counts[tx.Label]++
	}
	return counts
}
