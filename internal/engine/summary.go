package engine

import (
	"fmt"
	"strings"
)

// renderSummary assembles the deterministic multi-section text report. It is
// a pure function of the structured outputs; every section with absent source
// data is omitted entirely rather than rendered as an empty heading.
func renderSummary(
	transactionCount int,
	totalSpending float64,
	categories CategoryBreakdown,
	recs map[Label]Recommendation,
	advice FinancialAdvice,
) string {
	var b strings.Builder

	b.WriteString("FINANCIAL TRANSACTION ANALYSIS SUMMARY\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "Analyzed %d transactions with total spending of %.2f\n", transactionCount, totalSpending)

	if categories.Available && len(categories.Totals) > 0 && totalSpending > 0 {
		b.WriteString("\nTOP SPENDING CATEGORIES\n")
		b.WriteString("----------------------\n")
		for i, ct := range categories.Totals {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s: %.2f (%.1f%%)\n", i+1, ct.Category, ct.Amount, ct.Amount/totalSpending*100)
		}
	}

	if len(categories.InsightOrder) > 0 {
		b.WriteString("\nCATEGORY INSIGHTS\n")
		b.WriteString("----------------\n")
		for _, cat := range categories.InsightOrder {
			insight := categories.Insights[cat]
			fmt.Fprintf(&b, "%s:\n", cat)
			fmt.Fprintf(&b, "  - Total Spent: %.2f\n", insight.TotalSpent)
			fmt.Fprintf(&b, "  - Average Transaction: %.2f\n", insight.AverageTransaction)
			fmt.Fprintf(&b, "  - Number of Transactions: %d\n", insight.TransactionCount)
			fmt.Fprintf(&b, "  - Recommended Insurance: %s\n", insight.RecommendedInsurance)
		}
	}

	if len(recs) > 0 {
		b.WriteString("\nINSURANCE RECOMMENDATIONS\n")
		b.WriteString("------------------------\n")
		for _, label := range sortedRecommendationLabels(recs) {
			rec := recs[label]
			fmt.Fprintf(&b, "%s Insurance - %s Priority\n", label, rec.Priority)
			fmt.Fprintf(&b, "  - Spending Percentage: %.2f%%\n", rec.Percentage)
			fmt.Fprintf(&b, "  - Total Amount: %.2f\n", rec.Amount)
			fmt.Fprintf(&b, "  - Recommendation: %s\n", rec.Reason)
		}
	}

	b.WriteString("\nPERSONALIZED FINANCIAL ADVICE\n")
	b.WriteString("----------------------------\n")
	b.WriteString("Overall Spending Analysis:\n")
	fmt.Fprintf(&b, "  - Total Analyzed Spending: %.2f\n", advice.TotalSpending)

	if advice.AvgMonthlySpending != nil {
		fmt.Fprintf(&b, "  - Average Monthly Spending: %.2f\n", *advice.AvgMonthlySpending)
	}
	if advice.BudgetRecommendation != nil {
		fmt.Fprintf(&b, "  - Budget Recommendation: Consider setting a monthly budget of %.2f to reduce expenses by 10%%.\n", *advice.BudgetRecommendation)
	}

	if len(advice.SavingsOpportunities) > 0 {
		b.WriteString("\nSavings Opportunities:\n")
		b.WriteString("You have frequent small transactions in these categories:\n")
		for _, cat := range advice.savingsOrder {
			opp := advice.SavingsOpportunities[cat]
			fmt.Fprintf(&b, "  - %s: %d transactions totaling %.2f\n", cat, opp.TransactionCount, opp.TotalAmount)
		}
		b.WriteString("Recommendation: Consider consolidating these small purchases to reduce impulse spending.\n")
	}

	if len(advice.InsuranceRecommendations) > 0 {
		b.WriteString("\nInsurance Coverage Recommendations:\n")
		b.WriteString("Based on your spending patterns, we recommend prioritizing these insurance types:\n")
		for _, label := range advice.highlightOrder {
			hl := advice.InsuranceRecommendations[label]
			fmt.Fprintf(&b, "  - %s Insurance (%s Priority): %.2f%% of your spending\n", label, hl.Priority, hl.Percentage)
		}
		b.WriteString("Recommendation: Review your current insurance coverage to ensure you're adequately protected.\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
