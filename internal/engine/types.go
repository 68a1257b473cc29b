package engine

import (
	"time"
)

// Label is the inferred insurance-relevance tag attached to a transaction.
type Label string

const (
	LabelHealth    Label = "Health"
	LabelLife      Label = "Life"
	LabelTravel    Label = "Travel"
	LabelMotor     Label = "Motor"
	LabelCredit    Label = "Credit"
	LabelLiability Label = "Liability"
	LabelAccident  Label = "Accident"
	LabelHome      Label = "Home"

	// LabelOther marks a transaction with no insurance relevance.
	LabelOther Label = "Other"

	// LabelUnknown is the pre-classification default.
	LabelUnknown Label = "Unknown"

	// LabelError marks a transport or internal classifier failure.
	LabelError Label = "Error"

	// LabelAPIError marks a failure reported by the classifier's backing API.
	LabelAPIError Label = "API Error"
)

// classifiableLabels is the closed vocabulary a classifier response may use.
// Anything outside this set is coerced to Other.
var classifiableLabels = map[Label]bool{
	LabelHealth:    true,
	LabelLife:      true,
	LabelTravel:    true,
	LabelMotor:     true,
	LabelCredit:    true,
	LabelLiability: true,
	LabelAccident:  true,
	LabelHome:      true,
	LabelOther:     true,
}

// excludedFromRecommendations lists labels excluded from the recommendation
// denominator (the "restricted total"). They still appear in raw label counts.
var excludedFromRecommendations = map[Label]bool{
	LabelOther:    true,
	LabelError:    true,
	LabelAPIError: true,
}

// Transaction is one normalized statement row. The label is populated by the
// classifier orchestrator; after that the record is never mutated.
type Transaction struct {
	Date       *time.Time // nil when the date column is absent or the cell is unparseable
	Category   string
	Withdrawal *float64 // nil when the cell is missing or unparseable
	Deposit    *float64
	NetAmount  float64 // deposit - withdrawal when both columns exist, else the spending value
	Spending   float64 // value of the detected spending column, zero-filled when missing
	RefNo      string
	Remark     string
	Label      Label
}

// ColumnPick records the outcome of a heuristic column detection pass.
// Downstream stages branch on OK instead of guessing from empty maps.
type ColumnPick struct {
	Name   string
	Index  int
	OK     bool
	Reason string // why the column is unavailable, when OK is false
}

// Statement is the output of ingestion & normalization.
type Statement struct {
	Transactions   []*Transaction
	DateColumn     ColumnPick
	SpendingColumn ColumnPick
}

// PeriodBuckets holds spending rollups per time granularity. Each map is
// independent; keys never duplicate and amounts only accumulate.
type PeriodBuckets struct {
	Available bool
	Reason    string

	Weekly  map[string]float64 // ISO week key, e.g. "2024-W07"
	Monthly map[string]float64 // "Jan 2024"
	Yearly  map[int]float64

	// DailyAverages is the mean spending per day of week, keyed Monday..Sunday.
	DailyAverages map[string]float64
}

// CategoryTotal is one category's summed spending. Slices of these carry the
// descending ranking the renderer depends on.
type CategoryTotal struct {
	Category string
	Amount   float64
}

// CategoryInsight summarizes one of the top spending categories.
type CategoryInsight struct {
	TotalSpent           float64 `json:"total_spent"`
	AverageTransaction   float64 `json:"average_transaction"`
	TransactionCount     int     `json:"transaction_count"`
	RecommendedInsurance string  `json:"recommended_insurance"`
}

// CategoryBreakdown is the output of the categorical aggregator.
type CategoryBreakdown struct {
	Available bool
	Reason    string

	// Totals is every category's summed spending, descending.
	Totals []CategoryTotal

	// OverTime maps month-year -> category -> summed spending. Absent cells
	// mean zero. Nil when no date column was attached.
	OverTime map[string]map[string]float64

	// Insights covers the top five categories by spending. InsightOrder
	// preserves their descending ranking for deterministic rendering.
	Insights     map[string]CategoryInsight
	InsightOrder []string
}

// Recommendation is one insurance-need signal derived from label-level
// spending concentration.
type Recommendation struct {
	Priority   string  `json:"priority"` // "High" or "Medium"
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
}

// SavingsOpportunity reports a high-frequency low-value spending category.
type SavingsOpportunity struct {
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
}

// InsuranceHighlight is a Recommendation reduced for the advice section.
type InsuranceHighlight struct {
	Priority   string  `json:"priority"`
	Percentage float64 `json:"percentage"`
}

// FinancialAdvice is the advice synthesizer's output. Optional fields are
// absent (not zero) when their inputs are unavailable.
type FinancialAdvice struct {
	TotalSpending            float64                       `json:"total_spending"`
	AvgMonthlySpending       *float64                      `json:"avg_monthly_spending,omitempty"`
	BudgetRecommendation     *float64                      `json:"budget_recommendation,omitempty"`
	SavingsOpportunities     map[string]SavingsOpportunity `json:"savings_opportunities,omitempty"`
	InsuranceRecommendations map[Label]InsuranceHighlight  `json:"insurance_recommendations,omitempty"`

	// savingsOrder and highlightOrder keep the renderer deterministic.
	savingsOrder   []string
	highlightOrder []Label
}

// SpendingPatterns groups the trend rollups for the response payload.
type SpendingPatterns struct {
	TopCategories      map[string]float64 `json:"top_categories"`
	TopInsuranceLabels map[Label]int      `json:"top_insurance_labels"`
	WeeklyTrend        map[string]float64 `json:"weekly_trend,omitempty"`
	MonthlyTrend       map[string]float64 `json:"monthly_trend,omitempty"`
	DailyAverages      map[string]float64 `json:"daily_averages,omitempty"`
}

// AnalysisResponse is the terminal aggregate of one analysis run.
type AnalysisResponse struct {
	TransactionCount         int                        `json:"transaction_count"`
	TotalSpending            float64                    `json:"total_spending"`
	SpendingPatterns         SpendingPatterns           `json:"spending_patterns"`
	CategoryInsights         map[string]CategoryInsight `json:"category_insights"`
	InsuranceRecommendations map[Label]Recommendation   `json:"insurance_recommendations"`
	FinancialAdvice          FinancialAdvice            `json:"financial_advice"`
	Summary                  string                     `json:"summary"`
}
