// Package engine implements the transaction analysis engine: it normalizes a
// tabular statement export, labels every row through an external classifier,
// derives temporal and categorical spending aggregates, infers insurance-need
// signals from label concentration, and renders a deterministic text report.
//
// Data flows strictly forward through the pipeline stages; every stage
// consumes the prior stage's immutable result and returns a new structure.
// Data-quality problems never abort a run: outputs degrade section by section
// and only genuinely unexpected faults surface as errors.
package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Options holds tunables for the classifier dispatch.
type Options struct {
	// Workers bounds the number of concurrent classifier calls.
	Workers int

	// MinCallDelay is the minimum delay between consecutive classifier
	// calls, shared across workers.
	MinCallDelay time.Duration

	// CallTimeout bounds a single classifier call; on expiry the row
	// degrades to the Error label instead of stalling the run.
	CallTimeout time.Duration
}

// DefaultOptions returns the default dispatch configuration.
func DefaultOptions() Options {
	return Options{
		Workers:      4,
		MinCallDelay: 100 * time.Millisecond,
		CallTimeout:  30 * time.Second,
	}
}

// Engine runs the analysis pipeline. Each run is stateless and independent.
type Engine struct {
	classifier Classifier
	opts       Options
	log        zerolog.Logger
}

// New creates an engine with default options.
func New(classifier Classifier, log zerolog.Logger) *Engine {
	return NewWithOptions(classifier, log, DefaultOptions())
}

// NewWithOptions creates an engine with custom dispatch options.
func NewWithOptions(classifier Classifier, log zerolog.Logger, opts Options) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultOptions().CallTimeout
	}
	return &Engine{
		classifier: classifier,
		opts:       opts,
		log:        log,
	}
}

// State carries intermediate results across pipeline steps.
type State struct {
	Input io.Reader

	Table           *Table
	Statement       *Statement
	Buckets         PeriodBuckets
	Categories      CategoryBreakdown
	Recommendations map[Label]Recommendation
	Advice          FinancialAdvice

	Response *AnalysisResponse
}

// step is a single stage of the analysis pipeline.
type step interface {
	Execute(ctx context.Context, state *State) error
}

// Step 1: parse and normalize the raw tabular input.
type normalizeStep struct{ e *Engine }

func (s *normalizeStep) Execute(ctx context.Context, state *State) error {
	table, err := ParseTable(state.Input)
	if err != nil {
		return err
	}
	state.Table = table

	st := NormalizeTable(table)
	state.Statement = st

	log := s.e.log
	log.Info().
		Int("transactions", len(st.Transactions)).
		Int("columns", len(table.Headers)).
		Msg("Loaded statement")
	if st.DateColumn.OK {
		log.Info().Str("column", st.DateColumn.Name).Msg("Using date column")
	} else {
		log.Warn().Str("reason", st.DateColumn.Reason).Msg("Temporal analysis will be skipped")
	}
	if !st.SpendingColumn.OK {
		log.Warn().Str("reason", st.SpendingColumn.Reason).Msg("Spending-dependent outputs will be empty")
	}
	return nil
}

// Step 2: resolve every row's label through the classifier.
type classifyStep struct{ e *Engine }

func (s *classifyStep) Execute(ctx context.Context, state *State) error {
	s.e.classifyAll(ctx, state.Statement.Transactions)
	return nil
}

// Step 3: spending rollups per week, month and year.
type periodsStep struct{}

func (s *periodsStep) Execute(ctx context.Context, state *State) error {
	state.Buckets = AggregatePeriods(state.Statement)
	return nil
}

// Step 4: category ranking, pivot and insights.
type categoriesStep struct{}

func (s *categoriesStep) Execute(ctx context.Context, state *State) error {
	state.Categories = AggregateCategories(state.Statement)
	return nil
}

// Step 5: insurance-need inference from label concentration.
type insuranceStep struct{}

func (s *insuranceStep) Execute(ctx context.Context, state *State) error {
	state.Recommendations = InferInsurance(state.Statement)
	return nil
}

// Step 6: budget targets and savings opportunities.
type adviceStep struct{}

func (s *adviceStep) Execute(ctx context.Context, state *State) error {
	state.Advice = SynthesizeAdvice(state.Statement, state.Buckets, state.Recommendations)
	return nil
}

// Step 7: assemble the response and render the text summary.
type renderStep struct{}

func (s *renderStep) Execute(ctx context.Context, state *State) error {
	st := state.Statement
	total := 0.0
	for _, tx := range st.Transactions {
		total += tx.Spending
	}

	patterns := SpendingPatterns{
		TopCategories:      make(map[string]float64),
		TopInsuranceLabels: labelCounts(st.Transactions),
	}
	for i, ct := range state.Categories.Totals {
		if i >= 5 {
			break
		}
		patterns.TopCategories[ct.Category] = ct.Amount
	}
	if state.Buckets.Available {
		patterns.WeeklyTrend = lastWeeks(state.Buckets.Weekly, 10)
		patterns.MonthlyTrend = state.Buckets.Monthly
		patterns.DailyAverages = state.Buckets.DailyAverages
	}

	state.Response = &AnalysisResponse{
		TransactionCount:         len(st.Transactions),
		TotalSpending:            total,
		SpendingPatterns:         patterns,
		CategoryInsights:         state.Categories.Insights,
		InsuranceRecommendations: state.Recommendations,
		FinancialAdvice:          state.Advice,
		Summary: renderSummary(
			len(st.Transactions),
			total,
			state.Categories,
			state.Recommendations,
			state.Advice,
		),
	}
	return nil
}

// pipeline executes steps in order.
type pipeline struct {
	steps []step
}

func (p *pipeline) Execute(ctx context.Context, state *State) error {
	for i, s := range p.steps {
		if err := s.Execute(ctx, state); err != nil {
			return fmt.Errorf("analysis step %d failed: %w", i+1, err)
		}
	}
	return nil
}

func (e *Engine) newAnalysisPipeline() *pipeline {
	return &pipeline{steps: []step{
		&normalizeStep{e: e},
		&classifyStep{e: e},
		&periodsStep{},
		&categoriesStep{},
		&insuranceStep{},
		&adviceStep{},
		&renderStep{},
	}}
}

// Analyze runs one full analysis over raw tabular statement text.
func (e *Engine) Analyze(ctx context.Context, input io.Reader) (*AnalysisResponse, error) {
	e.log.Info().Msg("Starting transaction analysis")

	state := &State{Input: input}
	if err := e.newAnalysisPipeline().Execute(ctx, state); err != nil {
		return nil, err
	}

	e.log.Info().Msg("Analysis completed successfully")
	return state.Response, nil
}
