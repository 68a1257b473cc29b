package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// classifierFunc adapts a function to the Classifier interface.
type classifierFunc func(ctx context.Context, req ClassifyRequest) (string, error)

func (f classifierFunc) Classify(ctx context.Context, req ClassifyRequest) (string, error) {
	return f(ctx, req)
}

func testEngine(c Classifier) *Engine {
	return NewWithOptions(c, zerolog.Nop(), Options{Workers: 4, MinCallDelay: 0, CallTimeout: time.Second})
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"Health", LabelHealth},
		{"health", LabelHealth},
		{"  Travel  ", LabelTravel},
		{"\"Motor\"", LabelMotor},
		{"'Life'", LabelLife},
		{"Home.", LabelHome},
		{"Other", LabelOther},
		{"definitely not a label", LabelOther},
		{"", LabelOther},
		{"Healthcare", LabelOther},
	}

	for _, tt := range tests {
		if got := normalizeLabel(tt.in); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassifyAll_EveryRowLabeled(t *testing.T) {
	txs := make([]*Transaction, 20)
	for i := range txs {
		txs[i] = &Transaction{Category: fmt.Sprintf("cat-%d", i), Label: LabelUnknown}
	}

	e := testEngine(classifierFunc(func(ctx context.Context, req ClassifyRequest) (string, error) {
		return "Health", nil
	}))
	e.classifyAll(context.Background(), txs)

	for i, tx := range txs {
		if tx.Label != LabelHealth {
			t.Errorf("Row %d label = %v, want Health", i, tx.Label)
		}
	}
}

func TestClassifyAll_ErrorIsolation(t *testing.T) {
	// Every call fails; every row must still end with a label and nothing
	// may abort the run.
	txs := make([]*Transaction, 10)
	for i := range txs {
		txs[i] = &Transaction{Label: LabelUnknown}
	}

	e := testEngine(classifierFunc(func(ctx context.Context, req ClassifyRequest) (string, error) {
		return "", errors.New("boom")
	}))
	e.classifyAll(context.Background(), txs)

	for i, tx := range txs {
		if tx.Label != LabelError {
			t.Errorf("Row %d label = %v, want Error", i, tx.Label)
		}
		if tx.Label == LabelUnknown {
			t.Errorf("Row %d was never labeled", i)
		}
	}
}

func TestClassifyAll_UpstreamError(t *testing.T) {
	txs := []*Transaction{{Label: LabelUnknown}}

	e := testEngine(classifierFunc(func(ctx context.Context, req ClassifyRequest) (string, error) {
		return "", &UpstreamError{Status: 429, Message: "rate limited"}
	}))
	e.classifyAll(context.Background(), txs)

	if txs[0].Label != LabelAPIError {
		t.Errorf("Label = %v, want API Error", txs[0].Label)
	}
}

func TestClassifyAll_WrappedUpstreamError(t *testing.T) {
	txs := []*Transaction{{Label: LabelUnknown}}

	e := testEngine(classifierFunc(func(ctx context.Context, req ClassifyRequest) (string, error) {
		return "", fmt.Errorf("calling model: %w", &UpstreamError{Status: 500, Message: "internal"})
	}))
	e.classifyAll(context.Background(), txs)

	if txs[0].Label != LabelAPIError {
		t.Errorf("Label = %v, want API Error", txs[0].Label)
	}
}

func TestClassifyAll_MixedOutcomes(t *testing.T) {
	txs := []*Transaction{
		{Remark: "hospital", Label: LabelUnknown},
		{Remark: "broken", Label: LabelUnknown},
		{Remark: "weird", Label: LabelUnknown},
	}

	e := testEngine(classifierFunc(func(ctx context.Context, req ClassifyRequest) (string, error) {
		switch req.Remark {
		case "hospital":
			return "Health", nil
		case "broken":
			return "", errors.New("transport down")
		default:
			return "no idea", nil
		}
	}))
	e.classifyAll(context.Background(), txs)

	if txs[0].Label != LabelHealth {
		t.Errorf("txs[0].Label = %v, want Health", txs[0].Label)
	}
	if txs[1].Label != LabelError {
		t.Errorf("txs[1].Label = %v, want Error", txs[1].Label)
	}
	if txs[2].Label != LabelOther {
		t.Errorf("txs[2].Label = %v, want Other (unrecognized response)", txs[2].Label)
	}
}

func TestClassifyAll_WorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int64
	txs := make([]*Transaction, 30)
	for i := range txs {
		txs[i] = &Transaction{Label: LabelUnknown}
	}

	e := NewWithOptions(classifierFunc(func(ctx context.Context, req ClassifyRequest) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return "Other", nil
	}), zerolog.Nop(), Options{Workers: 3, MinCallDelay: 0, CallTimeout: time.Second})

	e.classifyAll(context.Background(), txs)

	if p := peak.Load(); p > 3 {
		t.Errorf("Peak concurrent calls = %d, want at most 3", p)
	}
}

func TestCallGate_MinimumSpacing(t *testing.T) {
	gate := &callGate{min: 10 * time.Millisecond}

	start := time.Now()
	for i := 0; i < 4; i++ {
		if err := gate.wait(context.Background()); err != nil {
			t.Fatalf("wait returned error: %v", err)
		}
	}
	// Four calls need at least three full gaps.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Four gated calls took %v, want at least 30ms", elapsed)
	}
}

func TestCallGate_ContextCancel(t *testing.T) {
	gate := &callGate{min: time.Hour}

	if err := gate.wait(context.Background()); err != nil {
		t.Fatalf("First wait should pass immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := gate.wait(ctx); err == nil {
		t.Error("Expected context error from gated wait")
	}
}

func TestClassifyRequest_AmountText(t *testing.T) {
	tx := &Transaction{
		Category:   "Groceries",
		Withdrawal: f(120.5),
		RefNo:      "TX1",
		Remark:     "supermarket",
	}

	req := classifyRequest(tx)
	if req.Withdrawal != "120.5" {
		t.Errorf("Withdrawal = %q, want 120.5", req.Withdrawal)
	}
	if req.Deposit != "0" {
		t.Errorf("Deposit = %q, want 0 for missing value", req.Deposit)
	}
}
