package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ClassifyRequest carries the five string fields the external classifier
// contract expects.
type ClassifyRequest struct {
	Category   string
	Withdrawal string
	Deposit    string
	RefNo      string
	Remark     string
}

// Classifier maps one transaction to an insurance label. The response must be
// one of the known label strings; anything else is coerced to Other. A
// returned error isolates to that row and never aborts the run.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (string, error)
}

// UpstreamError reports a failure returned by the classifier's backing API,
// as opposed to a transport or internal fault. Rows hit by it are labeled
// "API Error" instead of "Error".
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("classifier API error (status %d): %s", e.Status, e.Message)
}

// callGate enforces a minimum delay between consecutive external calls,
// shared across all workers.
type callGate struct {
	mu   sync.Mutex
	next time.Time
	min  time.Duration
}

func (g *callGate) wait(ctx context.Context) error {
	if g.min <= 0 {
		return nil
	}

	g.mu.Lock()
	now := time.Now()
	at := g.next
	if at.Before(now) {
		at = now
	}
	g.next = at.Add(g.min)
	g.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classifyAll resolves every transaction's label exactly once, dispatching
// classifier calls through a bounded worker pool. One row's failure never
// cancels the others; each worker writes only its own row's slot.
func (e *Engine) classifyAll(ctx context.Context, txs []*Transaction) {
	total := len(txs)
	if total == 0 {
		return
	}

	gate := &callGate{min: e.opts.MinCallDelay}
	var done atomic.Int64

	g := &errgroup.Group{}
	g.SetLimit(e.opts.Workers)

	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			txs[i].Label = e.classifyOne(ctx, gate, tx)

			if n := done.Add(1); n%50 == 0 || n == int64(total) {
				e.log.Info().
					Int64("processed", n).
					Int("total", total).
					Msg("Labeling transactions")
			}
			return nil
		})
	}
	// Workers always return nil; Wait only drains the pool.
	_ = g.Wait()
}

func (e *Engine) classifyOne(ctx context.Context, gate *callGate, tx *Transaction) Label {
	if err := gate.wait(ctx); err != nil {
		return LabelError
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	resp, err := e.classifier.Classify(callCtx, classifyRequest(tx))
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			e.log.Warn().Int("status", upstream.Status).Msg("Classifier API error")
			return LabelAPIError
		}
		e.log.Warn().Err(err).Msg("Classifier call failed")
		return LabelError
	}

	return normalizeLabel(resp)
}

func classifyRequest(tx *Transaction) ClassifyRequest {
	return ClassifyRequest{
		Category:   tx.Category,
		Withdrawal: amountText(tx.Withdrawal),
		Deposit:    amountText(tx.Deposit),
		RefNo:      tx.RefNo,
		Remark:     tx.Remark,
	}
}

func amountText(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// normalizeLabel coerces a classifier response into the closed vocabulary.
// The response is trusted only for membership: unrecognized strings become
// Other rather than propagating free text into the aggregates.
func normalizeLabel(resp string) Label {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.Trim(cleaned, `"'`)
	cleaned = strings.TrimSuffix(cleaned, ".")

	for known := range classifiableLabels {
		if strings.EqualFold(cleaned, string(known)) {
			return known
		}
	}
	return LabelOther
}
