package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Table is raw tabular input: one header row plus data rows. Columns are
// matched by name downstream, never by position.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ParseTable reads UTF-8 CSV text into a Table. An input without a header row
// is rejected here; everything after this point degrades instead of failing.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ParseTable: reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ParseTable: input has no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &Table{Headers: headers, Rows: records[1:]}, nil
}

func (t *Table) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *Table) column(idx int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = t.cell(row, idx)
	}
	return out
}

// Header-name heuristics. Substring match, case-insensitive, first hit wins.
var (
	dateWords   = []string{"date", "time", "day"}
	amountWords = []string{"amount", "withdrawal", "deposit", "debit", "credit"}
)

func headerContains(header string, words ...string) bool {
	lower := strings.ToLower(header)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func findColumn(headers []string, words ...string) int {
	for i, h := range headers {
		if headerContains(h, words...) {
			return i
		}
	}
	return -1
}

func detectDateColumn(headers []string) ColumnPick {
	for i, h := range headers {
		if headerContains(h, dateWords...) {
			return ColumnPick{Name: h, Index: i, OK: true}
		}
	}
	return ColumnPick{Index: -1, Reason: "no date column detected"}
}

// Explicit date formats tried in order. A format is accepted only if it
// parses every non-empty value in the column.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"01-02-2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02-January-2006",
	"Jan-02-2006",
	"January-02-2006",
}

// Permissive fallback layouts used when no single format fits the whole
// column. Values may mix layouts at this stage.
var fallbackFormats = append([]string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}, dateFormats...)

// parseDateColumn attempts the fixed format list first, then a permissive
// per-value pass. Returns ok=false when the column cannot be parsed at all,
// in which case temporal analysis is skipped entirely.
func parseDateColumn(values []string) ([]*time.Time, bool) {
	nonEmpty := 0
	for _, v := range values {
		if v != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, false
	}

	for _, format := range dateFormats {
		parsed, ok := parseAllWith(values, format)
		if ok {
			return parsed, true
		}
	}

	// Permissive pass: each value may use a different layout.
	parsed := make([]*time.Time, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		var got *time.Time
		for _, format := range fallbackFormats {
			if d, err := time.Parse(format, v); err == nil {
				got = &d
				break
			}
		}
		if got == nil {
			return nil, false
		}
		parsed[i] = got
	}
	return parsed, true
}

func parseAllWith(values []string, format string) ([]*time.Time, bool) {
	parsed := make([]*time.Time, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		d, err := time.Parse(format, v)
		if err != nil {
			return nil, false
		}
		parsed[i] = &d
	}
	return parsed, true
}

// Everything except digits, '.' and '-' is stripped before numeric parsing,
// so "£1,234.56" and "$-12" coerce cleanly.
var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// coerceAmount converts a raw cell to a number. Unparsable values become nil
// (missing), not zero; a zero-fill pass happens later so sums stay defined.
func coerceAmount(s string) *float64 {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// isNumericColumn reports whether a column has at least one value and every
// non-empty value parses as a plain number. Admits unnamed numeric columns
// (a "Value" header, say) into the spending fallback.
func isNumericColumn(values []string) bool {
	nonEmpty := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err != nil {
			return false
		}
	}
	return nonEmpty > 0
}

func coerceColumn(values []string) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = coerceAmount(v)
	}
	return out
}

// pickSpendingColumn applies the fixed priority: an explicit withdrawal
// column, then an explicit debit column, then the first numeric column whose
// total is positive. Centralized so every aggregator sees the same choice.
func pickSpendingColumn(headers []string, numeric map[int][]*float64, order []int) ColumnPick {
	if idx := findColumn(headers, "withdrawal"); idx >= 0 {
		return ColumnPick{Name: headers[idx], Index: idx, OK: true}
	}
	if idx := findColumn(headers, "debit"); idx >= 0 {
		return ColumnPick{Name: headers[idx], Index: idx, OK: true}
	}
	for _, idx := range order {
		total := 0.0
		for _, v := range numeric[idx] {
			if v != nil {
				total += *v
			}
		}
		if total > 0 {
			return ColumnPick{Name: headers[idx], Index: idx, OK: true}
		}
	}
	return ColumnPick{Index: -1, Reason: "no spending column identified"}
}

// NormalizeTable turns a raw table into typed transactions plus the detected
// date and spending columns. Structural problems are never fatal: an
// undetectable column is reported through its ColumnPick and the dependent
// outputs degrade downstream.
func NormalizeTable(t *Table) *Statement {
	datePick := detectDateColumn(t.Headers)
	dateIdx := datePick.Index
	var dates []*time.Time
	if datePick.OK {
		parsed, ok := parseDateColumn(t.column(datePick.Index))
		if ok {
			dates = parsed
		} else {
			datePick = ColumnPick{Index: -1, Reason: fmt.Sprintf("date column %q did not match any supported format", datePick.Name)}
		}
	}

	// Candidate amount columns: named ones always, plus any other column
	// that is wholly numeric. The date column never qualifies.
	numeric := make(map[int][]*float64)
	var numericOrder []int
	for i, h := range t.Headers {
		col := t.column(i)
		if !headerContains(h, amountWords...) && (i == dateIdx || !isNumericColumn(col)) {
			continue
		}
		numeric[i] = coerceColumn(col)
		numericOrder = append(numericOrder, i)
	}

	spendPick := pickSpendingColumn(t.Headers, numeric, numericOrder)

	catIdx := findColumn(t.Headers, "category")
	refIdx := findColumn(t.Headers, "ref")
	remarkIdx := findColumn(t.Headers, "remark")
	if remarkIdx < 0 {
		remarkIdx = findColumn(t.Headers, "description", "narration")
	}
	withdrawalIdx := findColumn(t.Headers, "withdrawal")
	depositIdx := findColumn(t.Headers, "deposit")
	debitIdx := findColumn(t.Headers, "debit")
	creditIdx := findColumn(t.Headers, "credit")

	txs := make([]*Transaction, len(t.Rows))
	for ri, row := range t.Rows {
		tx := &Transaction{
			Category: "Uncategorized",
			Label:    LabelUnknown,
		}
		if v := t.cell(row, catIdx); v != "" {
			tx.Category = v
		}
		tx.RefNo = t.cell(row, refIdx)
		tx.Remark = t.cell(row, remarkIdx)

		if withdrawalIdx >= 0 {
			tx.Withdrawal = numeric[withdrawalIdx][ri]
		}
		if depositIdx >= 0 {
			tx.Deposit = numeric[depositIdx][ri]
		}
		if dates != nil {
			tx.Date = dates[ri]
		}
		if spendPick.OK {
			if v := numeric[spendPick.Index][ri]; v != nil {
				tx.Spending = *v
			}
		}

		// Net amount: deposit - withdrawal when both columns exist (missing
		// values count as zero), else credit - debit, else the spending value.
		switch {
		case withdrawalIdx >= 0 && depositIdx >= 0:
			tx.NetAmount = orZero(tx.Deposit) - orZero(tx.Withdrawal)
		case debitIdx >= 0 && creditIdx >= 0:
			tx.NetAmount = orZero(numeric[creditIdx][ri]) - orZero(numeric[debitIdx][ri])
		default:
			tx.NetAmount = tx.Spending
		}

		txs[ri] = tx
	}

	return &Statement{
		Transactions:   txs,
		DateColumn:     datePick,
		SpendingColumn: spendPick,
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
