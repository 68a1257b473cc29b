package engine

import (
	"fmt"
	"sort"
)

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// weekKey formats a date as an ISO year-week bucket key, e.g. "2024-W07".
func weekKey(t *Transaction) string {
	year, week := t.Date.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// monthKey formats a date as short-month plus 4-digit year, e.g. "Jan 2024".
func monthKey(t *Transaction) string {
	return t.Date.Format("Jan 2006")
}

// AggregatePeriods rolls spending up into independent week, month and year
// buckets, plus mean spending per day of week. When either the date or the
// spending column is unavailable the result is marked unavailable instead of
// raising; rows without a parsed date are skipped.
func AggregatePeriods(s *Statement) PeriodBuckets {
	if !s.DateColumn.OK {
		return PeriodBuckets{Reason: s.DateColumn.Reason}
	}
	if !s.SpendingColumn.OK {
		return PeriodBuckets{Reason: s.SpendingColumn.Reason}
	}

	b := PeriodBuckets{
		Available:     true,
		Weekly:        make(map[string]float64),
		Monthly:       make(map[string]float64),
		Yearly:        make(map[int]float64),
		DailyAverages: make(map[string]float64),
	}

	dayTotals := make(map[string]float64)
	dayCounts := make(map[string]int)

	for _, tx := range s.Transactions {
		if tx.Date == nil {
			continue
		}
		b.Weekly[weekKey(tx)] += tx.Spending
		b.Monthly[monthKey(tx)] += tx.Spending
		b.Yearly[tx.Date.Year()] += tx.Spending

		day := tx.Date.Weekday().String()
		dayTotals[day] += tx.Spending
		dayCounts[day]++
	}

	for _, day := range weekdayOrder {
		if n := dayCounts[day]; n > 0 {
			b.DailyAverages[day] = dayTotals[day] / float64(n)
		}
	}

	return b
}

// lastWeeks returns the trailing n week buckets, keys sorted ascending.
// The ISO "YYYY-WNN" key format sorts chronologically as a string.
func lastWeeks(weekly map[string]float64, n int) map[string]float64 {
	if len(weekly) == 0 {
		return weekly
	}

	keys := make([]string, 0, len(weekly))
	for k := range weekly {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}

	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		out[k] = weekly[k]
	}
	return out
}
