package form

import (
	"strconv"
	"strings"
)

// Recalculator keeps each row's derived total and the grand total consistent
// with the current qty/unitPrice of every row. One pass runs per genuine
// row-sequence change; writing the derived fields bypasses the notification
// path so a pass never re-triggers itself.
type Recalculator struct {
	formatter *CurrencyFormatter
}

// NewRecalculator builds a pipeline that formats row totals with the given
// formatter.
func NewRecalculator(formatter *CurrencyFormatter) *Recalculator {
	return &Recalculator{formatter: formatter}
}

// Attach subscribes the pipeline to the form's row value-change stream and
// returns the subscription so callers can release it on teardown.
func (r *Recalculator) Attach(e *Estimate) *Subscription {
	return e.Watch(func(rows []UnitRow) {
		r.pass(e, rows)
	})
}

// pass recomputes totals in display order. Rows whose qty or unitPrice does
// not parse as a number get an empty derived total and contribute zero to the
// grand total; recalculation never fails mid-edit.
func (r *Recalculator) pass(e *Estimate, rows []UnitRow) {
	totals := make([]string, len(rows))
	sum := 0.0
	for i, row := range rows {
		qty, qtyOK := parseAmount(row.Qty)
		price, priceOK := parseAmount(row.UnitPrice)
		if !qtyOK || !priceOK {
			continue
		}
		rowTotal := qty * price
		totals[i] = r.formatter.Format(rowTotal)
		sum += rowTotal
	}
	e.setDerivedTotals(totals, sum)
}

// parseAmount reads a raw numeric input. The validation pattern tolerates
// commas, but arithmetic rejects them: "1,5" passes the pattern and still
// yields no total.
func parseAmount(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
