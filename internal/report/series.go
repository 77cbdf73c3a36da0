package report

import (
	"time"

	"github.com/tinoosan/finsight/internal/ledger"
)

// SeriesPoint is one month of a yearly income/expense series.
type SeriesPoint struct {
	Period Period
	Totals Totals
}

// MonthlySeries returns twelve points, January through December of year,
// using the same filter as Summarize.
func MonthlySeries(s ledger.Snapshot, currency string, year int) []SeriesPoint {
	f := newPeriodFilter(s, currency)
	out := make([]SeriesPoint, 12)
	for i := range out {
		out[i].Period = Period{Year: year, Month: time.Month(i + 1)}
	}
	for _, tx := range s.Transactions {
		p, ok := PeriodOf(tx.CompetenceDate)
		if !ok || p.Year != year || !f.keep(tx, p) {
			continue
		}
		t := &out[p.Month-1].Totals
		switch tx.Type {
		case ledger.TypeIncome:
			t.Income += tx.Amount
		case ledger.TypeExpense:
			t.Expense += tx.Amount
		}
	}
	for i := range out {
		out[i].Totals.Net = out[i].Totals.Income - out[i].Totals.Expense
	}
	return out
}
