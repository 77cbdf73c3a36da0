package report

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/finsight/internal/ledger"
)

// Totals is the income/expense/net triple of one period, in minor units.
type Totals struct {
	Income  int64
	Expense int64
	Net     int64
}

// IncomeMajor returns Income in major units.
func (t Totals) IncomeMajor() decimal.Decimal { return ToMajorUnits(t.Income) }

// ExpenseMajor returns Expense in major units.
func (t Totals) ExpenseMajor() decimal.Decimal { return ToMajorUnits(t.Expense) }

// NetMajor returns Net in major units.
func (t Totals) NetMajor() decimal.Decimal { return ToMajorUnits(t.Net) }

// Deltas holds period-over-period percentage changes. A zero delta is only
// meaningful when PeriodSummary.HasHistoricalData is true.
type Deltas struct {
	Income  float64
	Expense float64
	Net     float64
	Balance float64
}

// PeriodSummary is the derived summary of one currency over one month.
type PeriodSummary struct {
	Currency string
	Period   Period
	Current  Totals
	Previous Totals
	// HasHistoricalData is true when the previous period had at least one
	// qualifying transaction, even if its totals sum to zero.
	HasHistoricalData bool
	Deltas            Deltas
	// Balance is the confirmed total across the currency's accounts.
	// PreviousBalance is the same total accumulated through the end of the
	// previous period by due date. It is cumulative, unlike Previous.Net.
	Balance         int64
	PreviousBalance int64
}

// periodFilter selects the paid, non-transfer transactions of one currency
// whose competence date falls in a period.
type periodFilter struct {
	accounts map[uuid.UUID]ledger.Account
	currency string
}

func newPeriodFilter(s ledger.Snapshot, currency string) periodFilter {
	return periodFilter{accounts: s.AccountIndex(), currency: strings.ToUpper(strings.TrimSpace(currency))}
}

func (f periodFilter) keep(tx ledger.Transaction, p Period) bool {
	if !tx.Paid || IsTransfer(tx) {
		return false
	}
	acc, ok := f.accounts[tx.AccountID]
	if !ok || !strings.EqualFold(acc.Currency, f.currency) {
		return false
	}
	return p.Contains(tx.CompetenceDate)
}

func (f periodFilter) apply(txs []ledger.Transaction, p Period) []ledger.Transaction {
	out := make([]ledger.Transaction, 0)
	for _, tx := range txs {
		if f.keep(tx, p) {
			out = append(out, tx)
		}
	}
	return out
}

func totalsOf(txs []ledger.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case ledger.TypeIncome:
			t.Income += tx.Amount
		case ledger.TypeExpense:
			t.Expense += tx.Amount
		}
	}
	t.Net = t.Income - t.Expense
	return t
}

// PercentDelta returns (cur-prev)/|prev|*100. It is 0 when there is no
// baseline or the baseline is zero.
func PercentDelta(cur, prev int64, hasBaseline bool) float64 {
	if !hasBaseline || prev == 0 {
		return 0
	}
	return normalizeFloat(float64(cur-prev) / math.Abs(float64(prev)) * 100)
}

// Summarize derives the period summary for currency in period p.
func Summarize(s ledger.Snapshot, currency string, p Period) PeriodSummary {
	f := newPeriodFilter(s, currency)
	prevPeriod := p.Previous()

	cur := f.apply(s.Transactions, p)
	prev := f.apply(s.Transactions, prevPeriod)

	out := PeriodSummary{
		Currency:          f.currency,
		Period:            p,
		Current:           totalsOf(cur),
		Previous:          totalsOf(prev),
		HasHistoricalData: len(prev) > 0,
	}

	accounts := AccountsIn(s.Accounts, f.currency, false)
	out.Balance = ToMinorUnits(TotalBalance(accounts, s.Transactions, Confirmed))
	out.PreviousBalance = ToMinorUnits(ConfirmedBalanceThrough(accounts, s.Transactions, prevPeriod))

	h := out.HasHistoricalData
	out.Deltas = Deltas{
		Income:  PercentDelta(out.Current.Income, out.Previous.Income, h),
		Expense: PercentDelta(out.Current.Expense, out.Previous.Expense, h),
		Net:     PercentDelta(out.Current.Net, out.Previous.Net, h),
		Balance: PercentDelta(out.Balance, out.PreviousBalance, h),
	}
	return out
}
