package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finsight/internal/ledger"
)

func TestConfirmedBalance(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	f.tx(acc, ledger.TypeIncome, 10000, "2025-07-01")
	f.tx(acc, ledger.TypeExpense, 4000, "2025-07-02")
	f.tx(acc, ledger.TypeExpense, 999, "2025-07-03", pending())

	assert.Equal(t, "60.00", ConfirmedBalance(acc, f.snap.Transactions).String())
	assert.Equal(t, "50.01", ProjectedBalance(acc, f.snap.Transactions).String())
}

func TestBalanceExactOffsetIsPositiveZero(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	f.tx(acc, ledger.TypeIncome, 4000, "2025-07-01")
	f.tx(acc, ledger.TypeExpense, 4000, "2025-07-02")

	assert.Equal(t, "0.00", ConfirmedBalance(acc, f.snap.Transactions).String())
	assert.Equal(t, "0.00", TotalBalance(f.snap.Accounts, f.snap.Transactions, Confirmed).String())
	assert.Equal(t, "0.00", ConfirmedBalance(f.account("Empty", "BRL"), nil).String())
}

func TestTransfersMoveAccountBalances(t *testing.T) {
	f := newFixture()
	from := f.account("Checking", "BRL")
	to := f.account("Savings", "BRL")
	f.tx(from, ledger.TypeIncome, 5000, "2025-07-01")
	f.tx(from, ledger.TypeExpense, 2000, "2025-07-05", transfer("t-1"))
	f.tx(to, ledger.TypeIncome, 2000, "2025-07-05", transfer("t-1"))

	assert.Equal(t, "30.00", ConfirmedBalance(from, f.snap.Transactions).String())
	assert.Equal(t, "20.00", ConfirmedBalance(to, f.snap.Transactions).String())
	assert.Equal(t, "50.00", TotalBalance(f.snap.Accounts, f.snap.Transactions, Confirmed).String())
}

func TestAccountBalancesSortedByName(t *testing.T) {
	f := newFixture()
	b := f.account("wallet", "BRL")
	a := f.account("Bank", "BRL")
	f.tx(a, ledger.TypeIncome, 100, "2025-01-01")
	f.tx(b, ledger.TypeIncome, 300, "2025-01-01", pending())

	got := AccountBalances(f.snap.Accounts, f.snap.Transactions)
	require.Len(t, got, 2)
	assert.Equal(t, "Bank", got[0].Account.Name)
	assert.Equal(t, "1.00", got[0].Confirmed.String())
	assert.Equal(t, "0.00", got[1].Confirmed.String())
	assert.Equal(t, "3.00", got[1].Projected.String())
}

func TestConfirmedBalanceThrough(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	f.tx(acc, ledger.TypeIncome, 10000, "2025-05-10")
	f.tx(acc, ledger.TypeExpense, 2500, "2025-06-30")
	f.tx(acc, ledger.TypeExpense, 1000, "2025-07-01")
	f.tx(acc, ledger.TypeIncome, 7000, "2025-06-15", pending())
	f.tx(acc, ledger.TypeIncome, 500, "bad date")

	june := mustPeriod(t, 6, 2025)
	assert.Equal(t, "75.00", ConfirmedBalanceThrough(f.snap.Accounts, f.snap.Transactions, june).String())
}

func TestAccountsInAndCurrencies(t *testing.T) {
	f := newFixture()
	f.account("A", "BRL")
	f.account("B", "usd")
	f.account("C", "EUR")
	f.snap.Accounts[2].Active = false

	assert.Len(t, AccountsIn(f.snap.Accounts, "USD", false), 1)
	assert.Len(t, AccountsIn(f.snap.Accounts, "", true), 2)
	assert.Equal(t, []string{"BRL", "USD"}, Currencies(f.snap.Accounts))
}
