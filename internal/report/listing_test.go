package report

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finsight/internal/errs"
	"github.com/tinoosan/finsight/internal/ledger"
)

func TestListTransactionsFilters(t *testing.T) {
	f := newFixture()
	checking := f.account("Checking", "BRL")
	savings := f.account("Savings", "BRL")
	food := f.category("Food", ledger.CategoryExpense, nil)
	groceries := f.category("Groceries", ledger.CategoryExpense, &food)
	market := f.tx(checking, ledger.TypeExpense, 1000, "2025-07-10", inCategory(groceries), described("Super Market"))
	lunch := f.tx(checking, ledger.TypeExpense, 500, "2025-07-12", inCategory(food), described("Lunch"), pending())
	f.tx(savings, ledger.TypeIncome, 9000, "2025-07-01", described("Salary"))
	f.tx(checking, ledger.TypeExpense, 300, "2025-07-02", transfer("t"))
	f.tx(checking, ledger.TypeExpense, 200, "2025-06-30", inCategory(food))

	july := mustPeriod(t, 7, 2025)

	page := ListTransactions(f.snap, TransactionFilter{Period: &july}, PageRequest{})
	assert.Equal(t, 3, page.Total, "transfers hidden by default")

	page = ListTransactions(f.snap, TransactionFilter{Period: &july, IncludeTransfers: true}, PageRequest{})
	assert.Equal(t, 4, page.Total)

	page = ListTransactions(f.snap, TransactionFilter{CategoryIDs: []uuid.UUID{food}}, PageRequest{})
	require.Equal(t, 3, page.Total, "parent matches its subcategories")
	assert.Equal(t, lunch.ID, page.Rows[0].Transaction.ID, "newest first")
	assert.Equal(t, market.ID, page.Rows[1].Transaction.ID)
	assert.Equal(t, "Food", page.Rows[1].Group.Name)
	assert.Equal(t, "Groceries", page.Rows[1].Category.Name)
	assert.Equal(t, "Checking", page.Rows[1].AccountName)
	assert.Equal(t, "10.00", page.Rows[1].Amount.String())

	page = ListTransactions(f.snap, TransactionFilter{Status: StatusPaid, Query: "market"}, PageRequest{})
	require.Equal(t, 1, page.Total)
	assert.Equal(t, market.ID, page.Rows[0].Transaction.ID)

	page = ListTransactions(f.snap, TransactionFilter{AccountIDs: []uuid.UUID{savings}, Type: ledger.TypeIncome}, PageRequest{})
	assert.Equal(t, 1, page.Total)
}

func TestListTransactionsDateField(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	f.tx(acc, ledger.TypeExpense, 100, "2025-06-28", due("2025-07-05"))

	july := mustPeriod(t, 7, 2025)
	assert.Equal(t, 0, ListTransactions(f.snap, TransactionFilter{Period: &july}, PageRequest{}).Total)
	assert.Equal(t, 1, ListTransactions(f.snap, TransactionFilter{Period: &july, DateField: ByDue}, PageRequest{}).Total)
}

func TestListTransactionsPagination(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	for i := 0; i < 45; i++ {
		f.tx(acc, ledger.TypeExpense, int64(i+1), "2025-07-01")
	}

	page := ListTransactions(f.snap, TransactionFilter{}, PageRequest{})
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Len(t, page.Rows, 20)
	assert.Equal(t, 3, page.TotalPages)

	page = ListTransactions(f.snap, TransactionFilter{}, PageRequest{Page: 3, Size: 20})
	assert.Len(t, page.Rows, 5)

	page = ListTransactions(f.snap, TransactionFilter{}, PageRequest{Page: 9, Size: 20})
	assert.Empty(t, page.Rows)
	assert.Equal(t, 45, page.Total)

	page = ListTransactions(f.snap, TransactionFilter{}, PageRequest{Size: 1000})
	assert.Equal(t, MaxPageSize, page.PageSize)
	assert.Len(t, page.Rows, 45)
}

func TestListTransactionsHugePageIsEmpty(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	f.tx(acc, ledger.TypeExpense, 100, "2025-07-01")

	for _, size := range []int{0, 1, 20, MaxPageSize} {
		var page TransactionPage
		require.NotPanics(t, func() {
			page = ListTransactions(f.snap, TransactionFilter{}, PageRequest{Page: math.MaxInt, Size: size})
		})
		assert.Empty(t, page.Rows)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 1, page.TotalPages)
	}
}

func TestParseListingParams(t *testing.T) {
	df, err := ParseDateField("")
	require.NoError(t, err)
	assert.Equal(t, ByCompetence, df)
	df, err = ParseDateField("DUE")
	require.NoError(t, err)
	assert.Equal(t, ByDue, df)
	_, err = ParseDateField("created")
	assert.ErrorIs(t, err, errs.ErrInvalid)

	st, err := ParsePaidStatus("all")
	require.NoError(t, err)
	assert.Equal(t, StatusAny, st)
	_, err = ParsePaidStatus("settled")
	assert.ErrorIs(t, err, errs.ErrInvalid)
}
