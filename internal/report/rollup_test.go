package report

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finsight/internal/ledger"
)

func TestRollupPercentagesAndOrder(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	food := f.category("Food", ledger.CategoryExpense, nil)
	rent := f.category("Rent", ledger.CategoryExpense, nil)
	f.tx(acc, ledger.TypeExpense, 100, "2025-07-01", inCategory(food))
	f.tx(acc, ledger.TypeExpense, 200, "2025-07-02", inCategory(food))
	f.tx(acc, ledger.TypeExpense, 700, "2025-07-03", inCategory(rent))
	f.tx(acc, ledger.TypeIncome, 5000, "2025-07-03", inCategory(rent))

	b := Rollup(f.snap, "BRL", mustPeriod(t, 7, 2025), ledger.TypeExpense)
	require.Len(t, b.Slices, 2)
	assert.Equal(t, int64(1000), b.Total)
	assert.Equal(t, "Rent", b.Slices[0].Label)
	assert.Equal(t, int64(700), b.Slices[0].Value)
	assert.InDelta(t, 70.0, b.Slices[0].Percent, 1e-9)
	assert.Equal(t, "Food", b.Slices[1].Label)
	assert.InDelta(t, 30.0, b.Slices[1].Percent, 1e-9)
}

func TestRollupSubcategoryUnderParent(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	parent := f.category("Food", ledger.CategoryExpense, nil)
	sub := f.category("Groceries", ledger.CategoryExpense, &parent)
	f.tx(acc, ledger.TypeExpense, 1500, "2025-07-01", inCategory(sub))

	b := Rollup(f.snap, "BRL", mustPeriod(t, 7, 2025), ledger.TypeExpense)
	require.Len(t, b.Slices, 1)
	assert.Equal(t, parent, b.Slices[0].CategoryID)
	assert.Equal(t, "Food", b.Slices[0].Label)
	assert.Equal(t, "#Food", b.Slices[0].Color)
	assert.InDelta(t, 100.0, b.Slices[0].Percent, 1e-9)
}

func TestRollupMissingLookupsFailOpen(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	ghostParent := uuid.New()
	orphan := f.category("Orphan", ledger.CategoryExpense, &ghostParent)
	unknown := uuid.New()
	f.tx(acc, ledger.TypeExpense, 300, "2025-07-01", inCategory(orphan))
	f.tx(acc, ledger.TypeExpense, 200, "2025-07-01", inCategory(unknown))

	b := Rollup(f.snap, "BRL", mustPeriod(t, 7, 2025), ledger.TypeExpense)
	require.Len(t, b.Slices, 2)
	assert.Equal(t, int64(500), b.Total)
	assert.Equal(t, orphan, b.Slices[0].CategoryID)
	assert.Equal(t, "Orphan", b.Slices[0].Label)
	assert.Equal(t, unknown, b.Slices[1].CategoryID)
	assert.Equal(t, UncategorizedLabel, b.Slices[1].Label)
}

func TestRollupZeroTotal(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	c := f.category("Fees", ledger.CategoryExpense, nil)
	f.tx(acc, ledger.TypeExpense, 0, "2025-07-01", inCategory(c))

	b := Rollup(f.snap, "BRL", mustPeriod(t, 7, 2025), ledger.TypeExpense)
	require.Len(t, b.Slices, 1)
	assert.Equal(t, 0.0, b.Slices[0].Percent)

	empty := Rollup(ledger.Snapshot{}, "BRL", mustPeriod(t, 7, 2025), ledger.TypeIncome)
	assert.Empty(t, empty.Slices)
}

func TestRollupIndependentOfInputOrder(t *testing.T) {
	f := newFixture()
	acc := f.account("Checking", "BRL")
	for _, name := range []string{"A", "B", "C", "D"} {
		c := f.category(name, ledger.CategoryExpense, nil)
		f.tx(acc, ledger.TypeExpense, 500, "2025-07-01", inCategory(c))
	}
	want := Rollup(f.snap, "BRL", mustPeriod(t, 7, 2025), ledger.TypeExpense)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 5; i++ {
		shuffled := f.snap
		shuffled.Transactions = append([]ledger.Transaction(nil), f.snap.Transactions...)
		r.Shuffle(len(shuffled.Transactions), func(i, j int) {
			shuffled.Transactions[i], shuffled.Transactions[j] = shuffled.Transactions[j], shuffled.Transactions[i]
		})
		assert.Equal(t, want, Rollup(shuffled, "BRL", mustPeriod(t, 7, 2025), ledger.TypeExpense))
	}
	assert.Equal(t, "A", want.Slices[0].Label)
}
