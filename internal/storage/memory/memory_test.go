package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finsight/internal/ledger"
	"github.com/tinoosan/finsight/internal/report"
)

func TestStoreScopesByUser(t *testing.T) {
	s := New()
	alice, bob := uuid.New(), uuid.New()
	s.SeedAccount(ledger.Account{ID: uuid.New(), UserID: alice, Currency: "BRL"})
	s.SeedAccount(ledger.Account{ID: uuid.New(), UserID: bob, Currency: "USD"})
	s.SeedTransaction(ledger.Transaction{ID: uuid.New(), UserID: alice})
	s.SeedCategory(ledger.Category{ID: uuid.New(), UserID: bob})

	ctx := context.Background()
	accs, err := s.Accounts(ctx, alice)
	require.NoError(t, err)
	require.Len(t, accs, 1)
	assert.Equal(t, "BRL", accs[0].Currency)

	txs, err := s.Transactions(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, txs)

	cats, err := s.Categories(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	assert.Len(t, s.Users(), 2)
	s.Reset()
	assert.Empty(t, s.Users())
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New()
	user := uuid.New()
	parent := uuid.New()
	s.SeedCategory(ledger.Category{ID: uuid.New(), UserID: user, ParentID: &parent})

	cats, err := s.Categories(context.Background(), user)
	require.NoError(t, err)
	*cats[0].ParentID = uuid.Nil

	again, err := s.Categories(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, parent, *again[0].ParentID)
}

func TestSeedDevProducesConsistentReports(t *testing.T) {
	s := New()
	now := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)
	user := s.SeedDev(now)
	ctx := context.Background()

	accs, _ := s.Accounts(ctx, user)
	txs, _ := s.Transactions(ctx, user)
	cats, _ := s.Categories(ctx, user)
	snap := ledger.Snapshot{UserID: user, Accounts: accs, Transactions: txs, Categories: cats}
	for _, a := range accs {
		require.NoError(t, a.Validate())
	}
	for _, tx := range txs {
		require.NoError(t, tx.Validate())
	}
	for _, c := range cats {
		require.NoError(t, c.Validate())
	}

	july, err := report.NewPeriod(7, 2025)
	require.NoError(t, err)
	sum := report.Summarize(snap, "BRL", july)
	assert.True(t, sum.HasHistoricalData)
	assert.Equal(t, int64(850000), sum.Current.Income)
	assert.Equal(t, int64(280000+65000), sum.Current.Expense, "pending dinner and transfers are excluded")

	roll := report.Rollup(snap, "BRL", july, ledger.TypeExpense)
	require.Len(t, roll.Slices, 2)
	assert.Equal(t, "Housing", roll.Slices[0].Label)
	assert.Equal(t, "Food", roll.Slices[1].Label)

	assert.Equal(t, []string{"BRL", "USD"}, report.Currencies(accs))
}
