package report

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

// fixture builds snapshots one record at a time.
type fixture struct {
	snap ledger.Snapshot
}

func newFixture() *fixture {
	return &fixture{snap: ledger.Snapshot{UserID: uuid.New()}}
}

func (f *fixture) account(name, currency string) uuid.UUID {
	a := ledger.Account{ID: uuid.New(), UserID: f.snap.UserID, Name: name, Currency: currency, Active: true}
	f.snap.Accounts = append(f.snap.Accounts, a)
	return a.ID
}

func (f *fixture) category(name string, typ ledger.CategoryType, parent *uuid.UUID) uuid.UUID {
	c := ledger.Category{ID: uuid.New(), UserID: f.snap.UserID, Name: name, Type: typ, Color: "#" + name, ParentID: parent, Active: true}
	f.snap.Categories = append(f.snap.Categories, c)
	return c.ID
}

type txOpt func(*ledger.Transaction)

func pending() txOpt { return func(t *ledger.Transaction) { t.Paid = false } }
func transfer(id string) txOpt { return func(t *ledger.Transaction) { t.TransferID = id } }
func inCategory(id uuid.UUID) txOpt { return func(t *ledger.Transaction) { t.CategoryID = id } }
func due(date string) txOpt { return func(t *ledger.Transaction) { t.DueDate = date } }
func described(desc string) txOpt { return func(t *ledger.Transaction) { t.Description = desc } }

func (f *fixture) tx(account uuid.UUID, typ ledger.TransactionType, amount int64, date string, opts ...txOpt) ledger.Transaction {
	t := ledger.Transaction{
		ID:             uuid.New(),
		UserID:         f.snap.UserID,
		AccountID:      account,
		Type:           typ,
		Amount:         amount,
		DueDate:        date,
		CompetenceDate: date,
		Paid:           true,
	}
	for _, o := range opts {
		o(&t)
	}
	f.snap.Transactions = append(f.snap.Transactions, t)
	return t
}

func mustPeriod(t *testing.T, month, year int) Period {
	t.Helper()
	p, err := NewPeriod(month, year)
	if err != nil {
		t.Fatalf("NewPeriod(%d, %d): %v", month, year, err)
	}
	return p
}
