package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

// SeedDev inserts a demo user with two BRL accounts, one USD account, a small
// category tree and three months of transactions ending in the month of now.
// It returns the demo user's id.
func (s *Store) SeedDev(now time.Time) uuid.UUID {
	user := uuid.New()
	checking := ledger.Account{ID: uuid.New(), Name: "Checking", Currency: "BRL", Color: "#1e88e5", Active: true}
	savings := ledger.Account{ID: uuid.New(), Name: "Savings", Currency: "BRL", Color: "#43a047", Active: true}
	travel := ledger.Account{ID: uuid.New(), Name: "Travel card", Currency: "USD", Color: "#f4511e", Active: true}

	salary := ledger.Category{ID: uuid.New(), Name: "Salary", Type: ledger.CategoryIncome, Color: "#2e7d32", Icon: "briefcase", Active: true}
	housing := ledger.Category{ID: uuid.New(), Name: "Housing", Type: ledger.CategoryExpense, Color: "#6d4c41", Icon: "home", Active: true}
	food := ledger.Category{ID: uuid.New(), Name: "Food", Type: ledger.CategoryExpense, Color: "#fb8c00", Icon: "utensils", Active: true}
	groceries := ledger.Category{ID: uuid.New(), ParentID: &food.ID, Name: "Groceries", Type: ledger.CategoryExpense, Color: "#ffa726", Active: true}
	restaurants := ledger.Category{ID: uuid.New(), ParentID: &food.ID, Name: "Restaurants", Type: ledger.CategoryExpense, Color: "#ffb74d", Active: true}
	moves := ledger.Category{ID: uuid.New(), Name: "Transfers", Type: ledger.CategoryTransfer, Color: "#9e9e9e", Active: true}

	snap := ledger.Snapshot{
		UserID:     user,
		Accounts:   []ledger.Account{checking, savings, travel},
		Categories: []ledger.Category{salary, housing, food, groceries, restaurants, moves},
	}

	add := func(acc ledger.Account, cat ledger.Category, typ ledger.TransactionType, amount int64, date time.Time, desc string, paid bool) {
		d := date.Format(time.DateOnly)
		snap.Transactions = append(snap.Transactions, ledger.Transaction{
			ID: uuid.New(), AccountID: acc.ID, CategoryID: cat.ID, Type: typ, Amount: amount,
			Description: desc, DueDate: d, CompetenceDate: d, Paid: paid,
		})
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 2; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		current := i == 0
		add(checking, salary, ledger.TypeIncome, 850000, month.AddDate(0, 0, 4), "Salary", true)
		add(checking, housing, ledger.TypeExpense, 280000, month.AddDate(0, 0, 9), "Rent", true)
		add(checking, groceries, ledger.TypeExpense, 65000+int64(i)*2500, month.AddDate(0, 0, 14), "Supermarket", true)
		add(checking, restaurants, ledger.TypeExpense, 18000, month.AddDate(0, 0, 20), "Dinner out", !current)
		add(travel, restaurants, ledger.TypeExpense, 4500, month.AddDate(0, 0, 12), "Coffee abroad", true)

		group := uuid.NewString()
		date := month.AddDate(0, 0, 6).Format(time.DateOnly)
		snap.Transactions = append(snap.Transactions,
			ledger.Transaction{ID: uuid.New(), AccountID: checking.ID, CategoryID: moves.ID, Type: ledger.TypeExpense, Amount: 100000,
				Description: "To savings", DueDate: date, CompetenceDate: date, Paid: true, TransferID: group},
			ledger.Transaction{ID: uuid.New(), AccountID: savings.ID, CategoryID: moves.ID, Type: ledger.TypeIncome, Amount: 100000,
				Description: "From checking", DueDate: date, CompetenceDate: date, Paid: true, TransferID: group},
		)
	}
	add(travel, salary, ledger.TypeIncome, 120000, first.AddDate(0, -2, 1), "Freelance", true)

	s.SeedSnapshot(snap)
	return user
}
