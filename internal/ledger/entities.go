package ledger

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType carries the polarity of a transaction: income adds to an
// account, expense subtracts from it.
type TransactionType string

const (
	// TypeIncome marks money flowing into an account.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money flowing out of an account.
	TypeExpense TransactionType = "expense"
)

// CategoryType enumerates the kinds of category a user can create.
type CategoryType string

const (
	CategoryIncome   CategoryType = "income"
	CategoryExpense  CategoryType = "expense"
	CategoryTransfer CategoryType = "transfer"
)

// Account is a user's account. It never stores a balance; balances are always
// derived from the account's transactions.
type Account struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Currency string
	Color    string
	// Type is the account's default polarity (may be empty).
	Type TransactionType
	// Active is false once the account has been soft-deactivated.
	Active bool
}

// Transaction is a single income or expense movement on one account.
// Amount is always non-negative minor units; polarity lives in Type.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Type        TransactionType
	Description string
	Amount      int64
	// DueDate is the settlement date, CompetenceDate the accrual date used
	// for period assignment. Both are kept as received so that malformed
	// values can fail closed when matched.
	DueDate        string
	CompetenceDate string
	Paid           bool
	Observation    string
	// TransferID links the two legs of a transfer between the user's own
	// accounts. Empty means the transaction is not a transfer.
	TransferID         string
	Recurring          bool
	Installments       int
	CurrentInstallment int
}

// Category groups transactions. A category with a ParentID is a subcategory;
// only one level of nesting exists.
type Category struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ParentID    *uuid.UUID
	Name        string
	Description string
	Type        CategoryType
	Color       string
	Icon        string
	Active      bool
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool { return c.ParentID == nil || *c.ParentID == uuid.Nil }

// Snapshot is the complete set of records fetched for one user at one moment.
// Derivations treat it as immutable.
type Snapshot struct {
	UserID       uuid.UUID
	Accounts     []Account
	Transactions []Transaction
	Categories   []Category
	FetchedAt    time.Time
}

// AccountIndex returns the snapshot's accounts keyed by ID.
func (s Snapshot) AccountIndex() map[uuid.UUID]Account {
	out := make(map[uuid.UUID]Account, len(s.Accounts))
	for _, a := range s.Accounts {
		out[a.ID] = a
	}
	return out
}

// CategoryIndex returns the snapshot's categories keyed by ID.
func (s Snapshot) CategoryIndex() map[uuid.UUID]Category {
	return IndexCategories(s.Categories)
}

// IndexCategories keys a category list by ID.
func IndexCategories(cats []Category) map[uuid.UUID]Category {
	out := make(map[uuid.UUID]Category, len(cats))
	for _, c := range cats {
		out[c.ID] = c
	}
	return out
}
