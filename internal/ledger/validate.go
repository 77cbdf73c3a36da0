package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/tinoosan/finsight/internal/errs"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrInvalid}, args...)...)
}

// NormalizeCurrency upper-cases and trims a currency code and checks that it
// is a known ISO-4217 code.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", invalid("currency is required")
	}
	curr, err := money.ParseCurr(code)
	if err != nil {
		return "", invalid("unknown currency %q", code)
	}
	return curr.Code(), nil
}

// Validate checks the transaction type is one of the known polarities.
func (t TransactionType) Validate() error {
	switch t {
	case TypeIncome, TypeExpense:
		return nil
	default:
		return invalid("type must be income or expense, got %q", string(t))
	}
}

// Validate checks the category type is one of the known kinds.
func (t CategoryType) Validate() error {
	switch t {
	case CategoryIncome, CategoryExpense, CategoryTransfer:
		return nil
	default:
		return invalid("category type must be income, expense or transfer, got %q", string(t))
	}
}

// Validate checks identity, currency and polarity of an account.
func (a Account) Validate() error {
	if a.ID == uuid.Nil {
		return invalid("account id is required")
	}
	if _, err := NormalizeCurrency(a.Currency); err != nil {
		return fmt.Errorf("account %s: %w", a.ID, err)
	}
	if a.Type != "" {
		if err := a.Type.Validate(); err != nil {
			return fmt.Errorf("account %s: %w", a.ID, err)
		}
	}
	return nil
}

// Validate enforces the transaction invariants: a non-negative minor-unit
// amount, a known type and an owning account.
func (t Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return invalid("transaction id is required")
	}
	if t.AccountID == uuid.Nil {
		return invalid("transaction %s: account_id is required", t.ID)
	}
	if t.Amount < 0 {
		return invalid("transaction %s: amount must be >= 0", t.ID)
	}
	if err := t.Type.Validate(); err != nil {
		return fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	return nil
}

// Validate checks identity and type of a category and that it is not its own parent.
func (c Category) Validate() error {
	if c.ID == uuid.Nil {
		return invalid("category id is required")
	}
	if err := c.Type.Validate(); err != nil {
		return fmt.Errorf("category %s: %w", c.ID, err)
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return invalid("category %s: cannot be its own parent", c.ID)
	}
	return nil
}
