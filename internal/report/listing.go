package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/finsight/internal/errs"
	"github.com/tinoosan/finsight/internal/ledger"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DateField picks which transaction date a period filter applies to.
type DateField string

const (
	ByCompetence DateField = "competence"
	ByDue        DateField = "due"
)

// ParseDateField parses a DateField, defaulting to competence when empty.
func ParseDateField(s string) (DateField, error) {
	switch DateField(strings.ToLower(strings.TrimSpace(s))) {
	case "", ByCompetence:
		return ByCompetence, nil
	case ByDue:
		return ByDue, nil
	default:
		return "", invalidf("date_field must be competence or due, got %q", s)
	}
}

// PaidStatus filters transactions by settlement.
type PaidStatus string

const (
	StatusAny     PaidStatus = ""
	StatusPaid    PaidStatus = "paid"
	StatusPending PaidStatus = "pending"
)

// ParsePaidStatus parses a PaidStatus; "all" and "" mean any.
func ParsePaidStatus(s string) (PaidStatus, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "all":
		return StatusAny, nil
	case string(StatusPaid), string(StatusPending):
		return PaidStatus(v), nil
	default:
		return "", invalidf("status must be paid, pending or all, got %q", s)
	}
}

// TransactionFilter narrows a transaction listing. Zero values mean no
// restriction, except IncludeTransfers which must be set to show transfers.
type TransactionFilter struct {
	Period    *Period
	DateField DateField
	// AccountIDs and CategoryIDs match any of their members. A parent
	// category id also matches its subcategories.
	AccountIDs       []uuid.UUID
	CategoryIDs      []uuid.UUID
	Type             ledger.TransactionType
	Status           PaidStatus
	IncludeTransfers bool
	Query            string
}

// PageRequest is a 1-based page selector.
type PageRequest struct {
	Page int
	Size int
}

func (r PageRequest) normalized() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	switch {
	case r.Size <= 0:
		r.Size = DefaultPageSize
	case r.Size > MaxPageSize:
		r.Size = MaxPageSize
	}
	// (Page-1)*Size must stay within int.
	if maxPage := math.MaxInt/r.Size + 1; r.Page > maxPage {
		r.Page = maxPage
	}
	return r
}

// TransactionRow is a listed transaction with its lookups resolved.
type TransactionRow struct {
	Transaction ledger.Transaction
	Amount      decimal.Decimal
	AccountName string
	Currency    string
	// Category is the transaction's own category; Group the top-level
	// category it rolls up to. Both are empty when the id is unknown.
	Category ledger.Category
	Group    ledger.Category
}

// TransactionPage is one page of a filtered listing.
type TransactionPage struct {
	Rows       []TransactionRow
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// ListTransactions filters, sorts (newest due date first) and paginates the
// snapshot's transactions.
func ListTransactions(s ledger.Snapshot, f TransactionFilter, req PageRequest) TransactionPage {
	req = req.normalized()
	accounts := s.AccountIndex()
	cats := s.CategoryIndex()
	accSet := idSet(f.AccountIDs)
	catSet := idSet(f.CategoryIDs)
	q := strings.ToLower(strings.TrimSpace(f.Query))

	matched := make([]ledger.Transaction, 0)
	for _, tx := range s.Transactions {
		if !f.IncludeTransfers && IsTransfer(tx) {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Status == StatusPaid && !tx.Paid || f.Status == StatusPending && tx.Paid {
			continue
		}
		if accSet != nil {
			if _, ok := accSet[tx.AccountID]; !ok {
				continue
			}
		}
		if catSet != nil && !categoryMatches(tx.CategoryID, catSet, cats) {
			continue
		}
		if f.Period != nil {
			date := tx.CompetenceDate
			if f.DateField == ByDue {
				date = tx.DueDate
			}
			if !f.Period.Contains(date) {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(tx.Description), q) {
			continue
		}
		matched = append(matched, tx)
	}

	sortNewestFirst(matched)

	page := TransactionPage{Page: req.Page, PageSize: req.Size, Total: len(matched), Rows: []TransactionRow{}}
	page.TotalPages = (len(matched) + req.Size - 1) / req.Size
	if req.Page > page.TotalPages {
		return page
	}
	start := (req.Page - 1) * req.Size
	end := min(start+req.Size, len(matched))
	for _, tx := range matched[start:end] {
		row := TransactionRow{Transaction: tx, Amount: ToMajorUnits(tx.Amount)}
		if a, ok := accounts[tx.AccountID]; ok {
			row.AccountName, row.Currency = a.Name, a.Currency
		}
		if c, ok := cats[tx.CategoryID]; ok {
			row.Category = c
		}
		if g, ok := resolveTopLevel(tx.CategoryID, cats); ok {
			row.Group = g
		}
		page.Rows = append(page.Rows, row)
	}
	return page
}

func categoryMatches(id uuid.UUID, want map[uuid.UUID]struct{}, cats map[uuid.UUID]ledger.Category) bool {
	if _, ok := want[id]; ok {
		return true
	}
	c, ok := cats[id]
	if !ok || c.IsTopLevel() {
		return false
	}
	_, ok = want[*c.ParentID]
	return ok
}

// sortNewestFirst orders by due date descending. Unparseable dates sort last;
// ties fall back to competence date and then id so the order is stable.
func sortNewestFirst(txs []ledger.Transaction) {
	key := func(v string) time.Time {
		t, _ := DateOf(v)
		return t
	}
	sort.SliceStable(txs, func(i, j int) bool {
		di, dj := key(txs[i].DueDate), key(txs[j].DueDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		ci, cj := key(txs[i].CompetenceDate), key(txs[j].CompetenceDate)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return txs[i].ID.String() < txs[j].ID.String()
	})
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalid, fmt.Sprintf(format, args...))
}
