package report

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/finsight/internal/ledger"
)

// BalanceKind selects which transactions count toward a balance.
type BalanceKind int

const (
	// Confirmed counts settled (paid) transactions only.
	Confirmed BalanceKind = iota
	// Projected counts settled and pending transactions.
	Projected
)

// AccountBalance pairs an account with both of its derived balances.
type AccountBalance struct {
	Account   ledger.Account
	Confirmed decimal.Decimal
	Projected decimal.Decimal
}

// ConfirmedBalance sums the paid transactions of an account.
func ConfirmedBalance(accountID uuid.UUID, txs []ledger.Transaction) decimal.Decimal {
	return ToMajorUnits(balanceMinor(accountID, txs, Confirmed))
}

// ProjectedBalance sums every transaction of an account, paid or pending.
func ProjectedBalance(accountID uuid.UUID, txs []ledger.Transaction) decimal.Decimal {
	return ToMajorUnits(balanceMinor(accountID, txs, Projected))
}

func balanceMinor(accountID uuid.UUID, txs []ledger.Transaction, kind BalanceKind) int64 {
	var sum int64
	for _, tx := range txs {
		if tx.AccountID != accountID {
			continue
		}
		if kind == Confirmed && !tx.Paid {
			continue
		}
		sum += signedMinor(tx)
	}
	return sum
}

// balancesByAccount computes the balance of every account in one pass.
func balancesByAccount(txs []ledger.Transaction, kind BalanceKind, include func(ledger.Transaction) bool) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64)
	for _, tx := range txs {
		if kind == Confirmed && !tx.Paid {
			continue
		}
		if include != nil && !include(tx) {
			continue
		}
		out[tx.AccountID] += signedMinor(tx)
	}
	return out
}

// TotalBalance sums the balances of the given accounts. Each account's balance
// is zero-normalized before it is added.
func TotalBalance(accounts []ledger.Account, txs []ledger.Transaction, kind BalanceKind) decimal.Decimal {
	return sumAccounts(accounts, balancesByAccount(txs, kind, nil))
}

// ConfirmedBalanceThrough is the cumulative confirmed balance of the accounts
// counting only transactions settled (by due date) in or before cutoff.
// Transactions whose due date cannot be parsed are left out.
func ConfirmedBalanceThrough(accounts []ledger.Account, txs []ledger.Transaction, cutoff Period) decimal.Decimal {
	byAcc := balancesByAccount(txs, Confirmed, func(tx ledger.Transaction) bool {
		p, ok := PeriodOf(tx.DueDate)
		return ok && !cutoff.Before(p)
	})
	return sumAccounts(accounts, byAcc)
}

func sumAccounts(accounts []ledger.Account, byAcc map[uuid.UUID]int64) decimal.Decimal {
	total := ToMajorUnits(0)
	for _, a := range accounts {
		leg := ToMajorUnits(byAcc[a.ID])
		if sum, err := total.Add(leg); err == nil {
			total = sum
		}
	}
	return NormalizeZero(total)
}

// AccountBalances returns confirmed and projected balances for every account,
// ordered by account name.
func AccountBalances(accounts []ledger.Account, txs []ledger.Transaction) []AccountBalance {
	confirmed := balancesByAccount(txs, Confirmed, nil)
	projected := balancesByAccount(txs, Projected, nil)
	out := make([]AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountBalance{
			Account:   a,
			Confirmed: ToMajorUnits(confirmed[a.ID]),
			Projected: ToMajorUnits(projected[a.ID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Account.Name), strings.ToLower(out[j].Account.Name)
		if ni == nj {
			return out[i].Account.ID.String() < out[j].Account.ID.String()
		}
		return ni < nj
	})
	return out
}

// AccountsIn filters accounts by currency. When activeOnly is set,
// deactivated accounts are dropped as well.
func AccountsIn(accounts []ledger.Account, currency string, activeOnly bool) []ledger.Account {
	out := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		if currency != "" && !strings.EqualFold(a.Currency, currency) {
			continue
		}
		if activeOnly && !a.Active {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Currencies lists the distinct currencies held by active accounts, sorted.
func Currencies(accounts []ledger.Account) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, a := range accounts {
		if !a.Active {
			continue
		}
		c := strings.ToUpper(a.Currency)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
