package report

import (
	"sort"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

// UncategorizedLabel labels a group whose category id is not in the snapshot.
const UncategorizedLabel = "Uncategorized"

// CategorySlice is one top-level group of a breakdown.
type CategorySlice struct {
	CategoryID uuid.UUID
	Label      string
	Color      string
	Value      int64
	Percent    float64
}

// CategoryBreakdown is the per-category rollup of one currency, period and
// transaction type.
type CategoryBreakdown struct {
	Currency string
	Period   Period
	Type     ledger.TransactionType
	Total    int64
	Slices   []CategorySlice
}

// resolveTopLevel maps a category id to the category it should be grouped
// under. Subcategories resolve to their parent; if the parent is missing the
// subcategory stands alone. ok is false when id itself is unknown.
func resolveTopLevel(id uuid.UUID, cats map[uuid.UUID]ledger.Category) (ledger.Category, bool) {
	c, ok := cats[id]
	if !ok {
		return ledger.Category{}, false
	}
	if c.IsTopLevel() {
		return c, true
	}
	if parent, ok := cats[*c.ParentID]; ok {
		return parent, true
	}
	return c, true
}

// Rollup groups the period's paid, non-transfer transactions of type typ by
// top-level category. No transaction is dropped for a missing category.
func Rollup(s ledger.Snapshot, currency string, p Period, typ ledger.TransactionType) CategoryBreakdown {
	f := newPeriodFilter(s, currency)
	cats := s.CategoryIndex()

	groups := make(map[uuid.UUID]*CategorySlice)
	var total int64
	for _, tx := range f.apply(s.Transactions, p) {
		if tx.Type != typ {
			continue
		}
		key, label, color := tx.CategoryID, UncategorizedLabel, ""
		if c, ok := resolveTopLevel(tx.CategoryID, cats); ok {
			key, label, color = c.ID, c.Name, c.Color
		}
		g, ok := groups[key]
		if !ok {
			g = &CategorySlice{CategoryID: key, Label: label, Color: color}
			groups[key] = g
		}
		g.Value += tx.Amount
		total += tx.Amount
	}

	denom := float64(total)
	if total == 0 {
		denom = 1
	}
	slices := make([]CategorySlice, 0, len(groups))
	for _, g := range groups {
		g.Percent = normalizeFloat(float64(g.Value) / denom * 100)
		slices = append(slices, *g)
	}
	sort.Slice(slices, func(i, j int) bool {
		a, b := slices[i], slices[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.CategoryID.String() < b.CategoryID.String()
	})

	return CategoryBreakdown{
		Currency: f.currency,
		Period:   p,
		Type:     typ,
		Total:    total,
		Slices:   slices,
	}
}
