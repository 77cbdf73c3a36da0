package report

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/ledger"
)

// CategoryNode is a top-level category with its subcategories.
type CategoryNode struct {
	Category ledger.Category
	Children []ledger.Category
}

// CategoryTree nests categories one level deep. An empty typ keeps every
// type. Subcategories whose parent is missing, or filtered out, are promoted
// to the top level. Nodes and children are sorted by name.
func CategoryTree(categories []ledger.Category, typ ledger.CategoryType) []CategoryNode {
	kept := make([]ledger.Category, 0, len(categories))
	for _, c := range categories {
		if typ == "" || c.Type == typ {
			kept = append(kept, c)
		}
	}
	idx := ledger.IndexCategories(kept)

	nodes := make(map[uuid.UUID]*CategoryNode)
	order := make([]uuid.UUID, 0)
	addNode := func(c ledger.Category) *CategoryNode {
		if n, ok := nodes[c.ID]; ok {
			return n
		}
		n := &CategoryNode{Category: c, Children: []ledger.Category{}}
		nodes[c.ID] = n
		order = append(order, c.ID)
		return n
	}
	for _, c := range kept {
		if c.IsTopLevel() {
			addNode(c)
			continue
		}
		if _, ok := idx[*c.ParentID]; !ok {
			addNode(c)
		}
	}
	for _, c := range kept {
		if c.IsTopLevel() {
			continue
		}
		if n, ok := nodes[*c.ParentID]; ok {
			n.Children = append(n.Children, c)
		}
	}

	out := make([]CategoryNode, 0, len(order))
	for _, id := range order {
		n := nodes[id]
		sortCategories(n.Children)
		out = append(out, *n)
	}
	sort.SliceStable(out, func(i, j int) bool { return lessCategory(out[i].Category, out[j].Category) })
	return out
}

func sortCategories(cs []ledger.Category) {
	sort.SliceStable(cs, func(i, j int) bool { return lessCategory(cs[i], cs[j]) })
}

func lessCategory(a, b ledger.Category) bool {
	na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if na != nb {
		return na < nb
	}
	return a.ID.String() < b.ID.String()
}
