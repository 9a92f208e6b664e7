package category

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeafKey addresses one category's direct activity in one period bucket
type LeafKey struct {
	CategoryID uuid.UUID
	Period     string
}

// LeafAmounts maps (category, period) to the summed direct activity of
// entries filed under that category in that bucket.
type LeafAmounts map[LeafKey]decimal.Decimal

// Add accumulates an amount into the bucket
func (la LeafAmounts) Add(categoryID uuid.UUID, period string, amount decimal.Decimal) {
	key := LeafKey{CategoryID: categoryID, Period: period}
	la[key] = la[key].Add(amount)
}

// RollupNode is one node of a computed category tree. PerPeriod and Total
// carry the node's own leaf contribution plus the rollups of all its
// descendants.
type RollupNode struct {
	ID           uuid.UUID
	Label        string
	Path         string
	DisplayOrder int
	Own          map[string]decimal.Decimal
	PerPeriod    map[string]decimal.Decimal
	Total        decimal.Decimal
	Children     []*RollupNode
}

// HasActivity reports whether the node or any descendant carries a
// non-zero amount in any period.
func (n *RollupNode) HasActivity() bool {
	return !n.Total.IsZero()
}

// Forest is a computed category forest with per-period rollups
type Forest struct {
	Roots []*RollupNode
	index map[uuid.UUID]*RollupNode
}

// Node returns the rollup node for a category ID, or nil
func (f *Forest) Node(id uuid.UUID) *RollupNode {
	return f.index[id]
}

// PathOf returns the display path ("Parent > Child") for a category ID,
// or "" when the ID is not part of the forest.
func (f *Forest) PathOf(id uuid.UUID) string {
	if n := f.index[id]; n != nil {
		return n.Path
	}
	return ""
}

// GrandTotal sums the totals of every root
func (f *Forest) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range f.Roots {
		total = total.Add(r.Total)
	}
	return total
}

// PeriodTotal sums one period bucket across every root
func (f *Forest) PeriodTotal(period string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range f.Roots {
		total = total.Add(r.PerPeriod[period])
	}
	return total
}

// BuildForest assembles the declared nodes into a parent/child forest and
// computes the per-period rollup from the leaf amounts.
//
// The nodes are loaded into an indexed arena first and linked in a single
// pass; a node whose parent is missing from the set is treated as a root.
// Every declared node appears in the result regardless of activity.
// Sibling order follows the declared display order, never value or label.
func BuildForest(nodes []*Node, leaf LeafAmounts) *Forest {
	index := make(map[uuid.UUID]*RollupNode, len(nodes))
	for _, n := range nodes {
		index[n.ID] = &RollupNode{
			ID:           n.ID,
			Label:        n.Label,
			DisplayOrder: n.DisplayOrder,
			Own:          make(map[string]decimal.Decimal),
			PerPeriod:    make(map[string]decimal.Decimal),
		}
	}

	var roots []*RollupNode
	for _, n := range nodes {
		rn := index[n.ID]
		if n.ParentID != nil {
			if parent, ok := index[*n.ParentID]; ok {
				parent.Children = append(parent.Children, rn)
				continue
			}
		}
		roots = append(roots, rn)
	}

	sortSiblings(roots)
	for _, rn := range index {
		sortSiblings(rn.Children)
	}

	for key, amount := range leaf {
		if rn, ok := index[key.CategoryID]; ok {
			rn.Own[key.Period] = rn.Own[key.Period].Add(amount)
		}
	}

	for _, root := range roots {
		rollup(root)
		annotatePath(root, "")
	}

	return &Forest{Roots: roots, index: index}
}

// rollup computes PerPeriod and Total bottom-up: children first, then the
// parent adds its own leaf contribution plus every child's rollup.
func rollup(n *RollupNode) {
	for period, amount := range n.Own {
		n.PerPeriod[period] = n.PerPeriod[period].Add(amount)
	}
	for _, child := range n.Children {
		rollup(child)
		for period, amount := range child.PerPeriod {
			n.PerPeriod[period] = n.PerPeriod[period].Add(amount)
		}
	}
	total := decimal.Zero
	for _, amount := range n.PerPeriod {
		total = total.Add(amount)
	}
	n.Total = total
}

// annotatePath fills the display path top-down. Paths are a projection of
// the already-built tree and are never stored.
func annotatePath(n *RollupNode, parentPath string) {
	if parentPath == "" {
		n.Path = n.Label
	} else {
		n.Path = parentPath + " > " + n.Label
	}
	for _, child := range n.Children {
		annotatePath(child, n.Path)
	}
}

func sortSiblings(nodes []*RollupNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].DisplayOrder != nodes[j].DisplayOrder {
			return nodes[i].DisplayOrder < nodes[j].DisplayOrder
		}
		return nodes[i].Label < nodes[j].Label
	})
}
