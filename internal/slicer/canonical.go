package slicer

import "strconv"

// CanonicalCycle is the fixed output ordering used to normalize
// inconsistent source row layouts.
var CanonicalCycle = [4]string{"back", "left", "front", "right"}

// defaultRowFacing assigns facings to unlabeled rows by index. Kept as
// an explicit lookup table because canonicalization depends on it.
var defaultRowFacing = map[int]string{
	0: "back",
	1: "left",
	2: "front",
	3: "right",
}

// rowFacings labels every row of the grid. Explicit labels win; an
// unlabeled multi-row sheet falls back to the index table; a single
// unlabeled row is treated as front-facing.
func rowFacings(rows int, explicit []string) []string {
	if len(explicit) >= rows {
		return explicit[:rows]
	}
	if rows == 1 {
		return []string{"front"}
	}
	facings := make([]string, rows)
	for i := 0; i < rows; i++ {
		if f, ok := defaultRowFacing[i]; ok {
			facings[i] = f
		} else {
			facings[i] = extraRowLabel(i)
		}
	}
	return facings
}

func extraRowLabel(i int) string {
	return "row_" + strconv.Itoa(i)
}

// canonicalOrder returns row indices in output order. When all four
// cycle facings are present, their first occurrences come first in
// exact cycle order; every other row follows in original order.
// Otherwise the original order is kept.
func canonicalOrder(facings []string) []int {
	first := make(map[string]int, 4)
	for i, f := range facings {
		if _, seen := first[f]; !seen {
			first[f] = i
		}
	}
	for _, want := range CanonicalCycle {
		if _, ok := first[want]; !ok {
			return identityOrder(len(facings))
		}
	}

	picked := make(map[int]bool, 4)
	order := make([]int, 0, len(facings))
	for _, want := range CanonicalCycle {
		i := first[want]
		order = append(order, i)
		picked[i] = true
	}
	for i := range facings {
		if !picked[i] {
			order = append(order, i)
		}
	}
	return order
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
