package pydm

import "sort"

// ZOrderEntry is one child in the stacking list of a container. An entry with
// a Literal keeps its position and is written as the literal text. The other
// entries are written by Name, ordered by their numeric Order key.
type ZOrderEntry struct {
	Name    string
	Order   int
	Literal string
}

// IsLiteral reports whether the entry is pinned to its position.
func (e ZOrderEntry) IsLiteral() bool {
	return e.Literal != ""
}

// ResolveZOrder returns the stacking list of a container, bottom first.
// Literal entries stay where they are. The remaining positions are filled with
// the numeric entries sorted by ascending key; entries with equal keys keep
// their relative order.
func ResolveZOrder(entries []ZOrderEntry) []string {
	var numeric []ZOrderEntry
	for _, e := range entries {
		if !e.IsLiteral() {
			numeric = append(numeric, e)
		}
	}
	sort.SliceStable(numeric, func(i, j int) bool {
		return numeric[i].Order < numeric[j].Order
	})

	out := make([]string, 0, len(entries))
	next := 0
	for _, e := range entries {
		if e.IsLiteral() {
			out = append(out, e.Literal)
			continue
		}
		out = append(out, numeric[next].Name)
		next++
	}
	return out
}
