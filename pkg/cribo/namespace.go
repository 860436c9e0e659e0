package cribo

import "strings"

// NamespaceSet is the set of dotted prefixes that must exist as
// attribute-holding objects before any dependent assignment executes.
// Required namespaces are accumulated during the pre-scan and
// then walked in lexicographic order when emitting creation statements, so
// that a parent is always created before any child.
type NamespaceSet struct {
	required map[string]bool
	order    []string
}

// NewNamespaceSet constructs an empty namespace set.
func NewNamespaceSet() *NamespaceSet {
	return &NamespaceSet{required: make(map[string]bool)}
}

// Require marks dotted as a required namespace, together with every strict
// prefix of it.
func (n *NamespaceSet) Require(dotted string) {
	segments := strings.Split(dotted, ".")
	for i := 1; i <= len(segments); i++ {
		n.add(strings.Join(segments[:i], "."))
	}
}

func (n *NamespaceSet) add(prefix string) {
	if n.required[prefix] {
		return
	}

	n.required[prefix] = true
	n.order = append(n.order, prefix)
}

// Has reports whether dotted is a required namespace.
func (n *NamespaceSet) Has(dotted string) bool {
	return n.required[dotted]
}

// Sorted returns every required namespace in lexicographic order, the order
// needed for creation-statement emission (parents sort before
// their children because a parent's dotted name is always a prefix, hence
// lexicographically smaller, of any child's).
func (n *NamespaceSet) Sorted() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)

	// Simple insertion sort: namespace counts are small (bounded by package
	// depth), and this codebase favours explicit sorts over relying on
	// map iteration order for determinism.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}

	return out
}

// Parent returns the immediate parent namespace of dotted, and ok=false if
// dotted has no dot (i.e. is already top-level).
func Parent(dotted string) (parent string, ok bool) {
	idx := strings.LastIndexByte(dotted, '.')
	if idx < 0 {
		return "", false
	}

	return dotted[:idx], true
}

// LastSegment returns the final dotted segment of name, e.g. "c" for "a.b.c".
func LastSegment(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name
	}

	return name[idx+1:]
}
