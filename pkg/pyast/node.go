// Package pyast defines the first-party Python Abstract Syntax Tree that the
// bundler engine reads, rewrites and re-emits. It is deliberately a small
// subset of full Python grammar: only the statement and expression forms the
// bundler's phases (classification, import rewriting, inlining, wrapper
// synthesis, namespace planning) need to inspect or construct are modelled.
//
// Source discovery and parsing are external collaborators: the
// trees handled here are assumed to already exist, supplied by whatever
// front-end parsed the original project. Likewise rendering a tree back into
// Python source text is external; Dump produces a debug representation only,
// analogous to the original Lisp() method, never a source emitter.
package pyast

import "fmt"

// Node is implemented by every statement and expression in the tree. Index
// is the bundle-unique stamp assigned by the orchestrator's node-index
// allocator; it is zero until stamped.
type Node interface {
	// Dump renders a debug representation of this node and its children.
	Dump() string
	// Index returns the node's bundle-unique stamp, or 0 if unstamped.
	Index() int
	// SetIndex stamps this node with a bundle-unique index. Implementations
	// panic if called twice with a non-zero existing index, since that
	// signals an orchestrator bug rather than bad input.
	SetIndex(int)
}

// Base is embedded by every concrete node to provide the Index/SetIndex
// bookkeeping without repeating it on each type.
type Base struct {
	index int
}

// Index returns the node's bundle-unique stamp, or 0 if unstamped.
func (b *Base) Index() int { return b.index }

// SetIndex stamps this node with a bundle-unique index.
func (b *Base) SetIndex(i int) {
	if b.index != 0 {
		panic("node already stamped with an index")
	}

	b.index = i
}

// Stmt is implemented by every statement form.
type Stmt interface {
	Node
	stmt()
}

// Expr is implemented by every expression form.
type Expr interface {
	Node
	expr()
}

// Module is the root of a parsed (or synthesized) first-party module, or of
// the final bundle itself.
type Module struct {
	Base
	// Name is the dotted module name this tree was parsed from. The
	// synthetic bundle module produced by the orchestrator is named
	// "__cribo_bundle__".
	Name string
	Body []Stmt
}

func (m *Module) Dump() string {
	s := fmt.Sprintf("(module %q", m.Name)
	for _, st := range m.Body {
		s += " " + st.Dump()
	}

	return s + ")"
}
