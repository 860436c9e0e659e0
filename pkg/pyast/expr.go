package pyast

import (
	"fmt"
	"strconv"
	"strings"
)

// Name models a bare identifier reference, e.g. "x".
type Name struct {
	Base
	Id string
}

func (e *Name) expr()        {}
func (e *Name) Dump() string { return e.Id }

// Attribute models "value.attr", e.g. "pkg.sub.name".
type Attribute struct {
	Base
	Value Expr
	Attr  string
}

func (e *Attribute) expr() {}
func (e *Attribute) Dump() string {
	return fmt.Sprintf("(attr %s %s)", e.Value.Dump(), e.Attr)
}

// Chain flattens a (possibly nested) Attribute/Name expression into its dotted
// segments, e.g. "a.b.c" -> ["a","b","c"]. Returns ok=false if the expression
// is not a pure name/attribute chain (e.g. contains a call).
func Chain(e Expr) (segments []string, ok bool) {
	switch n := e.(type) {
	case *Name:
		return []string{n.Id}, true
	case *Attribute:
		base, ok := Chain(n.Value)
		if !ok {
			return nil, false
		}

		return append(base, n.Attr), true
	default:
		return nil, false
	}
}

// Call models "func(args...)". Keyword arguments are not modelled: no
// bundler phase needs to rewrite inside them distinctly from positional args,
// and they are carried in Args like any other argument expression in the
// subset of Python this bundler targets.
type Call struct {
	Base
	Func Expr
	Args []Expr
}

func (e *Call) expr() {}
func (e *Call) Dump() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Dump()
	}

	return fmt.Sprintf("(call %s %s)", e.Func.Dump(), strings.Join(parts, " "))
}

// Constant models a literal: string, number, bool, None, ...
type Constant struct {
	Base
	Value any
}

func (e *Constant) expr() {}
func (e *Constant) Dump() string {
	if s, ok := e.Value.(string); ok {
		return strconv.Quote(s)
	}

	return fmt.Sprintf("%v", e.Value)
}

// StringConst returns a new string-valued Constant. A convenience used
// pervasively by the Classifier and Wrapper Synthesizer when materializing
// __all__ / __name__ / __module__ literals.
func StringConst(s string) *Constant { return &Constant{Value: s} }

// NoneConst returns a new Constant representing None.
func NoneConst() *Constant { return &Constant{Value: nil} }

// List models a list display "[e1, e2, ...]".
type List struct {
	Base
	Elts []Expr
}

func (e *List) expr() {}
func (e *List) Dump() string {
	parts := make([]string, len(e.Elts))
	for i, el := range e.Elts {
		parts[i] = el.Dump()
	}

	return fmt.Sprintf("(list %s)", strings.Join(parts, " "))
}

// StringList is a convenience constructor for a List of string Constants,
// used to materialize __all__ literals.
func StringList(items []string) *List {
	elts := make([]Expr, len(items))
	for i, s := range items {
		elts[i] = StringConst(s)
	}

	return &List{Elts: elts}
}

// Tuple models a tuple display "(e1, e2, ...)".
type Tuple struct {
	Base
	Elts []Expr
}

func (e *Tuple) expr() {}
func (e *Tuple) Dump() string {
	parts := make([]string, len(e.Elts))
	for i, el := range e.Elts {
		parts[i] = el.Dump()
	}

	return fmt.Sprintf("(tuple %s)", strings.Join(parts, " "))
}

// JoinedStr models an f-string: a flat list of parts in source order, each
// either a literal segment (FormattedValue.Literal set, Value nil) or an
// interpolation (Value set).
type JoinedStr struct {
	Base
	Parts []*FormattedValue
}

func (e *JoinedStr) expr() {}
func (e *JoinedStr) Dump() string {
	parts := make([]string, len(e.Parts))
	for i, p := range e.Parts {
		parts[i] = p.Dump()
	}

	return fmt.Sprintf("(fstring %s)", strings.Join(parts, " "))
}

// FormattedValue is one element of a JoinedStr: either a literal text segment
// (Literal non-empty, Value nil) or an interpolated expression.
type FormattedValue struct {
	Base
	Literal string
	Value   Expr
}

func (e *FormattedValue) expr() {}
func (e *FormattedValue) Dump() string {
	if e.Value == nil {
		return strconv.Quote(e.Literal)
	}

	return fmt.Sprintf("{%s}", e.Value.Dump())
}

// NamespaceObject constructs a freshly-built attribute-bearing object, the
// runtime equivalent of a `types`-style dynamic object: a call to a small
// namespace-constructing helper, so that downstream attribute assignment
// ("ns.attr = ...") is just ordinary attribute-assignment emission.
type NamespaceObject struct {
	Base
	// QualifiedName is the dotted path this namespace represents, used only
	// to set the synthesized object's __name__ attribute downstream.
	QualifiedName string
}

func (e *NamespaceObject) expr() {}
func (e *NamespaceObject) Dump() string {
	return fmt.Sprintf("(namespace-object %q)", e.QualifiedName)
}
