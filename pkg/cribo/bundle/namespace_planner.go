package bundle

import (
	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// planNamespaces implements the pre-scan: every first-party module's own
// dotted name is required as a namespace, together with each of its strict
// prefixes; this already covers any wrapped module with at least one
// bundled submodule (its attributes must be mergeable with its children).
//
// Grounded on pkg/corset/compiler/scope.go's ModuleScope: that type's
// submodmap/submodules pair (a map for lookup, a slice for deterministic
// order) is the same shape as NamespaceSet, generalized from corset's
// column-scope tree to Python dotted-package namespaces.
func planNamespaces(byName map[string]*cribo.ModuleRecord) *cribo.NamespaceSet {
	ns := cribo.NewNamespaceSet()

	hasChild := make(map[string]bool)

	for name := range byName {
		ns.Require(name)

		if parent, ok := cribo.Parent(name); ok {
			hasChild[parent] = true
		}
	}

	for name, rec := range byName {
		if rec.Classification == cribo.Wrapped && hasChild[name] {
			ns.Require(name)
		}
	}

	return ns
}

// namespaceAssign builds the "prefix.child = <value>" attribute assignment
// statement used both for submodule attachment and for the
// construction of a namespace's own attribute population.
func namespaceAssign(prefixExpr pyast.Expr, attr string, value pyast.Expr) *pyast.Assign {
	return &pyast.Assign{
		Targets: []pyast.Expr{&pyast.Attribute{Value: prefixExpr, Attr: attr}},
		Value:   value,
	}
}

// pathExpr builds the chained Name/Attribute expression for a dotted path,
// e.g. "a.b.c" -> Attribute(Attribute(Name(a), b), c).
func pathExpr(dotted string) pyast.Expr {
	segments := splitDotted(dotted)

	var e pyast.Expr = &pyast.Name{Id: segments[0]}
	for _, seg := range segments[1:] {
		e = &pyast.Attribute{Value: e, Attr: seg}
	}

	return e
}

func splitDotted(dotted string) []string {
	var out []string

	start := 0

	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			out = append(out, dotted[start:i])
			start = i + 1
		}
	}

	return append(out, dotted[start:])
}

// namespaceCreationStmts emits, for each required namespace in
// lexicographic order, the creation statement(s): a value
// bound to the (possibly dotted) name, a __name__ assignment, and — for a
// namespace that is itself an Inlinable module — an attribute assignment
// per exported name, so that a dotted reference to one of its exports
// (the "pkg.util.helper" form, as opposed to a plain "from pkg.util
// import helper") resolves to the same binding the Inliner already renamed
// and placed at bundle scope.
//
// A namespace that is also one of the bundle's own first-party modules
// reuses exactly the value that any other importer of it would get (a
// wrapped module's init call, or an inlinable module's namespace object),
// so that a package whose __init__ does real work is only ever initialized
// once. A namespace with no module record of its own (a pure subpackage
// directory) gets a fresh empty namespace object.
//
//   - simple name N: "N = <value>"; "N.__name__ = 'N'"
//   - dotted P.Q: (P already created) "P.Q = <value>"; "P.Q.__name__ = 'P.Q'"
func (b *builder) namespaceCreationStmts() []pyast.Stmt {
	var out []pyast.Stmt

	for _, dotted := range b.ns.Sorted() {
		rec, hasRec := b.byName[dotted]
		value := namespaceValueFor(dotted, b.byName)

		if parent, ok := cribo.Parent(dotted); ok {
			out = append(out, namespaceAssign(pathExpr(parent), cribo.LastSegment(dotted), value))
		} else {
			out = append(out, &pyast.Assign{
				Targets: []pyast.Expr{&pyast.Name{Id: dotted}},
				Value:   value,
			})
		}

		out = append(out, namespaceAssign(pathExpr(dotted), "__name__", pyast.StringConst(dotted)))

		if hasRec && rec.Classification == cribo.Inlinable {
			for _, export := range b.exportNames(rec) {
				final, ok := b.renames.Lookup(rec.Name, export)
				if !ok {
					final = export
				}

				out = append(out, namespaceAssign(pathExpr(dotted), export, &pyast.Name{Id: final}))
			}

			if rec.HasExplicitAll {
				out = append(out, namespaceAssign(pathExpr(dotted), "__all__", pyast.StringList(rec.Exports)))
			}
		}
	}

	return out
}

// namespaceValueFor returns the expression that should be bound at a
// required-namespace position: a wrapped module's init call, an inlinable
// module's namespace object, or (no module record at all) a fresh empty
// namespace object for a pure subpackage directory.
func namespaceValueFor(dotted string, byName map[string]*cribo.ModuleRecord) pyast.Expr {
	rec, ok := byName[dotted]
	if !ok {
		return &pyast.NamespaceObject{QualifiedName: dotted}
	}

	if rec.Classification == cribo.Wrapped {
		synth := cribo.SyntheticName(rec.ContentHash, rec.Name)
		return &pyast.Call{Func: &pyast.Name{Id: cribo.InitFunctionName(synth)}}
	}

	return &pyast.NamespaceObject{QualifiedName: dotted}
}
