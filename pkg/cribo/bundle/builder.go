package bundle

import (
	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// builder carries the mutable, bundle-wide state threaded through every
// phase by the Orchestrator: the rename map, the deferred-import buffer and
// its registry, and the namespace set computed by the pre-scan. It is the
// receiver for the Import Rewriter, Inliner and Wrapper Synthesizer methods,
// playing the same role the original compiler.Module struct plays across
// pkg/corset/compiler's phases: one struct, one value, passed by pointer
// through a fixed phase sequence.
type builder struct {
	params   *Params
	byName   map[string]*cribo.ModuleRecord
	renames  *cribo.RenameMap
	deferred *cribo.DeferredImports
	registry *cribo.DeferredImportRegistry
	ns       *cribo.NamespaceSet
}

func newBuilder(params *Params, byName map[string]*cribo.ModuleRecord, ns *cribo.NamespaceSet) *builder {
	return &builder{
		params:   params,
		byName:   byName,
		renames:  cribo.NewRenameMap(),
		deferred: cribo.NewDeferredImports(),
		registry: cribo.NewDeferredImportRegistry(),
		ns:       ns,
	}
}

// isFirstParty reports whether dotted names a known first-party module or a
// namespace package required by the pre-scan (e.g. "a" when only "a.b" is an
// actual module).
func (b *builder) isFirstParty(dotted string) bool {
	if _, ok := b.byName[dotted]; ok {
		return true
	}

	return b.ns.Has(dotted)
}

// buildNamespaceLiteral returns the expression that should be bound when a
// dotted first-party path is imported directly. If the pre-scan already requires a namespace
// object for rec.Name, that global object is referenced in place; otherwise
// a fresh one is constructed inline, since nothing else in the bundle will
// ever need to see it by its own name.
func (b *builder) buildNamespaceLiteral(rec *cribo.ModuleRecord) pyast.Expr {
	if b.ns.Has(rec.Name) {
		return pathExpr(rec.Name)
	}

	return &pyast.NamespaceObject{QualifiedName: rec.Name}
}
