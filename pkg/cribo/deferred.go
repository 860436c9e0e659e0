package cribo

import (
	"fmt"

	"github.com/cribo-go/cribo/pkg/pyast"
)

// DeferredImport is one entry of the bundle-wide ordered set of assignment
// statements produced when rewriting a cross-module import whose right-hand
// side cannot be satisfied at the point of the original import.
// The key (Target, CanonicalRHS) defines duplicate identity.
type DeferredImport struct {
	// Target is the local name being bound.
	Target string
	// CanonicalRHS is either a dotted attribute chain ("a.b.c") or a bare
	// name, stringified exactly as it will appear in the emitted statement.
	CanonicalRHS string
	// Stmt is the statement to emit: an Assign, whose value is an
	// init-function Call when it binds a wrapper dependency.
	Stmt pyast.Stmt
	// InitCall is non-empty when Stmt's value is a wrapper init call; it
	// names the init function being invoked. The Deduplicator keys on Key()
	// alone, so two statements calling the same init function under
	// different targets are both kept.
	InitCall string
}

// Key returns the (target, canonical rhs) identity used by the Deduplicator.
func (d DeferredImport) Key() string {
	return d.Target + " = " + d.CanonicalRHS
}

// DeferredImports is the bundle-wide ordered buffer of deferred-import
// records: insertion order is preserved because all emission must be
// deterministic.
type DeferredImports struct {
	items []DeferredImport
	seen  map[string]bool
}

// NewDeferredImports constructs an empty deferred-imports buffer.
func NewDeferredImports() *DeferredImports {
	return &DeferredImports{seen: make(map[string]bool)}
}

// Add appends item to the buffer unless its key has already been seen, in
// which case it is silently dropped (first occurrence wins).
func (d *DeferredImports) Add(item DeferredImport) {
	if item.Target == item.CanonicalRHS {
		// Tautological self-assignment; never worth deferring.
		return
	}

	key := item.Key()
	if d.seen[key] {
		return
	}

	d.seen[key] = true
	d.items = append(d.items, item)
}

// Items returns the buffer's contents in insertion order.
func (d *DeferredImports) Items() []DeferredImport {
	return d.items
}

// DeferredImportRegistry is the bundle-global map from (importing module,
// local name) to the first-party module that binding was imported from. The
// Import Rewriter records into it; no phase of the Orchestrator reads it
// back, so the entry module's rewrite does not consult it.
type DeferredImportRegistry struct {
	bySymbol map[string]string
}

// NewDeferredImportRegistry constructs an empty registry.
func NewDeferredImportRegistry() *DeferredImportRegistry {
	return &DeferredImportRegistry{bySymbol: make(map[string]string)}
}

func registryKey(module, symbol string) string { return fmt.Sprintf("%s\x00%s", module, symbol) }

// Record associates (module, symbol) with the module that first materialized
// it. Subsequent calls for the same (module, symbol) are no-ops: first
// materialization wins, matching the Deduplicator's "preserve first
// occurrence order" rule.
func (r *DeferredImportRegistry) Record(module, symbol, sourceModule string) {
	key := registryKey(module, symbol)
	if _, ok := r.bySymbol[key]; ok {
		return
	}

	r.bySymbol[key] = sourceModule
}

// SourceOf returns the module that first materialized (module, symbol), or
// ok=false if it was never recorded.
func (r *DeferredImportRegistry) SourceOf(module, symbol string) (source string, ok bool) {
	source, ok = r.bySymbol[registryKey(module, symbol)]
	return source, ok
}
