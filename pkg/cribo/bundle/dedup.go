package bundle

import (
	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// dedupeDeferred implements the final pass of the Deferred-Import
// Deduplicator. Per-insertion dedup already happens inside
// cribo.DeferredImports.Add (identical (target, canonical-rhs) pairs never
// get a second entry); this pass is an explicit, named final sweep, so a
// reader looking for "where does dedup happen" has one place
// to look rather than having to know it is an emergent property of Add's
// insertion check. It also guards against a future caller merging buffers
// from more than one builder, which Add's per-instance seen-set alone would
// not catch.
func dedupeDeferred(items []cribo.DeferredImport) []cribo.DeferredImport {
	seen := make(map[string]bool, len(items))

	out := make([]cribo.DeferredImport, 0, len(items))

	for _, it := range items {
		key := it.Key()
		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, it)
	}

	return out
}

// statementsOf flattens deferred items to their emittable statements, in
// insertion order, for final splicing into the entry module's body.
func statementsOf(items []cribo.DeferredImport) []pyast.Stmt {
	out := make([]pyast.Stmt, 0, len(items))
	for _, it := range items {
		out = append(out, it.Stmt)
	}

	return out
}
