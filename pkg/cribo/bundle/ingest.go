package bundle

import (
	"sort"
	"strings"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// ingest implements the Ingest stage: before any module is classified,
// inlined or wrapped, every module's own top-level body is scanned once for
// import statements that can be lifted out of per-module position entirely.
// A `__future__` import is always hoisted, regardless of origin, and its
// names are folded into one combined import emitted once at the very top of
// the bundle. A safe-stdlib import (see isSafeStdlib) is hoisted the same
// way, deduplicated against identical statements from other modules. An
// import local name the graph collaborator reports as unused — and, when
// tree-shaking ran, not kept alive by a module-level side effect — is
// dropped outright rather than hoisted. Every hoisted or dropped statement
// is removed from its owning module's body, so nothing downstream (the
// Inliner, the Wrapper Synthesizer, the Import Rewriter) ever sees it again.
//
// Grounded on original_source/crates/cribo/src/analyzers/import_analyzer.rs's
// up-front future-import collection and unused-import pass, run once over
// every module ahead of codegen rather than interleaved with it.
func ingest(params *Params) (hoisted []pyast.Stmt) {
	var futureNames []string
	seenFuture := make(map[string]bool)

	var stdlibStmts []pyast.Stmt
	seenStdlib := make(map[string]bool)

	for _, m := range params.Modules {
		unused := unusedImportSet(params, m)

		var kept []pyast.Stmt

		for _, st := range m.AST.Body {
			switch v := st.(type) {
			case *pyast.ImportFrom:
				if v.Module == "__future__" {
					for _, a := range v.Names {
						if !seenFuture[a.Name] {
							seenFuture[a.Name] = true
							futureNames = append(futureNames, a.Name)
						}
					}

					continue
				}

				if allUnused(v.Names, unused) {
					continue
				}

				if isSafeStdlib(v.Module) {
					key := v.Dump()
					if !seenStdlib[key] {
						seenStdlib[key] = true
						stdlibStmts = append(stdlibStmts, v)
					}

					continue
				}

				kept = append(kept, st)
			case *pyast.Import:
				if allUnused(v.Names, unused) {
					continue
				}

				if allSafeStdlib(v.Names) {
					key := v.Dump()
					if !seenStdlib[key] {
						seenStdlib[key] = true
						stdlibStmts = append(stdlibStmts, v)
					}

					continue
				}

				kept = append(kept, st)
			default:
				kept = append(kept, st)
			}
		}

		m.AST.Body = kept
	}

	if len(futureNames) > 0 {
		sort.Strings(futureNames)

		names := make([]pyast.Alias, len(futureNames))
		for i, n := range futureNames {
			names[i] = pyast.Alias{Name: n}
		}

		hoisted = append(hoisted, &pyast.ImportFrom{Module: "__future__", Names: names})
	}

	hoisted = append(hoisted, stdlibStmts...)

	return hoisted
}

// unusedImportSet narrows the graph's unused-import report for m by the
// tree-shake set: an import stays droppable only when tree-shaking either
// did not run or agrees the module itself carries no side effect that might
// read it.
func unusedImportSet(params *Params, m *cribo.ModuleRecord) map[string]bool {
	if params.Graph == nil {
		return nil
	}

	if params.Shaker != nil && params.Shaker.ModuleHasSideEffects(m.Name) {
		return nil
	}

	names := params.Graph.FindUnusedImports(m.Name, m.IsInitPackage())

	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}

	return out
}

// allUnused reports whether every alias in names is reported unused, the
// condition under which a whole import statement can be dropped rather than
// partially trimmed (this package hoists or drops at statement granularity,
// never splitting a single import statement's aliases between decisions).
func allUnused(names []pyast.Alias, unused map[string]bool) bool {
	if len(unused) == 0 || len(names) == 0 {
		return false
	}

	for _, a := range names {
		if !unused[a.Local()] {
			return false
		}
	}

	return true
}

// allSafeStdlib reports whether every alias of a plain "import ..." names a
// safe-stdlib top-level package, the condition under which the whole
// statement can be hoisted.
func allSafeStdlib(names []pyast.Alias) bool {
	if len(names) == 0 {
		return false
	}

	for _, a := range names {
		top := a.Name
		if i := strings.IndexByte(top, '.'); i >= 0 {
			top = top[:i]
		}

		if !isSafeStdlib(top) {
			return false
		}
	}

	return true
}

