package bundle

import (
	"sort"
	"strings"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// Bundle implements the Orchestrator: it sequences the Ingest stage
// (hoisting `__future__` and safe-stdlib imports out of every module and
// dropping the ones the graph collaborator reports unused), indexing,
// classification, the namespace pre-scan, inlining (in the topological
// order already established by params.Modules, with cycle-group
// pre-declarations spliced ahead of each group's first member), wrapper
// synthesis, namespace creation, deferred-import emission and finally the
// entry module's own rewrite, and stamps every remaining synthetic node with
// an index before returning. The hoisted statements from Ingest are emitted
// first, ahead of everything else.
//
// Errors accumulate across every phase and only stop assembly once collected; an unresolvable cycle always
// halts assembly, since no symbol ordering could make the result correct.
func Bundle(params *Params) (*pyast.Module, []*cribo.BundleError) {
	var errs []*cribo.BundleError

	byName := moduleByName(params.Modules)

	hoisted := ingest(params)

	ids := moduleIndex(params.Modules)

	tc := cribo.NewTransformContext()
	for _, m := range params.Modules {
		tc.ReserveModuleRange(ids[m.Name], m.AST.Body)
	}

	if cerrs := classify(params, params.Detector); len(cerrs) > 0 {
		errs = append(errs, cerrs...)
	}

	if params.Cycles != nil {
		for _, g := range params.Cycles.UnresolvableCycles {
			errs = append(errs, cribo.NewBundleError(cribo.UnresolvableCycle, "", "", describeCycle(g)))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	ns := planNamespaces(byName)
	b := newBuilder(params, byName, ns)

	cyclePredecls := make(map[string][]pyast.Stmt)
	if params.Cycles != nil {
		for _, g := range params.Cycles.ResolvableCycles {
			_, _, _, predecls := orderCycleGroup(g, params.Modules, params.Graph)
			if len(predecls) == 0 {
				continue
			}

			if first := firstInGroup(params.Modules, g); first != "" {
				cyclePredecls[first] = predecls
			}
		}
	}

	var body []pyast.Stmt

	body = append(body, hoisted...)

	for _, m := range params.Modules {
		if m.Name == params.EntryModule {
			continue
		}

		if pre, ok := cyclePredecls[m.Name]; ok {
			body = append(body, pre...)
		}

		switch m.Classification {
		case cribo.Inlinable:
			body = append(body, b.inlineModule(ids[m.Name], m)...)
		case cribo.Wrapped:
			prelude, initDef := b.synthesizeWrapper(ids[m.Name], m)
			body = append(body, prelude...)
			body = append(body, initDef)
		}
	}

	body = append(body, b.namespaceCreationStmts()...)

	deferredItems := dedupeDeferred(b.deferred.Items())
	body = append(body, statementsOf(deferredItems)...)

	entry, ok := byName[params.EntryModule]
	if !ok {
		errs = append(errs, cribo.NewBundleError(cribo.InvariantViolation, params.EntryModule, "",
			"entry module not found among provided modules"))

		return nil, errs
	}

	body = append(body, b.rewriteModule(entry.Name, true, false, entry.AST.Body)...)

	result := &pyast.Module{Name: "__cribo_bundle__", Body: body}

	for _, st := range body {
		tc.StampSynthetic(st)
	}

	params.logf("bundled %d modules into %d top-level statements", len(params.Modules), len(body))

	return result, errs
}

func describeCycle(g cribo.CycleGroup) string {
	names := make([]string, 0, len(g.Modules))
	for n := range g.Modules {
		names = append(names, n)
	}

	sort.Strings(names)

	return "unresolvable import cycle among " + strings.Join(names, ", ")
}

func firstInGroup(modules []*cribo.ModuleRecord, g cribo.CycleGroup) string {
	for _, m := range modules {
		if g.Modules[m.Name] {
			return m.Name
		}
	}

	return ""
}
