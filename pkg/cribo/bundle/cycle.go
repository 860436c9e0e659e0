package bundle

import (
	"sort"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// symEntry is one top-level definition belonging to a module inside a
// resolvable cycle group, together with the intra-group symbols it must
// already see defined (reads) versus the ones it only needs once some
// function inside it actually runs (eventual reads, which can tolerate a
// forward reference).
type symEntry struct {
	module   string
	name     string
	stmt     pyast.Stmt
	reads    map[string]bool
	evereads map[string]bool
}

// orderCycleGroup implements the Cycle-Aware Symbol Ordering: a
// resolvable cycle's member modules are merged into one symbol-level
// dependency graph, immediate reads define a partial order via Kahn's
// algorithm, and eventual-only reads are never treated as ordering
// constraints (a function body can forward-reference a symbol its own
// module hasn't reached yet, since it will not run until after the whole
// bundle has finished loading). A symbol still unreachable by immediate-read
// edges alone is pre-declared (`name = None`) ahead of the group so every
// later reference at least resolves to a name, the fallback for a true
// residual cycle.
//
// Grounded on pkg/corset/compiler/resolver.go's dependency-ordered
// declaration pass (columns may reference each other across modules; the
// resolver linearizes them with exactly this kind of Kahn's-algorithm pass
// before binding).
func orderCycleGroup(group cribo.CycleGroup, records []*cribo.ModuleRecord, graph cribo.ModuleGraph) (order []string, moduleOf map[string]string, stmtOf map[string]pyast.Stmt, predecls []pyast.Stmt) {
	inGroup := func(name string) bool { return group.Modules[name] }

	entries := make(map[string]*symEntry)

	var names []string

	for _, rec := range records {
		if !inGroup(rec.Name) {
			continue
		}

		items, ok := graph.GetModuleByName(rec.Name)
		if !ok {
			continue
		}

		for _, item := range items {
			for _, w := range item.WriteSet {
				key := rec.Name + "." + w
				entries[key] = &symEntry{
					module:   rec.Name,
					name:     w,
					stmt:     item.Stmt,
					reads:    intraGroupSet(item.ReadSet, records, inGroup, rec.Name),
					evereads: intraGroupSet(item.EventualReadSet, records, inGroup, rec.Name),
				}
				names = append(names, key)
			}
		}
	}

	sort.Strings(names)

	indeg := make(map[string]int, len(names))
	for _, n := range names {
		// Drop read keys that no group member actually binds.
		for r := range entries[n].reads {
			if entries[r] == nil {
				delete(entries[n].reads, r)
			}
		}

		indeg[n] = len(entries[n].reads)
	}

	var ready []string

	for _, n := range names {
		if indeg[n] == 0 {
			ready = append(ready, n)
		}
	}

	sort.Strings(ready)

	visited := make(map[string]bool)

	for len(ready) > 0 {
		sort.Strings(ready)
		n := ready[0]
		ready = ready[1:]

		if visited[n] {
			continue
		}

		visited[n] = true
		order = append(order, n)

		for _, m := range names {
			if visited[m] || !entries[m].reads[n] {
				continue
			}

			indeg[m]--
			if indeg[m] == 0 {
				ready = append(ready, m)
			}
		}
	}

	// Any symbol not reached is part of a residual, unbroken immediate-read
	// cycle: pre-declare it so every reference at least resolves, then fall
	// back to original discovery order for the remainder.
	for _, n := range names {
		if visited[n] {
			continue
		}

		predecls = append(predecls, &pyast.Assign{
			Targets: []pyast.Expr{&pyast.Name{Id: entries[n].name}},
			Value:   pyast.NoneConst(),
		})
		order = append(order, n)
		visited[n] = true
	}

	moduleOf = make(map[string]string, len(order))
	stmtOf = make(map[string]pyast.Stmt, len(order))

	for _, key := range order {
		moduleOf[key] = entries[key].module
		stmtOf[key] = entries[key].stmt
	}

	return order, moduleOf, stmtOf, predecls
}

// intraGroupSet maps a read set to the "<module>.<symbol>" keys it could
// name in every other module of the same cycle group, since only those
// edges constrain ordering within the group; orderCycleGroup then drops the
// keys that no module actually binds.
func intraGroupSet(reads []string, records []*cribo.ModuleRecord, inGroup func(string) bool, self string) map[string]bool {
	out := make(map[string]bool)

	for _, r := range reads {
		for _, rec := range records {
			if !inGroup(rec.Name) || rec.Name == self {
				continue
			}

			out[rec.Name+"."+r] = true
		}
	}

	return out
}
