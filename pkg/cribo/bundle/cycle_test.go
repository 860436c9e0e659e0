package bundle

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/cribo/semantictest"
	"github.com/cribo-go/cribo/pkg/pyast"
)

func Test_OrderCycleGroup_01_OrdersByImmediateReads(t *testing.T) {
	recA := &cribo.ModuleRecord{Name: "pkg.a"}
	recB := &cribo.ModuleRecord{Name: "pkg.b"}
	records := []*cribo.ModuleRecord{recA, recB}

	graph := semantictest.NewGraph()
	graph.Items["pkg.a"] = []cribo.ModuleItem{
		{WriteSet: []string{"A"}, ReadSet: nil},
	}
	graph.Items["pkg.b"] = []cribo.ModuleItem{
		{WriteSet: []string{"B"}, ReadSet: []string{"A"}},
	}

	group := cribo.CycleGroup{Modules: map[string]bool{"pkg.a": true, "pkg.b": true}}

	order, moduleOf, _, predecls := orderCycleGroup(group, records, graph)

	if len(predecls) != 0 {
		t.Fatalf("expected no residual-cycle pre-declarations, got %v", predecls)
	}

	if len(order) != 2 || order[0] != "pkg.a.A" || order[1] != "pkg.b.B" {
		t.Fatalf("expected pkg.a.A before pkg.b.B, got %v", order)
	}

	if moduleOf["pkg.a.A"] != "pkg.a" || moduleOf["pkg.b.B"] != "pkg.b" {
		t.Fatalf("expected moduleOf to track each symbol's owning module, got %v", moduleOf)
	}
}

func Test_OrderCycleGroup_02_ResidualCycleIsPredeclared(t *testing.T) {
	recA := &cribo.ModuleRecord{Name: "pkg.a"}
	recB := &cribo.ModuleRecord{Name: "pkg.b"}
	records := []*cribo.ModuleRecord{recA, recB}

	graph := semantictest.NewGraph()
	graph.Items["pkg.a"] = []cribo.ModuleItem{
		{WriteSet: []string{"A"}, ReadSet: []string{"B"}},
	}
	graph.Items["pkg.b"] = []cribo.ModuleItem{
		{WriteSet: []string{"B"}, ReadSet: []string{"A"}},
	}

	group := cribo.CycleGroup{Modules: map[string]bool{"pkg.a": true, "pkg.b": true}}

	_, _, _, predecls := orderCycleGroup(group, records, graph)

	if len(predecls) != 2 {
		t.Fatalf("expected both mutually-dependent symbols to be pre-declared, got %v", predecls)
	}

	for _, st := range predecls {
		assign, ok := st.(*pyast.Assign)
		if !ok {
			t.Fatalf("expected an Assign pre-declaration, got %T", st)
		}

		if _, ok := assign.Value.(*pyast.Constant); !ok {
			t.Fatalf("expected the pre-declared value to be a None constant, got %v", assign.Value)
		}
	}
}

func Test_OrderCycleGroup_03_EventualReadsDoNotConstrainOrder(t *testing.T) {
	recA := &cribo.ModuleRecord{Name: "pkg.a"}
	recB := &cribo.ModuleRecord{Name: "pkg.b"}
	records := []*cribo.ModuleRecord{recA, recB}

	graph := semantictest.NewGraph()
	graph.Items["pkg.a"] = []cribo.ModuleItem{
		// A only needs B inside a function body, which can forward-reference
		// freely since it will not execute until after the whole bundle
		// finishes loading.
		{WriteSet: []string{"A"}, EventualReadSet: []string{"B"}},
	}
	graph.Items["pkg.b"] = []cribo.ModuleItem{
		{WriteSet: []string{"B"}},
	}

	group := cribo.CycleGroup{Modules: map[string]bool{"pkg.a": true, "pkg.b": true}}

	_, _, _, predecls := orderCycleGroup(group, records, graph)

	if len(predecls) != 0 {
		t.Fatalf("expected eventual-only reads to never force a pre-declaration, got %v", predecls)
	}
}
