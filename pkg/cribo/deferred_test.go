package cribo

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/pyast"
)

func Test_DeferredImports_Add_01_DropsSelfAssignment(t *testing.T) {
	d := NewDeferredImports()
	d.Add(DeferredImport{Target: "x", CanonicalRHS: "x", Stmt: &pyast.Pass{}})

	if len(d.Items()) != 0 {
		t.Fatalf("expected a tautological self-assignment to be dropped, got %d items", len(d.Items()))
	}
}

func Test_DeferredImports_Add_02_DedupsIdenticalKey(t *testing.T) {
	d := NewDeferredImports()
	d.Add(DeferredImport{Target: "x", CanonicalRHS: "mod.y", Stmt: &pyast.Pass{}})
	d.Add(DeferredImport{Target: "x", CanonicalRHS: "mod.y", Stmt: &pyast.Pass{}})

	if len(d.Items()) != 1 {
		t.Fatalf("expected duplicate (target, rhs) to collapse to one item, got %d", len(d.Items()))
	}
}

func Test_DeferredImports_Add_03_PreservesInsertionOrder(t *testing.T) {
	d := NewDeferredImports()
	d.Add(DeferredImport{Target: "a", CanonicalRHS: "mod.a", Stmt: &pyast.Pass{}})
	d.Add(DeferredImport{Target: "b", CanonicalRHS: "mod.b", Stmt: &pyast.Pass{}})

	items := d.Items()
	if len(items) != 2 || items[0].Target != "a" || items[1].Target != "b" {
		t.Fatalf("expected insertion order [a, b], got %v", items)
	}
}

func Test_DeferredImportRegistry_01_FirstWins(t *testing.T) {
	r := NewDeferredImportRegistry()
	r.Record("entry", "helper", "pkg.a")
	r.Record("entry", "helper", "pkg.b")

	source, ok := r.SourceOf("entry", "helper")
	if !ok || source != "pkg.a" {
		t.Fatalf("got (%q, %v), want (%q, true)", source, ok, "pkg.a")
	}
}

func Test_DeferredImportRegistry_02_UnknownIsNotOK(t *testing.T) {
	r := NewDeferredImportRegistry()
	if _, ok := r.SourceOf("entry", "nope"); ok {
		t.Fatal("expected ok=false for an unrecorded (module, symbol) pair")
	}
}
