package bundle

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

func Test_DedupeDeferred_01_DropsDuplicateKeys(t *testing.T) {
	items := []cribo.DeferredImport{
		{Target: "helper", CanonicalRHS: "helper_pkg_dep", Stmt: &pyast.Assign{}},
		{Target: "helper", CanonicalRHS: "helper_pkg_dep", Stmt: &pyast.Assign{}},
		{Target: "other", CanonicalRHS: "other_pkg_dep", Stmt: &pyast.Assign{}},
	}

	out := dedupeDeferred(items)
	if len(out) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 entries, got %d", len(out))
	}
}

func Test_DedupeDeferred_02_PreservesInsertionOrder(t *testing.T) {
	first := pyast.Stmt(&pyast.Assign{})
	second := pyast.Stmt(&pyast.Assign{})

	items := []cribo.DeferredImport{
		{Target: "b", CanonicalRHS: "b_rhs", Stmt: first},
		{Target: "a", CanonicalRHS: "a_rhs", Stmt: second},
	}

	out := dedupeDeferred(items)
	if out[0].Target != "b" || out[1].Target != "a" {
		t.Fatalf("expected insertion order preserved (b before a), got %v", out)
	}
}

func Test_StatementsOf_01_FlattensToStmtsInOrder(t *testing.T) {
	a := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "x"}}}
	b := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "y"}}}

	items := []cribo.DeferredImport{
		{Target: "x", CanonicalRHS: "rhs_x", Stmt: a},
		{Target: "y", CanonicalRHS: "rhs_y", Stmt: b},
	}

	out := statementsOf(items)
	if len(out) != 2 || out[0] != pyast.Stmt(a) || out[1] != pyast.Stmt(b) {
		t.Fatalf("expected statements flattened in order, got %v", out)
	}
}
