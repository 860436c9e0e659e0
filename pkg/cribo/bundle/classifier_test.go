package bundle

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/cribo/semantictest"
	"github.com/cribo-go/cribo/pkg/pyast"
)

func Test_Classify_01_ExplicitAllWins(t *testing.T) {
	rec := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.FunctionDef{Name: "a"},
			&pyast.FunctionDef{Name: "b"},
			&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "__all__"}}, Value: pyast.StringList([]string{"a"})},
		}},
	}

	detector := semantictest.NewDetector()
	params := &Params{Modules: []*cribo.ModuleRecord{rec}, EntryModule: "__entry__"}

	errs := classify(params, detector)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if !rec.HasExplicitAll || len(rec.Exports) != 1 || rec.Exports[0] != "a" {
		t.Fatalf("expected __all__ = ['a'] to win, got %v (explicit=%v)", rec.Exports, rec.HasExplicitAll)
	}
}

func Test_Classify_02_MalformedAllReportsError(t *testing.T) {
	rec := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.FunctionDef{Name: "a"},
			&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "__all__"}}, Value: &pyast.Name{Id: "computed_elsewhere"}},
		}},
	}

	detector := semantictest.NewDetector()
	params := &Params{Modules: []*cribo.ModuleRecord{rec}, EntryModule: "__entry__"}

	errs := classify(params, detector)
	if len(errs) != 1 || errs[0].Kind != cribo.MalformedExports {
		t.Fatalf("expected one MalformedExports error, got %v", errs)
	}

	if rec.HasExplicitAll {
		t.Fatal("expected malformed __all__ to fall back to derived exports")
	}

	if len(rec.Exports) != 1 || rec.Exports[0] != "a" {
		t.Fatalf("expected derived exports ['a'], got %v", rec.Exports)
	}
}

func Test_Classify_03_DerivedExportsAreSortedAndExcludeAll(t *testing.T) {
	rec := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.FunctionDef{Name: "zeta"},
			&pyast.ClassDef{Name: "alpha"},
			&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "middle"}}, Value: &pyast.Constant{Value: 1}},
		}},
	}

	detector := semantictest.NewDetector()
	params := &Params{Modules: []*cribo.ModuleRecord{rec}, EntryModule: "__entry__"}

	if errs := classify(params, detector); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []string{"alpha", "middle", "zeta"}
	if len(rec.Exports) != len(want) {
		t.Fatalf("got %v, want %v", rec.Exports, want)
	}

	for i := range want {
		if rec.Exports[i] != want[i] {
			t.Fatalf("got %v, want %v", rec.Exports, want)
		}
	}
}

func Test_Classify_04_SkipsEntryModule(t *testing.T) {
	rec := &cribo.ModuleRecord{Name: "main", AST: &pyast.Module{}}
	detector := semantictest.NewDetector()
	detector.SideEffecting["main"] = true

	params := &Params{Modules: []*cribo.ModuleRecord{rec}, EntryModule: "main"}

	if errs := classify(params, detector); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if rec.HasSideEffects {
		t.Fatal("expected the entry module to never be classified")
	}
}
