package bundle

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/cribo/semantictest"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// fixtureGlobalModule models a module with a module-level counter mutated by
// a function via `global counter`, the canonical case the Globals Lifter
// targets.
func fixtureGlobalModule() *cribo.ModuleRecord {
	return &cribo.ModuleRecord{
		Name:        "pkg.counter",
		ContentHash: "deadbeef",
		AST: &pyast.Module{
			Name: "pkg.counter",
			Body: []pyast.Stmt{
				&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "count"}}, Value: &pyast.Constant{Value: 0}},
				&pyast.FunctionDef{
					Name: "bump",
					Body: []pyast.Stmt{
						&pyast.Global{Names: []string{"count"}},
						&pyast.AugAssign{Target: &pyast.Name{Id: "count"}, Op: "+", Value: &pyast.Constant{Value: 1}},
					},
				},
			},
		},
	}
}

func Test_LiftGlobals_01_RewritesDeclarationAndReferences(t *testing.T) {
	rec := fixtureGlobalModule()
	b := newBuilder(&Params{Semantic: semantictest.NewBundler()}, map[string]*cribo.ModuleRecord{rec.Name: rec}, cribo.NewNamespaceSet())

	prelude, out, liftedNames, byOriginal := b.liftGlobals(0, rec, rec.AST.Body, "pkg_counter_result")

	if len(liftedNames) != 1 {
		t.Fatalf("expected exactly one lifted name, got %v", liftedNames)
	}

	if byOriginal["count"] != liftedNames[0] {
		t.Fatalf("expected the original name to map to the lifted name, got %v", byOriginal)
	}

	if len(prelude) != 1 {
		t.Fatalf("expected one prelude declaration, got %d", len(prelude))
	}

	fn := out[1].(*pyast.FunctionDef)

	g, ok := fn.Body[0].(*pyast.Global)
	if !ok || g.Names[0] != liftedNames[0] {
		t.Fatalf("expected the function's global statement to name the lifted variable, got %v", fn.Body[0])
	}

	aug := fn.Body[1].(*pyast.AugAssign)
	if name, ok := aug.Target.(*pyast.Name); !ok || name.Id != liftedNames[0] {
		t.Fatalf("expected the aug-assign target to be rewritten to the lifted name, got %v", aug.Target)
	}

	sync, ok := fn.Body[2].(*pyast.Assign)
	if !ok {
		t.Fatalf("expected a sync-back write onto the namespace result after the nested function's assignment, got %T", fn.Body[2])
	}

	attr := sync.Targets[0].(*pyast.Attribute)
	if attr.Attr != "count" {
		t.Fatalf("expected the sync-back write to attach under the original name 'count', got %q", attr.Attr)
	}

	if name, ok := sync.Value.(*pyast.Name); !ok || name.Id != liftedNames[0] {
		t.Fatalf("expected the sync-back write's value to read the lifted name, got %v", sync.Value)
	}
}

func Test_LiftGlobals_02_NoOpWithoutGlobalStatements(t *testing.T) {
	rec := &cribo.ModuleRecord{
		Name: "pkg.plain",
		AST:  &pyast.Module{Body: []pyast.Stmt{&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "x"}}, Value: &pyast.Constant{Value: 1}}}},
	}

	b := newBuilder(&Params{Semantic: semantictest.NewBundler()}, map[string]*cribo.ModuleRecord{rec.Name: rec}, cribo.NewNamespaceSet())

	prelude, out, liftedNames, byOriginal := b.liftGlobals(0, rec, rec.AST.Body, "pkg_plain_result")
	if prelude != nil || liftedNames != nil || byOriginal != nil {
		t.Fatalf("expected no lifting for a module with no global statements, got prelude=%v lifted=%v", prelude, liftedNames)
	}

	if len(out) != 1 {
		t.Fatalf("expected body to pass through unchanged, got %v", out)
	}
}

func Test_AnalyzeGlobals_01_NestedFunctionHasOwnScope(t *testing.T) {
	module := &pyast.Module{Body: []pyast.Stmt{
		&pyast.FunctionDef{
			Name: "outer",
			Body: []pyast.Stmt{
				&pyast.FunctionDef{
					Name: "inner",
					Body: []pyast.Stmt{&pyast.Global{Names: []string{"x"}}},
				},
			},
		},
	}}

	info := semantictest.AnalyzeGlobals(module)

	if info.FunctionsUsingGlobals["outer"] {
		t.Fatal("expected only the nested function to be attributed global usage")
	}

	if !info.FunctionsUsingGlobals["inner"] {
		t.Fatal("expected the nested function to be attributed global usage")
	}
}
