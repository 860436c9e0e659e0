package bundle

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/cribo/semantictest"
	"github.com/cribo-go/cribo/pkg/pyast"
)

func Test_Ingest_01_CombinesFutureImportsAcrossModules(t *testing.T) {
	a := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.ImportFrom{Module: "__future__", Names: []pyast.Alias{{Name: "annotations"}}},
			&pyast.Pass{},
		}},
	}

	b := &cribo.ModuleRecord{
		Name: "pkg.b",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.ImportFrom{Module: "__future__", Names: []pyast.Alias{{Name: "division"}, {Name: "annotations"}}},
		}},
	}

	params := &Params{Modules: []*cribo.ModuleRecord{a, b}, Graph: semantictest.NewGraph()}

	hoisted := ingest(params)

	if len(hoisted) != 1 {
		t.Fatalf("expected exactly one combined __future__ import, got %d: %v", len(hoisted), hoisted)
	}

	future, ok := hoisted[0].(*pyast.ImportFrom)
	if !ok || future.Module != "__future__" {
		t.Fatalf("expected a __future__ import as the first hoisted statement, got %T", hoisted[0])
	}

	if len(future.Names) != 2 || future.Names[0].Name != "annotations" || future.Names[1].Name != "division" {
		t.Fatalf("expected the deduplicated, sorted names [annotations division], got %v", future.Names)
	}

	if len(a.AST.Body) != 1 {
		t.Fatalf("expected the __future__ import removed from pkg.a's body, got %v", a.AST.Body)
	}

	if len(b.AST.Body) != 0 {
		t.Fatalf("expected the __future__ import removed from pkg.b's body, got %v", b.AST.Body)
	}
}

func Test_Ingest_02_DeduplicatesIdenticalStdlibImports(t *testing.T) {
	a := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.ImportFrom{Module: "os", Names: []pyast.Alias{{Name: "path"}}},
		}},
	}

	b := &cribo.ModuleRecord{
		Name: "pkg.b",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.ImportFrom{Module: "os", Names: []pyast.Alias{{Name: "path"}}},
			&pyast.Import{Names: []pyast.Alias{{Name: "sys"}}},
		}},
	}

	params := &Params{Modules: []*cribo.ModuleRecord{a, b}, Graph: semantictest.NewGraph()}

	hoisted := ingest(params)

	if len(hoisted) != 2 {
		t.Fatalf("expected the duplicate 'from os import path' collapsed and 'import sys' hoisted, got %d: %v", len(hoisted), hoisted)
	}

	if len(a.AST.Body) != 0 || len(b.AST.Body) != 0 {
		t.Fatalf("expected both modules' hoisted imports removed, got a=%v b=%v", a.AST.Body, b.AST.Body)
	}
}

func Test_Ingest_03_LeavesFirstPartyAndThirdPartyImportsInPlace(t *testing.T) {
	m := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.Import{Names: []pyast.Alias{{Name: "pkg.util"}}},
			&pyast.ImportFrom{Module: "requests", Names: []pyast.Alias{{Name: "get"}}},
		}},
	}

	params := &Params{Modules: []*cribo.ModuleRecord{m}, Graph: semantictest.NewGraph()}

	hoisted := ingest(params)
	if len(hoisted) != 0 {
		t.Fatalf("expected nothing hoisted, got %v", hoisted)
	}

	if len(m.AST.Body) != 2 {
		t.Fatalf("expected both imports left in place, got %v", m.AST.Body)
	}
}

func Test_Ingest_04_DropsImportReportedUnused(t *testing.T) {
	graph := semantictest.NewGraph()
	graph.Unused["pkg.a"] = []string{"get"}

	m := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.ImportFrom{Module: "requests", Names: []pyast.Alias{{Name: "get"}}},
		}},
	}

	params := &Params{Modules: []*cribo.ModuleRecord{m}, Graph: graph}

	hoisted := ingest(params)
	if len(hoisted) != 0 {
		t.Fatalf("expected nothing hoisted for a dropped-as-unused import, got %v", hoisted)
	}

	if len(m.AST.Body) != 0 {
		t.Fatalf("expected the unused import dropped entirely, got %v", m.AST.Body)
	}
}

func Test_Ingest_05_KeepsImportAliveUnderModuleSideEffect(t *testing.T) {
	graph := semantictest.NewGraph()
	graph.Unused["pkg.a"] = []string{"get"}

	shaker := semantictest.NewShaker()
	shaker.SideEffects["pkg.a"] = true

	m := &cribo.ModuleRecord{
		Name: "pkg.a",
		AST: &pyast.Module{Body: []pyast.Stmt{
			&pyast.ImportFrom{Module: "requests", Names: []pyast.Alias{{Name: "get"}}},
		}},
	}

	params := &Params{Modules: []*cribo.ModuleRecord{m}, Graph: graph, Shaker: shaker}

	ingest(params)

	if len(m.AST.Body) != 1 {
		t.Fatalf("expected the import kept since tree-shaking flags the module as side-effecting, got %v", m.AST.Body)
	}
}
