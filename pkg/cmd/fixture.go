// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/cribo/bundle"
	"github.com/cribo-go/cribo/pkg/cribo/semantictest"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// fixtureFile is the on-disk shape read by the bundle command. Real source
// discovery, parsing and semantic analysis are external collaborators this
// repo never implements; a fixture file stands in for all of
// them at once, the same role ReadConstraintFiles plays for a compiled
// .bin package in the original own compile.go.
type fixtureFile struct {
	Entry   string            `json:"entry"`
	Modules []fixtureModule   `json:"modules"`
	Cycles  *fixtureCycleSpec `json:"cycles,omitempty"`
}

type fixtureModule struct {
	Name         string       `json:"name"`
	ContentHash  string       `json:"content_hash"`
	Path         string       `json:"path"`
	Deps         []string     `json:"deps"`
	SideEffects  bool         `json:"side_effects"`
	Body         []fixtureStmt `json:"body"`
}

type fixtureCycleSpec struct {
	Resolvable   [][]string `json:"resolvable"`
	Unresolvable [][]string `json:"unresolvable"`
}

// fixtureStmt and fixtureExpr decode the small subset of the Python grammar
// pkg/pyast models. Unsupported "kind"
// values are a fixture-authoring error, not a silent no-op, so a malformed
// fixture is caught immediately rather than bundled incorrectly.
type fixtureStmt struct {
	Kind    string          `json:"kind"`
	Names   []fixtureAlias  `json:"names,omitempty"`
	Module  string          `json:"module,omitempty"`
	Level   int             `json:"level,omitempty"`
	Name    string          `json:"name,omitempty"`
	Target  string          `json:"target,omitempty"`
	Value   *fixtureExpr    `json:"value,omitempty"`
	GlobalNames []string    `json:"global_names,omitempty"`
	Body    []fixtureStmt   `json:"body,omitempty"`
}

type fixtureAlias struct {
	Name   string `json:"name"`
	AsName string `json:"as_name,omitempty"`
}

type fixtureExpr struct {
	Kind   string        `json:"kind"`
	Id     string        `json:"id,omitempty"`
	Attr   string        `json:"attr,omitempty"`
	Value  *fixtureExpr  `json:"value,omitempty"`
	Str    string        `json:"str,omitempty"`
	Num    float64       `json:"num,omitempty"`
	Args   []fixtureExpr `json:"args,omitempty"`
	Elts   []fixtureExpr `json:"elts,omitempty"`
}

// loadFixture reads and decodes a fixture file from disk, exiting the process
// on any I/O or decode error exactly as the original ReadConstraintFiles
// does for a malformed constraint source.
func loadFixture(path string) fixtureFile {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		fmt.Printf("malformed fixture %q: %s\n", path, err.Error())
		os.Exit(2)
	}

	return f
}

// buildParams turns a decoded fixture into bundle.Params, wiring the module
// graph, semantic bundler and side-effect detector to the in-memory
// semantictest fixtures (and the fixture's cycle groups, if any, to a
// CircularDepAnalysis), since this repo implements none of the real front
// ends a production deployment would supply. No tree-shaker is supplied, so
// every symbol is retained. This is the bundle command's whole
// reason for existing: a runnable driver for pkg/cribo/bundle's pipeline
// without a real Python parser/analyzer.
func buildParams(f fixtureFile) *bundle.Params {
	modules := make([]*cribo.ModuleRecord, 0, len(f.Modules))
	detector := semantictest.NewDetector()
	graph := semantictest.NewGraph()

	for _, m := range f.Modules {
		body := decodeStmts(m.Body)
		modules = append(modules, &cribo.ModuleRecord{
			Name:        m.Name,
			ContentHash: m.ContentHash,
			Path:        m.Path,
			AST:         &pyast.Module{Name: m.Name, Body: body},
			Deps:        m.Deps,
		})

		if m.SideEffects {
			detector.SideEffecting[m.Name] = true
		}
	}

	params := &bundle.Params{
		Modules:     modules,
		EntryModule: f.Entry,
		Graph:       graph,
		Semantic:    semantictest.NewBundler(),
		Detector:    detector,
	}

	if f.Cycles != nil {
		params.Cycles = &cribo.CircularDepAnalysis{
			ResolvableCycles:   decodeCycleGroups(f.Cycles.Resolvable),
			UnresolvableCycles: decodeCycleGroups(f.Cycles.Unresolvable),
		}
	}

	return params
}

func decodeCycleGroups(groups [][]string) []cribo.CycleGroup {
	out := make([]cribo.CycleGroup, 0, len(groups))

	for _, g := range groups {
		members := make(map[string]bool, len(g))
		for _, name := range g {
			members[name] = true
		}

		out = append(out, cribo.CycleGroup{Modules: members})
	}

	return out
}

func decodeStmts(in []fixtureStmt) []pyast.Stmt {
	out := make([]pyast.Stmt, 0, len(in))
	for _, s := range in {
		out = append(out, decodeStmt(s))
	}

	return out
}

func decodeStmt(s fixtureStmt) pyast.Stmt {
	switch s.Kind {
	case "import":
		return &pyast.Import{Names: decodeAliases(s.Names)}
	case "import_from":
		return &pyast.ImportFrom{Module: s.Module, Level: s.Level, Names: decodeAliases(s.Names)}
	case "function_def":
		return &pyast.FunctionDef{Name: s.Name, Body: decodeStmts(s.Body)}
	case "class_def":
		return &pyast.ClassDef{Name: s.Name, Body: decodeStmts(s.Body)}
	case "assign":
		return &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: s.Target}}, Value: decodeExpr(s.Value)}
	case "aug_assign":
		return &pyast.AugAssign{Target: &pyast.Name{Id: s.Target}, Op: "+", Value: decodeExpr(s.Value)}
	case "expr_stmt":
		return &pyast.ExprStmt{Value: decodeExpr(s.Value)}
	case "pass":
		return &pyast.Pass{}
	case "global":
		return &pyast.Global{Names: s.GlobalNames}
	case "return":
		if s.Value == nil {
			return &pyast.Return{}
		}

		return &pyast.Return{Value: decodeExpr(s.Value)}
	default:
		fmt.Printf("unsupported fixture statement kind %q\n", s.Kind)
		os.Exit(3)

		return nil
	}
}

func decodeAliases(in []fixtureAlias) []pyast.Alias {
	out := make([]pyast.Alias, 0, len(in))
	for _, a := range in {
		out = append(out, pyast.Alias{Name: a.Name, AsName: a.AsName})
	}

	return out
}

func decodeExpr(e *fixtureExpr) pyast.Expr {
	if e == nil {
		return pyast.NoneConst()
	}

	switch e.Kind {
	case "name":
		return &pyast.Name{Id: e.Id}
	case "attribute":
		return &pyast.Attribute{Value: decodeExpr(e.Value), Attr: e.Attr}
	case "string":
		return pyast.StringConst(e.Str)
	case "number":
		return &pyast.Constant{Value: e.Num}
	case "none":
		return pyast.NoneConst()
	case "call":
		args := make([]pyast.Expr, 0, len(e.Args))
		for _, a := range e.Args {
			a := a
			args = append(args, decodeExpr(&a))
		}

		return &pyast.Call{Func: decodeExpr(e.Value), Args: args}
	case "list":
		elts := make([]pyast.Expr, 0, len(e.Elts))
		for _, el := range e.Elts {
			el := el
			elts = append(elts, decodeExpr(&el))
		}

		return &pyast.List{Elts: elts}
	default:
		fmt.Printf("unsupported fixture expression kind %q\n", e.Kind)
		os.Exit(3)

		return nil
	}
}
