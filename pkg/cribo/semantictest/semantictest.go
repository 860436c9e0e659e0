// Package semantictest provides hand-built stand-ins for the external
// semantic-analysis collaborators declared in pkg/cribo (ModuleGraph,
// SemanticBundler, TreeShaker, SideEffectDetector), for use by this
// module's own tests. A real deployment wires these interfaces to an
// actual Python semantic analyzer; this package exists so pkg/cribo/bundle
// can be exercised without one.
//
// Grounded on original_source/crates/cribo/src/semantic_bundler.rs: the
// field names and the global-usage bookkeeping below mirror that file's
// ModuleGlobalInfo/SymbolRegistry/GlobalUsageVisitor rather than inventing
// a new shape.
package semantictest

import (
	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// Graph is a minimal, fully in-memory ModuleGraph: a fixture populates Items
// directly rather than deriving it from source.
type Graph struct {
	Items        map[string][]cribo.ModuleItem
	Unused       map[string][]string
	AllExports   map[string]map[string]bool
	ImportItems  []cribo.ModuleImportRef
	SymbolImport map[string]map[string]bool // "module.symbol" -> set of import names it references
}

// NewGraph constructs an empty Graph fixture.
func NewGraph() *Graph {
	return &Graph{
		Items:        make(map[string][]cribo.ModuleItem),
		Unused:       make(map[string][]string),
		AllExports:   make(map[string]map[string]bool),
		SymbolImport: make(map[string]map[string]bool),
	}
}

func (g *Graph) GetModuleByName(name string) ([]cribo.ModuleItem, bool) {
	items, ok := g.Items[name]
	return items, ok
}

func (g *Graph) FindUnusedImports(module string, isInitPy bool) []string {
	if isInitPy {
		return nil
	}

	return g.Unused[module]
}

func (g *Graph) IsInAllExport(module, name string) bool {
	return g.AllExports[module][name]
}

func (g *Graph) GetAllImportItems() []cribo.ModuleImportRef {
	return g.ImportItems
}

func (g *Graph) DoesSymbolUseImport(module, symbol, importName string) bool {
	return g.SymbolImport[module+"."+symbol][importName]
}

// Bundler is a minimal, fully in-memory SemanticBundler fixture.
type Bundler struct {
	Globals map[string]cribo.ModuleGlobalInfo // keyed by module name
	Exports map[int]cribo.ModuleSemanticInfo  // keyed by moduleID
	Renames map[string]string                 // "moduleID.name" -> renamed
}

// NewBundler constructs an empty Bundler fixture.
func NewBundler() *Bundler {
	return &Bundler{
		Globals: make(map[string]cribo.ModuleGlobalInfo),
		Exports: make(map[int]cribo.ModuleSemanticInfo),
		Renames: make(map[string]string),
	}
}

func (b *Bundler) AnalyzeModuleGlobals(moduleID int, module *pyast.Module, name string) cribo.ModuleGlobalInfo {
	if info, ok := b.Globals[name]; ok {
		return info
	}

	return AnalyzeGlobals(module)
}

func (b *Bundler) GetModuleInfo(moduleID int) (cribo.ModuleSemanticInfo, bool) {
	info, ok := b.Exports[moduleID]
	return info, ok
}

func renameKey(moduleID int, name string) string {
	return itoaKey(moduleID) + "." + name
}

func itoaKey(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if neg {
		digits = append([]byte{'-'}, digits...)
	}

	return string(digits)
}

func (b *Bundler) SymbolRegistryGetRename(moduleID int, name string) (string, bool) {
	renamed, ok := b.Renames[renameKey(moduleID, name)]
	return renamed, ok
}

// AnalyzeGlobals implements a genuine (if simplified) equivalent of
// semantic_bundler.rs's GlobalUsageVisitor: it walks a module's top-level
// function bodies looking for `global` statements, tracking the enclosing
// function by value across descent exactly as the Rust visitor tracks
// current_function.
func AnalyzeGlobals(module *pyast.Module) cribo.ModuleGlobalInfo {
	info := cribo.ModuleGlobalInfo{
		ModuleLevelVars:       make(map[string]bool),
		GlobalDeclarations:    make(map[string][]string),
		FunctionsUsingGlobals: make(map[string]bool),
	}

	for _, st := range module.Body {
		recordModuleLevelVar(st, info.ModuleLevelVars)
	}

	for _, st := range module.Body {
		if fn, ok := st.(*pyast.FunctionDef); ok {
			walkFunctionGlobals(fn.Name, fn.Body, &info)
		}
	}

	return info
}

func recordModuleLevelVar(st pyast.Stmt, vars map[string]bool) {
	switch v := st.(type) {
	case *pyast.Assign:
		for _, t := range v.Targets {
			if n, ok := t.(*pyast.Name); ok {
				vars[n.Id] = true
			}
		}
	case *pyast.AnnAssign:
		if n, ok := v.Target.(*pyast.Name); ok {
			vars[n.Id] = true
		}
	}
}

func walkFunctionGlobals(currentFunction string, body []pyast.Stmt, info *cribo.ModuleGlobalInfo) {
	for _, st := range body {
		switch v := st.(type) {
		case *pyast.Global:
			info.FunctionsUsingGlobals[currentFunction] = true

			for _, name := range v.Names {
				declared := info.GlobalDeclarations[name]
				if !containsStr(declared, currentFunction) {
					info.GlobalDeclarations[name] = append(declared, currentFunction)
				}
			}
		case *pyast.If:
			walkFunctionGlobals(currentFunction, v.Body, info)
			walkFunctionGlobals(currentFunction, v.OrElse, info)
		case *pyast.Try:
			walkFunctionGlobals(currentFunction, v.Body, info)
			for _, h := range v.Handlers {
				walkFunctionGlobals(currentFunction, h, info)
			}

			walkFunctionGlobals(currentFunction, v.FinalBody, info)
		case *pyast.FunctionDef:
			// A nested function has its own scope; global usage inside it
			// attributes to the nested function, not the enclosing one,
			// exactly as the Rust visitor's current_function tracking
			// dictates when it descends into a nested FunctionDef.
			walkFunctionGlobals(v.Name, v.Body, info)
		}
	}
}

func containsStr(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}

	return false
}

// Shaker is a minimal, fully in-memory TreeShaker fixture.
type Shaker struct {
	Used        map[string]map[string]bool
	SideEffects map[string]bool
}

// NewShaker constructs an empty Shaker fixture.
func NewShaker() *Shaker {
	return &Shaker{Used: make(map[string]map[string]bool), SideEffects: make(map[string]bool)}
}

func (s *Shaker) GetUsedSymbolsForModule(module string) (map[string]bool, bool) {
	used, ok := s.Used[module]
	return used, ok
}

func (s *Shaker) ModuleHasSideEffects(module string) bool {
	return s.SideEffects[module]
}

// Detector is a minimal SideEffectDetector fixture: a fixture marks modules
// as side-effecting by name rather than inspecting their AST, since a test's
// fixture modules are hand-built and their side-effecting-ness is a premise
// of the scenario, not something worth re-deriving.
type Detector struct {
	SideEffecting map[string]bool
}

// NewDetector constructs a Detector fixture.
func NewDetector() *Detector {
	return &Detector{SideEffecting: make(map[string]bool)}
}

func (d *Detector) CheckModule(module *pyast.Module) bool {
	return d.SideEffecting[module.Name]
}
