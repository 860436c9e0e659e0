// Package cribo implements the bundle assembly and AST-rewriting engine of a
// static Python bundler: it takes a multi-file Python project rooted at an
// entry module and produces a single self-contained pyast.Module whose
// runtime behaviour is observationally equivalent to the original project.
//
// Everything upstream of this package — source discovery, parsing, semantic
// analysis, tree-shaking, circular-dependency analysis and side-effect
// detection — is an external collaborator. This file declares the
// interfaces this package consumes; it implements none of them.
package cribo

import "github.com/cribo-go/cribo/pkg/pyast"

// ItemKind classifies a single top-level item within a module, as reported
// by the ModuleGraph collaborator.
type ItemKind int

const (
	ItemFunction ItemKind = iota
	ItemClass
	ItemAssignment
	ItemImport
	ItemFromImport
	ItemExpression
)

// ModuleItem describes one top-level statement of a module together with the
// read/write information the graph collaborator computed for it.
type ModuleItem struct {
	Kind ItemKind
	// Stmt is the underlying statement this item describes.
	Stmt pyast.Stmt
	// ReadSet names symbols read at definition time (module-level evaluation:
	// decorators, base classes, default arguments, RHS of assignments).
	ReadSet []string
	// EventualReadSet names symbols read only once some function body
	// defined by this item actually executes.
	EventualReadSet []string
	// WriteSet names symbols this item defines.
	WriteSet []string
	// HasSideEffects indicates this item is not statically side-effect-free.
	HasSideEffects bool
	// ReexportedNames names symbols this item re-exports under the same or
	// a different local name (relevant for from-import items).
	ReexportedNames []string
}

// ModuleGraph is the per-module item graph + import-usage collaborator.
type ModuleGraph interface {
	// GetModuleByName returns the item graph for a module, or ok=false if
	// the module is unknown to the graph.
	GetModuleByName(name string) (items []ModuleItem, ok bool)
	// FindUnusedImports reports, for a module, the set of import statements
	// (by their target local name) that nothing in the module references.
	// isInitPy relaxes the notion of "unused" for package __init__ modules,
	// whose imports frequently exist purely to be re-exported.
	FindUnusedImports(module string, isInitPy bool) []string
	// IsInAllExport reports whether name is listed in module's __all__.
	IsInAllExport(module, name string) bool
	// GetAllImportItems returns every import/from-import item across every
	// module known to the graph, in a stable, deterministic order.
	GetAllImportItems() []ModuleImportRef
	// DoesSymbolUseImport reports whether symbol's definition (as found in
	// module) references the given imported local name.
	DoesSymbolUseImport(module, symbol, importName string) bool
}

// ModuleImportRef names one import item by its owning module and position.
type ModuleImportRef struct {
	Module string
	Local  string
}

// ModuleGlobalInfo is the result of analyzing a module's use of the `global`
// statement. Its shape is grounded directly on the ModuleGlobalInfo record
// computed by the original implementation's semantic bundler.
type ModuleGlobalInfo struct {
	// ModuleLevelVars are variables assigned at module scope.
	ModuleLevelVars map[string]bool
	// GlobalDeclarations maps a variable name to the names of every function
	// that declares `global <name>`.
	GlobalDeclarations map[string][]string
	// FunctionsUsingGlobals is the set of function names containing at least
	// one `global` statement.
	FunctionsUsingGlobals map[string]bool
}

// ModuleSemanticInfo is the per-module result of semantic analysis consumed
// by the Classifier and Inliner.
type ModuleSemanticInfo struct {
	ExportedSymbols []string
}

// SemanticBundler is the symbol-table / rename-candidate collaborator.
type SemanticBundler interface {
	// AnalyzeModuleGlobals computes global-variable usage for a module.
	AnalyzeModuleGlobals(moduleID int, module *pyast.Module, name string) ModuleGlobalInfo
	// GetModuleInfo returns the exported-symbol info for a module, or
	// ok=false if unknown.
	GetModuleInfo(moduleID int) (info ModuleSemanticInfo, ok bool)
	// SymbolRegistryGetRename returns the semantic rename candidate for
	// (moduleID, name), if the semantic analysis phase already decided one
	// (e.g. because it disambiguates a conflict more precisely than the
	// Inliner's fallback suffixing would).
	SymbolRegistryGetRename(moduleID int, name string) (renamed string, ok bool)
}

// CycleGroup names a set of modules involved in an import cycle.
type CycleGroup struct {
	Modules map[string]bool
}

// CircularDepAnalysis is the cycle-detection collaborator.
type CircularDepAnalysis struct {
	ResolvableCycles   []CycleGroup
	UnresolvableCycles []CycleGroup
}

// TreeShaker is the optional liveness collaborator.
type TreeShaker interface {
	// GetUsedSymbolsForModule returns the set of (module, symbol) pairs to
	// retain for module, or ok=false if tree-shaking was not run (in which
	// case every symbol is retained).
	GetUsedSymbolsForModule(module string) (used map[string]bool, ok bool)
	// ModuleHasSideEffects reports whether tree-shaking's own liveness
	// analysis thinks module has a side effect that must be preserved
	// regardless of whether any of its symbols are referenced.
	ModuleHasSideEffects(module string) bool
}

// SideEffectDetector is the per-module boolean collaborator.
type SideEffectDetector interface {
	// CheckModule reports whether module has any top-level side effect.
	CheckModule(module *pyast.Module) bool
}
