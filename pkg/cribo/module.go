package cribo

import "github.com/cribo-go/cribo/pkg/pyast"

// Classification is the outcome of the Classifier: a first-party
// module is either lifted directly into the bundle's global scope, or placed
// inside an idempotent initializer function.
type Classification int

const (
	// Inlinable modules have no top-level side effects; their definitions
	// are copied directly into the bundle's global scope with renaming.
	Inlinable Classification = iota
	// Wrapped modules have side effects that must be preserved inside a
	// parameterless initializer function.
	Wrapped
)

func (c Classification) String() string {
	if c == Wrapped {
		return "wrapped"
	}

	return "inlinable"
}

// ModuleRecord is the Module record: logical name, content hash,
// parsed AST, dependency list, side-effect flag and classification. The
// Orchestrator owns every ModuleRecord for the lifetime of a single Bundle
// call; the Ingest stage trims its AST body, and the Classifier fills in its
// side-effect flag, exports and classification.
type ModuleRecord struct {
	// Name is the dotted module name, e.g. "pkg.sub".
	Name string
	// ContentHash is a stable identity for the module's source, independent
	// of any rename applied to its symbols. Used to derive synthetic names.
	ContentHash string
	// Path is the module's filesystem origin, carried through for
	// diagnostics only.
	Path string
	// AST is the module's parsed tree. The Inliner and Wrapper Synthesizer
	// each run the Import Rewriter over its body themselves; the rewritten
	// statement list is not stored back into AST.Body.
	AST *pyast.Module
	// Deps lists the dotted names of modules this module directly depends
	// on, in the order the upstream module graph reported them.
	Deps []string
	// HasSideEffects is the boolean produced by the SideEffectDetector
	// collaborator.
	HasSideEffects bool
	// HasExplicitAll records whether the module's source defined
	// `__all__ = [...]` as a literal list/tuple of strings.
	HasExplicitAll bool
	// Exports is the module's export list: the explicit __all__ contents if
	// HasExplicitAll, otherwise the sorted set of top-level
	// class/function/assignment-target names.
	Exports []string
	// Classification is set once the Classifier has run.
	Classification Classification
}

// IsInitPackage always reports false: whether a record is a package's
// `__init__` module cannot be inferred from its dotted name alone, and
// ModuleRecord carries no field for it (FindUnusedImports takes the
// distinction as a parameter for this reason).
func (m *ModuleRecord) IsInitPackage() bool { return false }

// SyntheticName derives the bundle-unique identifier for a wrapped module's
// namespace object, of the form "__cribo_<6hex>_<sanitized_name>".
func SyntheticName(contentHash, moduleName string) string {
	hex := contentHash
	if len(hex) > 6 {
		hex = hex[:6]
	}

	return "__cribo_" + hex + "_" + SanitizeModuleName(moduleName)
}

// InitFunctionName derives the name of a wrapped module's initializer
// function from its synthetic name.
func InitFunctionName(synthetic string) string {
	return "__cribo_init_" + synthetic
}

// SanitizeModuleName replaces the characters that cannot appear in a Python
// identifier ('.', '-') with underscores.
func SanitizeModuleName(name string) string {
	out := make([]byte, len(name))

	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case '.', '-':
			out[i] = '_'
		default:
			out[i] = c
		}
	}

	return string(out)
}
