package bundle

import (
	"sort"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// classify implements the Classifier: every non-entry module is
// Inlinable unless the side-effect detector reports a top-level side effect,
// in which case it is Wrapped. Exports are derived at the same time: an
// explicit `__all__ = [...]` literal is honored verbatim, otherwise the
// sorted set of top-level class/function/assignment-target names (excluding
// `__all__` itself; private names are included, since they may back module
// state the public API still depends on).
//
// Grounded on pkg/corset/compiler/resolver.go's per-module registration
// pass, and on the exported-symbol extraction of
// semantic_bundler.rs::extract_symbols_from_semantic_model (every top-level
// binding is a candidate export unless it's an import).
func classify(params *Params, detector cribo.SideEffectDetector) []*cribo.BundleError {
	var errs []*cribo.BundleError

	for _, m := range params.Modules {
		if m.Name == params.EntryModule {
			continue
		}

		m.HasSideEffects = detector.CheckModule(m.AST)
		if m.HasSideEffects {
			m.Classification = cribo.Wrapped
		} else {
			m.Classification = cribo.Inlinable
		}

		all, hasAll, malformed := explicitAll(m.AST)
		if malformed {
			errs = append(errs, cribo.NewBundleError(cribo.MalformedExports, m.Name, "__all__",
				"__all__ present but not a list/tuple of string literals; treating as absent"))

			hasAll = false
		}

		m.HasExplicitAll = hasAll
		if hasAll {
			m.Exports = all
		} else {
			m.Exports = derivedExports(m.AST)
		}

		params.logf("classified %s as %s (%d exports)", m.Name, m.Classification, len(m.Exports))
	}

	return errs
}

// explicitAll scans body's top-level statements for "__all__ = [...]" or
// "__all__ = (...)" with literal string elements. malformed is true if
// __all__ is assigned something else.
func explicitAll(module *pyast.Module) (names []string, hasAll, malformed bool) {
	for _, st := range module.Body {
		assign, ok := st.(*pyast.Assign)
		if !ok || len(assign.Targets) != 1 {
			continue
		}

		name, ok := assign.Targets[0].(*pyast.Name)
		if !ok || name.Id != "__all__" {
			continue
		}

		elts, ok := elementsOf(assign.Value)
		if !ok {
			return nil, false, true
		}

		out := make([]string, 0, len(elts))

		for _, e := range elts {
			c, ok := e.(*pyast.Constant)
			if !ok {
				return nil, false, true
			}

			s, ok := c.Value.(string)
			if !ok {
				return nil, false, true
			}

			out = append(out, s)
		}

		return out, true, false
	}

	return nil, false, false
}

func elementsOf(e pyast.Expr) ([]pyast.Expr, bool) {
	switch v := e.(type) {
	case *pyast.List:
		return v.Elts, true
	case *pyast.Tuple:
		return v.Elts, true
	default:
		return nil, false
	}
}

// derivedExports returns the sorted set of top-level class/function/
// assignment-target names, excluding __all__ itself.
func derivedExports(module *pyast.Module) []string {
	set := make(map[string]bool)

	for _, st := range module.Body {
		switch v := st.(type) {
		case *pyast.FunctionDef:
			set[v.Name] = true
		case *pyast.ClassDef:
			set[v.Name] = true
		case *pyast.Assign:
			for _, t := range v.Targets {
				if n, ok := t.(*pyast.Name); ok && n.Id != "__all__" {
					set[n.Id] = true
				}
			}
		case *pyast.AnnAssign:
			if n, ok := v.Target.(*pyast.Name); ok && n.Id != "__all__" {
				set[n.Id] = true
			}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
