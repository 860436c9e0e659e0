package bundle

import (
	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// inlineModule implements the Inliner for one Inlinable module:
// imports are rewritten first (so any remaining top-level statement only
// ever references already-resolved bindings), then every top-level
// definition gets a final, bundle-unique name, then every reference to one
// of this module's own top-level definitions is rewritten to that final
// name.
//
// Grounded on pkg/corset/compiler/resolver.go's two-pass
// declare-then-resolve structure (first pass assigns every binding an
// identity, second pass resolves references against it), generalized from
// corset's column/function bindings to Python module-level symbols.
func (b *builder) inlineModule(moduleID int, rec *cribo.ModuleRecord) []pyast.Stmt {
	body := b.rewriteModule(rec.Name, false, false, rec.AST.Body)

	sanitized := cribo.SanitizeModuleName(rec.Name)

	finals := make(map[string]string)

	for _, st := range body {
		original, ok := topLevelBinderName(st)
		if !ok {
			continue
		}

		if _, already := finals[original]; already {
			continue
		}

		var semanticRename string
		if renamed, ok := b.params.Semantic.SymbolRegistryGetRename(moduleID, original); ok {
			semanticRename = renamed
		}

		final := b.renames.FreshName(original, semanticRename, sanitized)
		b.renames.Record(rec.Name, original, final)
		finals[original] = final
	}

	out := make([]pyast.Stmt, 0, len(body))

	for _, st := range body {
		out = append(out, b.applyLocalRenames(rec.Name, finals, st)...)
	}

	return out
}

// topLevelBinderName returns the name a top-level statement binds, if any.
func topLevelBinderName(st pyast.Stmt) (name string, ok bool) {
	switch v := st.(type) {
	case *pyast.FunctionDef:
		return v.Name, true
	case *pyast.ClassDef:
		return v.Name, true
	case *pyast.Assign:
		if len(v.Targets) == 1 {
			if n, ok := v.Targets[0].(*pyast.Name); ok {
				return n.Id, true
			}
		}
	case *pyast.AnnAssign:
		if n, ok := v.Target.(*pyast.Name); ok {
			return n.Id, true
		}
	}

	return "", false
}

// applyLocalRenames rewrites st's own binder (if any) to its final name,
// patches class __module__/__name__ so introspection still reports the
// class's original identity, drops tautological self-assignments left
// behind by a rename that happened to equal the original, and rewrites
// every reference inside st's body/value to another top-level binder of the
// same module using that binder's final name.
func (b *builder) applyLocalRenames(module string, finals map[string]string, st pyast.Stmt) []pyast.Stmt {
	rewriteRef := func(e pyast.Expr) pyast.Expr {
		return renameRefs(e, finals)
	}

	switch v := st.(type) {
	case *pyast.FunctionDef:
		v.Name = finals[v.Name]
		v.Decorators = mapExprs(v.Decorators, rewriteRef)
		v.Defaults = mapExprs(v.Defaults, rewriteRef)
		v.Body = renameRefsInBody(v.Body, finals)

		return []pyast.Stmt{v}
	case *pyast.ClassDef:
		original := v.Name
		v.Name = finals[v.Name]
		v.Bases = mapExprs(v.Bases, rewriteRef)
		v.Decorators = mapExprs(v.Decorators, rewriteRef)
		v.Body = renameRefsInBody(v.Body, finals)

		patch := []pyast.Stmt{v,
			&pyast.Assign{
				Targets: []pyast.Expr{&pyast.Attribute{Value: &pyast.Name{Id: v.Name}, Attr: "__module__"}},
				Value:   pyast.StringConst(module),
			},
		}
		if v.Name != original {
			patch = append(patch, &pyast.Assign{
				Targets: []pyast.Expr{&pyast.Attribute{Value: &pyast.Name{Id: v.Name}, Attr: "__name__"}},
				Value:   pyast.StringConst(original),
			})
		}

		return patch
	case *pyast.Assign:
		v.Value = rewriteRef(v.Value)

		if len(v.Targets) == 1 {
			if n, ok := v.Targets[0].(*pyast.Name); ok {
				final := finals[n.Id]
				if rn, ok := v.Value.(*pyast.Name); ok && rn.Id == final {
					// Tautological self-assignment left by a rename that
					// happened to equal its own final name: nothing to do.
					return nil
				}

				n.Id = final
			}
		}

		return []pyast.Stmt{v}
	case *pyast.AnnAssign:
		v.Annotation = rewriteRef(v.Annotation)
		if v.Value != nil {
			v.Value = rewriteRef(v.Value)
		}

		if n, ok := v.Target.(*pyast.Name); ok {
			n.Id = finals[n.Id]
		}

		return []pyast.Stmt{v}
	default:
		return []pyast.Stmt{st}
	}
}

func mapExprs(in []pyast.Expr, f func(pyast.Expr) pyast.Expr) []pyast.Expr {
	for i, e := range in {
		in[i] = f(e)
	}

	return in
}

// renameRefsInBody walks a nested statement list rewriting every Name
// reference that matches one of this module's top-level binders.
func renameRefsInBody(body []pyast.Stmt, finals map[string]string) []pyast.Stmt {
	for _, st := range body {
		switch v := st.(type) {
		case *pyast.Return:
			if v.Value != nil {
				v.Value = renameRefs(v.Value, finals)
			}
		case *pyast.ExprStmt:
			v.Value = renameRefs(v.Value, finals)
		case *pyast.Assign:
			v.Value = renameRefs(v.Value, finals)
		case *pyast.AugAssign:
			v.Value = renameRefs(v.Value, finals)
		case *pyast.If:
			v.Test = renameRefs(v.Test, finals)
			v.Body = renameRefsInBody(v.Body, finals)
			v.OrElse = renameRefsInBody(v.OrElse, finals)
		case *pyast.Try:
			v.Body = renameRefsInBody(v.Body, finals)
			for i, h := range v.Handlers {
				v.Handlers[i] = renameRefsInBody(h, finals)
			}

			v.FinalBody = renameRefsInBody(v.FinalBody, finals)
		case *pyast.FunctionDef:
			v.Body = renameRefsInBody(v.Body, finals)
		case *pyast.ClassDef:
			v.Body = renameRefsInBody(v.Body, finals)
		}
	}

	return body
}

// renameRefs rewrites a Name matching a local binder to its final name,
// leaving every other expression shape untouched except for recursing into
// its subexpressions.
func renameRefs(e pyast.Expr, finals map[string]string) pyast.Expr {
	switch v := e.(type) {
	case *pyast.Name:
		if final, ok := finals[v.Id]; ok {
			return &pyast.Name{Id: final}
		}

		return v
	case *pyast.Attribute:
		v.Value = renameRefs(v.Value, finals)
		return v
	case *pyast.Call:
		v.Func = renameRefs(v.Func, finals)
		v.Args = mapExprs(v.Args, func(e pyast.Expr) pyast.Expr { return renameRefs(e, finals) })

		return v
	case *pyast.List:
		v.Elts = mapExprs(v.Elts, func(e pyast.Expr) pyast.Expr { return renameRefs(e, finals) })
		return v
	case *pyast.Tuple:
		v.Elts = mapExprs(v.Elts, func(e pyast.Expr) pyast.Expr { return renameRefs(e, finals) })
		return v
	default:
		return e
	}
}
