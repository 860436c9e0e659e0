package bundle

import (
	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// synthesizeWrapper implements the Wrapper Synthesizer for one
// Wrapped module: its body is moved inside a parameterless, idempotent
// initializer function, its own cross-module imports are rewritten exactly
// as an inlinable module's would be (except bindings are spliced in place
// rather than deferred, since nothing outside this function can see them
// until the function actually runs), module-global mutation is lifted into
// the Globals Lifter's rewrite, and a namespace object carrying every
// exported name is cached and returned.
//
// Grounded on pkg/corset/compiler/compiler.go's pass over a module's
// column/constraint declarations to build one compiled artefact per module;
// generalized here to "one initializer function per wrapped module".
func (b *builder) synthesizeWrapper(moduleID int, rec *cribo.ModuleRecord) (prelude []pyast.Stmt, initDef *pyast.FunctionDef) {
	synth := cribo.SyntheticName(rec.ContentHash, rec.Name)
	flagName := synth + "_initialized"
	resultName := synth + "_result"

	b.renames.ClaimGlobal(flagName)
	b.renames.ClaimGlobal(resultName)

	body := b.rewriteModule(rec.Name, false, true, rec.AST.Body)

	globalsPrelude, body, liftedNames, liftedByOriginal := b.liftGlobals(moduleID, rec, body, resultName)
	body = rewriteGlobalsBuiltin(body, resultName)

	var initBody []pyast.Stmt

	globalDecl := &pyast.Global{Names: append([]string{flagName, resultName}, liftedNames...)}
	initBody = append(initBody, globalDecl)

	initBody = append(initBody, &pyast.If{
		Test: &pyast.Name{Id: flagName},
		Body: []pyast.Stmt{&pyast.Return{Value: &pyast.Name{Id: resultName}}},
	})

	initBody = append(initBody, body...)
	initBody = append(initBody, &pyast.Assign{
		Targets: []pyast.Expr{&pyast.Name{Id: resultName}},
		Value:   &pyast.NamespaceObject{QualifiedName: rec.Name},
	})

	for _, name := range b.exportNames(rec) {
		source := name
		if lifted, ok := liftedByOriginal[name]; ok {
			source = lifted
		}

		initBody = append(initBody, namespaceAssign(&pyast.Name{Id: resultName}, name, &pyast.Name{Id: source}))
	}

	if rec.HasExplicitAll {
		initBody = append(initBody, namespaceAssign(&pyast.Name{Id: resultName}, "__all__", pyast.StringList(rec.Exports)))
	}

	initBody = append(initBody,
		namespaceAssign(&pyast.Name{Id: resultName}, "__name__", pyast.StringConst(rec.Name)),
		&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: flagName}}, Value: &pyast.Constant{Value: true}},
		&pyast.Return{Value: &pyast.Name{Id: resultName}},
	)

	initDef = &pyast.FunctionDef{Name: cribo.InitFunctionName(synth), Body: initBody}

	prelude = append(prelude, &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: flagName}}, Value: &pyast.Constant{Value: false}})
	prelude = append(prelude, globalsPrelude...)

	return prelude, initDef
}

// exportNames applies the should_export filter: a module's own
// export list (explicit __all__ or the derived set), narrowed further by
// the optional tree-shaker's liveness results when one was supplied.
func (b *builder) exportNames(rec *cribo.ModuleRecord) []string {
	if b.params.Shaker == nil {
		return rec.Exports
	}

	used, ok := b.params.Shaker.GetUsedSymbolsForModule(rec.Name)
	if !ok {
		return rec.Exports
	}

	out := make([]string, 0, len(rec.Exports))

	for _, n := range rec.Exports {
		if used[n] {
			out = append(out, n)
		}
	}

	return out
}

// rewriteGlobalsBuiltin replaces a bare call to the builtin `globals()`
// anywhere in a wrapped module's body with an attribute access on the
// module's own namespace object's `__dict__`, so that code relying on
// `globals()` to introspect or mutate its own module-level bindings keeps
// working once those bindings live on a namespace object instead of in a
// real module's __dict__.
func rewriteGlobalsBuiltin(body []pyast.Stmt, resultName string) []pyast.Stmt {
	for _, st := range body {
		switch v := st.(type) {
		case *pyast.Assign:
			v.Value = rewriteGlobalsExpr(v.Value, resultName)
		case *pyast.AnnAssign:
			if v.Value != nil {
				v.Value = rewriteGlobalsExpr(v.Value, resultName)
			}
		case *pyast.AugAssign:
			v.Value = rewriteGlobalsExpr(v.Value, resultName)
		case *pyast.ExprStmt:
			v.Value = rewriteGlobalsExpr(v.Value, resultName)
		case *pyast.Return:
			if v.Value != nil {
				v.Value = rewriteGlobalsExpr(v.Value, resultName)
			}
		case *pyast.If:
			v.Test = rewriteGlobalsExpr(v.Test, resultName)
			v.Body = rewriteGlobalsBuiltin(v.Body, resultName)
			v.OrElse = rewriteGlobalsBuiltin(v.OrElse, resultName)
		case *pyast.Try:
			v.Body = rewriteGlobalsBuiltin(v.Body, resultName)
			for i, h := range v.Handlers {
				v.Handlers[i] = rewriteGlobalsBuiltin(h, resultName)
			}

			v.FinalBody = rewriteGlobalsBuiltin(v.FinalBody, resultName)
		case *pyast.FunctionDef:
			v.Body = rewriteGlobalsBuiltin(v.Body, resultName)
		case *pyast.ClassDef:
			v.Body = rewriteGlobalsBuiltin(v.Body, resultName)
		}
	}

	return body
}

func rewriteGlobalsExpr(e pyast.Expr, resultName string) pyast.Expr {
	switch v := e.(type) {
	case *pyast.Call:
		if name, ok := v.Func.(*pyast.Name); ok && name.Id == "globals" && len(v.Args) == 0 {
			return &pyast.Attribute{Value: &pyast.Name{Id: resultName}, Attr: "__dict__"}
		}

		v.Func = rewriteGlobalsExpr(v.Func, resultName)
		for i, a := range v.Args {
			v.Args[i] = rewriteGlobalsExpr(a, resultName)
		}

		return v
	case *pyast.Attribute:
		v.Value = rewriteGlobalsExpr(v.Value, resultName)
		return v
	case *pyast.List:
		for i, el := range v.Elts {
			v.Elts[i] = rewriteGlobalsExpr(el, resultName)
		}

		return v
	case *pyast.Tuple:
		for i, el := range v.Elts {
			v.Elts[i] = rewriteGlobalsExpr(el, resultName)
		}

		return v
	default:
		return e
	}
}
