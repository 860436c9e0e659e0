package bundle

import (
	"sort"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// liftGlobals implements the Globals Lifter: a module that is
// wrapped inside an initializer function loses Python's normal module-global
// scope, so any variable the module's functions mutate via `global v` has to
// be promoted to a real bundle-level global under a fresh, bundle-unique
// name. prelude holds the top-level "<lifted> = None" declarations (to be
// emitted once, ahead of every initializer); out is body with every
// reference to a lifted variable, and every `global` statement naming one,
// rewritten to the lifted name. Every assignment to a lifted variable that
// happens inside a nested function body also gets a trailing sync-back write
// onto resultName, since such an assignment runs only after the initializer
// has already returned the namespace object and the namespace's own
// attribute needs to keep reflecting the variable's current value.
// byOriginal maps each lifted variable's original name to its final lifted
// name, so a caller can re-attach an export under the name its value now
// actually lives under.
//
// Grounded on original_source/crates/cribo/src/semantic_bundler.rs's
// GlobalUsageVisitor: the collaborator already computes exactly the
// information this phase needs (ModuleLevelVars, GlobalDeclarations,
// FunctionsUsingGlobals), so the Go side is a straightforward consumer
// rather than a reimplementation of the visitor itself.
func (b *builder) liftGlobals(moduleID int, rec *cribo.ModuleRecord, body []pyast.Stmt, resultName string) (prelude, out []pyast.Stmt, liftedNames []string, byOriginal map[string]string) {
	info := b.params.Semantic.AnalyzeModuleGlobals(moduleID, rec.AST, rec.Name)
	if len(info.GlobalDeclarations) == 0 {
		return nil, body, nil, nil
	}

	vars := make([]string, 0, len(info.GlobalDeclarations))
	for v := range info.GlobalDeclarations {
		vars = append(vars, v)
	}

	sort.Strings(vars)

	sanitized := cribo.SanitizeModuleName(rec.Name)
	lifted := make(map[string]string, len(vars))

	for _, v := range vars {
		name := freshGlobalName(b, sanitized, v)
		lifted[v] = name
		liftedNames = append(liftedNames, name)
		prelude = append(prelude, &pyast.Assign{
			Targets: []pyast.Expr{&pyast.Name{Id: name}},
			Value:   pyast.NoneConst(),
		})
	}

	return prelude, renameGlobalsInBody(body, lifted, resultName, false), liftedNames, lifted
}

// freshGlobalName derives a bundle-unique name for a lifted module-global,
// claiming it in the shared rename map's global-symbol set so it can never
// collide with a renamed top-level definition from any module.
func freshGlobalName(b *builder, sanitizedModule, original string) string {
	candidate := "_cribo_" + sanitizedModule + "_" + original
	if !b.renames.IsGlobalClaimed(candidate) {
		b.renames.ClaimGlobal(candidate)
		return candidate
	}

	for n := 2; ; n++ {
		next := candidate + "_" + itoa(n)
		if !b.renames.IsGlobalClaimed(next) {
			b.renames.ClaimGlobal(next)
			return next
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// renameGlobalsInBody walks a statement tree (module level and every nested
// function/class body) replacing Name references to a lifted variable and
// the Names list of any `global` statement naming one. insideFunction tracks
// whether st runs inside a nested function body (true) or during the
// initializer's own top-level execution (false, also true for a class
// body's suite): only a write happening inside a nested function is safe to
// follow with a resultName sync-back, since resultName itself is not
// constructed until after the initializer's top-level body has already run
// once.
func renameGlobalsInBody(body []pyast.Stmt, lifted map[string]string, resultName string, insideFunction bool) []pyast.Stmt {
	out := make([]pyast.Stmt, 0, len(body))

	for _, st := range body {
		switch v := st.(type) {
		case *pyast.Global:
			for i, n := range v.Names {
				if final, ok := lifted[n]; ok {
					v.Names[i] = final
				}
			}

			out = append(out, v)
		case *pyast.Assign:
			originals := assignedLiftedOriginals(v.Targets, lifted)

			v.Value = renameGlobalsInExpr(v.Value, lifted)
			for i, t := range v.Targets {
				v.Targets[i] = renameGlobalsInExpr(t, lifted)
			}

			out = append(out, v)
			if insideFunction {
				out = append(out, syncBackStmts(originals, lifted, resultName)...)
			}
		case *pyast.AnnAssign:
			originals := assignedLiftedOriginals([]pyast.Expr{v.Target}, lifted)

			v.Annotation = renameGlobalsInExpr(v.Annotation, lifted)
			if v.Value != nil {
				v.Value = renameGlobalsInExpr(v.Value, lifted)
			}

			v.Target = renameGlobalsInExpr(v.Target, lifted)
			out = append(out, v)
			if insideFunction {
				out = append(out, syncBackStmts(originals, lifted, resultName)...)
			}
		case *pyast.AugAssign:
			originals := assignedLiftedOriginals([]pyast.Expr{v.Target}, lifted)

			v.Value = renameGlobalsInExpr(v.Value, lifted)
			v.Target = renameGlobalsInExpr(v.Target, lifted)
			out = append(out, v)
			if insideFunction {
				out = append(out, syncBackStmts(originals, lifted, resultName)...)
			}
		case *pyast.ExprStmt:
			v.Value = renameGlobalsInExpr(v.Value, lifted)
			out = append(out, v)
		case *pyast.Return:
			if v.Value != nil {
				v.Value = renameGlobalsInExpr(v.Value, lifted)
			}

			out = append(out, v)
		case *pyast.If:
			v.Test = renameGlobalsInExpr(v.Test, lifted)
			v.Body = renameGlobalsInBody(v.Body, lifted, resultName, insideFunction)
			v.OrElse = renameGlobalsInBody(v.OrElse, lifted, resultName, insideFunction)
			out = append(out, v)
		case *pyast.Try:
			v.Body = renameGlobalsInBody(v.Body, lifted, resultName, insideFunction)
			for i, h := range v.Handlers {
				v.Handlers[i] = renameGlobalsInBody(h, lifted, resultName, insideFunction)
			}

			v.FinalBody = renameGlobalsInBody(v.FinalBody, lifted, resultName, insideFunction)
			out = append(out, v)
		case *pyast.FunctionDef:
			v.Decorators = mapExprsGlobal(v.Decorators, lifted)
			v.Defaults = mapExprsGlobal(v.Defaults, lifted)
			v.Body = renameGlobalsInBody(v.Body, lifted, resultName, true)
			out = append(out, v)
		case *pyast.ClassDef:
			v.Bases = mapExprsGlobal(v.Bases, lifted)
			v.Decorators = mapExprsGlobal(v.Decorators, lifted)
			v.Body = renameGlobalsInBody(v.Body, lifted, resultName, insideFunction)
			out = append(out, v)
		default:
			out = append(out, st)
		}
	}

	return out
}

// assignedLiftedOriginals returns the original (pre-lift) names among
// targets that name a lifted variable, in target order. It must be called
// before the targets are rewritten to their lifted names.
func assignedLiftedOriginals(targets []pyast.Expr, lifted map[string]string) []string {
	var originals []string

	for _, t := range targets {
		n, ok := t.(*pyast.Name)
		if !ok {
			continue
		}

		if _, ok := lifted[n.Id]; ok {
			originals = append(originals, n.Id)
		}
	}

	return originals
}

// syncBackStmts builds "resultName.<original> = <lifted>" attribute writes
// for each name in originals, keeping the namespace object's own attributes
// in sync with a lifted global's current value after a nested function
// reassigns it.
func syncBackStmts(originals []string, lifted map[string]string, resultName string) []pyast.Stmt {
	var stmts []pyast.Stmt

	for _, original := range originals {
		stmts = append(stmts, namespaceAssign(&pyast.Name{Id: resultName}, original, &pyast.Name{Id: lifted[original]}))
	}

	return stmts
}

func mapExprsGlobal(in []pyast.Expr, lifted map[string]string) []pyast.Expr {
	for i, e := range in {
		in[i] = renameGlobalsInExpr(e, lifted)
	}

	return in
}

func renameGlobalsInExpr(e pyast.Expr, lifted map[string]string) pyast.Expr {
	switch v := e.(type) {
	case *pyast.Name:
		if final, ok := lifted[v.Id]; ok {
			return &pyast.Name{Id: final}
		}

		return v
	case *pyast.Attribute:
		v.Value = renameGlobalsInExpr(v.Value, lifted)
		return v
	case *pyast.Call:
		v.Func = renameGlobalsInExpr(v.Func, lifted)
		v.Args = mapExprsGlobal(v.Args, lifted)

		return v
	case *pyast.List:
		v.Elts = mapExprsGlobal(v.Elts, lifted)
		return v
	case *pyast.Tuple:
		v.Elts = mapExprsGlobal(v.Elts, lifted)
		return v
	default:
		return e
	}
}
