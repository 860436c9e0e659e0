package bundle

import (
	"strings"

	"github.com/cribo-go/cribo/pkg/cribo"
	"github.com/cribo-go/cribo/pkg/pyast"
)

// rewriteCtx is the Import Rewriter: a recursive AST visitor
// parameterized by the module being rewritten, whether it is the entry
// module, whether it is inside a wrapper init, and the rename map built so
// far. Grounded on pkg/corset/compiler/scope.go's ModuleScope (a stateful,
// tree-shaped resolution context threaded through a recursive descent) and
// on semantic_bundler.rs's GlobalUsageVisitor (a visitor that tracks
// "current function" context by value across descent, passing context by
// value at each descent rather than mutating a shared frame).
type rewriteCtx struct {
	b             *builder
	module        string
	isEntry       bool
	isWrapperInit bool
	// aliases maps a local name bound by "import a.b as x" or
	// "from pkg import sub" (sub an inlinable submodule) to the dotted
	// first-party path it refers to.
	aliases map[string]string
	// shadow is the set of names assigned to anywhere within the current
	// module. Computed once per module before
	// rewriting begins.
	shadow map[string]bool
}

// rewriteModule rewrites every import/from-import statement and every
// cross-module attribute expression in body, returning the transformed
// statement list. Deferred bindings are appended to b.deferred; immediate
// bindings (entry module or wrapper init) are spliced in at the import's
// original position.
func (b *builder) rewriteModule(module string, isEntry, isWrapperInit bool, body []pyast.Stmt) []pyast.Stmt {
	ctx := &rewriteCtx{
		b:             b,
		module:        module,
		isEntry:       isEntry,
		isWrapperInit: isWrapperInit,
		aliases:       make(map[string]string),
		shadow:        collectAssignedNames(body),
	}

	return ctx.rewriteBody(body)
}

// collectAssignedNames walks body (including nested function/class bodies;
// Python scoping aside, this keeps one flat shadow set per module)
// and returns every name appearing as an assignment target.
func collectAssignedNames(body []pyast.Stmt) map[string]bool {
	out := make(map[string]bool)
	var walk func([]pyast.Stmt)

	walk = func(stmts []pyast.Stmt) {
		for _, st := range stmts {
			switch v := st.(type) {
			case *pyast.Assign:
				for _, t := range v.Targets {
					if n, ok := t.(*pyast.Name); ok {
						out[n.Id] = true
					}
				}
			case *pyast.AnnAssign:
				if n, ok := v.Target.(*pyast.Name); ok {
					out[n.Id] = true
				}
			case *pyast.AugAssign:
				if n, ok := v.Target.(*pyast.Name); ok {
					out[n.Id] = true
				}
			case *pyast.FunctionDef:
				out[v.Name] = true
				walk(v.Body)
			case *pyast.ClassDef:
				out[v.Name] = true
				walk(v.Body)
			case *pyast.If:
				walk(v.Body)
				walk(v.OrElse)
			case *pyast.Try:
				walk(v.Body)
				for _, h := range v.Handlers {
					walk(h)
				}

				walk(v.FinalBody)
			}
		}
	}

	walk(body)

	return out
}

func (c *rewriteCtx) rewriteBody(body []pyast.Stmt) []pyast.Stmt {
	out := make([]pyast.Stmt, 0, len(body))

	for _, st := range body {
		out = append(out, c.rewriteStmt(st)...)
	}

	return out
}

// rewriteStmt dispatches a single statement, returning zero or more
// replacement statements (an import typically becomes zero statements at
// its original position, since its bindings are either deferred or spliced
// in as assignments).
func (c *rewriteCtx) rewriteStmt(st pyast.Stmt) []pyast.Stmt {
	switch v := st.(type) {
	case *pyast.Import:
		return c.rewriteImport(v)
	case *pyast.ImportFrom:
		return c.rewriteImportFrom(v)
	case *pyast.FunctionDef:
		v.Decorators = c.rewriteExprs(v.Decorators)
		v.Defaults = c.rewriteExprs(v.Defaults)
		v.Body = c.rewriteBody(v.Body)

		return []pyast.Stmt{v}
	case *pyast.ClassDef:
		v.Decorators = c.rewriteExprs(v.Decorators)
		v.Bases = c.rewriteExprs(v.Bases)
		v.Body = c.rewriteBody(v.Body)

		return []pyast.Stmt{v}
	case *pyast.Assign:
		v.Value = c.rewriteExpr(v.Value)
		return []pyast.Stmt{v}
	case *pyast.AnnAssign:
		v.Annotation = c.rewriteExpr(v.Annotation)
		if v.Value != nil {
			v.Value = c.rewriteExpr(v.Value)
		}

		return []pyast.Stmt{v}
	case *pyast.AugAssign:
		v.Value = c.rewriteExpr(v.Value)
		return []pyast.Stmt{v}
	case *pyast.ExprStmt:
		v.Value = c.rewriteExpr(v.Value)
		return []pyast.Stmt{v}
	case *pyast.Return:
		if v.Value != nil {
			v.Value = c.rewriteExpr(v.Value)
		}

		return []pyast.Stmt{v}
	case *pyast.If:
		v.Test = c.rewriteExpr(v.Test)
		v.Body = c.rewriteBody(v.Body)
		v.OrElse = c.rewriteBody(v.OrElse)

		return []pyast.Stmt{v}
	case *pyast.Try:
		v.Body = c.rewriteBody(v.Body)
		for i, h := range v.Handlers {
			v.Handlers[i] = c.rewriteBody(h)
		}

		v.FinalBody = c.rewriteBody(v.FinalBody)

		return []pyast.Stmt{v}
	default:
		return []pyast.Stmt{st}
	}
}

// emit either appends st to the deferred-imports buffer (non-entry,
// non-wrapper-init modules) or returns it for immediate, in-place emission.
func (c *rewriteCtx) emit(target, rhs string, st pyast.Stmt, initCall string) []pyast.Stmt {
	if c.isEntry || c.isWrapperInit {
		return []pyast.Stmt{st}
	}

	c.b.deferred.Add(cribo.DeferredImport{Target: target, CanonicalRHS: rhs, Stmt: st, InitCall: initCall})

	return nil
}

// rewriteImport handles "import M [as L]".
func (c *rewriteCtx) rewriteImport(imp *pyast.Import) []pyast.Stmt {
	var out []pyast.Stmt

	for _, alias := range imp.Names {
		dotted := c.resolve(alias.Name)
		if !c.b.isFirstParty(dotted) {
			out = append(out, &pyast.Import{Names: []pyast.Alias{alias}})
			continue
		}

		out = append(out, c.bindDottedImport(dotted, alias)...)
	}

	return out
}

// bindDottedImport implements the "plain import M [as L]" rules: every
// prefix of a dotted first-party path gets a namespace object (built, for an
// inlinable prefix, from its renamed exports; for a wrapped prefix, from its
// initializer's return value), and the alias (or the outermost prefix name,
// if unaliased) is bound at the point of use.
func (c *rewriteCtx) bindDottedImport(dotted string, alias pyast.Alias) []pyast.Stmt {
	var out []pyast.Stmt

	segments := strings.Split(dotted, ".")
	top := segments[0]

	if alias.AsName == "" {
		// Unaliased dotted import binds the outermost segment; every
		// segment must already exist as a namespace per the pre-scan, so no
		// further construction is needed here beyond recording the alias.
		c.aliases[top] = top

		return nil
	}

	rec, ok := c.b.byName[dotted]
	if !ok {
		return out
	}

	switch rec.Classification {
	case cribo.Wrapped:
		synth := cribo.SyntheticName(rec.ContentHash, rec.Name)
		call := &pyast.Call{Func: &pyast.Name{Id: cribo.InitFunctionName(synth)}}
		assign := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: alias.AsName}}, Value: call}
		c.b.registry.Record(c.module, alias.AsName, rec.Name)
		out = c.emit(alias.AsName, cribo.InitFunctionName(synth)+"()", assign, cribo.InitFunctionName(synth))
	case cribo.Inlinable:
		ns := c.b.buildNamespaceLiteral(rec)
		assign := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: alias.AsName}}, Value: ns}
		out = c.emit(alias.AsName, dotted, assign, "")
	}

	c.aliases[alias.AsName] = dotted

	return out
}

// rewriteImportFrom handles "from M import n1, n2 as a2".
func (c *rewriteCtx) rewriteImportFrom(imp *pyast.ImportFrom) []pyast.Stmt {
	canonical := c.resolveModule(imp)
	if !c.b.isFirstParty(canonical) {
		if isSafeStdlib(canonical) || canonical == "__future__" {
			// Hoisting already removed these during Ingest; if one still
			// reaches the rewriter it was not hoistable for some reason, so
			// it is left exactly where it is.
			return []pyast.Stmt{imp}
		}

		return []pyast.Stmt{imp}
	}

	var out []pyast.Stmt

	for _, alias := range imp.Names {
		subDotted := canonical + "." + alias.Name
		if sub, ok := c.b.byName[subDotted]; ok {
			out = append(out, c.bindSubmoduleNamespace(sub, alias)...)
			continue
		}

		out = append(out, c.bindPlainSymbol(canonical, alias)...)
	}

	return out
}

// bindSubmoduleNamespace handles "from M import sub" where M.sub is a known
// first-party submodule: a namespace object is built for it (inlinable) or
// its initializer invoked (wrapped).
func (c *rewriteCtx) bindSubmoduleNamespace(sub *cribo.ModuleRecord, alias pyast.Alias) []pyast.Stmt {
	local := alias.Local()

	switch sub.Classification {
	case cribo.Inlinable:
		ns := c.b.buildNamespaceLiteral(sub)
		assign := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: local}}, Value: ns}
		c.aliases[local] = sub.Name

		return c.emit(local, sub.Name, assign, "")
	case cribo.Wrapped:
		synth := cribo.SyntheticName(sub.ContentHash, sub.Name)
		call := &pyast.Call{Func: &pyast.Name{Id: cribo.InitFunctionName(synth)}}
		assign := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: local}}, Value: call}
		c.aliases[local] = sub.Name
		c.b.registry.Record(c.module, local, sub.Name)

		return c.emit(local, cribo.InitFunctionName(synth)+"()", assign, cribo.InitFunctionName(synth))
	}

	return nil
}

// bindPlainSymbol handles "from M import name [as local]" where name is an
// ordinary symbol of M (not a submodule): an inlinable M resolves to a
// direct assignment of the renamed binding (dropped when local==renamed); a
// wrapped M resolves to an init call followed by an attribute extraction.
func (c *rewriteCtx) bindPlainSymbol(canonical string, alias pyast.Alias) []pyast.Stmt {
	local := alias.Local()

	rec, ok := c.b.byName[canonical]
	if !ok {
		return nil
	}

	switch rec.Classification {
	case cribo.Inlinable:
		final, ok := c.b.renames.Lookup(canonical, alias.Name)
		if !ok {
			final = alias.Name
		}

		c.b.registry.Record(c.module, local, canonical)

		if local == final {
			return nil
		}

		assign := &pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: local}}, Value: &pyast.Name{Id: final}}

		return c.emit(local, final, assign, "")
	case cribo.Wrapped:
		synth := cribo.SyntheticName(rec.ContentHash, rec.Name)
		initCall := cribo.InitFunctionName(synth)
		tmp := "_cribo_temp_" + cribo.SanitizeModuleName(rec.Name)
		callStmt := &pyast.Assign{
			Targets: []pyast.Expr{&pyast.Name{Id: tmp}},
			Value:   &pyast.Call{Func: &pyast.Name{Id: initCall}},
		}
		extract := &pyast.Assign{
			Targets: []pyast.Expr{&pyast.Name{Id: local}},
			Value:   &pyast.Attribute{Value: &pyast.Name{Id: tmp}, Attr: alias.Name},
		}
		c.b.registry.Record(c.module, local, canonical)

		rhs := initCall + "()." + alias.Name
		out := c.emit(tmp, initCall+"()", callStmt, initCall)
		out = append(out, c.emit(local, rhs, extract, "")...)

		return out
	}

	return nil
}

// resolve resolves a possibly-relative dotted import target against the
// current module path. Only ImportFrom carries an explicit level; a plain
// "import a.b" is always absolute.
func (c *rewriteCtx) resolve(dotted string) string { return dotted }

// resolveModule resolves imp.Module against the current module path,
// handling relative ("from . import x", "from ..pkg import y") imports.
func (c *rewriteCtx) resolveModule(imp *pyast.ImportFrom) string {
	if imp.Level == 0 {
		return imp.Module
	}

	segments := strings.Split(c.module, ".")
	// A relative import inside module "a.b.c" with level 1 resolves against
	// package "a.b" (the enclosing package of the *module*, i.e. drop the
	// module's own last segment once, then one more per extra level).
	cut := len(segments) - imp.Level
	if cut < 0 {
		cut = 0
	}

	base := strings.Join(segments[:cut], ".")
	if imp.Module == "" {
		return base
	}

	if base == "" {
		return imp.Module
	}

	return base + "." + imp.Module
}
