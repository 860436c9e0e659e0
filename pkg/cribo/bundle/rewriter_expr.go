package bundle

import "github.com/cribo-go/cribo/pkg/pyast"

// rewriteExprs rewrites each element of a slice in place, a convenience for
// the decorator/default-value/base-class lists that rewriteStmt threads
// through.
func (c *rewriteCtx) rewriteExprs(in []pyast.Expr) []pyast.Expr {
	for i, e := range in {
		in[i] = c.rewriteExpr(e)
	}

	return in
}

// rewriteExpr rewrites a single expression, descending into every
// subexpression. Its only meaningful work is on Name/Attribute chains: a
// chain whose head is a recorded module alias has its head replaced by the
// alias's dotted target, unless the head name is in the current module's
// shadow set, in which case it is
// left untouched (the name is a local variable, not the import any more).
func (c *rewriteCtx) rewriteExpr(e pyast.Expr) pyast.Expr {
	switch v := e.(type) {
	case *pyast.Name:
		if c.shadow[v.Id] {
			return v
		}

		if target, ok := c.aliases[v.Id]; ok && target != v.Id {
			return pathExpr(target)
		}

		return v
	case *pyast.Attribute:
		if segments, ok := pyast.Chain(v); ok && len(segments) > 0 {
			if !c.shadow[segments[0]] {
				if target, ok := c.aliases[segments[0]]; ok {
					rebuilt := target
					for _, seg := range segments[1:] {
						rebuilt += "." + seg
					}

					return pathExpr(rebuilt)
				}
			}
		}

		v.Value = c.rewriteExpr(v.Value)

		return v
	case *pyast.Call:
		v.Func = c.rewriteExpr(v.Func)
		v.Args = c.rewriteExprs(v.Args)

		return v
	case *pyast.List:
		v.Elts = c.rewriteExprs(v.Elts)
		return v
	case *pyast.Tuple:
		v.Elts = c.rewriteExprs(v.Elts)
		return v
	case *pyast.JoinedStr:
		for _, part := range v.Parts {
			if part.Value != nil {
				part.Value = c.rewriteExpr(part.Value)
			}
		}

		return v
	default:
		return e
	}
}
