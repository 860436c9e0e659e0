package pyast

import (
	"fmt"
	"strings"
)

// Alias names a single imported (or import-from'd) symbol together with its
// optional local binding, e.g. "a.b as x" or "name as local".
type Alias struct {
	Name  string
	AsName string
}

// Local returns the effective local binding for this alias: AsName if
// present, otherwise Name.
func (a Alias) Local() string {
	if a.AsName != "" {
		return a.AsName
	}

	return a.Name
}

// Import models "import a.b.c [as x], d [as y]".
type Import struct {
	Base
	Names []Alias
}

func (s *Import) stmt() {}
func (s *Import) Dump() string {
	parts := make([]string, len(s.Names))
	for i, a := range s.Names {
		parts[i] = dumpAlias(a)
	}

	return fmt.Sprintf("(import %s)", strings.Join(parts, " "))
}

// ImportFrom models "from .rel.module import n1, n2 as a2". Level counts
// leading dots of a relative import (0 for an absolute import).
type ImportFrom struct {
	Base
	Module string
	Level  int
	Names  []Alias
}

func (s *ImportFrom) stmt() {}
func (s *ImportFrom) Dump() string {
	parts := make([]string, len(s.Names))
	for i, a := range s.Names {
		parts[i] = dumpAlias(a)
	}

	return fmt.Sprintf("(import-from %q %d %s)", s.Module, s.Level, strings.Join(parts, " "))
}

func dumpAlias(a Alias) string {
	if a.AsName != "" {
		return fmt.Sprintf("%s-as-%s", a.Name, a.AsName)
	}

	return a.Name
}

// FunctionDef models a top-level or nested "def name(...): ...".
type FunctionDef struct {
	Base
	Name       string
	Params     []string
	Decorators []Expr
	Defaults   []Expr
	Body       []Stmt
}

func (s *FunctionDef) stmt() {}
func (s *FunctionDef) Dump() string {
	return fmt.Sprintf("(def %s %s)", s.Name, dumpStmts(s.Body))
}

// ClassDef models a top-level or nested "class Name(bases): ...".
type ClassDef struct {
	Base
	Name       string
	Bases      []Expr
	Decorators []Expr
	Body       []Stmt
}

func (s *ClassDef) stmt() {}
func (s *ClassDef) Dump() string {
	return fmt.Sprintf("(class %s %s)", s.Name, dumpStmts(s.Body))
}

// Assign models "target = value" (and, via Targets, chained assignment
// "a = b = value"). Single-target is the overwhelmingly common case.
type Assign struct {
	Base
	Targets []Expr
	Value   Expr
}

func (s *Assign) stmt() {}
func (s *Assign) Dump() string {
	names := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		names[i] = t.Dump()
	}

	return fmt.Sprintf("(assign (%s) %s)", strings.Join(names, " "), s.Value.Dump())
}

// AnnAssign models "target: annotation = value" (Value may be nil).
type AnnAssign struct {
	Base
	Target     Expr
	Annotation Expr
	Value      Expr
}

func (s *AnnAssign) stmt() {}
func (s *AnnAssign) Dump() string {
	if s.Value == nil {
		return fmt.Sprintf("(ann-assign %s %s)", s.Target.Dump(), s.Annotation.Dump())
	}

	return fmt.Sprintf("(ann-assign %s %s %s)", s.Target.Dump(), s.Annotation.Dump(), s.Value.Dump())
}

// AugAssign models "target op= value", e.g. "x += 1".
type AugAssign struct {
	Base
	Target Expr
	Op     string
	Value  Expr
}

func (s *AugAssign) stmt() {}
func (s *AugAssign) Dump() string {
	return fmt.Sprintf("(aug-assign %s %s %s)", s.Target.Dump(), s.Op, s.Value.Dump())
}

// ExprStmt models a bare expression statement, e.g. a docstring literal or a
// call made for its side effect.
type ExprStmt struct {
	Base
	Value Expr
}

func (s *ExprStmt) stmt() {}
func (s *ExprStmt) Dump() string { return fmt.Sprintf("(expr-stmt %s)", s.Value.Dump()) }

// Pass models the "pass" statement.
type Pass struct{ Base }

func (s *Pass) stmt()        {}
func (s *Pass) Dump() string { return "(pass)" }

// Global models "global n1, n2, ...".
type Global struct {
	Base
	Names []string
}

func (s *Global) stmt() {}
func (s *Global) Dump() string {
	return fmt.Sprintf("(global %s)", strings.Join(s.Names, " "))
}

// Return models "return value" (Value may be nil for a bare return).
type Return struct {
	Base
	Value Expr
}

func (s *Return) stmt() {}
func (s *Return) Dump() string {
	if s.Value == nil {
		return "(return)"
	}

	return fmt.Sprintf("(return %s)", s.Value.Dump())
}

// If models "if test: body else: orelse".
type If struct {
	Base
	Test   Expr
	Body   []Stmt
	OrElse []Stmt
}

func (s *If) stmt() {}
func (s *If) Dump() string {
	return fmt.Sprintf("(if %s %s %s)", s.Test.Dump(), dumpStmts(s.Body), dumpStmts(s.OrElse))
}

// Try models a minimal "try: body except: handlers finally: finalBody".
// Handler bodies are flattened; the distinction between handlers is not
// needed by any bundler phase (none of them special-case exception types).
type Try struct {
	Base
	Body      []Stmt
	Handlers  [][]Stmt
	FinalBody []Stmt
}

func (s *Try) stmt() {}
func (s *Try) Dump() string {
	handlers := make([]string, len(s.Handlers))
	for i, h := range s.Handlers {
		handlers[i] = dumpStmts(h)
	}

	return fmt.Sprintf("(try %s (%s) %s)", dumpStmts(s.Body), strings.Join(handlers, " "), dumpStmts(s.FinalBody))
}

// TypeAlias models "type X = ...", emitted unchanged by the Inliner.
type TypeAlias struct {
	Base
	Name  string
	Value Expr
}

func (s *TypeAlias) stmt() {}
func (s *TypeAlias) Dump() string { return fmt.Sprintf("(type-alias %s %s)", s.Name, s.Value.Dump()) }

func dumpStmts(body []Stmt) string {
	parts := make([]string, len(body))
	for i, s := range body {
		parts[i] = s.Dump()
	}

	return "(" + strings.Join(parts, " ") + ")"
}
