package cribo

import "fmt"

// ErrorKind enumerates the fatal build-failure categories.
type ErrorKind int

const (
	// UnresolvableImport: a relative or absolute import that cannot be
	// resolved within the module set.
	UnresolvableImport ErrorKind = iota
	// UnresolvableCycle: cycle analysis marked a group unresolvable and
	// symbol ordering cannot find any admissible emission order.
	UnresolvableCycle
	// InvariantViolation: a post-condition was violated.
	InvariantViolation
	// MalformedExports: __all__ was present but not a list/tuple of string
	// literals.
	MalformedExports
	// MissingSemanticInfo: a module referenced by another lacks analysis
	// data.
	MissingSemanticInfo
)

func (k ErrorKind) String() string {
	switch k {
	case UnresolvableImport:
		return "UnresolvableImport"
	case UnresolvableCycle:
		return "UnresolvableCycle"
	case InvariantViolation:
		return "InvariantViolation"
	case MalformedExports:
		return "MalformedExports"
	case MissingSemanticInfo:
		return "MissingSemanticInfo"
	default:
		return "Unknown"
	}
}

// BundleError is the structured error type every phase reports through.
// It deliberately mirrors the original implementation's sexp.SyntaxError /
// corset.SyntaxError: a concrete struct carrying enough context for a caller
// to switch on Kind rather than parse Error()'s string.
type BundleError struct {
	Kind ErrorKind
	// Module is the dotted module name the error concerns, if any.
	Module string
	// Symbol is the symbol name the error concerns, if any.
	Symbol string
	// Msg is a human-readable description.
	Msg string
}

// NewBundleError constructs a BundleError.
func NewBundleError(kind ErrorKind, module, symbol, msg string) *BundleError {
	return &BundleError{Kind: kind, Module: module, Symbol: symbol, Msg: msg}
}

// Error implements the error interface.
func (e *BundleError) Error() string {
	switch {
	case e.Module != "" && e.Symbol != "":
		return fmt.Sprintf("%s: %s.%s: %s", e.Kind, e.Module, e.Symbol, e.Msg)
	case e.Module != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Module, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}
