package cribo

import (
	"strings"
	"testing"
)

func Test_BundleError_Error_01_ModuleAndSymbol(t *testing.T) {
	err := NewBundleError(UnresolvableImport, "pkg.a", "helper", "no such module")
	msg := err.Error()

	for _, want := range []string{"UnresolvableImport", "pkg.a", "helper", "no such module"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error message %q missing %q", msg, want)
		}
	}
}

func Test_BundleError_Error_02_ModuleOnly(t *testing.T) {
	err := NewBundleError(MalformedExports, "pkg.a", "", "not a list literal")
	msg := err.Error()

	if strings.Contains(msg, "..") {
		t.Fatalf("unexpected empty-symbol artifact in %q", msg)
	}
}

func Test_ErrorKind_String_01(t *testing.T) {
	for _, k := range []ErrorKind{UnresolvableImport, UnresolvableCycle, InvariantViolation, MalformedExports, MissingSemanticInfo} {
		if k.String() == "Unknown" {
			t.Fatalf("kind %d stringified as Unknown", k)
		}
	}
}
