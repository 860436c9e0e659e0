package cribo

import (
	"testing"

	"github.com/cribo-go/cribo/pkg/pyast"
)

func Test_TransformContext_ReserveModuleRange_01_EveryNodeStamped(t *testing.T) {
	body := []pyast.Stmt{
		&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "x"}}, Value: &pyast.Constant{Value: 1}},
		&pyast.FunctionDef{Name: "f", Body: []pyast.Stmt{&pyast.Return{Value: &pyast.Name{Id: "x"}}}},
	}

	tc := NewTransformContext()
	tc.ReserveModuleRange(0, body)

	for _, st := range body {
		if st.Index() == 0 {
			t.Fatalf("expected every top-level statement to be stamped, found zero index on %T", st)
		}
	}

	fn := body[1].(*pyast.FunctionDef)
	if fn.Body[0].Index() == 0 {
		t.Fatal("expected nested statements to be stamped too")
	}
}

func Test_TransformContext_ReserveModuleRange_02_DisjointRanges(t *testing.T) {
	tc := NewTransformContext()

	a := []pyast.Stmt{&pyast.Pass{}}
	b := []pyast.Stmt{&pyast.Pass{}}

	tc.ReserveModuleRange(0, a)
	tc.ReserveModuleRange(1, b)

	if a[0].Index() >= indexRangeSize || b[0].Index() < indexRangeSize {
		t.Fatalf("expected module 0's range below %d and module 1's range at or above it, got %d and %d",
			indexRangeSize, a[0].Index(), b[0].Index())
	}
}

func Test_TransformContext_StampSynthetic_01_SkipsAlreadyStamped(t *testing.T) {
	tc := NewTransformContext()

	stamped := &pyast.Pass{}
	stamped.SetIndex(5)

	tc.StampSynthetic(stamped)
	if stamped.Index() != 5 {
		t.Fatalf("expected an already-stamped node to keep its index, got %d", stamped.Index())
	}
}

func Test_TransformContext_StampSynthetic_02_StampsUnstamped(t *testing.T) {
	tc := NewTransformContext()

	n := &pyast.Name{Id: "tmp"}
	tc.StampSynthetic(n)

	if n.Index() == 0 {
		t.Fatal("expected an unstamped node to receive a nonzero synthetic index")
	}
}
