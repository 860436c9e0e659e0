package pyast

import "testing"

func Test_Children_01(t *testing.T) {
	mod := &Module{
		Name: "pkg.mod",
		Body: []Stmt{
			&Assign{Targets: []Expr{&Name{Id: "x"}}, Value: &Constant{Value: 1}},
			&FunctionDef{Name: "f", Body: []Stmt{&Return{Value: &Name{Id: "x"}}}},
		},
	}

	kids := Children(mod)
	if len(kids) != 2 {
		t.Fatalf("expected 2 top-level children, got %d", len(kids))
	}

	fn, ok := kids[1].(*FunctionDef)
	if !ok {
		t.Fatalf("expected second child to be a FunctionDef, got %T", kids[1])
	}

	inner := Children(fn)
	if len(inner) != 1 {
		t.Fatalf("expected function body to contribute 1 child, got %d", len(inner))
	}
}

func Test_Children_02_LeavesHaveNone(t *testing.T) {
	for _, n := range []Node{&Pass{}, &Name{Id: "x"}, &Constant{Value: "s"}, &Global{Names: []string{"x"}}} {
		if kids := Children(n); kids != nil {
			t.Fatalf("%T: expected no children, got %v", n, kids)
		}
	}
}

func Test_Base_SetIndex_PanicsOnReuse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double-stamp")
		}
	}()

	n := &Name{Id: "x"}
	n.SetIndex(1)
	n.SetIndex(2)
}

func Test_Chain_01_FlattensDottedAttribute(t *testing.T) {
	expr := &Attribute{Value: &Attribute{Value: &Name{Id: "a"}, Attr: "b"}, Attr: "c"}

	segments, ok := Chain(expr)
	if !ok {
		t.Fatal("expected Chain to succeed on a pure name/attribute chain")
	}

	want := []string{"a", "b", "c"}
	if len(segments) != len(want) {
		t.Fatalf("got %v, want %v", segments, want)
	}

	for i := range want {
		if segments[i] != want[i] {
			t.Fatalf("got %v, want %v", segments, want)
		}
	}
}

func Test_Chain_02_FailsThroughACall(t *testing.T) {
	expr := &Attribute{Value: &Call{Func: &Name{Id: "f"}}, Attr: "x"}

	if _, ok := Chain(expr); ok {
		t.Fatal("expected Chain to fail once a Call interrupts the attribute chain")
	}
}
