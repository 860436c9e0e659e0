package cribo

import "testing"

func Test_RenameMap_FreshName_01_NoCollision(t *testing.T) {
	r := NewRenameMap()

	got := r.FreshName("helper", "", "pkg_sub")
	if got != "helper" {
		t.Fatalf("got %q, want %q", got, "helper")
	}
}

func Test_RenameMap_FreshName_02_SuffixesOnCollision(t *testing.T) {
	r := NewRenameMap()
	r.Record("pkg.a", "helper", "helper")

	got := r.FreshName("helper", "", "pkg_b")
	if got != "helper_pkg_b" {
		t.Fatalf("got %q, want %q", got, "helper_pkg_b")
	}
}

func Test_RenameMap_FreshName_03_NumericFallback(t *testing.T) {
	r := NewRenameMap()
	r.Record("pkg.a", "helper", "helper")
	r.Record("pkg.b", "helper2", "helper_pkg_b")

	got := r.FreshName("helper", "", "pkg_b")
	if got != "helper_pkg_b_2" {
		t.Fatalf("got %q, want %q", got, "helper_pkg_b_2")
	}
}

func Test_RenameMap_FreshName_04_SemanticRenameWins(t *testing.T) {
	r := NewRenameMap()

	got := r.FreshName("helper", "helper_from_semantic", "pkg_b")
	if got != "helper_from_semantic" {
		t.Fatalf("got %q, want %q", got, "helper_from_semantic")
	}
}

func Test_RenameMap_Record_PanicsOnDuplicateOriginal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic recording the same (module, original) twice")
		}
	}()

	r := NewRenameMap()
	r.Record("pkg.a", "helper", "helper")
	r.Record("pkg.a", "helper", "helper_renamed")
}

func Test_RenameMap_Lookup_UnknownIsNotOK(t *testing.T) {
	r := NewRenameMap()
	if _, ok := r.Lookup("pkg.a", "nope"); ok {
		t.Fatal("expected ok=false for a name never recorded")
	}
}
