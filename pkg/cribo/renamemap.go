package cribo

import "fmt"

// RenameMap holds, per module, the original-to-final symbol mapping produced
// by the Inliner and consumed by every downstream emission phase.
// Identity entries (original == final) are retained deliberately: they still
// participate in attribute population when a namespace is built over an
// inlined module's exports.
type RenameMap struct {
	byModule map[string]map[string]string
	// global is the set of final names already claimed bundle-wide, used to
	// detect collisions when assigning a fresh final name.
	global map[string]bool
}

// NewRenameMap constructs an empty rename map.
func NewRenameMap() *RenameMap {
	return &RenameMap{
		byModule: make(map[string]map[string]string),
		global:   make(map[string]bool),
	}
}

// Record associates original with final within module's rename map, and
// marks final as claimed in the bundle-wide global-symbol set. Panics if
// this (module, original) pair was already recorded, or if final is already
// claimed by a different (module, original) pair: either signals a bug in
// the Inliner's collision-avoidance logic, never a property of bad input.
func (r *RenameMap) Record(module, original, final string) {
	m, ok := r.byModule[module]
	if !ok {
		m = make(map[string]string)
		r.byModule[module] = m
	}

	if existing, ok := m[original]; ok {
		panic(fmt.Sprintf("rename map: %s.%s already recorded as %s", module, original, existing))
	}

	for otherModule, names := range r.byModule {
		for otherOriginal, otherFinal := range names {
			if otherFinal == final {
				panic(fmt.Sprintf("rename map: %s already claimed by %s.%s", final, otherModule, otherOriginal))
			}
		}
	}

	m[original] = final
	r.global[final] = true
}

// Lookup returns the final name for (module, original), or ok=false if no
// rename was ever recorded (e.g. because original is not a top-level symbol
// of module).
func (r *RenameMap) Lookup(module, original string) (final string, ok bool) {
	m, ok := r.byModule[module]
	if !ok {
		return "", false
	}

	final, ok = m[original]

	return final, ok
}

// IsGlobalClaimed reports whether name has already been claimed as a final
// name by some module, bundle-wide.
func (r *RenameMap) IsGlobalClaimed(name string) bool {
	return r.global[name]
}

// ClaimGlobal reserves name in the bundle-wide global-symbol set without
// associating it with any particular module rename (used for intrinsics,
// synthetic names, and lifted globals which are not per-module renames but
// still must not collide with one).
func (r *RenameMap) ClaimGlobal(name string) {
	r.global[name] = true
}

// FreshName computes the final-name selection for a top-level
// definition: prefer semanticRename if non-empty; otherwise, if original
// collides with the bundle-wide global-symbol set, suffix with
// sanitizedModulePath and, on further collision, append "_<n>"; otherwise
// keep original.
func (r *RenameMap) FreshName(original, semanticRename, sanitizedModulePath string) string {
	if semanticRename != "" {
		return semanticRename
	}

	if !r.IsGlobalClaimed(original) {
		return original
	}

	candidate := original + "_" + sanitizedModulePath
	if !r.IsGlobalClaimed(candidate) {
		return candidate
	}

	for n := 2; ; n++ {
		next := fmt.Sprintf("%s_%d", candidate, n)
		if !r.IsGlobalClaimed(next) {
			return next
		}
	}
}
