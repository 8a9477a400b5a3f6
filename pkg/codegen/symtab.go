package codegen

import "github.com/llir/llvm/ir/value"

// symtab is the code generator's name→storage table: a flat map from
// declared variable name to the `alloca` instruction backing it.
//
// spec.md §9 raises scoping as an Open Question ("does each Control block
// get its own scope, or do all declarations share one flat table"). This
// resolves it the same way smog's pkg/compiler/compiler.go resolves
// variable binding: one flat map for the whole compilation unit. A
// Decl inside an `if` or `while` body is visible for the rest of the
// function exactly like a top-level Decl would be — see DESIGN.md.
type symtab struct {
	slots map[string]value.Value
}

func newSymtab() *symtab {
	return &symtab{slots: make(map[string]value.Value)}
}

func (s *symtab) define(name string, slot value.Value) {
	s.slots[name] = slot
}

func (s *symtab) lookup(name string) (value.Value, bool) {
	v, ok := s.slots[name]
	return v, ok
}
