package latexsyntax

import (
	"fmt"

	"fortio.org/safecast"
)

// arena is a generic typed arena allocating elements behind 1-based handles,
// grounded on internal/ast/arena.go's Arena[T]. latexsyntax keeps its own
// copy rather than depending on internal/ast, since the rest of that
// package (Surge's typed statement/expression AST) has no texlab analogue.
type arena[T any] struct {
	data []*T
}

func newArena[T any](capHint uint) *arena[T] {
	return &arena[T]{data: make([]*T, 0, capHint)}
}

// allocate appends value and returns its 1-based handle.
func (a *arena[T]) allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.len()
}

// get returns a pointer to the element at the 1-based handle, or nil for 0.
func (a *arena[T]) get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return a.data[index-1]
}

func (a *arena[T]) len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("latexsyntax: arena len overflow: %w", err))
	}
	return n
}
