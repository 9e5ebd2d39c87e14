package bibsyntax

import (
	"fmt"

	"fortio.org/safecast"
)

// arena is a generic typed arena allocating elements behind 1-based handles,
// grounded on internal/ast/arena.go's Arena[T] (see internal/latexsyntax's
// copy of the same pattern).
type arena[T any] struct {
	data []*T
}

func newArena[T any](capHint uint) *arena[T] {
	return &arena[T]{data: make([]*T, 0, capHint)}
}

func (a *arena[T]) allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.len()
}

func (a *arena[T]) get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return a.data[index-1]
}

func (a *arena[T]) len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("bibsyntax: arena len overflow: %w", err))
	}
	return n
}
