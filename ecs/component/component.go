package component

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID identifies a component type for the life of the process. Zero
// is never issued.
type ComponentID uint32

var registry struct {
	sync.Mutex
	names []string
}

func register(name string) ComponentID {
	registry.Lock()
	defer registry.Unlock()
	registry.names = append(registry.names, name)
	return ComponentID(len(registry.names))
}

// Name returns the Go type name the id was registered with.
func Name(id ComponentID) string {
	registry.Lock()
	defer registry.Unlock()
	if id == 0 || int(id) > len(registry.names) {
		return "invalid"
	}
	return registry.names[id-1]
}

// Registered returns how many component types exist.
func Registered() int {
	registry.Lock()
	defer registry.Unlock()
	return len(registry.names)
}

// ComponentKind is the typed key used to store and fetch T.
type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{id: register(fmt.Sprintf("%T", zero))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

func (k ComponentKind[T]) String() string {
	return Name(k.id)
}

// ComponentHandle is declared once per component type at package level.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
