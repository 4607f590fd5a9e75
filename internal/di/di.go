// Package di provides a minimal string-token service container used to wire
// bounded-context modules together without import cycles.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves registered services by token.
type ServiceRegistry interface {
	// Get returns the service registered under token, resolving lazy
	// factories on first use. Panics if the token is unknown.
	Get(token string) any
}

// Container extends ServiceRegistry with registration.
type Container interface {
	ServiceRegistry

	// Register stores an already-constructed service under token.
	Register(token string, svc any)

	// RegisterFactory stores a lazy factory; the service is constructed
	// on first Get and memoized.
	RegisterFactory(token string, factory func(ServiceRegistry) any)
}

type entry struct {
	once    sync.Once
	factory func(ServiceRegistry) any
	value   any
}

type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewContainer creates an empty Container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(token string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &entry{value: svc}
	e.once.Do(func() {}) // already resolved
	c.entries[token] = e
}

func (c *container) RegisterFactory(token string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = &entry{factory: factory}
}

func (c *container) Get(token string) any {
	c.mu.RLock()
	e, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("di: unknown service token %q", token))
	}

	e.once.Do(func() {
		if e.factory != nil {
			e.value = e.factory(c)
		}
	})
	return e.value
}

// Token is a typed service token. The type parameter documents and
// enforces the service type at registration and resolution.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token with the given unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// String returns the token name.
func (t Token[T]) String() string {
	return t.name
}

// RegisterToken registers a typed lazy factory under token.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the service registered under token with its concrete type.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc, ok := sr.Get(token.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type %T", token.name, sr.Get(token.name)))
	}
	return svc
}
