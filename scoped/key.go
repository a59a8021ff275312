// Package scoped provides scoped goroutine-local storage.
//
// A Key holds a borrowed pointer to a value for the dynamic extent of a
// single call. Code running inside that call, on the same goroutine, can
// read the pointer back. When the call returns or panics, whatever the key
// held before is restored.
//
//	var current = scoped.Declare[Request]("request")
//
//	current.Set(&req, func() {
//		handle() // current.Get() == &req in here
//	})
//	// current.IsSet() == false again
//
// Each goroutine has its own slot. Goroutines started inside Set with a
// plain go statement begin unset.
package scoped

import (
	"fmt"

	"github.com/AikidoSec/scopedtls-go/internal/cell"
	"github.com/AikidoSec/scopedtls-go/internal/log"
)

// Key is a scoped goroutine-local slot holding a *T.
//
// T may be an interface or slice type: the slot stores a pointer to the
// caller's interface value or slice header and never copies it.
// The zero value is an unnamed key ready for use. Keys must not be copied
// after first use.
type Key[T any] struct {
	name  string
	doc   string
	slots cell.Cell[T]
}

// Option configures a Key at declaration time.
type Option func(*declaration)

type declaration struct {
	doc string
}

// WithDoc attaches documentation to a declared key.
func WithDoc(doc string) Option {
	return func(d *declaration) {
		d.doc = doc
	}
}

// Declare returns a new key. It is meant to be called once per
// package-level variable:
//
//	var tenant = scoped.Declare[Tenant]("tenant", scoped.WithDoc("tenant of the running job"))
func Declare[T any](name string, opts ...Option) *Key[T] {
	d := declaration{}
	for _, opt := range opts {
		opt(&d)
	}

	log.Debug("Declared scoped key", "key", name, "type", fmt.Sprintf("%T", (*T)(nil)))

	return &Key[T]{name: name, doc: d.doc}
}

// Name returns the name given to Declare.
func (k *Key[T]) Name() string {
	return k.name
}

// Doc returns the documentation given with WithDoc.
func (k *Key[T]) Doc() string {
	return k.doc
}

func (k *Key[T]) String() string {
	if k.name == "" {
		return fmt.Sprintf("scoped.Key[%T]", (*T)(nil))
	}
	return "scoped.Key(" + k.name + ")"
}

// Set binds v to the key for the duration of body.
//
// While body runs, With and Get on this goroutine return v unless Set is
// called again inside body. When body returns, or panics, the previous
// binding is restored before control leaves Set. A panic is not recovered.
func (k *Key[T]) Set(v *T, body func()) {
	Set(k, v, func() struct{} {
		body()
		return struct{}{}
	})
}

// With calls reader with the value bound to the key.
// It panics with an *UnsetAccessError if the key is not set on this goroutine.
func (k *Key[T]) With(reader func(*T)) {
	reader(k.Get())
}

// TryWith is like With but returns an *UnsetAccessError instead of panicking.
func (k *Key[T]) TryWith(reader func(*T)) error {
	v, ok := k.Lookup()
	if !ok {
		return &UnsetAccessError{Key: k.name}
	}

	reader(v)
	return nil
}

// Get returns the bound pointer, panicking like With when the key is unset.
func (k *Key[T]) Get() *T {
	v, ok := k.Lookup()
	if !ok {
		err := &UnsetAccessError{Key: k.name}
		log.Error("Scoped key read outside of Set", "key", k.name)
		panic(err)
	}

	return v
}

// Lookup returns the bound pointer and whether the key is set.
func (k *Key[T]) Lookup() (*T, bool) {
	return k.slots.Load()
}

// IsSet reports whether the key is bound on the calling goroutine.
func (k *Key[T]) IsSet() bool {
	_, ok := k.slots.Load()
	return ok
}

// Set binds v to k for the duration of body and returns body's result.
// See Key.Set.
func Set[T, R any](k *Key[T], v *T, body func() R) R {
	if v == nil {
		panic(ErrNilReference)
	}

	var result R
	k.slots.Pin(func(slot cell.Slot[T]) {
		prior := slot.Read()
		slot.Write(v)
		defer slot.Write(prior)

		result = body()
	})

	return result
}

// With calls reader with the value bound to k and returns its result.
// See Key.With.
func With[T, R any](k *Key[T], reader func(*T) R) R {
	return reader(k.Get())
}
