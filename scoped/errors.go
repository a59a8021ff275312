package scoped

import "errors"

// ErrUnset is matched by every *UnsetAccessError.
var ErrUnset = errors.New("cannot access a scoped variable without calling Set first")

// ErrNilReference is the panic value of Set when it is given a nil pointer.
var ErrNilReference = errors.New("scoped: Set called with a nil reference")

// UnsetAccessError is raised when a key is read on a goroutine where no
// Set is active. With and Get panic with it. TryWith returns it.
type UnsetAccessError struct {
	Key string
}

func (e *UnsetAccessError) Error() string {
	if e.Key == "" {
		return ErrUnset.Error()
	}
	return ErrUnset.Error() + " (key " + e.Key + ")"
}

func (e *UnsetAccessError) Unwrap() error {
	return ErrUnset
}
