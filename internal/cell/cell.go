// Package cell holds one optional pointer per goroutine.
//
// Goroutine identity comes from gls stack tags: a goroutine only has an
// identity while a Pin call is on its stack. A goroutine without one has
// no slot, so every Load on it reports empty.
package cell

import (
	"sync"

	"github.com/jtolds/gls"
)

// Cell is a per-goroutine storage location for a *T.
// The zero value is an empty cell ready for use.
type Cell[T any] struct {
	slots sync.Map // gls goroutine id -> *T
}

// Slot is the pinned goroutine's view of a Cell.
// It is only valid inside the Pin callback that produced it.
type Slot[T any] struct {
	cell *Cell[T]
	gid  uint
}

// Pin tags the calling goroutine and runs fn with its slot.
// Nested Pin calls on the same goroutine reuse the same identity.
func (c *Cell[T]) Pin(fn func(Slot[T])) {
	gls.EnsureGoroutineId(func(gid uint) {
		fn(Slot[T]{cell: c, gid: gid})
	})
}

// Load returns the calling goroutine's state without tagging it.
func (c *Cell[T]) Load() (*T, bool) {
	gid, ok := gls.GetGoroutineId()
	if !ok {
		return nil, false
	}

	return c.load(gid)
}

func (c *Cell[T]) load(gid uint) (*T, bool) {
	v, ok := c.slots.Load(gid)
	if !ok {
		return nil, false
	}

	return v.(*T), true
}

// Read returns the slot's current state, nil when empty.
func (s Slot[T]) Read() *T {
	p, _ := s.cell.load(s.gid)
	return p
}

// Write replaces the slot's state. Writing nil empties the slot and
// drops the goroutine's entry, so ids recycled by gls start out empty.
func (s Slot[T]) Write(p *T) {
	if p == nil {
		s.cell.slots.Delete(s.gid)
		return
	}

	s.cell.slots.Store(s.gid, p)
}
