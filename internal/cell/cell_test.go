package cell

import (
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithoutPin(t *testing.T) {
	var c Cell[int]

	p, ok := c.Load()
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestSlot_ReadWrite(t *testing.T) {
	var c Cell[int]
	v := 7

	c.Pin(func(s Slot[int]) {
		assert.Nil(t, s.Read(), "fresh slot should be empty")

		s.Write(&v)
		assert.Same(t, &v, s.Read())

		p, ok := c.Load()
		require.True(t, ok)
		assert.Same(t, &v, p)

		s.Write(nil)
		assert.Nil(t, s.Read())

		_, ok = c.Load()
		assert.False(t, ok, "writing nil should empty the slot")
	})
}

func TestPin_NestedSharesSlot(t *testing.T) {
	var c Cell[string]
	v := "outer"

	c.Pin(func(outer Slot[string]) {
		outer.Write(&v)
		defer outer.Write(nil)

		c.Pin(func(inner Slot[string]) {
			assert.Equal(t, outer.gid, inner.gid)
			assert.Same(t, &v, inner.Read())
		})
	})
}

func TestCell_GoroutinesDoNotShareSlots(t *testing.T) {
	var c Cell[int]
	const numGoroutines = 8

	ready := make(chan struct{})
	results := make([]int, numGoroutines)

	var wg conc.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		i := i // per-iteration copy (Go 1.22 loopvar semantics)
		wg.Go(func() {
			v := i
			c.Pin(func(s Slot[int]) {
				s.Write(&v)
				defer s.Write(nil)

				<-ready
				p, ok := c.Load()
				if ok {
					results[i] = *p
				}
			})
		})
	}

	close(ready)
	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		assert.Equal(t, i, results[i], "goroutine %d saw another goroutine's slot", i)
	}
}

func TestCell_SpawnedGoroutineStartsEmpty(t *testing.T) {
	var c Cell[int]
	v := 1

	c.Pin(func(s Slot[int]) {
		s.Write(&v)
		defer s.Write(nil)

		done := make(chan bool)
		go func() {
			_, ok := c.Load()
			done <- ok
		}()

		assert.False(t, <-done)
	})
}
