package dmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schraf/dmap"
)

func TestWithAllocatorFunc_IsConsulted(t *testing.T) {
	var calls int
	m := dmap.New[int, int](dmap.WithAllocatorFunc[int, int](func(old []int, newCap int) []int {
		calls++
		grown := make([]int, newCap)
		copy(grown, old)
		return grown
	}))

	for i := 0; i < 5; i++ {
		m.Insert(i, i)
	}
	assert.Greater(t, calls, 0)
	assert.Equal(t, 0, *m.GetPtr(0))
	assert.Equal(t, 4, *m.GetPtr(4))
}

func TestWithLogger_ReceivesGrowEvents(t *testing.T) {
	var messages []string
	m := dmap.New[int, int](
		dmap.WithInitialCapacity[int, int](2),
		dmap.WithLogger[int, int](recordingLogger{&messages}),
	)
	for i := 0; i < 20; i++ {
		m.Insert(i, i)
	}
	assert.NotEmpty(t, messages)
}

type recordingLogger struct {
	out *[]string
}

func (r recordingLogger) Debugf(format string, args ...any) {
	*r.out = append(*r.out, format)
}
