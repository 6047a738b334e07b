package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocGetFree(t *testing.T) {
	p := NewPool[string]()
	h1 := p.Alloc("a")
	h2 := p.Alloc("b")
	require.Equal(t, 2, p.Len())

	v, ok := p.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	p.Free(h1)
	assert.Equal(t, 1, p.Len())
	_, ok = p.Get(h1)
	assert.False(t, ok)

	v, ok = p.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestPoolReusesFreedSlots(t *testing.T) {
	p := NewPool[int](WithChunkSize(2))
	a := p.Alloc(1)
	_ = p.Alloc(2)
	p.Free(a)
	c := p.Alloc(3)
	require.Equal(t, 2, p.Len())
	v, ok := p.Get(c)
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestPoolSpansMultipleChunks(t *testing.T) {
	p := NewPool[int](WithChunkSize(4))
	var handles []Handle
	for i := 0; i < 10; i++ {
		handles = append(handles, p.Alloc(i))
	}
	require.Equal(t, 10, p.Len())
	for i, h := range handles {
		v, ok := p.Get(h)
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestPoolEachVisitsLiveItems(t *testing.T) {
	p := NewPool[int](WithChunkSize(2))
	a := p.Alloc(10)
	p.Alloc(20)
	p.Free(a)

	seen := map[int]bool{}
	p.Each(func(_ Handle, v int) { seen[v] = true })
	assert.Equal(t, map[int]bool{20: true}, seen)
}
