package poly

// Pool is a chunked free-list allocator for T, grounded on the
// arena/chunk design of a fixed-capacity slab allocator: it hands out
// stable indices rather than pointers, so a Polyhedron can reclaim a
// vertex or half-edge slot without invalidating every other reference
// into the mesh. Chunks are kept on two lists — mixed (at least one
// free slot) and full — so Alloc never has to scan a full chunk. There
// is no separate list of empty chunks: a chunk whose slots are all
// freed stays on the mixed list, and chunks are never released.
type Pool[T any] struct {
	chunkSize int
	chunks    []*poolChunk[T]
	mixed     []int // indices into chunks with free slots
	full      []int // indices into chunks with none
}

type poolChunk[T any] struct {
	items []T
	used  []bool
	free  int
}

// PoolOption configures a Pool at construction time.
type PoolOption func(*poolConfig)

type poolConfig struct {
	chunkSize int
}

// WithChunkSize overrides the default chunk size of 64.
func WithChunkSize(n int) PoolOption {
	return func(c *poolConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// NewPool builds an empty Pool.
func NewPool[T any](opts ...PoolOption) *Pool[T] {
	cfg := poolConfig{chunkSize: 64}
	for _, o := range opts {
		o(&cfg)
	}
	return &Pool[T]{chunkSize: cfg.chunkSize}
}

// Handle identifies a slot an item was allocated into. It is stable
// across Alloc/Free calls for other items but is invalid (and must
// never be dereferenced) once Free is called on it.
type Handle struct {
	chunk, slot int
}

func (p *Pool[T]) newChunk() *poolChunk[T] {
	return &poolChunk[T]{
		items: make([]T, p.chunkSize),
		used:  make([]bool, p.chunkSize),
		free:  p.chunkSize,
	}
}

// Alloc stores v in a free slot and returns its Handle.
func (p *Pool[T]) Alloc(v T) Handle {
	var chunkIdx int
	if len(p.mixed) > 0 {
		chunkIdx = p.mixed[len(p.mixed)-1]
	} else {
		chunkIdx = len(p.chunks)
		p.chunks = append(p.chunks, p.newChunk())
		p.mixed = append(p.mixed, chunkIdx)
	}

	c := p.chunks[chunkIdx]
	slot := -1
	for i, used := range c.used {
		if !used {
			slot = i
			break
		}
	}
	c.used[slot] = true
	c.items[slot] = v
	c.free--

	if c.free == 0 {
		p.mixed = p.mixed[:len(p.mixed)-1]
		p.full = append(p.full, chunkIdx)
	}
	return Handle{chunk: chunkIdx, slot: slot}
}

// Get returns the item at h and whether h currently holds a live item.
func (p *Pool[T]) Get(h Handle) (T, bool) {
	var zero T
	if h.chunk < 0 || h.chunk >= len(p.chunks) {
		return zero, false
	}
	c := p.chunks[h.chunk]
	if h.slot < 0 || h.slot >= len(c.used) || !c.used[h.slot] {
		return zero, false
	}
	return c.items[h.slot], true
}

// Set overwrites the item at h, which must be live.
func (p *Pool[T]) Set(h Handle, v T) {
	c := p.chunks[h.chunk]
	c.items[h.slot] = v
}

// Free releases the slot at h, moving its chunk from the full list
// back to the mixed list if it was full.
func (p *Pool[T]) Free(h Handle) {
	c := p.chunks[h.chunk]
	if !c.used[h.slot] {
		return
	}
	var zero T
	c.used[h.slot] = false
	c.items[h.slot] = zero
	wasFull := c.free == 0
	c.free++

	if wasFull {
		p.removeFrom(&p.full, h.chunk)
		p.mixed = append(p.mixed, h.chunk)
	}
}

func (p *Pool[T]) removeFrom(list *[]int, chunkIdx int) {
	for i, c := range *list {
		if c == chunkIdx {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Len returns the number of live items across all chunks.
func (p *Pool[T]) Len() int {
	n := 0
	for _, c := range p.chunks {
		n += p.chunkSize - c.free
	}
	return n
}

// Each calls f for every live item's Handle and value, in chunk/slot
// order. f must not call Alloc or Free on p.
func (p *Pool[T]) Each(f func(Handle, T)) {
	for ci, c := range p.chunks {
		for si, used := range c.used {
			if used {
				f(Handle{chunk: ci, slot: si}, c.items[si])
			}
		}
	}
}
