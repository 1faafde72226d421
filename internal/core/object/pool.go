package object

import "fmt"

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
// Generations start at 1, so the zero Handle never refers to a live slot.
type Handle uint64

func NewHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

const defaultChunkSize = 64

type slot[T any] struct {
	value      T
	generation uint32
	alive      bool
}

// Pool owns storage for instances of a single object kind. Storage is
// allocated in fixed-size chunks that are never moved, so a pointer returned
// by Create stays valid until the matching Destroy. Freed slots are reused
// through a free list, with the slot generation bumped on every release.
type Pool[T any] struct {
	name      string
	capacity  int // 0 = unbounded
	chunkSize int
	chunks    [][]slot[T]
	freeList  []uint32
	nextIndex uint32
	live      int
	dispose   func(*T)
}

// NewPool creates a pool. dispose, when non-nil, is the instance teardown run
// by Destroy and Cleanup before the slot is zeroed and recycled.
func NewPool[T any](name string, capacity, chunkSize int, dispose func(*T)) *Pool[T] {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if capacity > 0 && chunkSize > capacity {
		chunkSize = capacity
	}
	return &Pool[T]{
		name:      name,
		capacity:  capacity,
		chunkSize: chunkSize,
		chunks:    make([][]slot[T], 0, 4),
		freeList:  make([]uint32, 0, chunkSize),
		dispose:   dispose,
	}
}

func (p *Pool[T]) Name() string { return p.name }

// Len returns the number of live instances.
func (p *Pool[T]) Len() int { return p.live }

// Cap returns the fixed capacity, or 0 for an unbounded pool.
func (p *Pool[T]) Cap() int { return p.capacity }

// Create returns zeroed storage for a new instance. The caller constructs the
// instance in place; the pool never assigns object identity.
func (p *Pool[T]) Create() (*T, Handle, error) {
	if p.capacity > 0 && p.live >= p.capacity {
		return nil, 0, fmt.Errorf("%s pool (capacity %d): %w", p.name, p.capacity, ErrPoolExhausted)
	}

	var idx uint32
	if n := len(p.freeList); n > 0 {
		idx = p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
	} else {
		idx = p.nextIndex
		p.nextIndex++
		if int(idx)/p.chunkSize >= len(p.chunks) {
			p.chunks = append(p.chunks, make([]slot[T], p.chunkSize))
		}
	}

	s := p.slotAt(idx)
	if s.generation == 0 {
		s.generation = 1
	}
	s.alive = true
	p.live++
	return &s.value, NewHandle(idx, s.generation), nil
}

// Get resolves a handle, failing when the slot was released since the
// handle was issued.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s := p.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// Alive reports whether the handle still refers to a live instance.
func (p *Pool[T]) Alive(h Handle) bool {
	return p.lookup(h) != nil
}

// Destroy runs the instance teardown and returns its slot to the free list.
// The slot stays reserved while the teardown runs, so instances created as a
// side effect of the teardown never alias the one being destroyed.
func (p *Pool[T]) Destroy(h Handle) error {
	s := p.lookup(h)
	if s == nil {
		return fmt.Errorf("%s pool destroy %#x: %w", p.name, uint64(h), ErrStaleHandle)
	}
	if p.dispose != nil {
		p.dispose(&s.value)
	}
	var zero T
	s.value = zero
	s.alive = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	p.freeList = append(p.freeList, h.Index())
	p.live--
	return nil
}

// Each calls fn for every live instance in slot order.
func (p *Pool[T]) Each(fn func(Handle, *T)) {
	for idx := uint32(0); idx < p.nextIndex; idx++ {
		s := p.slotAt(idx)
		if s.alive {
			fn(NewHandle(idx, s.generation), &s.value)
		}
	}
}

// Cleanup destroys every remaining live instance and returns how many there
// were. Intended for shutdown only.
func (p *Pool[T]) Cleanup() int {
	destroyed := 0
	for idx := uint32(0); idx < p.nextIndex; idx++ {
		s := p.slotAt(idx)
		if !s.alive {
			continue
		}
		if err := p.Destroy(NewHandle(idx, s.generation)); err == nil {
			destroyed++
		}
	}
	return destroyed
}

func (p *Pool[T]) slotAt(idx uint32) *slot[T] {
	return &p.chunks[int(idx)/p.chunkSize][int(idx)%p.chunkSize]
}

func (p *Pool[T]) lookup(h Handle) *slot[T] {
	idx := h.Index()
	if h.IsZero() || idx >= p.nextIndex {
		return nil
	}
	s := p.slotAt(idx)
	if !s.alive || s.generation != h.Generation() {
		return nil
	}
	return s
}
