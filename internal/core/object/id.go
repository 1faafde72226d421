package object

import "math"

// ID is the process-unique identity of a game object. IDs are issued by an
// IDAllocator in strictly increasing order and are never reused.
type ID uint32

// NullID denotes "no object".
const NullID ID = 0

func (id ID) IsNull() bool { return id == NullID }

// IDAllocator issues monotonically increasing object IDs starting above NullID.
// Not safe for concurrent use; owned by the frame thread.
type IDAllocator struct {
	last ID
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh ID. Once the counter would wrap back to NullID every
// further call fails with ErrIDOverflow; the counter is left saturated.
func (a *IDAllocator) Next() (ID, error) {
	if a.last == math.MaxUint32 {
		return NullID, ErrIDOverflow
	}
	a.last++
	return a.last, nil
}

// Last returns the most recently issued ID, or NullID if none was issued.
func (a *IDAllocator) Last() ID { return a.last }

// Reset rewinds the counter. Only valid when no object issued by this
// allocator is alive, i.e. at simulation start.
func (a *IDAllocator) Reset() { a.last = NullID }
