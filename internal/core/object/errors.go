package object

import "errors"

var (
	// ErrIDOverflow means the process created more objects than the ID space allows.
	ErrIDOverflow = errors.New("object id space exhausted")
	// ErrPoolExhausted is returned by Pool.Create when a fixed-capacity pool is full.
	ErrPoolExhausted = errors.New("object pool exhausted")
	// ErrStaleHandle is returned when a handle's generation no longer matches its slot.
	ErrStaleHandle = errors.New("stale object handle")
)
