package event

import (
	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/geom"
)

// Lifecycle events emitted by the object registry.

type ObjectCreated struct {
	ID       object.ID
	Class    object.Class
	Position geom.Vec3
}

type ObjectMarked struct {
	ID    object.ID
	Class object.Class
}

type ObjectDestroyed struct {
	ID    object.ID
	Class object.Class
}

// CreationFailed reports a fallible creation that returned no object.
type CreationFailed struct {
	Class object.Class
	Err   error
}
