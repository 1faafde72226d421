package physics

import (
	"testing"
	"time"

	"github.com/l1jgo/carnage/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateDestroyBodies(t *testing.T) {
	w := NewWorld(60, zap.NewNop())

	b := w.CreatePhysicsObject(5, geom.Vec3{X: 1, Y: 2, Z: 3}, geom.FromDegrees(45))
	require.NotNil(t, b)
	assert.Equal(t, 1, w.Count())
	assert.Equal(t, geom.Vec3{X: 1, Y: 2, Z: 3}, b.Position())
	assert.Equal(t, geom.Vec3{X: 1, Y: 2, Z: 3}, b.SmoothPosition())

	w.DestroyPhysicsObject(b)
	assert.Equal(t, 0, w.Count())

	// Double destroy is tolerated.
	w.DestroyPhysicsObject(b)
	w.DestroyPhysicsObject(nil)
	assert.Equal(t, 0, w.Count())
}

func TestFixedStepIntegration(t *testing.T) {
	w := NewWorld(10, zap.NewNop())
	b := w.CreatePhysicsObject(1, geom.Vec3{}, 0)
	b.SetVelocity(geom.Vec3{X: 2})

	w.Update(time.Second)
	assert.InDelta(t, 2, b.Position().X, 1e-3)

	// Half a step leaves the body in place but moves the smoothed position.
	w.Update(50 * time.Millisecond)
	assert.InDelta(t, 2, b.Position().X, 1e-3)
	assert.InDelta(t, 2, b.SmoothPosition().X, 0.21)
}

func TestSetPositionResetsSmoothing(t *testing.T) {
	w := NewWorld(60, zap.NewNop())
	b := w.CreatePhysicsObject(1, geom.Vec3{}, 0)
	b.SetPosition(geom.Vec3{Z: 9}, geom.FromDegrees(180))

	assert.Equal(t, geom.Vec3{Z: 9}, b.SmoothPosition())
	assert.InDelta(t, 180, b.Heading().Degrees(), 1e-4)
}
