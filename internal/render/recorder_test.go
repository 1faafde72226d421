package render

import (
	"testing"

	"github.com/l1jgo/carnage/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.DrawSphere(geom.Vec3{X: 1}, 0.5, ColorOrange, false)
	r.DrawCube(geom.Vec3{}, geom.Vec3{X: 1, Y: 1, Z: 1}, ColorGreen)
	r.DrawLine(geom.Vec3{}, geom.Vec3{Z: 3}, ColorRed)

	require.Equal(t, 3, r.Len())
	cmds := r.Commands()
	assert.Equal(t, ShapeSphere, cmds[0].Kind)
	assert.InDelta(t, 0.5, cmds[0].Radius, 1e-6)
	assert.Equal(t, ShapeCube, cmds[1].Kind)
	assert.Equal(t, geom.Vec3{Z: 3}, cmds[2].To)

	r.Reset()
	assert.Zero(t, r.Len())
}
