// Package render holds the debug-draw primitives shared with the renderer.
package render

import "github.com/l1jgo/carnage/internal/geom"

// Color is a packed 0xAARRGGBB value.
type Color uint32

const (
	ColorRed    Color = 0xFFFF0000
	ColorGreen  Color = 0xFF00FF00
	ColorBlue   Color = 0xFF0000FF
	ColorOrange Color = 0xFFFFA500
	ColorYellow Color = 0xFFFFFF00
	ColorWhite  Color = 0xFFFFFFFF
)

// ShapeKind identifies a recorded debug primitive.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeCube
	ShapeLine
)

// Command is one recorded debug-draw call.
type Command struct {
	Kind   ShapeKind
	From   geom.Vec3 // sphere/cube center, line start
	To     geom.Vec3 // line end, cube dimensions
	Radius float32
	Color  Color
	Solid  bool
}

// Recorder collects debug-draw calls for a frame instead of rasterizing
// them; a renderer or a log sink consumes the commands afterwards.
type Recorder struct {
	commands []Command
}

func NewRecorder() *Recorder {
	return &Recorder{commands: make([]Command, 0, 64)}
}

func (r *Recorder) DrawSphere(center geom.Vec3, radius float32, color Color, solid bool) {
	r.commands = append(r.commands, Command{Kind: ShapeSphere, From: center, Radius: radius, Color: color, Solid: solid})
}

func (r *Recorder) DrawCube(center, dims geom.Vec3, color Color) {
	r.commands = append(r.commands, Command{Kind: ShapeCube, From: center, To: dims, Color: color})
}

func (r *Recorder) DrawLine(from, to geom.Vec3, color Color) {
	r.commands = append(r.commands, Command{Kind: ShapeLine, From: from, To: to, Color: color})
}

// Commands returns the calls recorded since the last Reset.
func (r *Recorder) Commands() []Command { return r.commands }

func (r *Recorder) Len() int { return len(r.commands) }

func (r *Recorder) Reset() { r.commands = r.commands[:0] }
