package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/data"
)

// AnimLoop selects what happens when an animation reaches its last frame.
type AnimLoop int

const (
	AnimLoopNone      AnimLoop = iota // stop on the last frame
	AnimLoopFromStart                 // wrap to the first frame
)

// SpriteAnimation plays a frame strip at a fixed rate.
type SpriteAnimation struct {
	desc    data.AnimationInfo
	loop    AnimLoop
	fps     float32
	frame   int
	elapsed time.Duration
	playing bool
}

func (a *SpriteAnimation) Clear() {
	*a = SpriteAnimation{}
}

func (a *SpriteAnimation) SetDesc(desc data.AnimationInfo) {
	a.desc = desc
	a.frame = 0
	a.elapsed = 0
}

// Play starts the animation; fps <= 0 uses the strip's own rate.
func (a *SpriteAnimation) Play(loop AnimLoop, fps float32) {
	if fps <= 0 {
		fps = a.desc.FPS
	}
	a.loop = loop
	a.fps = fps
	a.frame = 0
	a.elapsed = 0
	a.playing = a.desc.Frames > 0 && fps > 0
}

func (a *SpriteAnimation) IsPlaying() bool { return a.playing }

// CurrentFrame returns the sprite index of the displayed frame.
func (a *SpriteAnimation) CurrentFrame() int { return a.desc.FirstFrame + a.frame }

// Advance moves the animation forward and returns how many full cycles
// completed during dt.
func (a *SpriteAnimation) Advance(dt time.Duration) int {
	if !a.playing {
		return 0
	}
	frameTime := time.Duration(float64(time.Second) / float64(a.fps))
	if frameTime <= 0 {
		frameTime = time.Nanosecond
	}
	a.elapsed += dt
	cycles := 0
	for a.elapsed >= frameTime {
		a.elapsed -= frameTime
		a.frame++
		if a.frame < a.desc.Frames {
			continue
		}
		cycles++
		if a.loop == AnimLoopFromStart {
			a.frame = 0
			continue
		}
		a.frame = a.desc.Frames - 1
		a.playing = false
		a.elapsed = 0
		break
	}
	return cycles
}
