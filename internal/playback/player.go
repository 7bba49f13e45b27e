package playback

import (
	"time"

	"github.com/jonhuth/dsa/internal/step"
)

// Speed bounds and the increment used by the speed keys.
const (
	MinSpeed     = 100 * time.Millisecond
	MaxSpeed     = 2000 * time.Millisecond
	DefaultSpeed = 500 * time.Millisecond
	SpeedStep    = 100 * time.Millisecond
)

// View is what renderers see: the active step (nil when there are no steps),
// its position and the transport state.
type View struct {
	ActiveStep *step.Step
	Index      int
	Total      int
	Playing    bool
	Speed      time.Duration
}

// AtEnd reports whether the view shows the last step.
func (v View) AtEnd() bool {
	return v.Total == 0 || v.Index == v.Total-1
}

// Player is the playback state machine: a cursor over a fixed step sequence
// plus play/pause and speed. Every operation is defined for every state and
// none of them fail; out-of-range requests clamp or do nothing.
//
// A Player does no I/O and owns no timer. Engine drives it from a ticker.
//
// INVARIANT: 0 <= index <= max(0, len(steps)-1)
type Player struct {
	steps   []step.Step
	index   int
	playing bool
	speed   time.Duration
}

// NewPlayer returns an empty, paused player at DefaultSpeed.
func NewPlayer() *Player {
	return &Player{speed: DefaultSpeed}
}

// Load replaces the sequence, rewinds to the first step and pauses.
func (p *Player) Load(steps []step.Step) {
	p.steps = steps
	p.index = 0
	p.playing = false
}

// First rewinds to the first step and pauses.
func (p *Player) First() {
	p.index = 0
	p.playing = false
}

// Previous steps back one, stopping at the first step.
func (p *Player) Previous() {
	if p.index > 0 {
		p.index--
	}
}

// Next steps forward one. At the last step it pauses instead.
func (p *Player) Next() {
	if p.index >= p.lastIndex() {
		p.playing = false
		return
	}
	p.index++
}

// Last jumps to the last step and pauses.
func (p *Player) Last() {
	p.index = p.lastIndex()
	p.playing = false
}

// TogglePlay flips between playing and paused. Playing from the last step
// restarts from the first. With no steps it does nothing.
func (p *Player) TogglePlay() {
	if len(p.steps) == 0 {
		return
	}
	if !p.playing && p.index == p.lastIndex() {
		p.First()
		p.playing = true
		return
	}
	p.playing = !p.playing
}

// SetSpeed sets the interval between auto-play steps, clamped to
// [MinSpeed, MaxSpeed].
func (p *Player) SetSpeed(d time.Duration) {
	p.speed = ClampSpeed(d)
}

// Faster shortens the interval by SpeedStep.
func (p *Player) Faster() {
	p.SetSpeed(p.speed - SpeedStep)
}

// Slower lengthens the interval by SpeedStep.
func (p *Player) Slower() {
	p.SetSpeed(p.speed + SpeedStep)
}

// Tick is the auto-play timer callback: Next while playing, nothing
// otherwise.
func (p *Player) Tick() {
	if p.playing {
		p.Next()
	}
}

// Playing reports whether auto-play is on.
func (p *Player) Playing() bool {
	return p.playing
}

// Speed returns the auto-play interval.
func (p *Player) Speed() time.Duration {
	return p.speed
}

// View returns the renderer-facing state.
func (p *Player) View() View {
	v := View{
		Index:   p.index,
		Total:   len(p.steps),
		Playing: p.playing,
		Speed:   p.speed,
	}
	if len(p.steps) > 0 {
		s := p.steps[p.index]
		v.ActiveStep = &s
	}
	return v
}

func (p *Player) lastIndex() int {
	return max(0, len(p.steps)-1)
}

// ClampSpeed clamps d to [MinSpeed, MaxSpeed].
func ClampSpeed(d time.Duration) time.Duration {
	return min(max(d, MinSpeed), MaxSpeed)
}
