package playback

import "strings"

// KeyCode identifies a playback key independent of the terminal or widget
// toolkit that produced it.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyRestart
)

// Key is one key press. Editing is set while focus is in a text input;
// such presses belong to the input and are ignored.
type Key struct {
	Code    KeyCode
	Shift   bool
	Editing bool
}

// ParseKey maps key names in the form terminal libraries report them
// ("left", "shift+right", " ", "r") to a Key.
func ParseKey(name string) Key {
	var k Key
	if rest, ok := strings.CutPrefix(name, "shift+"); ok {
		k.Shift = true
		name = rest
	}
	switch name {
	case " ", "space":
		k.Code = KeySpace
	case "left":
		k.Code = KeyLeft
	case "right":
		k.Code = KeyRight
	case "up":
		k.Code = KeyUp
	case "down":
		k.Code = KeyDown
	case "r", "R":
		k.Code = KeyRestart
	}
	return k
}

// HandleKey applies the playback key bindings and reports whether the key
// was bound.
//
//	space        play / pause
//	left, right  previous / next (with shift: first / last)
//	up, down     faster / slower by SpeedStep
//	r, R         back to the first step
func (p *Player) HandleKey(k Key) bool {
	if k.Editing {
		return false
	}
	switch k.Code {
	case KeySpace:
		p.TogglePlay()
	case KeyLeft:
		if k.Shift {
			p.First()
		} else {
			p.Previous()
		}
	case KeyRight:
		if k.Shift {
			p.Last()
		} else {
			p.Next()
		}
	case KeyUp:
		p.Faster()
	case KeyDown:
		p.Slower()
	case KeyRestart:
		p.First()
	default:
		return false
	}
	return true
}
