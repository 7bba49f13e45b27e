package tui

import "github.com/jonhuth/dsa/internal/playback"

// Notifier bridges engine observers to the bubbletea loop. Observe never
// blocks: notifications coalesce, and the model always reads the latest view
// from the engine.
type Notifier struct {
	c chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{c: make(chan struct{}, 1)}
}

// Observe is a playback.Observer.
func (n *Notifier) Observe(playback.View) {
	select {
	case n.c <- struct{}{}:
	default:
	}
}

// C fires after one or more views were published.
func (n *Notifier) C() <-chan struct{} {
	return n.c
}
