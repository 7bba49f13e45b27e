// Package playback steps through a recorded sequence.
//
// Player is the pure state machine: a cursor, a play/pause flag and a
// speed. Engine runs a Player on one goroutine, owns the auto-play ticker
// and publishes a View to observers after every change. Session feeds the
// engine from an Executor, one run at a time.
package playback
