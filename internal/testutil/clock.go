package testutil

import (
	"sync"
	"time"

	"github.com/jonhuth/dsa/internal/playback"
)

// ManualClock is a playback.Clock whose tickers fire only when a test says
// so. It records every ticker it hands out so tests can assert when the
// engine acquired and released its timer.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// NewManualClock creates a clock with no tickers.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// NewTicker implements playback.Clock.
func (c *ManualClock) NewTicker(d time.Duration) playback.Ticker {
	t := &ManualTicker{c: make(chan time.Time), period: d}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

// Created returns how many tickers have been handed out.
func (c *ManualClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Active returns the most recent ticker if it has not been stopped.
func (c *ManualClock) Active() *ManualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	t := c.tickers[len(c.tickers)-1]
	if t.Stopped() {
		return nil
	}
	return t
}

// Tick fires the active ticker. It returns false when no ticker is running
// or the tick was not received within a second.
func (c *ManualClock) Tick() bool {
	t := c.Active()
	if t == nil {
		return false
	}
	return t.Fire()
}

// ManualTicker is a playback.Ticker driven by Fire.
type ManualTicker struct {
	c chan time.Time

	mu      sync.Mutex
	period  time.Duration
	resets  []time.Duration
	stopped bool
}

func (t *ManualTicker) C() <-chan time.Time {
	return t.c
}

func (t *ManualTicker) Reset(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = d
	t.resets = append(t.resets, d)
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Fire delivers one tick and waits for the receiver to take it.
func (t *ManualTicker) Fire() bool {
	if t.Stopped() {
		return false
	}
	select {
	case t.c <- time.Time{}:
		return true
	case <-time.After(time.Second):
		return false
	}
}

// Period returns the current interval.
func (t *ManualTicker) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Resets returns the intervals passed to Reset, in order.
func (t *ManualTicker) Resets() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.resets...)
}

func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
