package playback

import (
	"sync"
	"time"

	"github.com/jonhuth/dsa/internal/step"
)

// CommandKind names the operation a Command applies to the Player.
type CommandKind int

const (
	CommandLoad CommandKind = iota + 1
	CommandFirst
	CommandPrevious
	CommandNext
	CommandLast
	CommandTogglePlay
	CommandSetSpeed
	CommandKey
)

func (k CommandKind) String() string {
	switch k {
	case CommandLoad:
		return "load"
	case CommandFirst:
		return "first"
	case CommandPrevious:
		return "previous"
	case CommandNext:
		return "next"
	case CommandLast:
		return "last"
	case CommandTogglePlay:
		return "toggle_play"
	case CommandSetSpeed:
		return "set_speed"
	case CommandKey:
		return "key"
	default:
		return "unknown"
	}
}

// Command is one queued request for the Engine's run loop. Only the field
// matching Kind is read.
type Command struct {
	Kind  CommandKind
	Steps []step.Step
	Speed time.Duration
	Key   Key
}

// commandQueue is an unbounded FIFO of commands. Any goroutine may enqueue;
// only the run loop dequeues.
type commandQueue struct {
	mu       sync.Mutex
	commands []Command
	closed   bool
	signal   chan struct{} // buffered, size 1
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		commands: make([]Command, 0, 16),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a command. Returns false once the queue is closed.
func (q *commandQueue) Enqueue(c Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.commands = append(q.commands, c)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front command without blocking.
func (q *commandQueue) TryDequeue() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.commands) == 0 {
		return Command{}, false
	}
	c := q.commands[0]
	// Drop the reference so a loaded step sequence can be collected.
	q.commands[0] = Command{}
	if len(q.commands) == 1 {
		q.commands = q.commands[:0]
	} else {
		q.commands = q.commands[1:]
	}
	return c, true
}

// Wait returns a channel that fires when commands may be available. It is
// closed by Close.
func (q *commandQueue) Wait() <-chan struct{} {
	return q.signal
}

func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}

// Drained reports whether the queue is closed and empty. A signal can be
// left over after the commands it announced were already dequeued, so an
// empty queue alone does not mean the loop should exit.
func (q *commandQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.commands) == 0
}

// Close stops further enqueues and wakes the run loop.
func (q *commandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
