/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package thread models a single Java thread of execution: one frame
// stack and the handful of state bits (id, name, interrupt flag) the
// scheduling contract (spec §5) exposes above the OS-thread boundary the
// VM runs on. It does not implement scheduling itself -- that's the
// external collaborator named in spec §1.
package thread

import (
	"container/list"
	"sync"
	"sync/atomic"
)

var nextID int64

// ExecThread is the runtime's view of one Java thread: its frame stack
// plus the flags the interpreter and the monitor/wait machinery consult.
type ExecThread struct {
	ID    int64
	Name  string
	Trace bool // per-thread trace flag; nothing sets or reads it (the interpreter's per-instruction trace follows globals.TraceClass)

	Stack *list.List // of *frame.Frame, innermost first

	mu          sync.Mutex
	interrupted bool
}

// CreateThread allocates a new thread with an empty frame stack and a
// unique id.
func CreateThread() ExecThread {
	return ExecThread{
		ID:    atomic.AddInt64(&nextID, 1),
		Stack: list.New(),
	}
}

// Interrupt sets the thread's interrupted flag, which IsInterrupted and
// CheckAndClearInterrupted report. No blocking native in this runtime
// (Thread.sleep included) reads the flag or throws InterruptedException.
func (t *ExecThread) Interrupt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interrupted = true
}

// CheckAndClearInterrupted reports and clears the interrupted flag, the
// semantics Thread.interrupted() (as opposed to isInterrupted()) requires.
func (t *ExecThread) CheckAndClearInterrupted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.interrupted
	t.interrupted = false
	return v
}

// IsInterrupted reports the flag without clearing it.
func (t *ExecThread) IsInterrupted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interrupted
}
