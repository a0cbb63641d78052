/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package thread

import "testing"

func TestCreateThreadAssignsUniqueIDs(t *testing.T) {
	a := CreateThread()
	b := CreateThread()
	if a.ID == b.ID {
		t.Fatal("expected distinct thread ids")
	}
	if a.Stack == nil || b.Stack == nil {
		t.Fatal("expected a fresh frame stack")
	}
}

func TestInterruptIsInterrupted(t *testing.T) {
	th := CreateThread()
	if th.IsInterrupted() {
		t.Fatal("expected a fresh thread to not be interrupted")
	}
	th.Interrupt()
	if !th.IsInterrupted() {
		t.Fatal("expected IsInterrupted to report true after Interrupt")
	}
	if !th.IsInterrupted() {
		t.Fatal("expected IsInterrupted to not clear the flag")
	}
}

// CheckAndClearInterrupted implements Thread.interrupted()'s check-and-clear
// semantics, distinct from isInterrupted()'s peek.
func TestCheckAndClearInterrupted(t *testing.T) {
	th := CreateThread()
	th.Interrupt()
	if !th.CheckAndClearInterrupted() {
		t.Fatal("expected the first check to observe the interrupted flag")
	}
	if th.CheckAndClearInterrupted() {
		t.Fatal("expected the flag to be cleared after the first check")
	}
	if th.IsInterrupted() {
		t.Fatal("expected IsInterrupted to agree the flag was cleared")
	}
}
