/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package frame

import (
	"container/list"
	"testing"
)

func TestPushPopIsLIFO(t *testing.T) {
	f := CreateFrame(4)
	if err := f.Push(IntSlot(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Push(IntSlot(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, err := f.Pop()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top.Num != 2 {
		t.Fatalf("expected LIFO pop to return the last-pushed value 2, got %d", top.Num)
	}
	if f.Depth() != 1 {
		t.Fatalf("expected depth 1 after one pop, got %d", f.Depth())
	}
}

func TestPushOverflow(t *testing.T) {
	f := CreateFrame(1)
	if err := f.Push(IntSlot(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Push(IntSlot(2)); err == nil {
		t.Fatal("expected an operand-stack overflow error")
	}
}

func TestPopUnderflow(t *testing.T) {
	f := CreateFrame(1)
	if _, err := f.Pop(); err == nil {
		t.Fatal("expected an operand-stack underflow error on an empty frame")
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	f := CreateFrame(2)
	_ = f.Push(IntSlot(42))
	s, err := f.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Num != 42 {
		t.Fatalf("expected to peek 42, got %d", s.Num)
	}
	if f.Depth() != 1 {
		t.Fatal("expected Peek to leave the stack depth unchanged")
	}
}

func TestClearEmptiesStack(t *testing.T) {
	f := CreateFrame(4)
	_ = f.Push(IntSlot(1))
	_ = f.Push(IntSlot(2))
	f.Clear()
	if f.Depth() != 0 {
		t.Fatalf("expected Clear to reset depth to 0, got %d", f.Depth())
	}
	if _, err := f.Pop(); err == nil {
		t.Fatal("expected an empty stack after Clear")
	}
}

func TestRefSlotHoldsNilAsJavaNull(t *testing.T) {
	s := RefSlot(nil)
	if s.Kind != KindRef {
		t.Fatal("expected RefSlot to carry KindRef")
	}
	if s.Ref != nil {
		t.Fatal("expected a nil ref to mean Java null")
	}
}

func TestPushPopFrameIsLIFO(t *testing.T) {
	stack := list.New()
	f1 := CreateFrame(1)
	f1.MethName = "first"
	f2 := CreateFrame(1)
	f2.MethName = "second"

	if err := PushFrame(stack, f1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := PushFrame(stack, f2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CurrentFrame(stack).MethName != "second" {
		t.Fatalf("expected the most recently pushed frame on top")
	}
	popped := PopFrame(stack)
	if popped.MethName != "second" {
		t.Fatalf("expected PopFrame to return the top frame first")
	}
	if CurrentFrame(stack).MethName != "first" {
		t.Fatalf("expected the first frame to now be on top")
	}
}

func TestPushFrameEnforcesMaxDepth(t *testing.T) {
	stack := list.New()
	for i := 0; i < MaxFrameDepth; i++ {
		if err := PushFrame(stack, CreateFrame(1)); err != nil {
			t.Fatalf("unexpected error pushing frame %d: %v", i, err)
		}
	}
	if err := PushFrame(stack, CreateFrame(1)); err == nil {
		t.Fatal("expected exceeding MaxFrameDepth to report a stack overflow")
	}
}

func TestPopFrameOnEmptyStackReturnsNil(t *testing.T) {
	stack := list.New()
	if PopFrame(stack) != nil {
		t.Fatal("expected PopFrame on an empty stack to return nil")
	}
	if CurrentFrame(stack) != nil {
		t.Fatal("expected CurrentFrame on an empty stack to return nil")
	}
}
