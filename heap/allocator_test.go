/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package heap

import "testing"

func TestAllocInPointerInvariant(t *testing.T) {
	a := New(0, 1024)
	p, err := a.Alloc(64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.In(p) {
		t.Errorf("In(%d) = false, want true", p)
	}
	if a.Jump(p) != p {
		t.Errorf("Jump(%d) = %d, want %d (p is live, not in a gap)", p, a.Jump(p), p)
	}
}

func TestAllocExhaustion(t *testing.T) {
	a := New(0, 16)
	if _, err := a.Alloc(16); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Alloc(1); err != ErrOutOfMemory {
		t.Errorf("Alloc on exhausted heap = %v, want ErrOutOfMemory", err)
	}
}

func TestFreeCoalescesAdjacentGaps(t *testing.T) {
	a := New(0, 48)
	p1, _ := a.Alloc(16)
	p2, _ := a.Alloc(16)
	p3, _ := a.Alloc(16)

	a.Free(p1, 16)
	a.Free(p3, 16)
	if got := a.FreelistLen(); got != 2 {
		t.Fatalf("after freeing p1,p3: freelist len = %d, want 2 (non-adjacent gaps)", got)
	}

	a.Free(p2, 16)
	if got := a.FreelistLen(); got != 1 {
		t.Errorf("after freeing p2: freelist len = %d, want 1 (all three gaps coalesce)", got)
	}
	if got := a.FreeBytes(); got != 48 {
		t.Errorf("FreeBytes = %d, want 48", got)
	}
}

func TestJumpSkipsFreeGap(t *testing.T) {
	a := New(0, 32)
	p1, _ := a.Alloc(16)
	_, _ = a.Alloc(16)
	a.Free(p1, 16)

	if got := a.Jump(p1 + 4); got != p1+16 {
		t.Errorf("Jump inside free gap = %d, want %d", got, p1+16)
	}
}
