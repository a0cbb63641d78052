/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"sync"
	"testing"
)

func TestIsAssignableFromReflexive(t *testing.T) {
	c := &ClData{Name: "Thing", Loader: BootstrapCL}
	if !IsAssignableFrom(c, c) {
		t.Fatal("expected a class to be assignable from itself")
	}
}

func TestIsAssignableFromWalksSuperclassChain(t *testing.T) {
	grandparent := &ClData{Name: "Animal", Loader: BootstrapCL}
	parent := &ClData{Name: "Dog", Loader: BootstrapCL, Superclass: grandparent}
	child := &ClData{Name: "Puppy", Loader: BootstrapCL, Superclass: parent}

	if !IsAssignableFrom(child, grandparent) {
		t.Fatal("expected Puppy to be assignable to Animal through its superclass chain")
	}
	if IsAssignableFrom(grandparent, child) {
		t.Fatal("assignability must not be symmetric: Animal is not a Puppy")
	}
}

func TestIsAssignableFromWalksInterfaces(t *testing.T) {
	iface := &ClData{Name: "Runnable", Loader: BootstrapCL}
	impl := &ClData{Name: "Task", Loader: BootstrapCL, Interfaces: []*ClData{iface}}

	if !IsAssignableFrom(impl, iface) {
		t.Fatal("expected Task to be assignable to Runnable through its declared interfaces")
	}
}

func TestIsAssignableFromNilIsFalse(t *testing.T) {
	c := &ClData{Name: "Thing", Loader: BootstrapCL}
	if IsAssignableFrom(nil, c) || IsAssignableFrom(c, nil) {
		t.Fatal("expected a nil operand to never be assignable")
	}
}

func TestEnsureMirrorBuildsOnceAndCaches(t *testing.T) {
	origFactory := MirrorFactoryFunc
	defer func() { MirrorFactoryFunc = origFactory }()

	var calls int
	var mu sync.Mutex
	MirrorFactoryFunc = func(c *ClData) any {
		mu.Lock()
		calls++
		mu.Unlock()
		return &struct{ backing *ClData }{backing: c}
	}

	c := &ClData{Name: "Mirrored", Loader: BootstrapCL}
	first := EnsureMirror(c)
	second := EnsureMirror(c)

	if first == nil || second == nil {
		t.Fatal("expected a non-nil mirror from EnsureMirror")
	}
	if first != second {
		t.Fatal("expected the identical cached mirror on a second call")
	}
	if calls != 1 {
		t.Fatalf("expected MirrorFactoryFunc to run exactly once, ran %d times", calls)
	}
}

func TestEnsureMirrorNilClassReturnsNil(t *testing.T) {
	if EnsureMirror(nil) != nil {
		t.Fatal("expected EnsureMirror(nil) to return nil")
	}
}
