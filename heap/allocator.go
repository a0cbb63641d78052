/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package heap implements the fixed-size byte-region allocator the object
// package carves live objects out of (spec §4.1). It is a first-fit
// allocator over an address-ordered, coalescing freelist; there is no
// natural third-party library for this shape of data structure (see
// DESIGN.md), so it is plain Go. It tracks address ranges only and holds
// no backing memory of its own.
package heap

import (
	"errors"
	"sort"
	"sync"
)

// ErrOutOfMemory is returned by Alloc when no gap in the freelist is
// large enough to satisfy the request.
var ErrOutOfMemory = errors.New("heap: out of memory")

// gap is one free region of the backing store, described by its starting
// address (an offset from base) and length in bytes.
type gap struct {
	addr   uintptr
	length uintptr
}

// Allocator carves (base, size) into live allocations, tracking free
// space as a sorted, coalescing list of gaps.
type Allocator struct {
	mu       sync.Mutex
	base     uintptr
	size     uintptr
	freelist []gap
}

// New creates an allocator governing a region of the given size, entirely
// free. base is an opaque starting address used only to offset returned
// pointers; callers that don't care can pass 0.
func New(base uintptr, size uintptr) *Allocator {
	return &Allocator{
		base:     base,
		size:     size,
		freelist: []gap{{addr: base, length: size}},
	}
}

// Alloc reserves len bytes and returns the address of the new region;
// no memory is written or zeroed. It scans the freelist for the first gap
// large enough to hold the request (first-fit).
func (a *Allocator) Alloc(length uintptr) (uintptr, error) {
	if length == 0 {
		return 0, errors.New("heap: zero-length allocation")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.freelist {
		g := &a.freelist[i]
		if g.length < length {
			continue
		}
		addr := g.addr
		if g.length == length {
			a.freelist = append(a.freelist[:i], a.freelist[i+1:]...)
		} else {
			g.addr += length
			g.length -= length
		}
		return addr, nil
	}
	return 0, ErrOutOfMemory
}

// Free returns a previously allocated (addr, len) region to the freelist,
// coalescing it with an adjacent predecessor or successor gap if one
// exists.
func (a *Allocator) Free(addr uintptr, length uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// insert in address order
	i := sort.Search(len(a.freelist), func(i int) bool {
		return a.freelist[i].addr >= addr
	})
	a.freelist = append(a.freelist, gap{})
	copy(a.freelist[i+1:], a.freelist[i:])
	a.freelist[i] = gap{addr: addr, length: length}

	// coalesce with successor
	if i+1 < len(a.freelist) {
		next := a.freelist[i+1]
		if a.freelist[i].addr+a.freelist[i].length == next.addr {
			a.freelist[i].length += next.length
			a.freelist = append(a.freelist[:i+1], a.freelist[i+2:]...)
		}
	}
	// coalesce with predecessor
	if i > 0 {
		prev := a.freelist[i-1]
		if prev.addr+prev.length == a.freelist[i].addr {
			a.freelist[i-1].length += a.freelist[i].length
			a.freelist = append(a.freelist[:i], a.freelist[i+1:]...)
		}
	}
}

// Jump skips over a free region: if p falls within a gap, it returns the
// address just past that gap (used by a heap-sweeping walker to avoid
// visiting free space); otherwise it returns p unchanged.
func (a *Allocator) Jump(p uintptr) uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, g := range a.freelist {
		if p >= g.addr && p < g.addr+g.length {
			return g.addr + g.length
		}
	}
	return p
}

// In reports whether p falls within the allocator's governed region.
func (a *Allocator) In(p uintptr) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return p >= a.base && p < a.base+a.size
}

// FreeBytes returns the total bytes currently unallocated, for
// diagnostics (the monitor dashboard polls this).
func (a *Allocator) FreeBytes() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total uintptr
	for _, g := range a.freelist {
		total += g.length
	}
	return total
}

// FreelistLen returns the number of distinct free gaps, for diagnostics
// and for the "sorted, no adjacent coalesceable gaps" invariant tests.
func (a *Allocator) FreelistLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.freelist)
}
