/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Mirror construction (spec §4.5/§9): every ClData lazily grows a
// java.lang.Class instance the first time reflective code needs one.
// MirrorFactoryFunc is the same cross-package-hook pattern as
// InternStringFunc/InvokeClinitFunc/UserLoadClassFunc -- object builds
// the actual heap object, classloader only knows it as `any` so the two
// packages don't form an import cycle (object already imports
// classloader for *ClData).
package classloader

// MirrorFactoryFunc builds the java.lang.Class instance backing c, wired
// up by the object package at init time. Nil until then, which only
// matters during the brief startup window before object's init() runs.
var MirrorFactoryFunc func(c *ClData) any

// EnsureMirror returns c's java.lang.Class mirror, building it on first
// use and caching it on c.Mirror under c's own status mutex (spec §9's
// "mirrors built once Class itself is loaded, patched under the owning
// registry's lock" two-phase construction -- here the ClData's own mutex
// plays that role instead of a separate registry-wide lock, since each
// class's mirror is independent of every other's).
func EnsureMirror(c *ClData) any {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Mirror != nil {
		return c.Mirror
	}
	if MirrorFactoryFunc == nil {
		return nil
	}
	c.Mirror = MirrorFactoryFunc(c)
	return c.Mirror
}

// IsAssignableFrom reports whether a value of class sub can be assigned
// to a variable of class super (spec §4.5's isAssignableFrom/isInstance
// both reduce to this walk): sub itself, its superclass chain, and
// (recursively) each class's declared interfaces.
func IsAssignableFrom(sub, super *ClData) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub == super || sub.Name == super.Name {
		return true
	}
	for _, iface := range sub.Interfaces {
		if IsAssignableFrom(iface, super) {
			return true
		}
	}
	if sub.Superclass != nil {
		return IsAssignableFrom(sub.Superclass, super)
	}
	return false
}
