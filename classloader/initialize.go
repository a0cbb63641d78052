/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Initialize implements spec §4.2/§5's initialize(c): recursively
// initialize the superclass first, run <clinit> exactly once, and make
// concurrent callers on the same class block on the one thread doing the
// work rather than race it (JVMS §5.5's initialization lock, here built
// on singleflight.Group rather than a hand-rolled condition variable --
// ground: golang.org/x/sync/singleflight, already pulled in by the
// dependency pack for exactly this "coalesce concurrent callers" shape).
package classloader

import (
	"fmt"

	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/globals"
	"github.com/MilkTool/KayoVM/trace"
)

// InitError marks a class's first <clinit> failure (JVMS §5.5/spec §7-§8
// scenario 6): the interpreter's toJavaException recognizes this type and
// raises it as java.lang.ExceptionInInitializerError rather than the
// NoClassDefFoundError that every *subsequent* access to the now-Error
// class gets from Initialize's Error-status branch below.
type InitError struct {
	ClassName string
	Cause     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s.<clinit> failed: %v", e.ClassName, e.Cause)
}

func (e *InitError) Unwrap() error { return e.Cause }

// InvokeClinitFunc runs a class's <clinit> method to completion, wired up
// by the interpreter package once it exists (the same cross-package-hook
// pattern as globals.FuncThrowException and UserLoadClassFunc). Nil is a
// legitimate state for classes with no <clinit> method at all -- Initialize
// only calls it after confirming one is declared.
var InvokeClinitFunc func(m *Method) error

// Initialize drives c (and, recursively, its superclass) to Inited. A
// class already Inited returns immediately; a class stuck in Error
// (an earlier initialization attempt threw) fails fast with
// NoClassDefFoundError, per JVMS §5.5's "erroneous initialization" rule --
// an initializer is never retried.
func Initialize(c *ClData) error {
	switch c.Status() {
	case Inited:
		return nil
	case Error:
		return fmt.Errorf("%s: %s (prior initialization failed: %v)", excnames.NoClassDefFoundError, c.Name, c.initErr)
	case Loaded:
		if err := Link(c); err != nil {
			return err
		}
	}

	_, err, _ := initGroup.Do(c.Name+"@"+c.Loader.Name, func() (any, error) {
		return nil, doInitialize(c)
	})
	return err
}

func doInitialize(c *ClData) error {
	// Re-check under the singleflight key: another goroutine may have
	// finished initializing c while this one waited to be scheduled.
	if c.Status() == Inited {
		return nil
	}

	if c.Superclass != nil {
		if err := Initialize(c.Superclass); err != nil {
			c.initErr = err
			c.setStatus(Error)
			return err
		}
	}

	c.setStatus(Initializing)
	if globals.TraceInit {
		trace.Trace("Initialize: " + c.Name)
	}

	clinit := c.MethodTable["<clinit>()V"]
	if clinit != nil {
		if InvokeClinitFunc == nil {
			err := fmt.Errorf("classloader: InvokeClinitFunc not wired, cannot run %s.<clinit>", c.Name)
			c.initErr = err
			c.setStatus(Error)
			return err
		}
		if err := InvokeClinitFunc(clinit); err != nil {
			wrapped := &InitError{ClassName: c.Name, Cause: err}
			c.initErr = wrapped
			c.setStatus(Error)
			return wrapped
		}
	}

	c.setStatus(Inited)
	return nil
}
