/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func newLinkedClassWithClinit(name string, fails bool) *ClData {
	clinit := &Method{Name: "<clinit>", Desc: "()V"}
	c := &ClData{
		Name:        name,
		Loader:      BootstrapCL,
		MethodTable: map[string]*Method{"<clinit>()V": clinit},
	}
	if err := Link(c); err != nil {
		panic(err)
	}
	return c
}

func TestInitializeRunsClinitExactlyOnceUnderConcurrency(t *testing.T) {
	orig := InvokeClinitFunc
	defer func() { InvokeClinitFunc = orig }()

	var calls int32
	InvokeClinitFunc = func(m *Method) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	c := newLinkedClassWithClinit("Concurrent", false)

	var wg sync.WaitGroup
	const n = 20
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = Initialize(c)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("unexpected error from a concurrent Initialize call: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected <clinit> to run exactly once across %d concurrent callers, ran %d times", n, got)
	}
	if c.Status() != Inited {
		t.Fatalf("expected class to end in Inited, got %v", c.Status())
	}
}

func TestInitializeFirstFailureWrapsInitError(t *testing.T) {
	orig := InvokeClinitFunc
	defer func() { InvokeClinitFunc = orig }()

	cause := errors.New("boom")
	InvokeClinitFunc = func(m *Method) error { return cause }

	c := newLinkedClassWithClinit("Failing", true)

	err := Initialize(c)
	if err == nil {
		t.Fatal("expected an error from a throwing <clinit>")
	}
	var ie *InitError
	if !errors.As(err, &ie) {
		t.Fatalf("expected the first failure to be an *InitError, got %T: %v", err, err)
	}
	if ie.ClassName != "Failing" {
		t.Fatalf("expected ClassName %q, got %q", "Failing", ie.ClassName)
	}
	if c.Status() != Error {
		t.Fatalf("expected class to end in Error status, got %v", c.Status())
	}
}

func TestInitializeSubsequentAccessIsNotInitError(t *testing.T) {
	orig := InvokeClinitFunc
	defer func() { InvokeClinitFunc = orig }()

	InvokeClinitFunc = func(m *Method) error { return errors.New("boom") }
	c := newLinkedClassWithClinit("FailTwice", true)

	if err := Initialize(c); err == nil {
		t.Fatal("expected the first Initialize to fail")
	}

	// A second access hits Initialize's Error-status fast path, which
	// must NOT be an *InitError -- only the first failure gets wrapped
	// as ExceptionInInitializerError; every later access is a plain
	// NoClassDefFoundError-shaped error instead.
	err := Initialize(c)
	if err == nil {
		t.Fatal("expected the second Initialize call to also fail")
	}
	var ie *InitError
	if errors.As(err, &ie) {
		t.Fatalf("expected a subsequent access to NOT be an *InitError, got %v", err)
	}
}

func TestInitializeInitializesSuperclassFirst(t *testing.T) {
	orig := InvokeClinitFunc
	defer func() { InvokeClinitFunc = orig }()

	var order []string
	InvokeClinitFunc = func(m *Method) error {
		order = append(order, m.Declaring.Name)
		return nil
	}

	super := newLinkedClassWithClinit("Super", false)
	super.MethodTable["<clinit>()V"].Declaring = super
	sub := &ClData{
		Name:        "Sub",
		Loader:      BootstrapCL,
		Superclass:  super,
		MethodTable: map[string]*Method{"<clinit>()V": {Name: "<clinit>", Desc: "()V", Declaring: nil}},
	}
	sub.MethodTable["<clinit>()V"].Declaring = sub
	if err := Link(sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Initialize(sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "Super" || order[1] != "Sub" {
		t.Fatalf("expected superclass to initialize before subclass, got order %v", order)
	}
}
