/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "testing"

func TestLookupFieldWalksSuperclassChain(t *testing.T) {
	super := &ClData{
		Name:   "Base",
		Loader: BootstrapCL,
		Fields: []*Field{{Name: "x", Desc: "I"}},
	}
	sub := &ClData{
		Name:       "Sub",
		Loader:     BootstrapCL,
		Superclass: super,
	}
	f := lookupField(sub, "x", "I")
	if f == nil {
		t.Fatal("expected to find the inherited field x")
	}
	if lookupField(sub, "missing", "I") != nil {
		t.Fatal("expected no match for an undeclared field")
	}
}

func TestLookupMethodPrefersOwnOverSuperclass(t *testing.T) {
	superMethod := &Method{Name: "greet", Desc: "()V"}
	super := &ClData{
		Name:        "Base",
		Loader:      BootstrapCL,
		MethodTable: map[string]*Method{"greet()V": superMethod},
	}
	ownMethod := &Method{Name: "greet", Desc: "()V"}
	sub := &ClData{
		Name:        "Sub",
		Loader:      BootstrapCL,
		Superclass:  super,
		MethodTable: map[string]*Method{"greet()V": ownMethod},
	}
	if got := LookupMethod(sub, "greet", "()V"); got != ownMethod {
		t.Fatal("expected LookupMethod to prefer the subclass's own declaration")
	}
}

func TestLookupMethodFallsBackToDefaultInterfaceMethod(t *testing.T) {
	defaultMethod := &Method{Name: "greet", Desc: "()V"}
	iface := &ClData{
		Name:        "Greeter",
		Loader:      BootstrapCL,
		MethodTable: map[string]*Method{"greet()V": defaultMethod},
	}
	impl := &ClData{
		Name:       "Impl",
		Loader:     BootstrapCL,
		Interfaces: []*ClData{iface},
	}
	if got := LookupMethod(impl, "greet", "()V"); got != defaultMethod {
		t.Fatal("expected LookupMethod to fall back to the interface's default method")
	}
}

// ResolveInterfaceDispatch must cache per receiving class, not globally --
// two classes implementing the same interface method resolve to two
// different overrides (spec §9's "keyed by (receiver class, interface
// method)").
func TestResolveInterfaceDispatchCachesPerReceiver(t *testing.T) {
	ifaceMethod := &Method{Name: "speak", Desc: "()V"}
	iface := &ClData{
		Name:        "Speaker",
		Loader:      BootstrapCL,
		MethodTable: map[string]*Method{"speak()V": ifaceMethod},
	}

	catMethod := &Method{Name: "speak", Desc: "()V"}
	cat := &ClData{
		Name:        "Cat",
		Loader:      BootstrapCL,
		Interfaces:  []*ClData{iface},
		MethodTable: map[string]*Method{"speak()V": catMethod},
	}
	dogMethod := &Method{Name: "speak", Desc: "()V"}
	dog := &ClData{
		Name:        "Dog",
		Loader:      BootstrapCL,
		Interfaces:  []*ClData{iface},
		MethodTable: map[string]*Method{"speak()V": dogMethod},
	}

	if got := ResolveInterfaceDispatch(cat, "speak", "()V"); got != catMethod {
		t.Fatalf("expected Cat.speak to resolve to Cat's own method")
	}
	if got := ResolveInterfaceDispatch(dog, "speak", "()V"); got != dogMethod {
		t.Fatalf("expected Dog.speak to resolve to Dog's own method")
	}
	// second call for the same receiver must hit the cache and return the
	// identical method, not merely an equal one.
	if got := ResolveInterfaceDispatch(cat, "speak", "()V"); got != catMethod {
		t.Fatalf("expected a cached repeat call to still return Cat's method")
	}
	if cat.ITable["speak()V"] != catMethod {
		t.Fatal("expected ITable to have cached the resolved method")
	}
}

func TestResolveMethodHandleRejectsUnsupportedReferenceKinds(t *testing.T) {
	cp := &CPool{Entries: []CpEntry{
		{}, // index 0 is reserved and unused, per JVMS §4.1
		{Tag: TagMethodHandle, RefKind: RefInvokeVirtual, Idx1: 0},
	}}
	if _, err := cp.ResolveMethodHandle(1); err == nil {
		t.Fatal("expected RefInvokeVirtual to be rejected as unsupported")
	}
}
