/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"testing"

	"github.com/MilkTool/KayoVM/types"
)

func TestLinkLaysOutInheritedInstanceSlotsFirst(t *testing.T) {
	super := &ClData{
		Name:   "Base",
		Loader: BootstrapCL,
		Fields: []*Field{
			{Name: "x", Desc: types.Int},
		},
		MethodTable: make(map[string]*Method),
	}
	sub := &ClData{
		Name:       "Sub",
		Loader:     BootstrapCL,
		Superclass: super,
		Fields: []*Field{
			{Name: "y", Desc: types.Long},
		},
		MethodTable: make(map[string]*Method),
	}

	if err := Link(sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if super.Status() != Linked {
		t.Fatalf("expected Link(sub) to transitively link the superclass")
	}
	if sub.Fields[0].SlotIndex != super.InstanceSlotCount {
		t.Fatalf("expected sub's own field to start after the superclass's slots: got %d, want %d",
			sub.Fields[0].SlotIndex, super.InstanceSlotCount)
	}
	if sub.InstanceSlotCount != super.InstanceSlotCount+types.Slots64(types.Long) {
		t.Fatalf("unexpected total instance slot count %d", sub.InstanceSlotCount)
	}
}

func TestLinkIsIdempotent(t *testing.T) {
	c := &ClData{
		Name:        "Once",
		Loader:      BootstrapCL,
		MethodTable: make(map[string]*Method),
		Fields:      []*Field{{Name: "a", Desc: types.Int}},
	}
	if err := Link(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstSlotCount := c.InstanceSlotCount
	c.Fields = append(c.Fields, &Field{Name: "b", Desc: types.Int})
	if err := Link(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.InstanceSlotCount != firstSlotCount {
		t.Fatalf("second Link call should be a no-op on an already-Linked class, layout changed: %d -> %d",
			firstSlotCount, c.InstanceSlotCount)
	}
}

func TestBuildVTableOverrideReplacesSameSlot(t *testing.T) {
	baseMethod := &Method{Name: "greet", Desc: "()V"}
	super := &ClData{
		Name:        "Base",
		Loader:      BootstrapCL,
		MethodTable: map[string]*Method{"greet()V": baseMethod},
		Methods:     []*Method{baseMethod},
	}
	if err := Link(super); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overrideMethod := &Method{Name: "greet", Desc: "()V"}
	sub := &ClData{
		Name:        "Sub",
		Loader:      BootstrapCL,
		Superclass:  super,
		MethodTable: map[string]*Method{"greet()V": overrideMethod},
		Methods:     []*Method{overrideMethod},
	}
	if err := Link(sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sub.VTable) != 1 {
		t.Fatalf("expected the override to occupy the same single slot, got %d entries", len(sub.VTable))
	}
	if sub.VTable[0] != overrideMethod {
		t.Fatalf("expected sub's vtable slot 0 to hold the override, not the base method")
	}
}

func TestLinkSkipsAbstractAndConstructorMethods(t *testing.T) {
	ctor := &Method{Name: "<init>", Desc: "()V"}
	abstractMethod := &Method{Name: "doIt", Desc: "()V", Access: AccessFlags{Abstract: true}}
	c := &ClData{
		Name:        "HasAbstract",
		Loader:      BootstrapCL,
		MethodTable: map[string]*Method{"<init>()V": ctor, "doIt()V": abstractMethod},
		Methods:     []*Method{ctor, abstractMethod},
	}
	if err := Link(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.VTable) != 0 {
		t.Fatalf("expected no vtable entries for a constructor-only/abstract-only class, got %d", len(c.VTable))
	}
}
