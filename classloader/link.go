/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Link computes a class's layout (spec §4.2's link operation): instance-
// and static-slot indices and the v-table for virtual dispatch. The
// i-table resolution cache is only allocated here, empty; it is filled
// lazily by ResolveInterfaceDispatch. Link is idempotent -- a second call on an already-Linked class
// is a no-op, since JVMS §5.4 requires linking to happen at most once.
package classloader

import "sync"

var linkMu sync.Mutex

// Link links the superclass first, lays out instance and static slots
// (superclass slots first, per spec §3), builds the v-table, and advances
// the class to Linked. It performs no structural verification beyond
// what parsing already checked.
func Link(c *ClData) error {
	if c.Superclass != nil {
		if err := Link(c.Superclass); err != nil {
			return err
		}
	}

	linkMu.Lock()
	defer linkMu.Unlock()

	if c.Status() != Loaded {
		return nil // idempotent: already linked (or further along)
	}

	slot := 0
	if c.Superclass != nil {
		slot = c.Superclass.InstanceSlotCount
	}
	for _, f := range c.Fields {
		if f.IsStatic {
			continue
		}
		f.SlotIndex = slot
		slot += fieldSlots(f.Desc)
	}
	c.InstanceSlotCount = slot

	staticSlot := 0
	for _, f := range c.Fields {
		if !f.IsStatic {
			continue
		}
		f.SlotIndex = staticSlot
		c.Statics = append(c.Statics, StaticSlot{Desc: f.Desc, Value: zeroValueFor(f.Desc, f.ConstValue)})
		staticSlot += fieldSlots(f.Desc)
	}
	c.StaticSlotCount = staticSlot

	buildVTable(c)
	c.ITable = make(map[string]*Method)

	c.setStatus(Linked)
	return nil
}

func zeroValueFor(desc string, constValue any) any {
	if constValue != nil {
		return constValue
	}
	switch desc[0] {
	case 'L', '[':
		return nil
	case 'D', 'F':
		return 0.0
	default:
		return int64(0)
	}
}

// buildVTable lays out the virtual-dispatch order: the superclass's
// v-table entries (so an index is stable across the hierarchy), with
// this class's own overriding or newly declared virtual methods slotted
// in -- overriding replaces the superclass's entry at the same index
// rather than appending, matching JVMS virtual-method-table semantics.
func buildVTable(c *ClData) {
	var table []*Method
	index := make(map[string]int)
	if c.Superclass != nil {
		table = append(table, c.Superclass.VTable...)
		for i, m := range table {
			index[m.Name+m.Desc] = i
		}
	}
	for _, m := range c.Methods {
		if m.Access.Abstract || m.Name == "<init>" || m.Name == "<clinit>" {
			continue
		}
		key := m.Name + m.Desc
		if i, ok := index[key]; ok {
			table[i] = m
		} else {
			index[key] = len(table)
			table = append(table, m)
		}
	}
	c.VTable = table
}
