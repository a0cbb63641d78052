/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// This file implements the constant-pool resolution state machine (spec
// §4.3), grounded directly in original_source/src/objects/ConstantPool.cpp's
// resolveClass/resolveMethod/resolveField/resolveString/resolveMethodHandle
// shape: check the cached tag, resolve on a miss, upgrade the tag,
// return the handle.
package classloader

import (
	"fmt"

	"github.com/MilkTool/KayoVM/excnames"
)

// InternStringFunc is set by the object package at init time so this
// package can intern a resolved String constant without importing
// object (which itself imports classloader for *ClData). Mirrors the
// globals.FuncThrowException cross-package hook pattern.
var InternStringFunc func(s string) any

// ResolveClass resolves CP entry i (a Class or already-ResolvedClass
// entry) to a *ClData, following the current class's loader as the
// initiating loader (spec §4.3).
func (cp *CPool) ResolveClass(i int) (*ClData, error) {
	if v, ok := cp.resolvedValue(i, TagResolvedClass); ok {
		return v.(*ClData), nil
	}
	name, ok := cp.ClassNameAt(i)
	if !ok {
		return nil, fmt.Errorf("%s: CP entry %d is not a Class constant", excnames.NoClassDefFoundError, i)
	}
	loader := BootstrapCL
	if cp.Owner != nil && cp.Owner.Loader != nil {
		loader = cp.Owner.Loader
	}
	c, err := Load(loader, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", excnames.NoClassDefFoundError, err.Error())
	}
	cp.upgrade(i, TagResolvedClass, c)
	return c, nil
}

// ResolveString resolves CP entry i to the interned java.lang.String
// object, returned as `any` (the caller downcasts to *object.Object).
func (cp *CPool) ResolveString(i int) (any, error) {
	if v, ok := cp.resolvedValue(i, TagResolvedString); ok {
		return v, nil
	}
	e, ok := cp.entryCopy(i)
	if !ok || e.Tag != TagString {
		return nil, fmt.Errorf("CP entry %d is not a String constant", i)
	}
	s := cp.Utf8At(int(e.Idx1))
	if InternStringFunc == nil {
		return nil, fmt.Errorf("classloader: InternStringFunc not wired")
	}
	obj := InternStringFunc(s)
	cp.upgrade(i, TagResolvedString, obj)
	return obj, nil
}

// ResolveField resolves CP entry i to a *Field, first resolving its
// owner class then walking the JVMS §5.4.3.2 lookup: declaring class,
// then superinterfaces, then superclass, recursively.
func (cp *CPool) ResolveField(i int) (*Field, error) {
	if v, ok := cp.resolvedValue(i, TagResolvedField); ok {
		return v.(*Field), nil
	}
	e, ok := cp.entryCopy(i)
	if !ok || e.Tag != TagFieldref {
		return nil, fmt.Errorf("%s: CP entry %d is not a Fieldref", excnames.NoSuchFieldError, i)
	}
	owner, err := cp.ResolveClass(int(e.Idx1))
	if err != nil {
		return nil, err
	}
	name, desc, ok := cp.NameAndTypeAt(int(e.Idx2))
	if !ok {
		return nil, fmt.Errorf("%s: malformed NameAndType for field ref", excnames.NoSuchFieldError)
	}
	f := lookupField(owner, name, desc)
	if f == nil {
		return nil, fmt.Errorf("%s: %s.%s %s", excnames.NoSuchFieldError, owner.Name, name, desc)
	}
	cp.upgrade(i, TagResolvedField, f)
	return f, nil
}

func lookupField(c *ClData, name, desc string) *Field {
	for _, f := range c.Fields {
		if f.Name == name && f.Desc == desc {
			return f
		}
	}
	for _, iface := range c.Interfaces {
		if f := lookupField(iface, name, desc); f != nil {
			return f
		}
	}
	if c.Superclass != nil {
		return lookupField(c.Superclass, name, desc)
	}
	return nil
}

// ResolveMethod resolves a Methodref (spec §4.3, JVMS §5.4.3.3).
func (cp *CPool) ResolveMethod(i int) (*Method, error) {
	return cp.resolveMethodLike(i, TagMethodref, TagResolvedMethod)
}

// ResolveInterfaceMethod resolves an InterfaceMethodref (JVMS §5.4.3.4).
func (cp *CPool) ResolveInterfaceMethod(i int) (*Method, error) {
	return cp.resolveMethodLike(i, TagInterfaceMethodref, TagResolvedInterfaceMethod)
}

func (cp *CPool) resolveMethodLike(i int, rawTag, resolvedTag Tag) (*Method, error) {
	if v, ok := cp.resolvedValue(i, resolvedTag); ok {
		return v.(*Method), nil
	}
	e, ok := cp.entryCopy(i)
	if !ok || e.Tag != rawTag {
		return nil, fmt.Errorf("%s: CP entry %d is not the expected method ref kind", excnames.NoSuchMethodError, i)
	}
	owner, err := cp.ResolveClass(int(e.Idx1))
	if err != nil {
		return nil, err
	}
	name, desc, ok := cp.NameAndTypeAt(int(e.Idx2))
	if !ok {
		return nil, fmt.Errorf("%s: malformed NameAndType for method ref", excnames.NoSuchMethodError)
	}
	m := LookupMethod(owner, name, desc)
	if m == nil {
		return nil, fmt.Errorf("%s: %s.%s%s", excnames.NoSuchMethodError, owner.Name, name, desc)
	}
	cp.upgrade(i, resolvedTag, m)
	return m, nil
}

// LookupMethod implements the JVMS §5.4.3.3/4 search order: declared in
// c, then up the superclass chain, then (if still unfound) a maximally-
// specific default method among superinterfaces. Exported because
// invokevirtual dispatch needs the same search; invokeinterface reaches
// it through ResolveInterfaceDispatch.
func LookupMethod(c *ClData, name, desc string) *Method {
	key := name + desc
	for cur := c; cur != nil; cur = cur.Superclass {
		if m, ok := cur.MethodTable[key]; ok {
			return m
		}
	}
	return lookupInterfaceMethod(c, name, desc, make(map[*ClData]bool))
}

// lookupInterfaceMethod performs a simplified maximally-specific search:
// the first superinterface (searched depth-first) declaring a
// non-abstract method wins. A fully faithful JVMS §5.4.3.4 algorithm
// would detect genuine ambiguity between two unrelated default methods
// and raise an IncompatibleClassChangeError; this runtime instead takes
// the first candidate, a documented simplification (DESIGN.md).
func lookupInterfaceMethod(c *ClData, name, desc string, seen map[*ClData]bool) *Method {
	for _, iface := range c.Interfaces {
		if seen[iface] {
			continue
		}
		seen[iface] = true
		if m, ok := iface.MethodTable[name+desc]; ok && !m.Access.Abstract {
			return m
		}
		if m := lookupInterfaceMethod(iface, name, desc, seen); m != nil {
			return m
		}
	}
	return nil
}

// ResolveInterfaceDispatch returns the method recv actually runs for an
// invokeinterface call against the given interface method name+desc
// (spec §9's "precompute at link time ... an interface-method resolution
// cache keyed by (receiver class, interface method) with lazy fill"):
// recv.ITable caches the answer per receiving class, since the same
// interface method resolves to a different override for every class that
// implements the interface. A cache miss falls back to LookupMethod's
// ordinary virtual search, which already walks recv's own method table
// before ever consulting superinterfaces.
func ResolveInterfaceDispatch(recv *ClData, name, desc string) *Method {
	key := name + desc

	recv.itableMu.Lock()
	if recv.ITable == nil {
		recv.ITable = make(map[string]*Method)
	}
	if m, ok := recv.ITable[key]; ok {
		recv.itableMu.Unlock()
		return m
	}
	recv.itableMu.Unlock()

	m := LookupMethod(recv, name, desc)

	recv.itableMu.Lock()
	recv.ITable[key] = m
	recv.itableMu.Unlock()
	return m
}

// ResolveMethodType resolves a MethodType entry per-use: the descriptor
// string itself is the "resolved" value here (the full MethodType object
// construction is a gfunction-layer concern); never cached in the pool,
// per spec §4.3.
func (cp *CPool) ResolveMethodType(i int) (string, error) {
	e, ok := cp.entryCopy(i)
	if !ok || e.Tag != TagMethodType {
		return "", fmt.Errorf("CP entry %d is not a MethodType", i)
	}
	return cp.Utf8At(int(e.Idx1)), nil
}

// MethodHandleRef is the decoded shape of a MethodHandle constant,
// returned by ResolveMethodHandle for the gfunction layer's
// MethodHandles.Lookup factories to act on (spec §4.3's "invokes the
// corresponding factory"). Per-use, like MethodType -- never cached.
type MethodHandleRef struct {
	RefKind    byte
	OwnerClass *ClData
	Name       string
	Desc       string
	Field      *Field  // set when RefKind is one of the get/put kinds
	Method     *Method // set when RefKind is one of the invoke kinds
}

// ResolveMethodHandle decodes a MethodHandle entry's reference kind and
// resolves the field/method it points at (spec §4.3; ground:
// original_source/src/objects/ConstantPool.cpp's resolveMethodHandle
// switch over REF_getField..REF_invokeInterface). Only the four
// field-accessor kinds and invokeStatic are fully wired; the
// virtual/special/interface/constructor kinds are a stated Open Question
// in spec §9 and return an UnsupportedOperationException-shaped error,
// decided in DESIGN.md.
func (cp *CPool) ResolveMethodHandle(i int) (*MethodHandleRef, error) {
	e, ok := cp.entryCopy(i)
	if !ok || e.Tag != TagMethodHandle {
		return nil, fmt.Errorf("CP entry %d is not a MethodHandle", i)
	}
	switch e.RefKind {
	case RefGetField, RefGetStatic, RefPutField, RefPutStatic:
		f, err := cp.ResolveField(int(e.Idx1))
		if err != nil {
			return nil, err
		}
		return &MethodHandleRef{RefKind: e.RefKind, OwnerClass: f.Declaring, Name: f.Name, Desc: f.Desc, Field: f}, nil
	case RefInvokeStatic:
		m, err := cp.ResolveMethod(int(e.Idx1))
		if err != nil {
			return nil, err
		}
		return &MethodHandleRef{RefKind: e.RefKind, OwnerClass: m.Declaring, Name: m.Name, Desc: m.Desc, Method: m}, nil
	case RefInvokeVirtual, RefInvokeSpecial, RefNewInvokeSpecial, RefInvokeInterface:
		return nil, fmt.Errorf("%s: MethodHandle reference kind %d not yet supported", excnames.UnsupportedOperationException, e.RefKind)
	default:
		return nil, fmt.Errorf("unrecognized MethodHandle reference kind %d", e.RefKind)
	}
}
