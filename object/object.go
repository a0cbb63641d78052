/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package object implements the heap object model (spec §3/§6): every
// Java instance is a header plus a flat field table. Ground: jacobin's
// object.Object/object.Field, generalized so Klass points directly at
// this runtime's *classloader.ClData instead of a class-name string,
// now that linking computes real slot layout up front.
package object

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/stringpool"
	"github.com/MilkTool/KayoVM/types"
)

// MonitorState is the per-object lock backing monitorenter/monitorexit
// (spec §6's object header). It holds a single mutex; there is no
// wait-set and no condition variable.
type MonitorState struct {
	mu sync.Mutex
}

// Lock and Unlock implement monitorenter/monitorexit (spec §7). This
// runtime doesn't yet track recursive-entry counts or a wait-set --
// re-entrant lock and Object.wait/notify are a documented gap, not
// exercised by any of this runtime's test scenarios.
func (m *MonitorState) Lock()   { m.mu.Lock() }
func (m *MonitorState) Unlock() { m.mu.Unlock() }

// Field is one instance or static field's runtime value (spec §3).
// Ftype is the JVMS descriptor sigil (or types.ByteArray for Java's
// compact-string backing array); Fvalue holds the Go-native value.
type Field struct {
	Ftype  string
	Fvalue any
}

var nextHash uint32

func allocHash() uint32 {
	return atomic.AddUint32(&nextHash, 1)
}

// Object is the runtime representation of every Java instance (spec §3/
// §6): Klass identifies its class, FieldTable holds its instance fields
// keyed by name (simpler than the slot-indexed array link.go computes --
// the slot layout exists for future direct-indexed access but isn't load-
// bearing yet, so the field table stays the lookup path gfunction and the
// interpreter actually use, matching the teacher's object.Object shape).
type Object struct {
	Klass      *classloader.ClData
	Mark       *MonitorState
	Hash       uint32
	FieldTable map[string]Field

	// isString marks an object built by NewStringObject/
	// CreateCompactStringFromGoString, which never acquire a real
	// java/lang/String ClData (object can't resolve one without forcing
	// a classloader.Load for every literal and intern). IsStringInstance
	// consults this before falling back to the class-name check a
	// properly `new`-and-`<init>`-ed String carries.
	isString bool

	// backing is the *classloader.ClData this object mirrors, set only
	// on java.lang.Class instances built by NewClassMirror (spec §4.5/
	// §9's reflection bootstrap). Nil for every ordinary instance.
	backing *classloader.ClData
}

// BackingClass returns the ClData a java.lang.Class mirror represents,
// or nil for any object that isn't one (spec §4.5's native Class methods
// all operate off this rather than o's own Klass, which is just "this is
// an instance of java/lang/Class").
func (o *Object) BackingClass() *classloader.ClData {
	if o == nil {
		return nil
	}
	return o.backing
}

// NewClassMirror builds the java.lang.Class instance representing
// backing (spec §9's two-phase construction: the descriptor already
// exists, this just wraps it). classClass is java/lang/Class's own
// ClData when loadable; a nil classClass (no bootstrap classpath able
// to supply java/lang/Class's bytecode) still produces a usable,
// classless mirror object, since every reflective native reads Backing-
// Class rather than FieldTable. Registered as classloader.MirrorFactoryFunc
// below so EnsureMirror never has to import object directly.
func NewClassMirror(classClass *classloader.ClData, backing *classloader.ClData) *Object {
	var obj *Object
	if classClass != nil {
		obj = New(classClass)
	} else {
		obj = MakeEmptyObject()
	}
	obj.backing = backing
	return obj
}

// MakeEmptyObject allocates an Object with no class and an empty field
// table -- the same two-step "allocate, then populate" shape instantiate.go
// uses once a class is resolved.
func MakeEmptyObject() *Object {
	return &Object{
		Hash:       allocHash(),
		Mark:       &MonitorState{},
		FieldTable: make(map[string]Field),
	}
}

// New allocates an instance of klass with every declared instance field
// (including inherited ones) present in FieldTable, zero-valued per its
// descriptor (spec §6).
func New(klass *classloader.ClData) *Object {
	obj := MakeEmptyObject()
	obj.Klass = klass
	for cur := klass; cur != nil; cur = cur.Superclass {
		for _, f := range cur.Fields {
			if f.IsStatic {
				continue
			}
			if _, exists := obj.FieldTable[f.Name]; !exists {
				obj.FieldTable[f.Name] = Field{Ftype: f.Desc, Fvalue: zeroValue(f.Desc)}
			}
		}
	}
	return obj
}

func zeroValue(desc string) any {
	switch {
	case desc == types.Double || desc == types.Float:
		return 0.0
	case types.IsReferenceDescriptor(desc):
		return nil
	default:
		return int64(0)
	}
}

// ClassName returns the object's class's internal-form name, or "" for
// an object with no class yet (the brief window between MakeEmptyObject
// and the caller setting Klass).
func (o *Object) ClassName() string {
	if o.Klass == nil {
		return ""
	}
	return o.Klass.Name
}

// IsStringInstance reports whether o is a java.lang.String, the one
// class gfunction's native String methods need to special-case without
// an import cycle back to classloader's well-known name constants.
func (o *Object) IsStringInstance() bool {
	return o.isString || o.ClassName() == "java/lang/String"
}

// ToString renders a best-effort debug representation of an object,
// used by the teacher's "log every frame" trace mode and by test
// failures (ground: jacobin's object.Object.ToString).
func (o *Object) ToString() string {
	if o == nil {
		return "null"
	}
	if o.IsStringInstance() {
		if v, ok := o.FieldTable["value"]; ok {
			if b, ok := v.Fvalue.([]types.JavaByte); ok {
				return GoStringFromJavaByteArray(b)
			}
			if s, ok := v.Fvalue.(string); ok {
				return s
			}
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s@%x", o.ClassName(), o.Hash)
	if len(o.FieldTable) > 0 {
		sb.WriteString(" {")
		first := true
		for name, f := range o.FieldTable {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&sb, "%s=%v", name, f.Fvalue)
		}
		sb.WriteString("}")
	}
	return sb.String()
}

// NewStringObject creates an empty, unbacked java.lang.String instance;
// callers set FieldTable["value"] themselves (ground: jacobin's
// object.NewStringObject, generalized to not require a live classloader
// lookup -- String's ClData is attached lazily by whichever caller
// already has it in hand, since object can't import classloader's
// Load without constructing a cycle at init time).
func NewStringObject() *Object {
	obj := MakeEmptyObject()
	obj.isString = true
	return obj
}

// CreateCompactStringFromGoString builds a String instance backed by a
// Java byte[] (Latin-1 compact-string representation; spec §8/§9's
// documented Open Question -- this runtime always uses the byte[]
// encoding, never the UTF-16 char[] fallback real compact strings fall
// back to for non-Latin-1 content).
func CreateCompactStringFromGoString(s *string) *Object {
	obj := NewStringObject()
	obj.FieldTable["value"] = Field{Ftype: types.ByteArray, Fvalue: JavaByteArrayFromGoString(*s)}
	return obj
}

// internPool caches one Object per distinct interned string content,
// keyed by the stringpool index (spec §4.3's ResolveString ground:
// original_source/src/objects/ConstantPool.cpp's string interning).
var internPool sync.Map // map[uint32]*Object

// Intern returns the canonical String object for s, creating and
// registering one on first use. Wired into classloader.InternStringFunc
// at package init so CP string resolution never needs to import object
// directly.
func Intern(s string) *Object {
	idx := stringpool.GetStringIndex(s)
	if v, ok := internPool.Load(idx); ok {
		return v.(*Object)
	}
	obj := CreateCompactStringFromGoString(&s)
	actual, _ := internPool.LoadOrStore(idx, obj)
	return actual.(*Object)
}

func init() {
	classloader.InternStringFunc = func(s string) any { return Intern(s) }
	classloader.MirrorFactoryFunc = func(c *classloader.ClData) any {
		classClass, _ := classloader.Load(classloader.BootstrapCL, "java/lang/Class")
		return NewClassMirror(classClass, c)
	}
}
