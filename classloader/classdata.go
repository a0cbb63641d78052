/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"sync"

	"github.com/MilkTool/KayoVM/types"
	"golang.org/x/sync/singleflight"
)

// Status is a class descriptor's position in the JVMS §5 lifecycle
// (spec §3: LOADED → LINKED → INITIALIZING → INITED → ERROR).
type Status int

const (
	Loaded Status = iota
	Linked
	Initializing
	Inited
	Error
)

// AccessFlags is the JVMS §4.1 access_flags bitmask, decoded into the
// booleans spec §3 names.
type AccessFlags struct {
	Public, Final, Super, Interface, Abstract, Synthetic, Annotation, Enum bool
}

// ClData is the immutable-schema-plus-mutable-state class descriptor
// spec §3 describes (ground: jacobin's classloader.ClData, trimmed to
// what this runtime's reduced attribute/bootstrap surface needs).
type ClData struct {
	Name       string // internal slash form, e.g. "java/lang/Object"
	Pkg        string
	SourceFile string
	Access     AccessFlags

	SuperclassName string // "" only for java/lang/Object
	Superclass     *ClData
	InterfaceNames []string
	Interfaces     []*ClData

	CP *CPool

	Fields      []*Field
	Methods     []*Method
	MethodTable map[string]*Method // key: name+descriptor

	// layout, computed at Link time
	InstanceSlotCount int
	StaticSlotCount   int
	Statics           []StaticSlot
	VTable            []*Method          // virtual-dispatch order, index-addressable
	ITable            map[string]*Method // interface-method resolution cache, lazily filled

	// array-specific layout; zero value for non-array classes
	IsArray        bool
	ElementSize    int
	ComponentClass *ClData
	ComponentDesc  string // primitive sigil when ComponentClass is nil (e.g. "I")

	IsPrimitive   bool
	PrimitiveName string // "int", "boolean", ... ; "" for non-primitives

	Loader *Loader // nil would mean bootstrap, but BootstrapCL is a concrete *Loader

	// Mirror is this class's java.lang.Class instance. `any` to avoid an
	// import cycle with the object package; set once under the owning
	// registry's lock (spec §9 two-phase construction).
	Mirror any

	mu       sync.Mutex
	status   Status
	initErr  error

	itableMu sync.Mutex // guards ITable's lazy fill, kept separate from mu/status
}

// Field is one declared field of a class (spec §3).
type Field struct {
	Name        string
	Desc        string
	Access      AccessFlags
	IsStatic    bool
	SlotIndex   int // index into the instance-slot or static-slot table
	ConstValue  any
	Declaring   *ClData
}

// CodeException is one entry of a method's exception table (JVMS §4.7.3).
type CodeException struct {
	StartPC, EndPC, HandlerPC int
	CatchType                 string // resolved class name; "" = catch-all
}

// LineEntry maps a bytecode offset to a source line (JVMS §4.7.12).
type LineEntry struct {
	StartPC int
	Line    int
}

// Method is one declared method of a class, including constructors and
// <clinit> (spec §3).
type Method struct {
	Name   string
	Desc   string
	Access AccessFlags

	Declaring *ClData

	MaxStackN  int
	MaxLocalsN int
	Code       []byte
	Exceptions []CodeException
	Lines      []LineEntry

	IsNative bool

	// ParamSlots is the number of local-variable slots the method's
	// parameters occupy (receiver not included), used by the native
	// registry to know how many operand-stack slots to pop (spec §4.4).
	ParamSlots int
}

// MaxStack/MaxLocals satisfy frame.MethodSource.
func (m *Method) MaxStack() int  { return m.MaxStackN }
func (m *Method) MaxLocals() int { return m.MaxLocalsN }

// StaticSlot holds one class-level (static) variable's storage.
type StaticSlot struct {
	Desc  string
	Value any
}

// status helpers -------------------------------------------------------

func (c *ClData) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *ClData) setStatus(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

// initGroup serializes concurrent Initialize calls for the same class,
// per spec §4.2/§5 ("one thread initializes, others wait"). Keyed by the
// class name plus its defining loader's name ("name@loader", see
// Initialize); a package-level group (rather than one per ClData) keeps
// ClData free of a singleflight.Group field it would otherwise need to
// carry for its entire life just for one brief window of use.
var initGroup singleflight.Group

// IsVoid returns true if c is the synthesized primitive class for void.
func (c *ClData) IsVoid() bool { return c.IsPrimitive && c.PrimitiveName == "void" }

// fieldSlots returns how many local/operand slots this field's type
// occupies were it a local variable (used by the object layout pass).
func fieldSlots(desc string) int {
	return types.Slots64(desc)
}
