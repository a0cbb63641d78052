/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "sync"

// Tag identifies the kind of a constant-pool entry. The raw (unresolved)
// values match the JVMS §4.4 CONSTANT_* tags exactly, so the bytecode
// reader can store them without translation; the Resolved* values are
// runtime-only and never appear in a class file.
type Tag byte

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20

	// Resolved-variant tags: runtime-only, reached by an in-place upgrade
	// of the corresponding raw tag (spec §3/§4.3). Values are chosen well
	// outside the JVMS tag range so the two spaces never collide.
	TagResolvedClass           Tag = 100 + Tag(TagClass)
	TagResolvedString          Tag = 100 + Tag(TagString)
	TagResolvedField           Tag = 100 + Tag(TagFieldref)
	TagResolvedMethod          Tag = 100 + Tag(TagMethodref)
	TagResolvedInterfaceMethod Tag = 100 + Tag(TagInterfaceMethodref)
)

// MethodHandle reference kinds, JVMS §5.4.3.5 table.
const (
	RefGetField         = 1
	RefGetStatic        = 2
	RefPutField         = 3
	RefPutStatic        = 4
	RefInvokeVirtual    = 5
	RefInvokeStatic     = 6
	RefInvokeSpecial    = 7
	RefNewInvokeSpecial = 8
	RefInvokeInterface  = 9
)

// CpEntry is one constant-pool slot: a tag plus whichever payload fields
// that tag uses. Resolution rewrites Tag and Resolved in place -- every
// other field is immutable once parsed, matching the "payload overwritten
// with a pointer/handle" description in spec §3 (ground:
// original_source/src/objects/ConstantPool.cpp's type()/info() pair,
// generalized here from one tagged array into one struct slice).
type CpEntry struct {
	Tag Tag

	// Utf8 holds the decoded string for a Utf8 entry.
	Utf8 string

	// IntVal/LongVal/FloatVal/DoubleVal hold the literal for the
	// corresponding numeric-constant tags.
	IntVal    int32
	LongVal   int64
	FloatVal  float32
	DoubleVal float64

	// Idx1/Idx2 are the raw constant-pool indices a composite entry
	// points at, interpreted per Tag:
	//   Class:               Idx1 = name (Utf8) index
	//   String:               Idx1 = value (Utf8) index
	//   Fieldref/Methodref/
	//   InterfaceMethodref:   Idx1 = class index,     Idx2 = NameAndType index
	//   NameAndType:          Idx1 = name (Utf8) index, Idx2 = descriptor (Utf8) index
	//   MethodType:           Idx1 = descriptor (Utf8) index
	//   Dynamic/InvokeDynamic: Idx1 = bootstrap-method index, Idx2 = NameAndType index
	Idx1, Idx2 uint16

	// RefKind is valid for MethodHandle entries (values above).
	RefKind byte

	// Resolved holds the runtime handle once Tag has been upgraded to a
	// Resolved* variant: *ClData, *Field, *Method, or a string-object
	// handle (an `any` so this package never needs to import object).
	Resolved any
}

// CPool is a class's constant pool: a 1-indexed slice of entries (index 0
// is reserved and unused, matching JVMS §4.1's cp count convention) plus
// the lock that makes resolution atomic (spec §4.3/§5).
type CPool struct {
	mu      sync.RWMutex
	Entries []CpEntry
	Owner   *ClData
}

// newCPool allocates a pool sized for n entries (n including the unused
// index 0).
func newCPool(n int) *CPool {
	return &CPool{Entries: make([]CpEntry, n)}
}

// Count returns the number of slots, including the unused index 0.
func (cp *CPool) Count() int {
	return len(cp.Entries)
}

// TagAt returns the current tag of entry i under the pool's read lock,
// so a caller can tell a resolved handle from raw indices (spec §3).
func (cp *CPool) TagAt(i int) Tag {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	if i < 1 || i >= len(cp.Entries) {
		return 0
	}
	return cp.Entries[i].Tag
}

// Utf8At returns the decoded string of a Utf8 entry, or "" if i doesn't
// name one.
func (cp *CPool) Utf8At(i int) string {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	if i < 1 || i >= len(cp.Entries) || cp.Entries[i].Tag != TagUtf8 {
		return ""
	}
	return cp.Entries[i].Utf8
}

// entryCopy returns a defensive copy of entry i under the read lock.
func (cp *CPool) entryCopy(i int) (CpEntry, bool) {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	if i < 1 || i >= len(cp.Entries) {
		return CpEntry{}, false
	}
	return cp.Entries[i], true
}

// EntryAt is entryCopy exported for the interpreter's ldc handling, which
// needs the raw numeric-literal fields (IntVal/LongVal/FloatVal/DoubleVal)
// this package otherwise keeps behind the Resolve*/TagAt/Utf8At accessors.
func (cp *CPool) EntryAt(i int) (CpEntry, bool) {
	return cp.entryCopy(i)
}

// ClassNameAt returns the slash-form class name a Class (or
// ResolvedClass) entry names.
func (cp *CPool) ClassNameAt(i int) (string, bool) {
	e, ok := cp.entryCopy(i)
	if !ok || (e.Tag != TagClass && e.Tag != TagResolvedClass) {
		return "", false
	}
	return cp.Utf8At(int(e.Idx1)), true
}

// NameAndTypeAt decodes a NameAndType entry into its name and descriptor.
func (cp *CPool) NameAndTypeAt(i int) (name, desc string, ok bool) {
	e, present := cp.entryCopy(i)
	if !present || e.Tag != TagNameAndType {
		return "", "", false
	}
	return cp.Utf8At(int(e.Idx1)), cp.Utf8At(int(e.Idx2)), true
}

// upgrade performs the in-place tag rewrite resolution requires: it is
// idempotent (a second call with the same resolved value is a no-op) and
// holds the pool's write lock for the duration, so a concurrent reader
// using TagAt/entryCopy never observes a half-written entry.
func (cp *CPool) upgrade(i int, newTag Tag, resolved any) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	e := &cp.Entries[i]
	if e.Tag == newTag {
		return // already resolved by a racing caller; never regress
	}
	e.Tag = newTag
	e.Resolved = resolved
}

// resolvedValue returns the cached handle if entry i is already in its
// Resolved* state, for resolve-function fast paths.
func (cp *CPool) resolvedValue(i int, resolvedTag Tag) (any, bool) {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	if i < 1 || i >= len(cp.Entries) {
		return nil, false
	}
	e := cp.Entries[i]
	if e.Tag == resolvedTag {
		return e.Resolved, true
	}
	return nil, false
}
