/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package types holds the descriptor sigils and other small constants
// shared across every other package, plus three descriptor predicates
// (IsPrimitiveDescriptor, IsReferenceDescriptor, Slots64). It exists so
// that classloader, object, frame, and gfunction
// don't have to import each other just to share a handful of byte values.
package types

// Field and return-type descriptor sigils, per JVMS §4.3.2.
const (
	Boolean  = "Z"
	Byte     = "B"
	Char     = "C"
	Double   = "D"
	Float    = "F"
	Int      = "I"
	Long     = "J"
	Ref      = "L" // prefix of Lclassname;
	Short    = "S"
	Void     = "V"
	Array    = "[" // prefix of an array descriptor
	RefArray = "[L"
)

// ByteArray is the field-type marker Jacobin-style code uses for a Java
// byte[] field (as opposed to the scalar "B").
const ByteArray = "[B"

// JavaByte is a byte as seen by Java semantics: signed, but stored as the
// machine byte it actually is. Most of the VM treats it as a plain byte;
// the distinction matters only at sign-extension boundaries (baload, etc.)
type JavaByte byte

// Bool/Char/etc. field-type aliases used by native-method dispatch when
// switching on Field.Ftype. Kept distinct from the descriptor sigils above
// because gfunction code historically switches on these names.
const (
	Bool  = Boolean
	Short2 = Short
)

// ClInit state of a class's static initializer, tracked on ClData.
const (
	NoClinit = iota
	ClInitNotRun
	ClInitInProgress
	ClInitRun
)

// StringPoolStringIndex is the class-name index used to mark an object as
// a java.lang.String instance created via the intern pool.
const StringPoolStringIndex = uint32(0)

// ObjectPoolStringIndex is the well-known string-pool index of
// "java/lang/Object", used to short-circuit superclass-loading recursion.
const ObjectPoolStringIndex = uint32(1)

// InvalidStringIndex marks a string-pool lookup failure.
const InvalidStringIndex = ^uint32(0)

// JavaBoolTrue/False are the canonical int64 encodings the interpreter
// uses for Java boolean values on the operand stack and in fields.
const (
	JavaBoolFalse int64 = 0
	JavaBoolTrue  int64 = 1
)

// IsPrimitiveDescriptor reports whether d is one of the eight scalar
// descriptor sigils or void.
func IsPrimitiveDescriptor(d string) bool {
	if len(d) != 1 {
		return false
	}
	switch d {
	case Boolean, Byte, Char, Double, Float, Int, Long, Short, Void:
		return true
	}
	return false
}

// IsReferenceDescriptor reports whether d names a class or array type.
func IsReferenceDescriptor(d string) bool {
	return len(d) > 0 && (d[0] == 'L' || d[0] == '[')
}

// Slots64 reports how many local-variable/operand-stack slots a
// descriptor's value occupies: 2 for long/double, 1 for everything else.
func Slots64(d string) int {
	if d == Long || d == Double {
		return 2
	}
	return 1
}
