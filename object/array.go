/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"fmt"

	"github.com/MilkTool/KayoVM/classloader"
)

// Array is the runtime representation of a Java array (spec §6/§8):
// Klass is the synthesized array ClData (e.g. "[I"), and Elements holds
// one Go value per slot -- int64 for every integral primitive (narrower
// types are sign/zero-extended on store, per spec §6), float64/complex
// avoided in favor of plain float64/... per element kind, and *Object
// (or nil) for reference component types.
type Array struct {
	Klass    *classloader.ClData
	Hash     uint32
	Elements []any
}

// NewArray allocates a zero-filled array of klass (an array ClData) with
// the given length (spec §6's "array length is fixed at creation"). A
// negative length is a Java-visible NegativeArraySizeException, not a Go
// panic -- ordinary bytecode (iconst_m1; newarray) can produce one.
func NewArray(klass *classloader.ClData, length int) (*Array, error) {
	if length < 0 {
		return nil, fmt.Errorf("negative array size: %d", length)
	}
	elems := make([]any, length)
	zero := elementZero(klass)
	for i := range elems {
		elems[i] = zero
	}
	return &Array{Klass: klass, Hash: allocHash(), Elements: elems}, nil
}

func elementZero(klass *classloader.ClData) any {
	if klass.ComponentClass != nil {
		return (*Object)(nil)
	}
	switch klass.ComponentDesc {
	case "D", "F":
		return 0.0
	default:
		return int64(0)
	}
}

func (a *Array) Len() int { return len(a.Elements) }

func (a *Array) ClassName() string {
	if a.Klass == nil {
		return ""
	}
	return a.Klass.Name
}
