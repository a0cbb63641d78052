/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Primitive and array class synthesis (spec §3, §4.2, §8 boundary
// behaviors): primitive descriptors ("int", "boolean", ...) and array
// descriptors ("[I", "[[[I", "[Ljava/lang/String;") never come from a
// .class file; they're manufactured directly, owned by the bootstrap
// loader, with no fields, no methods, and a synthesized superclass link
// (Object for arrays, none for primitives).
package classloader

import (
	"fmt"
	"strings"

	"github.com/MilkTool/KayoVM/types"
)

// primitiveDescriptors maps a primitive's Java-source name to its
// descriptor sigil (spec §4.5's Class.getPrimitiveClass name set, plus
// "void").
var primitiveDescriptors = map[string]string{
	"boolean": types.Boolean,
	"byte":    types.Byte,
	"char":    types.Char,
	"short":   types.Short,
	"int":     types.Int,
	"long":    types.Long,
	"float":   types.Float,
	"double":  types.Double,
	"void":    types.Void,
}

// sigilToJavaName reverses primitiveDescriptors, needed when a primitive
// shows up as an array's ComponentDesc (a bare sigil like "I") rather
// than as a Class.getPrimitiveClass argument (a Java-source name).
var sigilToJavaName = map[string]string{
	types.Boolean: "boolean", types.Byte: "byte", types.Char: "char",
	types.Short: "short", types.Int: "int", types.Long: "long",
	types.Float: "float", types.Double: "double", types.Void: "void",
}

// PrimitiveClassForDescriptor loads the primitive ClData for a bare
// descriptor sigil (e.g. "I" for int) -- the form an array's
// ComponentDesc carries (spec §4.5's getComponentType on a primitive
// array).
func PrimitiveClassForDescriptor(desc string) (*ClData, error) {
	name, ok := sigilToJavaName[desc]
	if !ok {
		return nil, fmt.Errorf("not a primitive descriptor: %s", desc)
	}
	return Load(BootstrapCL, name)
}

var elementSizes = map[string]int{
	types.Boolean: 1, types.Byte: 1,
	types.Char: 2, types.Short: 2,
	types.Int: 4, types.Float: 4,
	types.Long: 8, types.Double: 8,
}

const referenceElementSize = 8 // pointer width on a 64-bit build

func definePrimitive(javaName string) (*ClData, error) {
	if c, ok := FindLoaded(BootstrapCL, javaName); ok {
		return c, nil
	}
	kd := &ClData{
		Name:          javaName,
		IsPrimitive:   true,
		PrimitiveName: javaName,
		Loader:        BootstrapCL,
		MethodTable:   make(map[string]*Method),
		Access:        AccessFlags{Public: true, Final: true},
	}
	kd.setStatus(Inited) // primitives need no linking or initialization
	recordLoaded(BootstrapCL, javaName, kd)
	return kd, nil
}

// defineArray synthesizes the descriptor for an array class named in
// JVMS internal form: "[I", "[[I", "[Ljava/lang/String;", etc. (spec §3).
func defineArray(name string) (*ClData, error) {
	if c, ok := FindLoaded(BootstrapCL, name); ok {
		return c, nil
	}
	if !strings.HasPrefix(name, types.Array) {
		return nil, cfe(fmt.Sprintf("not an array descriptor: %s", name))
	}
	compDesc := name[1:]

	objectClass, err := Load(BootstrapCL, "java/lang/Object")
	if err != nil {
		return nil, err
	}

	kd := &ClData{
		Name:       name,
		IsArray:    true,
		Superclass: objectClass,
		Loader:     BootstrapCL,
		MethodTable: make(map[string]*Method),
		Access:      AccessFlags{Public: true, Final: true},
	}

	switch {
	case types.IsPrimitiveDescriptor(compDesc):
		kd.ComponentDesc = compDesc
		kd.ElementSize = elementSizes[compDesc]
	case strings.HasPrefix(compDesc, types.Array):
		comp, err := defineArray(compDesc)
		if err != nil {
			return nil, err
		}
		kd.ComponentClass = comp
		kd.ElementSize = referenceElementSize
	case strings.HasPrefix(compDesc, types.Ref) && strings.HasSuffix(compDesc, ";"):
		className := strings.TrimSuffix(strings.TrimPrefix(compDesc, types.Ref), ";")
		comp, err := Load(BootstrapCL, className)
		if err != nil {
			return nil, err
		}
		kd.ComponentClass = comp
		kd.ElementSize = referenceElementSize
	default:
		return nil, cfe(fmt.Sprintf("malformed array component descriptor: %s", compDesc))
	}

	kd.setStatus(Inited) // arrays need no <clinit>
	recordLoaded(BootstrapCL, name, kd)
	return kd, nil
}
