/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// java.lang.Class's native methods (spec §4.5/§7): the reflection
// bootstrap. Every one of these operates off the receiver's
// object.BackingClass() -- the *classloader.ClData the mirror
// represents -- never its own FieldTable, since a mirror's Klass is
// just "this object is an instance of java/lang/Class" and carries no
// information about which class it mirrors. Ground: spec.md §4.5's
// method list plus original_source/src/native/java/lang/Class.cpp's
// forName0/getPrimitiveClass/isInstance/isAssignableFrom shape (the
// teacher's retrieved gfunction slice has no Class.java natives at all,
// so this file is new work grounded directly in the spec and the
// original implementation rather than adapted from a teacher file).
package gfunction

import (
	"strings"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/object"
	"github.com/MilkTool/KayoVM/types"
)

// JVMS §4.1 table 4.1's access_flags bits, the subset Class.getModifiers
// (and the Field/Method mirrors below) ever reports.
const (
	accPublic    = 0x0001
	accFinal     = 0x0010
	accInterface = 0x0200
	accAbstract  = 0x0400
	accSynthetic = 0x1000
	accAnnotation = 0x2000
	accEnum      = 0x4000
)

func Load_Lang_Class() {
	MethodSignatures["java/lang/Class.<clinit>()V"] = GMeth{ParamSlots: 0, GFunction: justReturn}

	MethodSignatures["java/lang/Class.forName0(Ljava/lang/String;ZLjava/lang/ClassLoader;Ljava/lang/Class;)Ljava/lang/Class;"] =
		GMeth{ParamSlots: 4, GFunction: classForName0}
	MethodSignatures["java/lang/Class.getPrimitiveClass(Ljava/lang/String;)Ljava/lang/Class;"] =
		GMeth{ParamSlots: 1, GFunction: classGetPrimitiveClass}
	MethodSignatures["java/lang/Class.getName0()Ljava/lang/String;"] = GMeth{ParamSlots: 0, GFunction: classGetName0}
	MethodSignatures["java/lang/Class.isInstance(Ljava/lang/Object;)Z"] = GMeth{ParamSlots: 1, GFunction: classIsInstance}
	MethodSignatures["java/lang/Class.isAssignableFrom(Ljava/lang/Class;)Z"] = GMeth{ParamSlots: 1, GFunction: classIsAssignableFrom}
	MethodSignatures["java/lang/Class.isInterface()Z"] = GMeth{ParamSlots: 0, GFunction: classIsInterface}
	MethodSignatures["java/lang/Class.isArray()Z"] = GMeth{ParamSlots: 0, GFunction: classIsArray}
	MethodSignatures["java/lang/Class.isPrimitive()Z"] = GMeth{ParamSlots: 0, GFunction: classIsPrimitive}
	MethodSignatures["java/lang/Class.getSuperclass()Ljava/lang/Class;"] = GMeth{ParamSlots: 0, GFunction: classGetSuperclass}
	MethodSignatures["java/lang/Class.getInterfaces0()[Ljava/lang/Class;"] = GMeth{ParamSlots: 0, GFunction: classGetInterfaces0}
	MethodSignatures["java/lang/Class.getComponentType()Ljava/lang/Class;"] = GMeth{ParamSlots: 0, GFunction: classGetComponentType}
	MethodSignatures["java/lang/Class.getModifiers()I"] = GMeth{ParamSlots: 0, GFunction: classGetModifiers}
	MethodSignatures["java/lang/Class.getDeclaringClass0()Ljava/lang/Class;"] = GMeth{ParamSlots: 0, GFunction: classGetDeclaringClass0}
	MethodSignatures["java/lang/Class.getDeclaredFields0(Z)[Ljava/lang/reflect/Field;"] =
		GMeth{ParamSlots: 1, GFunction: classGetDeclaredFields0}
	MethodSignatures["java/lang/Class.getDeclaredMethods0(Z)[Ljava/lang/reflect/Method;"] =
		GMeth{ParamSlots: 1, GFunction: classGetDeclaredMethods0}
	MethodSignatures["java/lang/Class.getDeclaredConstructors0(Z)[Ljava/lang/reflect/Constructor;"] =
		GMeth{ParamSlots: 1, GFunction: classGetDeclaredConstructors0}

	// getDeclaredClasses0/getEnclosingClass0: present in
	// original_source/src/native/java/lang/Class.cpp, dropped by the
	// distillation, cheap no-op-shaped carry (neither this runtime nor
	// any of its test scenarios models nested-class enclosure beyond
	// getDeclaringClass0's name-based "$" split).
	MethodSignatures["java/lang/Class.getDeclaredClasses0()[Ljava/lang/Class;"] =
		GMeth{ParamSlots: 0, GFunction: classGetDeclaredClasses0}
	MethodSignatures["java/lang/Class.getEnclosingClass0()Ljava/lang/Class;"] =
		GMeth{ParamSlots: 0, GFunction: classGetDeclaringClass0}
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case int64:
		return t != 0
	case bool:
		return t
	default:
		return false
	}
}

func mirrorOf(c *classloader.ClData) interface{} {
	if c == nil {
		return nil
	}
	return classloader.EnsureMirror(c)
}

// "java/lang/Class.forName0(String, boolean, ClassLoader, Class)"
func classForName0(params []interface{}) interface{} {
	nameObj, ok := params[0].(*object.Object)
	if !ok || nameObj == nil {
		return getGErrBlk(excnames.NullPointerException, "forName0: null class name")
	}
	name := goString(nameObj)

	c, err := classloader.Load(classloader.BootstrapCL, name)
	if err != nil {
		return getGErrBlk(excnames.ClassNotFoundException, name)
	}
	if len(params) > 1 && truthy(params[1]) {
		if err := classloader.Link(c); err != nil {
			return getGErrBlk(excnames.NoClassDefFoundError, err.Error())
		}
		if err := classloader.Initialize(c); err != nil {
			return getGErrBlk(excnames.NoClassDefFoundError, err.Error())
		}
	}
	return mirrorOf(c)
}

// "java/lang/Class.getPrimitiveClass(String)"
func classGetPrimitiveClass(params []interface{}) interface{} {
	nameObj, ok := params[0].(*object.Object)
	if !ok || nameObj == nil {
		return getGErrBlk(excnames.NullPointerException, "getPrimitiveClass: null name")
	}
	c, err := classloader.Load(classloader.BootstrapCL, goString(nameObj))
	if err != nil {
		return getGErrBlk(excnames.ClassNotFoundException, goString(nameObj))
	}
	return mirrorOf(c)
}

// "java/lang/Class.getName0()"
func classGetName0(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return getGErrBlk(excnames.NullPointerException, "getName0: not a Class mirror")
	}
	dotted := strings.ReplaceAll(c.Name, "/", ".")
	return object.CreateCompactStringFromGoString(&dotted)
}

// receiverClass is the ClData backing params[0], a Class mirror.
func receiverClass(params []interface{}) *classloader.ClData {
	recv, ok := params[0].(*object.Object)
	if !ok {
		return nil
	}
	return recv.BackingClass()
}

// runtimeClassOf returns the ClData of whatever heap value v actually is
// (an Object instance or an array), the runtime-class side of isInstance/
// isAssignableFrom's subtype test.
func runtimeClassOf(v interface{}) *classloader.ClData {
	switch t := v.(type) {
	case *object.Object:
		if t == nil {
			return nil
		}
		return t.Klass
	case *object.Array:
		if t == nil {
			return nil
		}
		return t.Klass
	default:
		return nil
	}
}

// "java/lang/Class.isInstance(Object)"
func classIsInstance(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil || params[1] == nil {
		return types.JavaBoolFalse
	}
	if classloader.IsAssignableFrom(runtimeClassOf(params[1]), c) {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/Class.isAssignableFrom(Class)"
func classIsAssignableFrom(params []interface{}) interface{} {
	c := receiverClass(params)
	other, ok := params[1].(*object.Object)
	if !ok || other == nil {
		return getGErrBlk(excnames.NullPointerException, "isAssignableFrom: null argument")
	}
	if classloader.IsAssignableFrom(other.BackingClass(), c) {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/Class.isInterface()"
func classIsInterface(params []interface{}) interface{} {
	c := receiverClass(params)
	if c != nil && c.Access.Interface {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/Class.isArray()"
func classIsArray(params []interface{}) interface{} {
	c := receiverClass(params)
	if c != nil && c.IsArray {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/Class.isPrimitive()"
func classIsPrimitive(params []interface{}) interface{} {
	c := receiverClass(params)
	if c != nil && c.IsPrimitive {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/Class.getSuperclass()"
func classGetSuperclass(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil || c.Superclass == nil || c.Access.Interface || c.IsPrimitive {
		return nil
	}
	return mirrorOf(c.Superclass)
}

// "java/lang/Class.getInterfaces0()"
func classGetInterfaces0(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return getGErrBlk(excnames.NullPointerException, "getInterfaces0: not a Class mirror")
	}
	mirrors := make([]*object.Object, 0, len(c.Interfaces))
	for _, iface := range c.Interfaces {
		if m, ok := mirrorOf(iface).(*object.Object); ok {
			mirrors = append(mirrors, m)
		}
	}
	arr, err := objectArrayOf("[Ljava/lang/Class;", mirrors)
	if err != nil {
		return getGErrBlk(excnames.NegativeArraySizeException, err.Error())
	}
	return arr
}

// "java/lang/Class.getComponentType()"
func classGetComponentType(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil || !c.IsArray {
		return nil
	}
	if c.ComponentClass != nil {
		return mirrorOf(c.ComponentClass)
	}
	comp, err := classloader.PrimitiveClassForDescriptor(c.ComponentDesc)
	if err != nil {
		return nil
	}
	return mirrorOf(comp)
}

// "java/lang/Class.getModifiers()"
func classGetModifiers(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return int64(0)
	}
	return int64(accessFlagsToModifiers(c.Access))
}

func accessFlagsToModifiers(a classloader.AccessFlags) int {
	var mods int
	if a.Public {
		mods |= accPublic
	}
	if a.Final {
		mods |= accFinal
	}
	if a.Interface {
		mods |= accInterface
	}
	if a.Abstract {
		mods |= accAbstract
	}
	if a.Synthetic {
		mods |= accSynthetic
	}
	if a.Annotation {
		mods |= accAnnotation
	}
	if a.Enum {
		mods |= accEnum
	}
	return mods
}

// "java/lang/Class.getDeclaringClass0()" (also getEnclosingClass0(), the
// distillation-dropped sibling: for a name without "$" both return null;
// for "Outer$Inner" both return Outer, loaded via the receiver's own
// loader -- this runtime doesn't distinguish member classes from
// anonymous/local ones, so the two natives collapse to one body).
func classGetDeclaringClass0(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return nil
	}
	idx := strings.LastIndex(c.Name, "$")
	if idx < 0 {
		return nil
	}
	loader := c.Loader
	if loader == nil {
		loader = classloader.BootstrapCL
	}
	outer, err := classloader.Load(loader, c.Name[:idx])
	if err != nil {
		return nil
	}
	return mirrorOf(outer)
}

// "java/lang/Class.getDeclaredClasses0()" -- see the loader comment above.
func classGetDeclaredClasses0(params []interface{}) interface{} {
	arr, _ := objectArrayOf("[Ljava/lang/Class;", nil)
	return arr
}

// buildReflectMirror populates a java.lang.reflect.Field/Method/
// Constructor-shaped object directly (clazz/name/modifiers/slot fields)
// rather than by invoking the real JDK constructor through the
// interpreter: this runtime carries no guaranteed java.lang.reflect
// class files, so "invoke the canonical constructor" would only work
// against a bootstrap classpath this runtime doesn't assume exists.
// Decided and documented in DESIGN.md as the Open Question's resolution.
func buildReflectMirror(kindClassName string, declaring *classloader.ClData, name, desc string, modifiers int, slot int) *object.Object {
	var obj *object.Object
	if k, err := classloader.Load(classloader.BootstrapCL, kindClassName); err == nil {
		obj = object.New(k)
	} else {
		obj = object.MakeEmptyObject()
	}
	obj.FieldTable["clazz"] = object.Field{Ftype: "Ljava/lang/Class;", Fvalue: mirrorOf(declaring)}
	obj.FieldTable["name"] = object.Field{Ftype: "Ljava/lang/String;", Fvalue: object.Intern(name)}
	obj.FieldTable["modifiers"] = object.Field{Ftype: "I", Fvalue: int64(modifiers)}
	obj.FieldTable["slot"] = object.Field{Ftype: "I", Fvalue: int64(slot)}
	if desc != "" {
		obj.FieldTable["descriptor"] = object.Field{Ftype: "Ljava/lang/String;", Fvalue: object.Intern(desc)}
	}
	return obj
}

// objectArrayOf wraps mirrors in a reference-typed array without forcing
// arrDescName's component class to be loadable from bytecode -- the
// array descriptor here only ever needs IsArray true to satisfy
// object.NewArray's zero-fill path, since every element is overwritten
// immediately after.
func objectArrayOf(arrDescName string, mirrors []*object.Object) (*object.Array, error) {
	arrClass := &classloader.ClData{Name: arrDescName, IsArray: true}
	arr, err := object.NewArray(arrClass, len(mirrors))
	if err != nil {
		return nil, err
	}
	for i, m := range mirrors {
		arr.Elements[i] = m
	}
	return arr, nil
}

// "java/lang/Class.getDeclaredFields0(boolean)"
func classGetDeclaredFields0(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return getGErrBlk(excnames.NullPointerException, "getDeclaredFields0: not a Class mirror")
	}
	publicOnly := len(params) > 1 && truthy(params[1])
	var mirrors []*object.Object
	for _, f := range c.Fields {
		if publicOnly && !f.Access.Public {
			continue
		}
		mirrors = append(mirrors, buildReflectMirror("java/lang/reflect/Field", c, f.Name, f.Desc, accessFlagsToModifiers(f.Access), f.SlotIndex))
	}
	arr, err := objectArrayOf("[Ljava/lang/reflect/Field;", mirrors)
	if err != nil {
		return getGErrBlk(excnames.NegativeArraySizeException, err.Error())
	}
	return arr
}

// "java/lang/Class.getDeclaredMethods0(boolean)"
func classGetDeclaredMethods0(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return getGErrBlk(excnames.NullPointerException, "getDeclaredMethods0: not a Class mirror")
	}
	publicOnly := len(params) > 1 && truthy(params[1])
	var mirrors []*object.Object
	for i, m := range c.Methods {
		if m.Name == "<init>" || m.Name == "<clinit>" {
			continue
		}
		if publicOnly && !m.Access.Public {
			continue
		}
		mirrors = append(mirrors, buildReflectMirror("java/lang/reflect/Method", c, m.Name, m.Desc, accessFlagsToModifiers(m.Access), i))
	}
	arr, err := objectArrayOf("[Ljava/lang/reflect/Method;", mirrors)
	if err != nil {
		return getGErrBlk(excnames.NegativeArraySizeException, err.Error())
	}
	return arr
}

// "java/lang/Class.getDeclaredConstructors0(boolean)"
func classGetDeclaredConstructors0(params []interface{}) interface{} {
	c := receiverClass(params)
	if c == nil {
		return getGErrBlk(excnames.NullPointerException, "getDeclaredConstructors0: not a Class mirror")
	}
	publicOnly := len(params) > 1 && truthy(params[1])
	var mirrors []*object.Object
	for i, m := range c.Methods {
		if m.Name != "<init>" {
			continue
		}
		if publicOnly && !m.Access.Public {
			continue
		}
		mirrors = append(mirrors, buildReflectMirror("java/lang/reflect/Constructor", c, m.Name, m.Desc, accessFlagsToModifiers(m.Access), i))
	}
	arr, err := objectArrayOf("[Ljava/lang/reflect/Constructor;", mirrors)
	if err != nil {
		return getGErrBlk(excnames.NegativeArraySizeException, err.Error())
	}
	return arr
}
