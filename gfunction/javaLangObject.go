/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// java.lang.Object's native methods (spec §4.5/§7): getClass is the one
// explicitly required by the reflection bootstrap; hashCode/equals/
// toString are its natural companions in every JVM's Object natives
// table, grounded the same way (original_source/src/native/java/lang/
// Object.cpp).
package gfunction

import (
	"fmt"
	"strings"

	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/object"
	"github.com/MilkTool/KayoVM/types"
)

func Load_Lang_Object() {
	MethodSignatures["java/lang/Object.<clinit>()V"] = GMeth{ParamSlots: 0, GFunction: justReturn}
	MethodSignatures["java/lang/Object.<init>()V"] = GMeth{ParamSlots: 0, GFunction: justReturn}

	MethodSignatures["java/lang/Object.getClass()Ljava/lang/Class;"] = GMeth{ParamSlots: 0, GFunction: objectGetClass}
	MethodSignatures["java/lang/Object.hashCode()I"] = GMeth{ParamSlots: 0, GFunction: objectHashCode}
	MethodSignatures["java/lang/Object.equals(Ljava/lang/Object;)Z"] = GMeth{ParamSlots: 1, GFunction: objectEquals}
	MethodSignatures["java/lang/Object.toString()Ljava/lang/String;"] = GMeth{ParamSlots: 0, GFunction: objectToString}
}

// "java/lang/Object.getClass()": receiver can be a plain instance or an
// array -- the interpreter's invoke() passes both through as params[0]
// untouched, neither wrapped the other way, so both cases are handled
// here directly rather than relying on INVOKEVIRTUAL's receiver-class
// redispatch (getClass is never overridden, so no redispatch applies).
func objectGetClass(params []interface{}) interface{} {
	switch v := params[0].(type) {
	case *object.Object:
		if v == nil {
			return getGErrBlk(excnames.NullPointerException, "getClass: null receiver")
		}
		return mirrorOf(v.Klass)
	case *object.Array:
		if v == nil {
			return getGErrBlk(excnames.NullPointerException, "getClass: null receiver")
		}
		return mirrorOf(v.Klass)
	default:
		return getGErrBlk(excnames.NullPointerException, "getClass: null receiver")
	}
}

// "java/lang/Object.hashCode()": identity hash, assigned once at
// allocation (spec §6's object header).
func objectHashCode(params []interface{}) interface{} {
	switch v := params[0].(type) {
	case *object.Object:
		if v == nil {
			return int64(0)
		}
		return int64(v.Hash)
	case *object.Array:
		if v == nil {
			return int64(0)
		}
		return int64(v.Hash)
	default:
		return int64(0)
	}
}

// "java/lang/Object.equals(Object)": default reference identity, the
// behavior every subclass that doesn't override equals gets.
func objectEquals(params []interface{}) interface{} {
	if params[0] == params[1] {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/Object.toString()": getClass().getName() + "@" + hex hash,
// the JDK's documented default (object.Object.ToString's debug form also
// lists field values and keeps the slash-separated name, so it is not
// reused here).
func objectToString(params []interface{}) interface{} {
	obj, ok := params[0].(*object.Object)
	if !ok || obj == nil {
		return getGErrBlk(excnames.NullPointerException, "toString: null receiver")
	}
	s := fmt.Sprintf("%s@%x", strings.ReplaceAll(obj.ClassName(), "/", "."), obj.Hash)
	return object.CreateCompactStringFromGoString(&s)
}
