/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// java.lang.String's native methods (spec §7). Ground: jacobin's
// gfunction/javaLangString.go, trimmed to the operations spec.md §8's
// test scenarios actually exercise -- construction, equality, ordering,
// case conversion, substring, and the valueOf family -- rather than
// carrying every JDK overload (charset-aware constructors, Locale-aware
// formatting) this runtime never drives.
package gfunction

import (
	"strconv"
	"strings"

	"github.com/MilkTool/KayoVM/excnames"
	"github.com/MilkTool/KayoVM/object"
	"github.com/MilkTool/KayoVM/types"
)

func Load_Lang_String() {
	MethodSignatures["java/lang/String.<clinit>()V"] = GMeth{ParamSlots: 0, GFunction: justReturn}

	MethodSignatures["java/lang/String.<init>()V"] = GMeth{ParamSlots: 0, GFunction: newEmptyString}
	MethodSignatures["java/lang/String.<init>([B)V"] = GMeth{ParamSlots: 1, GFunction: newStringFromBytes}
	MethodSignatures["java/lang/String.<init>(Ljava/lang/String;)V"] = GMeth{ParamSlots: 1, GFunction: newStringFromString}

	MethodSignatures["java/lang/String.charAt(I)C"] = GMeth{ParamSlots: 1, GFunction: stringCharAt}
	MethodSignatures["java/lang/String.compareTo(Ljava/lang/String;)I"] = GMeth{ParamSlots: 1, GFunction: compareToCaseSensitive}
	MethodSignatures["java/lang/String.compareToIgnoreCase(Ljava/lang/String;)I"] = GMeth{ParamSlots: 1, GFunction: compareToIgnoreCase}
	MethodSignatures["java/lang/String.concat(Ljava/lang/String;)Ljava/lang/String;"] = GMeth{ParamSlots: 1, GFunction: stringConcat}
	MethodSignatures["java/lang/String.contains(Ljava/lang/CharSequence;)Z"] = GMeth{ParamSlots: 1, GFunction: stringContains}
	MethodSignatures["java/lang/String.equals(Ljava/lang/Object;)Z"] = GMeth{ParamSlots: 1, GFunction: stringEquals}
	MethodSignatures["java/lang/String.equalsIgnoreCase(Ljava/lang/String;)Z"] = GMeth{ParamSlots: 1, GFunction: stringEqualsIgnoreCase}
	MethodSignatures["java/lang/String.getBytes()[B"] = GMeth{ParamSlots: 0, GFunction: getBytesFromString}
	MethodSignatures["java/lang/String.indexOf(Ljava/lang/String;)I"] = GMeth{ParamSlots: 1, GFunction: indexOfString}
	MethodSignatures["java/lang/String.isEmpty()Z"] = GMeth{ParamSlots: 0, GFunction: stringIsEmpty}
	MethodSignatures["java/lang/String.length()I"] = GMeth{ParamSlots: 0, GFunction: stringLength}
	MethodSignatures["java/lang/String.repeat(I)Ljava/lang/String;"] = GMeth{ParamSlots: 1, GFunction: stringRepeat}
	MethodSignatures["java/lang/String.replace(CC)Ljava/lang/String;"] = GMeth{ParamSlots: 2, GFunction: stringReplaceCC}
	MethodSignatures["java/lang/String.substring(I)Ljava/lang/String;"] = GMeth{ParamSlots: 1, GFunction: substringToTheEnd}
	MethodSignatures["java/lang/String.substring(II)Ljava/lang/String;"] = GMeth{ParamSlots: 2, GFunction: substringStartEnd}
	MethodSignatures["java/lang/String.toLowerCase()Ljava/lang/String;"] = GMeth{ParamSlots: 0, GFunction: toLowerCase}
	MethodSignatures["java/lang/String.toUpperCase()Ljava/lang/String;"] = GMeth{ParamSlots: 0, GFunction: toUpperCase}
	MethodSignatures["java/lang/String.trim()Ljava/lang/String;"] = GMeth{ParamSlots: 0, GFunction: trimString}
	MethodSignatures["java/lang/String.toString()Ljava/lang/String;"] = GMeth{ParamSlots: 0, GFunction: stringToString}

	MethodSignatures["java/lang/String.valueOf(Z)Ljava/lang/String;"] = GMeth{ParamSlots: 1, GFunction: valueOfBoolean}
	MethodSignatures["java/lang/String.valueOf(C)Ljava/lang/String;"] = GMeth{ParamSlots: 1, GFunction: valueOfChar}
	MethodSignatures["java/lang/String.valueOf(I)Ljava/lang/String;"] = GMeth{ParamSlots: 1, GFunction: valueOfInt}
	MethodSignatures["java/lang/String.valueOf(J)Ljava/lang/String;"] = GMeth{ParamSlots: 2, GFunction: valueOfLong}
}

func backingBytes(obj *object.Object) []types.JavaByte {
	return object.JavaByteArrayFromStringObject(obj)
}

func goString(obj *object.Object) string {
	return object.GoStringFromJavaByteArray(backingBytes(obj))
}

// "java/lang/String.<init>()V"
func newEmptyString(params []interface{}) interface{} {
	target := params[0].(*object.Object)
	target.FieldTable["value"] = object.Field{Ftype: types.ByteArray, Fvalue: []types.JavaByte{}}
	return nil
}

// "java/lang/String.<init>([B)V"
func newStringFromBytes(params []interface{}) interface{} {
	target := params[0].(*object.Object)
	arr, ok := params[1].(*object.Array)
	if !ok {
		return getGErrBlk(excnames.IllegalArgumentException, "String(byte[]): argument is not a byte array")
	}
	jb := make([]types.JavaByte, arr.Len())
	for i, v := range arr.Elements {
		jb[i] = types.JavaByte(v.(int64))
	}
	target.FieldTable["value"] = object.Field{Ftype: types.ByteArray, Fvalue: jb}
	return nil
}

// "java/lang/String.<init>(Ljava/lang/String;)V"
func newStringFromString(params []interface{}) interface{} {
	target := params[0].(*object.Object)
	src := params[1].(*object.Object)
	target.FieldTable["value"] = object.Field{Ftype: types.ByteArray, Fvalue: backingBytes(src)}
	return nil
}

// "java/lang/String.charAt(I)C"
func stringCharAt(params []interface{}) interface{} {
	obj := params[0].(*object.Object)
	index := params[1].(int64)
	s := goString(obj)
	if index < 0 || int(index) >= len(s) {
		return getGErrBlk(excnames.ArrayIndexOutOfBoundsException, "String.charAt: index out of range")
	}
	return int64(s[index])
}

// "java/lang/String.compareTo(Ljava/lang/String;)I"
func compareToCaseSensitive(params []interface{}) interface{} {
	a := goString(params[0].(*object.Object))
	b := goString(params[1].(*object.Object))
	return int64(strings.Compare(a, b))
}

// "java/lang/String.compareToIgnoreCase(Ljava/lang/String;)I"
func compareToIgnoreCase(params []interface{}) interface{} {
	a := strings.ToLower(goString(params[0].(*object.Object)))
	b := strings.ToLower(goString(params[1].(*object.Object)))
	return int64(strings.Compare(a, b))
}

// "java/lang/String.concat(Ljava/lang/String;)Ljava/lang/String;"
func stringConcat(params []interface{}) interface{} {
	a := goString(params[0].(*object.Object))
	b := goString(params[1].(*object.Object))
	literal := a + b
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.contains(Ljava/lang/CharSequence;)Z"
func stringContains(params []interface{}) interface{} {
	haystack := goString(params[0].(*object.Object))
	needle := goString(params[1].(*object.Object))
	if strings.Contains(haystack, needle) {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/String.equals(Ljava/lang/Object;)Z"
func stringEquals(params []interface{}) interface{} {
	other, ok := params[1].(*object.Object)
	if !ok || !other.IsStringInstance() {
		return types.JavaBoolFalse
	}
	if goString(params[0].(*object.Object)) == goString(other) {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/String.equalsIgnoreCase(Ljava/lang/String;)Z"
func stringEqualsIgnoreCase(params []interface{}) interface{} {
	a := strings.ToLower(goString(params[0].(*object.Object)))
	b := strings.ToLower(goString(params[1].(*object.Object)))
	if a == b {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/String.getBytes()[B"
func getBytesFromString(params []interface{}) interface{} {
	return backingBytes(params[0].(*object.Object))
}

// "java/lang/String.indexOf(Ljava/lang/String;)I"
func indexOfString(params []interface{}) interface{} {
	haystack := goString(params[0].(*object.Object))
	needle := goString(params[1].(*object.Object))
	return int64(strings.Index(haystack, needle))
}

// "java/lang/String.isEmpty()Z"
func stringIsEmpty(params []interface{}) interface{} {
	if len(goString(params[0].(*object.Object))) == 0 {
		return types.JavaBoolTrue
	}
	return types.JavaBoolFalse
}

// "java/lang/String.length()I"
func stringLength(params []interface{}) interface{} {
	return int64(len(goString(params[0].(*object.Object))))
}

// "java/lang/String.repeat(I)Ljava/lang/String;"
func stringRepeat(params []interface{}) interface{} {
	s := goString(params[0].(*object.Object))
	count := params[1].(int64)
	if count < 0 {
		return getGErrBlk(excnames.IllegalArgumentException, "String.repeat: negative count")
	}
	literal := strings.Repeat(s, int(count))
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.replace(CC)Ljava/lang/String;"
func stringReplaceCC(params []interface{}) interface{} {
	s := goString(params[0].(*object.Object))
	oldCh := rune(params[1].(int64))
	newCh := rune(params[2].(int64))
	literal := strings.ReplaceAll(s, string(oldCh), string(newCh))
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.substring(I)Ljava/lang/String;"
func substringToTheEnd(params []interface{}) interface{} {
	s := goString(params[0].(*object.Object))
	start := params[1].(int64)
	if start < 0 || int(start) > len(s) {
		return getGErrBlk(excnames.ArrayIndexOutOfBoundsException, "String.substring: index out of range")
	}
	literal := s[start:]
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.substring(II)Ljava/lang/String;"
func substringStartEnd(params []interface{}) interface{} {
	s := goString(params[0].(*object.Object))
	start := params[1].(int64)
	end := params[2].(int64)
	if start < 0 || end > int64(len(s)) || start > end {
		return getGErrBlk(excnames.ArrayIndexOutOfBoundsException, "String.substring: index out of range")
	}
	literal := s[start:end]
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.toLowerCase()Ljava/lang/String;"
func toLowerCase(params []interface{}) interface{} {
	literal := strings.ToLower(goString(params[0].(*object.Object)))
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.toUpperCase()Ljava/lang/String;"
func toUpperCase(params []interface{}) interface{} {
	literal := strings.ToUpper(goString(params[0].(*object.Object)))
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.trim()Ljava/lang/String;"
func trimString(params []interface{}) interface{} {
	literal := strings.TrimSpace(goString(params[0].(*object.Object)))
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.toString()Ljava/lang/String;"
func stringToString(params []interface{}) interface{} {
	return params[0]
}

// "java/lang/String.valueOf(Z)Ljava/lang/String;"
func valueOfBoolean(params []interface{}) interface{} {
	literal := "false"
	if params[0].(int64) != types.JavaBoolFalse {
		literal = "true"
	}
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.valueOf(C)Ljava/lang/String;"
func valueOfChar(params []interface{}) interface{} {
	literal := string(rune(params[0].(int64)))
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.valueOf(I)Ljava/lang/String;"
func valueOfInt(params []interface{}) interface{} {
	literal := strconv.FormatInt(params[0].(int64), 10)
	return object.CreateCompactStringFromGoString(&literal)
}

// "java/lang/String.valueOf(J)Ljava/lang/String;"
func valueOfLong(params []interface{}) interface{} {
	literal := strconv.FormatInt(params[0].(int64), 10)
	return object.CreateCompactStringFromGoString(&literal)
}
