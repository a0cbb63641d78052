/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// java.lang.String in this runtime is backed by a Java byte[] (the
// Latin-1 compact-string representation; spec §9's documented Open
// Question on the UTF-16 fallback). Ground: jacobin's
// object.javaByteArray.go, carried near-verbatim since the conversions
// themselves are encoding-agnostic byte shuffling.
package object

import (
	"strings"
	"unicode"

	"github.com/MilkTool/KayoVM/types"
)

func GoStringFromJavaByteArray(jbarr []types.JavaByte) string {
	var sb strings.Builder
	for _, b := range jbarr {
		sb.WriteByte(byte(b))
	}
	return sb.String()
}

func JavaByteArrayFromGoString(str string) []types.JavaByte {
	jbarr := make([]types.JavaByte, len(str))
	for i := 0; i < len(str); i++ {
		jbarr[i] = types.JavaByte(str[i])
	}
	return jbarr
}

func JavaByteArrayFromGoByteArray(gbarr []byte) []types.JavaByte {
	jbarr := make([]types.JavaByte, len(gbarr))
	for i, b := range gbarr {
		jbarr[i] = types.JavaByte(b)
	}
	return jbarr
}

func GoByteArrayFromJavaByteArray(jbarr []types.JavaByte) []byte {
	gbarr := make([]byte, len(jbarr))
	for i, b := range jbarr {
		gbarr[i] = byte(b)
	}
	return gbarr
}

// JavaByteArrayFromStringObject extracts a String instance's backing
// byte[], or nil if obj isn't a String.
func JavaByteArrayFromStringObject(obj *Object) []types.JavaByte {
	if obj == nil || !obj.IsStringInstance() {
		return nil
	}
	if f, ok := obj.FieldTable["value"]; ok {
		if b, ok := f.Fvalue.([]types.JavaByte); ok {
			return b
		}
	}
	return nil
}

// StringObjectFromJavaByteArray creates a String instance from a raw
// Java byte array.
func StringObjectFromJavaByteArray(bytes []types.JavaByte) *Object {
	newStr := NewStringObject()
	newStr.FieldTable["value"] = Field{Ftype: types.ByteArray, Fvalue: bytes}
	return newStr
}

func JavaByteArrayEquals(jbarr1, jbarr2 []types.JavaByte) bool {
	if (jbarr1 == nil) != (jbarr2 == nil) {
		return false
	}
	if len(jbarr1) != len(jbarr2) {
		return false
	}
	for i, b := range jbarr1 {
		if b != jbarr2[i] {
			return false
		}
	}
	return true
}

func JavaByteArrayEqualsIgnoreCase(jbarr1, jbarr2 []types.JavaByte) bool {
	if (jbarr1 == nil) != (jbarr2 == nil) {
		return false
	}
	if len(jbarr1) != len(jbarr2) {
		return false
	}
	for i, b := range jbarr1 {
		if unicode.ToLower(rune(b)) != unicode.ToLower(rune(jbarr2[i])) {
			return false
		}
	}
	return true
}
