/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"github.com/MilkTool/KayoVM/types"
)

func Load_Lang_StringBuilder() {

	MethodSignatures["java/lang/StringBuilder.isLatin1()Z"] =
		GMeth{
			ParamSlots: 0,
			GFunction:  isLatin1,
		}

}

// "java/lang/StringBuilder.isLatin1()Z"
func isLatin1([]interface{}) interface{} {
	// This runtime only ever builds the Latin-1 byte[] representation
	// (spec §9's documented Open Question on the UTF-16 fallback).
	return types.JavaBoolTrue
}
