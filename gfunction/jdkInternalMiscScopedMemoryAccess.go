/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

func Load_Jdk_Internal_Misc_ScopedMemoryAccess() {

	MethodSignatures["jdk/internal/misc/ScopedMemoryAccess.<clinit>()V"] =
		GMeth{
			ParamSlots: 0,
			GFunction:  justReturn,
		}

	MethodSignatures["jdk/internal/misc/ScopedMemoryAccess.registerNatives()V"] =
		GMeth{
			ParamSlots: 0,
			GFunction:  justReturn,
		}

}
