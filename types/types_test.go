/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package types

import "testing"

func TestIsPrimitiveDescriptor(t *testing.T) {
	for _, d := range []string{Boolean, Byte, Char, Double, Float, Int, Long, Short, Void} {
		if !IsPrimitiveDescriptor(d) {
			t.Errorf("expected %q to be a primitive descriptor", d)
		}
	}
	for _, d := range []string{"Ljava/lang/String;", "[I", "", "II"} {
		if IsPrimitiveDescriptor(d) {
			t.Errorf("expected %q to not be a primitive descriptor", d)
		}
	}
}

func TestIsReferenceDescriptor(t *testing.T) {
	for _, d := range []string{"Ljava/lang/String;", "[I", "[Ljava/lang/Object;"} {
		if !IsReferenceDescriptor(d) {
			t.Errorf("expected %q to be a reference descriptor", d)
		}
	}
	for _, d := range []string{Int, Boolean, "", Void} {
		if IsReferenceDescriptor(d) {
			t.Errorf("expected %q to not be a reference descriptor", d)
		}
	}
}

func TestSlots64(t *testing.T) {
	if Slots64(Long) != 2 {
		t.Errorf("expected long to occupy 2 slots")
	}
	if Slots64(Double) != 2 {
		t.Errorf("expected double to occupy 2 slots")
	}
	for _, d := range []string{Int, Boolean, Byte, Char, Float, Short, "Ljava/lang/Object;"} {
		if Slots64(d) != 1 {
			t.Errorf("expected %q to occupy 1 slot", d)
		}
	}
}
