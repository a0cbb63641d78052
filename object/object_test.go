/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"testing"

	"github.com/MilkTool/KayoVM/classloader"
	"github.com/MilkTool/KayoVM/types"
)

func TestMakeEmptyObjectHasNoClass(t *testing.T) {
	obj := MakeEmptyObject()
	if obj.ClassName() != "" {
		t.Errorf("expected no class name, got %q", obj.ClassName())
	}
	if obj.FieldTable == nil {
		t.Errorf("expected non-nil FieldTable")
	}
}

func TestNewPopulatesInheritedFields(t *testing.T) {
	super := &classloader.ClData{
		Name: "base",
		Fields: []*classloader.Field{
			{Name: "x", Desc: types.Int},
		},
	}
	sub := &classloader.ClData{
		Name:       "sub",
		Superclass: super,
		Fields: []*classloader.Field{
			{Name: "y", Desc: types.Double},
		},
	}

	obj := New(sub)
	if _, ok := obj.FieldTable["x"]; !ok {
		t.Errorf("expected inherited field x to be present")
	}
	if f, ok := obj.FieldTable["y"]; !ok || f.Fvalue.(float64) != 0.0 {
		t.Errorf("expected zero-valued double field y, got %+v", f)
	}
}

func TestStringRoundTrip(t *testing.T) {
	literal := "Hello, KayoVM"
	obj := CreateCompactStringFromGoString(&literal)
	if obj.ToString() != literal {
		t.Errorf("got %q, want %q", obj.ToString(), literal)
	}
}

func TestInternReturnsSameObject(t *testing.T) {
	a := Intern("shared")
	b := Intern("shared")
	if a != b {
		t.Errorf("expected Intern to return the same *Object for equal content")
	}
}

func TestJavaByteArrayRoundTrip(t *testing.T) {
	in := "roundtrip"
	arr := JavaByteArrayFromGoString(in)
	out := GoStringFromJavaByteArray(arr)
	if out != in {
		t.Errorf("got %q, want %q", out, in)
	}
}

func TestNewArrayZeroFill(t *testing.T) {
	intArrClass := &classloader.ClData{Name: "[I", IsArray: true, ComponentDesc: types.Int}
	arr, err := NewArray(intArrClass, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arr.Len() != 4 {
		t.Fatalf("expected length 4, got %d", arr.Len())
	}
	for i, v := range arr.Elements {
		if v.(int64) != 0 {
			t.Errorf("element %d: expected zero, got %v", i, v)
		}
	}
}

func TestNewArrayNegativeLengthReturnsError(t *testing.T) {
	intArrClass := &classloader.ClData{Name: "[I", IsArray: true, ComponentDesc: types.Int}
	if _, err := NewArray(intArrClass, -1); err == nil {
		t.Fatal("expected an error for a negative array length")
	}
}
