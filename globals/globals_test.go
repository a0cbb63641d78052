/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package globals

import "testing"

func TestGetGlobalRefIsASingleton(t *testing.T) {
	a := GetGlobalRef()
	b := GetGlobalRef()
	if a != b {
		t.Fatal("expected GetGlobalRef to always return the same instance")
	}
}

func TestInitGlobalsSetsVMName(t *testing.T) {
	g := InitGlobals("TestVM")
	if g.VMName != "TestVM" {
		t.Fatalf("expected VMName %q, got %q", "TestVM", g.VMName)
	}
	if g.Classpath == nil {
		t.Fatal("expected a non-nil default Classpath slice")
	}
	if GetGlobalRef() != g {
		t.Fatal("expected InitGlobals to replace the singleton GetGlobalRef returns")
	}
}

func TestDefaultFuncThrowExceptionIsSafeNoOp(t *testing.T) {
	g := InitGlobals("TestVM")
	// must not panic before the jvm package installs its handler.
	g.FuncThrowException("java/lang/RuntimeException", "boom")
}

func TestSetExitNowExitNow(t *testing.T) {
	g := InitGlobals("TestVM")
	if g.ExitNow() {
		t.Fatal("expected a fresh Global to not be exiting")
	}
	g.SetExitNow(true)
	if !g.ExitNow() {
		t.Fatal("expected ExitNow to report true after SetExitNow(true)")
	}
}
