/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package gfunction is the native-method dispatch registry (spec §7):
// Java methods marked native never run bytecode -- they run a Go
// function registered here under the method's fully qualified name and
// descriptor. Ground: jacobin's gfunction package, same MethodSignatures/
// GMeth shape, generalized only to return *GErrBlk rather than a raw
// string so the interpreter's exception-throwing hook (spec §4.5) gets
// a structured class name instead of having to parse one back out.
package gfunction

import "sync"

// GFunction is a native method body: it receives one entry per argument
// (the receiver first, for an instance method) and returns either a
// Java-visible result, nil (for void), or a *GErrBlk signaling that a
// Java exception should be thrown in the caller's place.
type GFunction func(params []interface{}) interface{}

// GMeth is one registered native method: how many operand-stack slots
// the interpreter pops to build params, and the Go function to run.
type GMeth struct {
	ParamSlots int
	GFunction  GFunction
	NeedsFrame bool // true if GFunction expects the calling *frame.Frame prepended to params
}

// GErrBlk carries a native method's request to throw a Java exception
// (spec §4.5's "native dispatch can raise the same exceptions bytecode
// can"), named ExceptionType being one of the excnames constants.
type GErrBlk struct {
	ExceptionType string
	ErrMsg        string
}

func (g *GErrBlk) Error() string { return g.ExceptionType + ": " + g.ErrMsg }

func getGErrBlk(exceptionType, msg string) *GErrBlk {
	return &GErrBlk{ExceptionType: exceptionType, ErrMsg: msg}
}

// justReturn is the native body for methods with no observable effect in
// this runtime (registerNatives, most <clinit>s the JDK classes declare
// purely for the real native-library bootstrap this VM never links).
func justReturn([]interface{}) interface{} { return nil }

var (
	mu               sync.RWMutex
	MethodSignatures = make(map[string]GMeth)
)

// MethodSignature looks up a registered native method by its fully
// qualified name+descriptor key, as ResolveMethod's caller does before
// falling back to interpreted bytecode (spec §7).
func MethodSignature(key string) (GMeth, bool) {
	mu.RLock()
	defer mu.RUnlock()
	g, ok := MethodSignatures[key]
	return g, ok
}

// loaders is every Load_* registration function; Load runs them all
// exactly once. The jvm package calls Load from its init, before any
// class loader is set up; registration only fills MethodSignatures and
// loads no class.
var loaders = []func(){
	Load_Lang_Object,
	Load_Lang_Class,
	Load_Lang_String,
	Load_Lang_StringBuilder,
	Load_Lang_Thread,
	Load_Util_HashMap,
	Load_Jdk_Internal_Misc_ScopedMemoryAccess,
	Load_Io_InputStreamReader,
}

var loadOnce sync.Once

// Load populates MethodSignatures from every registered native-method
// source file. Idempotent: safe to call from multiple init paths.
func Load() {
	loadOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, l := range loaders {
			l()
		}
	})
}
