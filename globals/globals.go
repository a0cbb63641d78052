/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package globals holds the handful of process-wide settings the rest of
// the VM needs to read from everywhere: the configured Java home and
// classpath, verbose-output flags, and the exception-reporting hook
// (FuncThrowException).
package globals

import "sync"

// TraceClass and TraceCloadi are checked on the hot class-loading path
// directly (not through a method call) the way the teacher's globals
// package exposes them, to avoid a function-call per trace check.
var (
	TraceClass  bool
	TraceCloadi bool
	TraceInit   bool
)

// Global holds process-wide VM configuration. There is exactly one
// instance, reachable via GetGlobalRef.
type Global struct {
	VMName      string // name this binary reports itself as ("KayoVM")
	JavaHome    string
	Classpath   []string
	StartingJar string

	StrictJDK          bool
	JvmFrameStackShown bool

	// FuncThrowException lets low-level packages (classloader, object)
	// report an exception by class name and message without importing
	// the interpreter package, breaking what would otherwise be an import
	// cycle. The jvm package's init replaces the default no-op with a
	// handler that logs the name and message at SEVERE level; it does not
	// raise a Java exception in any frame.
	FuncThrowException func(excClassName string, msg string)

	exitNow bool

	mu sync.Mutex
}

var global *Global
var once sync.Once

// GetGlobalRef returns the singleton Global, creating it with defaults on
// first use.
func GetGlobalRef() *Global {
	once.Do(func() {
		global = newGlobal("KayoVM")
	})
	return global
}

// InitGlobals (re)creates the singleton from scratch, for use at VM
// startup and at the top of tests that need a clean slate.
func InitGlobals(vmName string) *Global {
	global = newGlobal(vmName)
	return global
}

func newGlobal(vmName string) *Global {
	g := &Global{
		VMName:    vmName,
		Classpath: []string{},
		FuncThrowException: func(string, string) {
			// default no-op until the interpreter wires itself in
		},
	}
	return g
}

// SetExitNow/ExitNow record that CLI processing decided to terminate
// before running any bytecode (e.g. no main class given, or the
// bootstrap loader failing to start).
func (g *Global) SetExitNow(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.exitNow = v
}

func (g *Global) ExitNow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.exitNow
}
