/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package trace is the VM's human-facing console output: class-load
// banners, bytecode trace lines, and error reports. log.Log feeds the
// same stream at a finer granularity for machine-oriented messages;
// trace.Trace/Error/Warning are the ones callers reach for directly, the
// way jacobin's classloader and jvm packages do.
package trace

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	mu  sync.Mutex
	out = os.Stderr
)

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// SetOutput redirects trace output; tests use this to capture messages
// instead of writing to the real stderr.
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Trace writes an informational line, used for class-loading and
// bytecode-execution narration when the corresponding -verbose flag is
// set.
func Trace(msg string) {
	writeLine(infoStyle, msg)
}

// Error writes a VM-internal error line, the kind that precedes a fatal
// shutdown.Exit call.
func Error(msg string) {
	writeLine(errorStyle, msg)
}

// Warning writes a non-fatal diagnostic line.
func Warning(msg string) {
	writeLine(warningStyle, msg)
}

func writeLine(style lipgloss.Style, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	fmt.Fprintln(out, style.Render(msg))
}
