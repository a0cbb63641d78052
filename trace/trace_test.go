/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package trace

import (
	"bufio"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	SetOutput(w)
	defer SetOutput(os.Stderr)

	fn()
	w.Close()

	scanner := bufio.NewScanner(r)
	var sb strings.Builder
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestTraceWritesMessage(t *testing.T) {
	got := captureOutput(t, func() { Trace("loading java/lang/Object") })
	if !strings.Contains(got, "loading java/lang/Object") {
		t.Fatalf("expected output to contain the trace message, got %q", got)
	}
}

func TestErrorWritesMessage(t *testing.T) {
	got := captureOutput(t, func() { Error("boom") })
	if !strings.Contains(got, "boom") {
		t.Fatalf("expected output to contain the error message, got %q", got)
	}
}

func TestWarningWritesMessage(t *testing.T) {
	got := captureOutput(t, func() { Warning("careful") })
	if !strings.Contains(got, "careful") {
		t.Fatalf("expected output to contain the warning message, got %q", got)
	}
}

func TestNilOutputIsSilent(t *testing.T) {
	SetOutput(nil)
	defer SetOutput(os.Stderr)
	// must not panic with a nil output target.
	Trace("dropped")
}
