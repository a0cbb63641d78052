/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestGetEnvArgsWhenAbsent(t *testing.T) {
	os.Unsetenv("JAVA_TOOL_OPTIONS")
	os.Unsetenv("_JAVA_OPTIONS")
	os.Unsetenv("JDK_JAVA_OPTIONS")

	if v := getEnvArgs(); v != "" {
		t.Errorf("expected empty env args, got %q", v)
	}
}

func TestGetEnvArgsWhenTwoArePresent(t *testing.T) {
	os.Unsetenv("JAVA_TOOL_OPTIONS")
	os.Setenv("_JAVA_OPTIONS", "Hello,")
	os.Setenv("JDK_JAVA_OPTIONS", "World!")
	defer func() {
		os.Unsetenv("_JAVA_OPTIONS")
		os.Unsetenv("JDK_JAVA_OPTIONS")
	}()

	if v := getEnvArgs(); v != "Hello, World!" {
		t.Errorf("getEnvArgs() = %q, want %q", v, "Hello, World!")
	}
}

func TestShowCopyright(t *testing.T) {
	normalStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	showCopyright()

	w.Close()
	out, _ := io.ReadAll(r)
	os.Stdout = normalStdout

	msg := string(out)
	if !strings.Contains(msg, "All rights reserved") {
		t.Errorf("copyright missing expected text: %s", msg)
	}
}

func TestRootCmdVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--version"})

	r, w, _ := os.Pipe()
	cmd.SetOut(w)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Close()
	out, _ := io.ReadAll(r)
	if !strings.Contains(string(out), "KayoVM") {
		t.Errorf("version output missing KayoVM banner: %s", out)
	}
}
