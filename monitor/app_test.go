/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MilkTool/KayoVM/classloader"
)

func TestPollWithNilAllocatorReportsZero(t *testing.T) {
	cfg := &Config{}
	s := cfg.poll()
	if s.freeBytes != 0 || s.freelistLen != 0 {
		t.Fatalf("expected zero heap counters with a nil allocator, got %+v", s)
	}
}

func TestPollCollectsPerLoaderCounts(t *testing.T) {
	l := &classloader.Loader{Name: "bootstrap"}
	cfg := &Config{Loaders: []*classloader.Loader{l}}
	s := cfg.poll()
	if len(s.loaded) != 1 {
		t.Fatalf("expected one loader count entry, got %d", len(s.loaded))
	}
	if s.loaded[0].name != "bootstrap" {
		t.Fatalf("expected loader name %q, got %q", "bootstrap", s.loaded[0].name)
	}
	if s.loaded[0].count != 0 {
		t.Fatalf("expected a fresh loader to report 0 loaded classes, got %d", s.loaded[0].count)
	}
}

func TestModelQuitsOnKeyPress(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEscape},
	} {
		m := newModel(&Config{Interval: time.Second})
		if _, cmd := m.Update(msg); cmd == nil {
			t.Fatalf("expected key %q to return a quit command", msg.String())
		}
	}
}

func TestModelIgnoresOtherKeys(t *testing.T) {
	m := newModel(&Config{Interval: time.Second})
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Fatal("expected an unrecognized key to not return a command")
	}
}

func TestModelTracksWindowSize(t *testing.T) {
	m := newModel(&Config{Interval: time.Second})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.width != 80 || m.height != 24 {
		t.Fatalf("expected window size to be tracked, got %dx%d", m.width, m.height)
	}
}

func TestModelTickRefreshesSnapshot(t *testing.T) {
	l := &classloader.Loader{Name: "app"}
	m := newModel(&Config{Loaders: []*classloader.Loader{l}, Interval: time.Second})
	before := m.last.takenAt
	time.Sleep(time.Millisecond)
	mdl, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected a tick to schedule the next tick command")
	}
	refreshed := mdl.(*model)
	if !refreshed.last.takenAt.After(before) {
		t.Fatal("expected the snapshot's takenAt to advance after a tick")
	}
}

func TestFreshConfigHasZeroInterval(t *testing.T) {
	cfg := &Config{}
	if cfg.Interval != 0 {
		t.Fatal("expected a fresh Config to have a zero interval before defaulting")
	}
}
