package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelViewWhileRunning(t *testing.T) {
	m := model{title: "migrate up", frame: 1}
	if got := m.View(); !strings.Contains(got, "migrate up") || !strings.Contains(got, "/ running") {
		t.Fatalf("unexpected running view: %q", got)
	}
}

func TestModelUpdateOnCompletion(t *testing.T) {
	next, cmd := model{title: "seed apply"}.Update(doneMsg{details: []string{"created auth records: 1"}})
	if cmd == nil {
		t.Fatal("expected quit command after completion")
	}
	m := next.(model)
	view := m.View()
	if !m.done || !strings.Contains(view, "OK") || !strings.Contains(view, "- created auth records: 1") {
		t.Fatalf("unexpected completed view: %q", view)
	}
}

func TestModelViewOnFailure(t *testing.T) {
	next, _ := model{title: "seed apply"}.Update(doneMsg{err: errors.New("db down")})
	if view := next.(model).View(); !strings.Contains(view, "FAILED") || !strings.Contains(view, "db down") {
		t.Fatalf("unexpected failure view: %q", view)
	}
}

func TestModelTickStopsAfterDone(t *testing.T) {
	next, cmd := model{done: true}.Update(tickMsg{})
	if cmd != nil || next.(model).frame != 0 {
		t.Fatal("expected ticks to stop once the action finished")
	}
}

func TestModelCtrlCCancels(t *testing.T) {
	next, _ := model{}.Update(keyCtrlC())
	if m := next.(model); !errors.Is(m.err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", m.err)
	}
}

func keyCtrlC() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyCtrlC} }
