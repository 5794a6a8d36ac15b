package grouplist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPanelEmpty(t *testing.T) {
	p := New(nil)

	if !strings.Contains(p.View(), "No groups yet") {
		t.Errorf("expected empty text, got %q", p.View())
	}
	if _, ok := p.Selected(); ok {
		t.Error("expected no selection")
	}
}

func TestPanelNavigateAndSelect(t *testing.T) {
	p := New([]string{"g1", "g2", "g3"})

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if id, _ := p.Selected(); id != "g2" {
		t.Errorf("expected g2, got %s", id)
	}

	p.Select("g3")
	if id, _ := p.Selected(); id != "g3" {
		t.Errorf("expected g3, got %s", id)
	}

	p.SetGroups([]string{"g1"})
	if id, _ := p.Selected(); id != "g1" {
		t.Errorf("expected cursor clamped to g1, got %s", id)
	}
}
