// ABOUTME: Tests for recent login email storage
// ABOUTME: Validates ordering, max limit, deduplication, and corrupt files

package recent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmpty(t *testing.T) {
	e := New(t.TempDir())

	emails, err := e.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(emails) != 0 {
		t.Errorf("expected empty list, got %v", emails)
	}
	if e.Latest() != "" {
		t.Errorf("expected no latest email, got %q", e.Latest())
	}
}

func TestAddMovesToFront(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	for _, email := range []string{"a@x.io", "b@x.io", "A@x.io"} {
		if err := e.Add(email); err != nil {
			t.Fatalf("Add(%s) error: %v", email, err)
		}
	}

	emails, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(emails) != 2 || emails[0] != "A@x.io" || emails[1] != "b@x.io" {
		t.Errorf("unexpected order %v", emails)
	}
}

func TestAddIgnoresBlank(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	if err := e.Add("  "); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Error("expected no file written for blank email")
	}
}

func TestMaxEmails(t *testing.T) {
	e := New(t.TempDir())

	for i := 0; i < MaxEmails+3; i++ {
		e.Add(string(rune('a'+i)) + "@x.io")
	}

	emails, _ := e.Load()
	if len(emails) != MaxEmails {
		t.Errorf("expected %d emails, got %d", MaxEmails, len(emails))
	}
	if e.Latest() != string(rune('a'+MaxEmails+2))+"@x.io" {
		t.Errorf("unexpected latest %q", e.Latest())
	}
}

func TestCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0600)

	emails, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(emails) != 0 {
		t.Errorf("expected empty list, got %v", emails)
	}
}

func TestFilePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	e := New(dir)

	if err := e.Add("a@x.io"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600, got %o", info.Mode().Perm())
	}
}
