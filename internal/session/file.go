// ABOUTME: Persists the current session between CLI invocations
// ABOUTME: Stores session.json in the config directory with owner-only permissions

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// FileName is the session file inside the config directory
const FileName = "session.json"

// File reads and writes a session to disk
type File struct {
	configDir string
}

// NewFile creates a File rooted at configDir
func NewFile(configDir string) *File {
	return &File{configDir: configDir}
}

// Path returns the full path of the session file
func (f *File) Path() string {
	return filepath.Join(f.configDir, FileName)
}

// Load reads the stored session.
// A missing or unreadable-as-JSON file yields an empty session and no error.
func (f *File) Load() (Session, error) {
	data, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// Corrupt file, treat as logged out
		return Session{}, nil
	}
	return s, nil
}

// Save writes s to disk, creating the config directory if needed.
// The file is replaced atomically and is owner-only even if an older copy
// or the directory had looser permissions.
func (f *File) Save(s Session) error {
	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}
	if err := os.Chmod(f.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.configDir, FileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path())
}

// Clear removes the session file. A missing file is not an error.
func (f *File) Clear() error {
	err := os.Remove(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
