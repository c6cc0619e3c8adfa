// Package rotation provides the persisted round-robin cursor that lets the
// audit resume its document rotation across invocations.
package rotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// State is the persisted rotation record. LastIndex is the index of the
// last document position checked; -1 means no document has been processed
// yet and the next pick is index 0.
type State struct {
	LastIndex int `json:"lastIndex"`
}

// DefaultState returns the fresh-start state.
func DefaultState() State {
	return State{LastIndex: -1}
}

// SelectNext returns the next candidate in round-robin order over files,
// wrapping around at the end. The boolean is false iff files is empty.
// If lastIndex is stale relative to a listing that changed length, the
// modulo silently re-normalizes rather than erroring.
func SelectNext(files []string, lastIndex int) (string, int, bool) {
	if len(files) == 0 {
		return "", 0, false
	}
	idx := (lastIndex + 1) % len(files)
	if idx < 0 {
		idx += len(files)
	}
	return files[idx], idx, true
}

// Store reads and writes the cursor state file.
type Store struct {
	path string
}

// NewStore creates a store for the given state file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted state. A missing or corrupt file is a fresh
// start, never an error.
func (s *Store) Load() State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DefaultState()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultState()
	}
	return st
}

// Save writes the whole state record, creating parent directories if
// needed.
func (s *Store) Save(st State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	return nil
}
