// Package state records the last successfully released tag per target.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFile is the state location relative to the project root
// (git-ignored).
const StateFile = ".relctl/state.json"

// TargetState is the last successful live release of one target.
type TargetState struct {
	Tag        string    `json:"tag"`
	RunID      string    `json:"run_id"`
	ReleasedAt time.Time `json:"released_at"`
}

// State maps target names to their last release. Dry runs never touch
// it.
type State struct {
	Version string                 `json:"version"`
	Targets map[string]TargetState `json:"targets,omitempty"`
}

// Load reads the state file under root. A missing file yields empty
// state.
func Load(root string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(root, StateFile))
	if os.IsNotExist(err) {
		return &State{Version: "1"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("state: parse: %w", err)
	}
	if state.Version == "" {
		state.Version = "1"
	}
	return &state, nil
}

// RecordRelease notes that target was released at tag by run runID.
func (s *State) RecordRelease(target, tag, runID string) {
	if s.Targets == nil {
		s.Targets = make(map[string]TargetState)
	}
	s.Targets[target] = TargetState{
		Tag:        tag,
		RunID:      runID,
		ReleasedAt: time.Now().UTC(),
	}
}

// Save writes the state atomically (temp file then rename) under root.
func (s *State) Save(root string) error {
	path := filepath.Join(root, StateFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("state: create directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("state: write: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		return fmt.Errorf("state: save: %w", err)
	}
	return nil
}
