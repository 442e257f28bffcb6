// Package runlock serializes live release runs on one machine. Remote
// races (another host retagging concurrently) are not guarded; this
// tool assumes a single human driver per repository.
package runlock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// LockFile is the lock location relative to the project root.
const LockFile = ".relctl/lock.json"

// Lock records the holder of an in-progress live run.
type Lock struct {
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
	Version    string    `json:"version"`
}

// ErrHeld is returned when another live process holds the lock.
var ErrHeld = errors.New("runlock: another release run is in progress")

// Acquire takes the run lock under root for the given version. A lock
// held by a dead process is stale and taken over.
func Acquire(root, version string) (*Lock, error) {
	path := filepath.Join(root, LockFile)
	if existing, err := read(path); err == nil && existing != nil {
		if pidAlive(existing.PID) {
			return nil, fmt.Errorf("%w (pid %d, since %s, version %s)",
				ErrHeld, existing.PID, existing.AcquiredAt.Format(time.RFC3339), existing.Version)
		}
		// Stale lock from a crashed run; take it over.
	}

	lock := &Lock{
		PID:        os.Getpid(),
		AcquiredAt: time.Now().UTC(),
		Version:    version,
	}
	if err := write(path, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// Release removes the lock file under root. Absence is not an error.
func Release(root string) error {
	err := os.Remove(filepath.Join(root, LockFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("runlock: release: %w", err)
	}
	return nil
}

func read(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		// An unreadable lock file is treated as stale.
		return nil, nil
	}
	return &lock, nil
}

func write(path string, lock *Lock) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("runlock: create directory: %w", err)
	}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("runlock: marshal: %w", err)
	}
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("runlock: write: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		return fmt.Errorf("runlock: save: %w", err)
	}
	return nil
}

// pidAlive reports whether the process still exists. Signal 0 performs
// the existence check without delivering anything.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
