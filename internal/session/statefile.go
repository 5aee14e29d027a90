package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhisek/gyansetu/internal/backend"
)

// DefaultStatePath resolves where the session is persisted between runs:
// 1. GYANSETU_SESSION environment variable
// 2. $XDG_STATE_HOME/gyansetu/session.json
// 3. ~/.local/state/gyansetu/session.json
func DefaultStatePath() (string, error) {
	if p := os.Getenv("GYANSETU_SESSION"); p != "" {
		return p, ensureDir(p)
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}

	p := filepath.Join(stateHome, "gyansetu", "session.json")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// readState loads a persisted session. A missing file means no session.
func readState(path string) (backend.Session, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return backend.Session{}, false, nil
	}
	if err != nil {
		return backend.Session{}, false, fmt.Errorf("read session state: %w", err)
	}
	var sess backend.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return backend.Session{}, false, fmt.Errorf("decode session state: %w", err)
	}
	return sess, true, nil
}

// writeState persists the session. The file holds a bearer token, so it is
// written user-only.
func writeState(path string, sess backend.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

// clearState removes the persisted session, ignoring a missing file.
func clearState(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}
