package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoState is returned by Load when no state has been persisted for the
// session yet.
var ErrNoState = errors.New("no persisted daemon state")

// WindowState is the persisted record for one scratchpad binding.
type WindowState struct {
	WindowID uint64    `json:"window_id"`
	Visible  bool      `json:"visible"`
	LastUsed time.Time `json:"last_used"`
}

// SessionState holds everything the daemon remembers for one niri session.
type SessionState struct {
	Scratchpads map[string]*WindowState `json:"scratchpads"`
	PID         int                     `json:"pid,omitempty"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewSessionState returns an empty session state.
func NewSessionState() *SessionState {
	return &SessionState{Scratchpads: make(map[string]*WindowState)}
}

// stateFile is the on-disk shape: session states keyed by niri socket path,
// so daemons for concurrent or successive sessions share one file.
type stateFile struct {
	Sessions map[string]*SessionState `json:"sessions"`
}

// StateStore persists per-session scratchpad state across daemon restarts.
type StateStore interface {
	Load(niriSocket string) (*SessionState, error) // ErrNoState if none
	Save(niriSocket string, s *SessionState) error
	Delete(niriSocket string) error
}

// diskStore is the concrete StateStore backed by the XDG data directory.
type diskStore struct {
	path string // full path to daemon-state.json
}

// NewStateStore returns a StateStore writing to
// $XDG_DATA_HOME/nirikit/daemon-state.json.
func NewStateStore() (StateStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "daemon-state.json")}, nil
}

func (d *diskStore) read() (*stateFile, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &stateFile{Sessions: make(map[string]*SessionState)}, nil
		}
		return nil, fmt.Errorf("failed to read daemon state: %w", err)
	}
	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse daemon state: %w", err)
	}
	if f.Sessions == nil {
		f.Sessions = make(map[string]*SessionState)
	}
	return &f, nil
}

// Load returns the state recorded for the given niri session.
func (d *diskStore) Load(niriSocket string) (*SessionState, error) {
	f, err := d.read()
	if err != nil {
		return nil, err
	}
	s, ok := f.Sessions[niriSocket]
	if !ok {
		return nil, ErrNoState
	}
	if s.Scratchpads == nil {
		s.Scratchpads = make(map[string]*WindowState)
	}
	return s, nil
}

// Save writes the session's state atomically via a temp file + os.Rename.
// Sessions whose socket no longer exists are pruned on the way out.
func (d *diskStore) Save(niriSocket string, s *SessionState) error {
	f, err := d.read()
	if err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	f.Sessions[niriSocket] = s

	for sock := range f.Sessions {
		if sock == niriSocket {
			continue
		}
		if _, err := os.Stat(sock); errors.Is(err, os.ErrNotExist) {
			delete(f.Sessions, sock)
		}
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "daemon-state-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}
	return nil
}

// Delete removes the session's entry. The file itself stays for other
// sessions.
func (d *diskStore) Delete(niriSocket string) error {
	f, err := d.read()
	if err != nil {
		return err
	}
	if _, ok := f.Sessions[niriSocket]; !ok {
		return nil
	}
	delete(f.Sessions, niriSocket)

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}
	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to persist daemon state: %w", err)
	}
	return nil
}
