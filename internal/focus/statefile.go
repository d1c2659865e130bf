package focus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Focus sources, recorded so consumers can tell which signal won.
const (
	SourceTerminal   = "terminal"
	SourceCompositor = "compositor"
)

// EnvFocusFile names the environment variable pointing the wrapped command
// at its focus state file.
const EnvFocusFile = "NIRIKIT_FOCUS_FILE"

// State is the published focus state.
type State struct {
	Focused   bool      `json:"focused"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File persists focus state atomically under the runtime directory. Writes
// may come from the terminal reader and the compositor watcher concurrently.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates the state file for this wrapper process.
func NewFile(pid int) (*File, error) {
	dir := runtimeDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating runtime directory: %w", err)
	}
	return &File{path: filepath.Join(dir, fmt.Sprintf("focus-%d.json", pid))}, nil
}

func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "nirikit")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("nirikit-%d", os.Getuid()))
}

// NewFileAt uses an explicit state file path instead of the per-pid default.
func NewFileAt(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &File{path: path}, nil
}

// Path returns the state file location, suitable for EnvFocusFile.
func (f *File) Path() string {
	return f.path
}

// Write publishes a focus transition via a temp file + os.Rename.
func (f *File) Write(focused bool, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(State{Focused: focused, Source: source, UpdatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to persist focus state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "focus-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist focus state: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist focus state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist focus state: %w", err)
	}

	if err = os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to persist focus state: %w", err)
	}
	return nil
}

// Remove deletes the state file. Missing files are fine.
func (f *File) Remove() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ReadState loads a focus state file, for consumers like status bars.
func ReadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse focus state: %w", err)
	}
	return &s, nil
}
