// Package daemon implements the scratchpad daemon: a per-session background
// process that tracks scratchpad windows, serves requests over a unix socket,
// and persists its state across restarts.
package daemon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// sessionHash derives a short stable identifier from the niri socket path so
// each compositor session gets its own daemon socket.
func sessionHash(niriSocket string) string {
	sum := sha256.Sum256([]byte(niriSocket))
	return hex.EncodeToString(sum[:4])
}

// runtimeDir returns the directory for sockets and other ephemeral files.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "nirikit")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("nirikit-%d", os.Getuid()))
}

// SocketPath returns the daemon socket path for the given niri session.
func SocketPath(niriSocket string) string {
	return filepath.Join(runtimeDir(), "daemon-"+sessionHash(niriSocket)+".sock")
}

// dataDir returns the nirikit XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "nirikit"), nil
}
