// Package logging configures the shared arbor logger.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"
)

var (
	global arbor.ILogger
	mu     sync.RWMutex
)

// Get returns the process-wide logger. Before Setup runs it falls back to a
// warn-level console logger so early failures are still visible.
func Get() arbor.ILogger {
	mu.RLock()
	if global != nil {
		mu.RUnlock()
		return global
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = arbor.NewLogger().
			WithConsoleWriter(consoleConfig()).
			WithLevelFromString("warn")
	}
	return global
}

// SetupConsole configures console-only logging at the given level and stores
// the logger as the process-wide instance.
func SetupConsole(level string) arbor.ILogger {
	logger := arbor.NewLogger().
		WithConsoleWriter(consoleConfig()).
		WithLevelFromString(level)

	mu.Lock()
	global = logger
	mu.Unlock()
	return logger
}

// SetupFile configures file-only logging for long-running processes whose
// stdout belongs to waybar. Logs go to $XDG_STATE_HOME/nirikit/logs/<name>.log.
// Falls back to console logging when the log directory cannot be created.
func SetupFile(name, level string) arbor.ILogger {
	dir, err := logDir()
	if err == nil {
		err = os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		logger := SetupConsole(level)
		logger.Warn().Err(err).Msg("log directory unavailable, logging to console")
		return logger
	}

	logger := arbor.NewLogger().
		WithFileWriter(fileConfig(filepath.Join(dir, name+".log"))).
		WithLevelFromString(level)

	mu.Lock()
	global = logger
	mu.Unlock()
	return logger
}

// Stop flushes buffered log output. Safe to call multiple times.
func Stop() {
	arborcommon.Stop()
}

func logDir() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "nirikit", "logs"), nil
}

func consoleConfig() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		TimeFormat: "15:04:05.000",
		OutputType: models.OutputFormatLogfmt,
	}
}

func fileConfig(path string) models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   path,
		TimeFormat: "15:04:05.000",
		OutputType: models.OutputFormatLogfmt,
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 3,
	}
}
