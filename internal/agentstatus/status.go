// Package agentstatus surfaces what the coding agent is doing right now,
// fed by hook scripts that drop a status file in /tmp.
package agentstatus

import (
	"encoding/json"
	"os"
	"time"
)

// DefaultStatusPath is where the agent hooks write their state.
const DefaultStatusPath = "/tmp/command-center-status.json"

// staleAfter hides the module once the hooks stop writing, which usually
// means the agent session ended without a final idle update.
const staleAfter = 5 * time.Minute

// States written by the hooks.
const (
	StateIdle       = "idle"
	StateProcessing = "processing"
	StateTool       = "tool_execution"
	StateWaiting    = "waiting_permission"
)

// Status is one hook update.
type Status struct {
	State string  `json:"state"`
	Tool  string  `json:"tool,omitempty"`
	TS    float64 `json:"ts,omitempty"` // unix seconds of the write
}

// Active reports whether the agent is mid-task, which drives the faster
// poll rate.
func (s Status) Active() bool {
	return s.State == StateProcessing || s.State == StateTool
}

// ReadStatus loads the status file. A missing or unreadable file reads as
// idle, which is exactly what the bar should show when no agent runs. The
// second return is when the status was written, from ts or the file mtime.
func ReadStatus(path string) (Status, time.Time) {
	idle := Status{State: StateIdle}
	data, err := os.ReadFile(path)
	if err != nil {
		return idle, time.Time{}
	}
	var s Status
	if err := json.Unmarshal(data, &s); err != nil || s.State == "" {
		return idle, time.Time{}
	}
	if s.TS > 0 {
		sec := int64(s.TS)
		return s, time.Unix(sec, int64((s.TS-float64(sec))*1e9))
	}
	if info, err := os.Stat(path); err == nil {
		return s, info.ModTime()
	}
	return s, time.Time{}
}

// Stale reports whether an update is too old to trust.
func Stale(at, now time.Time) bool {
	return !at.IsZero() && now.Sub(at) > staleAfter
}
