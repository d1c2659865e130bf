package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

const historyVersion = 2

// Sessions older than this fall off the 7-day chart and are pruned.
const sessionRetention = 8 * 24 * time.Hour

// History is the on-disk state of the usage monitor. It survives restarts
// and feeds the session charts in the tooltip and the usage TUI.
type History struct {
	Version       int                 `json:"version"`
	PID           int                 `json:"pid,omitempty"`
	Config        HistoryConfig       `json:"config"`
	ActiveAccount string              `json:"active_account,omitempty"`
	Accounts      map[string]*Account `json:"accounts"`
}

// HistoryConfig carries user preferences that outlive a single monitor run.
type HistoryConfig struct {
	PreferSource string `json:"prefer_source,omitempty"`
	DisplayMode  string `json:"display_mode,omitempty"`
}

// Account tracks one Anthropic account's rate-limit usage over time.
type Account struct {
	Email            string         `json:"email,omitempty"`
	OrganizationName string         `json:"organization_name,omitempty"`
	OrganizationType string         `json:"organization_type,omitempty"`
	RateLimitTier    string         `json:"rate_limit_tier,omitempty"`
	Current          CurrentUsage   `json:"current"`
	History          AccountHistory `json:"history"`
	Snapshots        []Snapshot     `json:"snapshots"`
}

// CurrentUsage holds the most recent probe per rate-limit window.
type CurrentUsage struct {
	Session5h WindowSample `json:"session_5h"`
	Window7d  WindowSample `json:"window_7d"`
}

// WindowSample is one window's state at the last probe.
type WindowSample struct {
	Utilization float64   `json:"utilization"`
	ResetAt     time.Time `json:"reset_at,omitzero"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
	Status      string    `json:"status,omitempty"`
}

// AccountHistory stores completed rate-limit windows. Sessions5h feeds the
// 7-day charts; Windows7d is kept for the usage TUI.
type AccountHistory struct {
	Sessions5h []SessionRecord `json:"sessions_5h"`
	Windows7d  []SessionRecord `json:"windows_7d,omitempty"`
}

// SessionRecord is a finished 5-hour session and the utilization it ended at.
type SessionRecord struct {
	ResetAt     time.Time `json:"reset_at"`
	Utilization float64   `json:"utilization"`
}

// Snapshot is one utilization reading within the current session.
type Snapshot struct {
	TS   time.Time `json:"ts"`
	Util float64   `json:"util"`
}

// NewHistory returns an empty history at the current schema version.
func NewHistory() *History {
	return &History{
		Version:  historyVersion,
		Accounts: map[string]*Account{},
	}
}

// Account returns the entry for uuid, creating it when missing.
func (h *History) Account(uuid string) *Account {
	if h.Accounts == nil {
		h.Accounts = map[string]*Account{}
	}
	acct, ok := h.Accounts[uuid]
	if !ok {
		acct = &Account{}
		h.Accounts[uuid] = acct
	}
	return acct
}

// PlanLabel renders the account's organization as a short plan name.
func (a *Account) PlanLabel() string {
	return planLabel(a.OrganizationType, a.RateLimitTier)
}

// Record folds one probe result into the history. When a window rolled over
// since the last probe, the finished one is archived; a finished 5-hour
// session also drops its snapshots so the chart starts fresh.
func (h *History) Record(uuid string, profile *Profile, u *Usage, now time.Time) *Account {
	acct := h.Account(uuid)
	if profile != nil {
		acct.Email = profile.Account.Email
		acct.OrganizationName = profile.Organization.Name
		acct.OrganizationType = profile.Organization.OrganizationType
		acct.RateLimitTier = profile.Organization.RateLimitTier
	}

	prev5h := acct.Current.Session5h
	if windowRolled(prev5h, u.Session5h.ResetsAt) {
		acct.History.Sessions5h = append(acct.History.Sessions5h, SessionRecord{
			ResetAt:     prev5h.ResetAt,
			Utilization: prev5h.Utilization,
		})
		acct.Snapshots = nil
	}
	prev7d := acct.Current.Window7d
	if windowRolled(prev7d, u.Window7d.ResetsAt) {
		acct.History.Windows7d = append(acct.History.Windows7d, SessionRecord{
			ResetAt:     prev7d.ResetAt,
			Utilization: prev7d.Utilization,
		})
	}

	acct.Current.Session5h = WindowSample{
		Utilization: u.Session5h.Utilization,
		ResetAt:     u.Session5h.ResetsAt,
		LastUpdated: now,
		Status:      u.Session5h.Status,
	}
	acct.Current.Window7d = WindowSample{
		Utilization: u.Window7d.Utilization,
		ResetAt:     u.Window7d.ResetsAt,
		LastUpdated: now,
		Status:      u.Window7d.Status,
	}
	acct.Snapshots = append(acct.Snapshots, Snapshot{TS: now, Util: u.Session5h.Utilization})

	cutoff := now.Add(-sessionRetention)
	acct.History.Sessions5h = pruneRecords(acct.History.Sessions5h, cutoff)
	acct.History.Windows7d = pruneRecords(acct.History.Windows7d, cutoff)

	h.ActiveAccount = uuid
	return acct
}

func windowRolled(prev WindowSample, resetAt time.Time) bool {
	return !prev.ResetAt.IsZero() && !resetAt.IsZero() && !prev.ResetAt.Equal(resetAt)
}

func pruneRecords(records []SessionRecord, cutoff time.Time) []SessionRecord {
	kept := records[:0]
	for _, r := range records {
		if r.ResetAt.After(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}

// HistoryStore persists History as JSON under the nirikit data directory.
type HistoryStore struct {
	path string
}

// NewHistoryStore returns a store at the default location.
func NewHistoryStore() (*HistoryStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return &HistoryStore{path: filepath.Join(dir, "claude-usage.json")}, nil
}

// Path returns the file backing the store.
func (s *HistoryStore) Path() string {
	return s.path
}

// Load reads the history, returning a fresh one when the file is missing or
// from an incompatible schema version.
func (s *HistoryStore) Load() (*History, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewHistory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading usage history: %w", err)
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing usage history %s: %w", s.path, err)
	}
	if h.Version != historyVersion {
		return NewHistory(), nil
	}
	if h.Accounts == nil {
		h.Accounts = map[string]*Account{}
	}
	return &h, nil
}

// Save writes the history atomically.
func (s *HistoryStore) Save(h *History) error {
	h.Version = historyVersion
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding usage history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "claude-usage-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing usage history: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing usage history: %w", err)
	}
	return nil
}

// UpdateConfig mutates the persisted preferences and nudges a running
// monitor to pick them up.
func (s *HistoryStore) UpdateConfig(mutate func(*HistoryConfig)) error {
	h, err := s.Load()
	if err != nil {
		return err
	}
	mutate(&h.Config)
	if err := s.Save(h); err != nil {
		return err
	}
	s.SignalRunning(h)
	return nil
}

// SignalRunning sends SIGUSR1 to the monitor holding the pid claim, asking
// it to refresh immediately. Reports whether a signal was sent.
func (s *HistoryStore) SignalRunning(h *History) bool {
	if h.PID <= 0 || h.PID == os.Getpid() {
		return false
	}
	return syscall.Kill(h.PID, syscall.SIGUSR1) == nil
}

// Claim marks pid as the running monitor. When another live process already
// holds the claim the caller should exit rather than fight over the file.
func (s *HistoryStore) Claim(h *History, pid int) error {
	if h.PID != 0 && h.PID != pid && processAlive(h.PID) {
		return fmt.Errorf("usage monitor already running (pid %d)", h.PID)
	}
	h.PID = pid
	return s.Save(h)
}

// Release drops the claim when this process holds it.
func (s *HistoryStore) Release(h *History, pid int) error {
	if h.PID != pid {
		return nil
	}
	h.PID = 0
	return s.Save(h)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func dataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "nirikit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "nirikit"), nil
}
