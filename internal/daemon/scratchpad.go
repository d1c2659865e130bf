package daemon

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palegrave/nirikit/internal/config"
	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/niri"
)

// HideWorkspace is the named workspace scratchpads are parked on while
// hidden. It must exist in the niri config (setup prints the snippet).
const HideWorkspace = "󰪷"

// pendingTTL bounds how long a spawned command may take to map its window.
const pendingTTL = 30 * time.Second

// pendingSpawn tracks a spawn whose window has not appeared yet.
type pendingSpawn struct {
	name    string
	token   string
	expires time.Time
}

// Manager owns the scratchpad state for one niri session.
type Manager struct {
	client *niri.Client
	store  StateStore
	socket string // NIRI_SOCKET value, the session key

	mu       sync.Mutex
	cfg      config.Config
	matchers map[string]*Matcher
	state    *SessionState
	pending  []pendingSpawn
}

// NewManager returns a manager bound to the given session.
func NewManager(client *niri.Client, store StateStore, niriSocket string) *Manager {
	return &Manager{
		client:   client,
		store:    store,
		socket:   niriSocket,
		matchers: make(map[string]*Matcher),
		state:    NewSessionState(),
	}
}

// SetConfig swaps in a new configuration and recompiles matchers. Entries
// whose match rule does not compile are skipped with a warning.
func (m *Manager) SetConfig(cfg config.Config) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var warnings []string
	matchers := make(map[string]*Matcher, len(cfg.Scratchpads))
	kept := cfg.Scratchpads[:0]
	for _, sp := range cfg.Scratchpads {
		matcher, err := NewMatcher(sp.Match)
		if err != nil {
			warnings = append(warnings, "scratchpad "+sp.Name+": "+err.Error())
			continue
		}
		matchers[sp.Name] = matcher
		kept = append(kept, sp)
	}
	cfg.Scratchpads = kept
	m.cfg = cfg
	m.matchers = matchers

	for name := range m.state.Scratchpads {
		if _, ok := matchers[name]; !ok {
			delete(m.state.Scratchpads, name)
		}
	}
	return warnings
}

// Restore loads persisted state and drops bindings whose windows are gone.
// Visibility is recomputed from the windows' current workspaces.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.store.Load(m.socket)
	if err != nil {
		if err == ErrNoState {
			return nil
		}
		return err
	}
	if state.Scratchpads == nil {
		state.Scratchpads = make(map[string]*WindowState)
	}

	windows, err := m.client.Windows(ctx)
	if err != nil {
		return fmt.Errorf("reconciling daemon state: %w", err)
	}
	hiddenWS := m.hideWorkspaceID(ctx)

	byID := make(map[uint64]niri.Window, len(windows))
	for _, w := range windows {
		byID[w.ID] = w
	}
	for name, st := range state.Scratchpads {
		if _, ok := m.matchers[name]; !ok {
			delete(state.Scratchpads, name)
			continue
		}
		w, ok := byID[st.WindowID]
		if !ok {
			delete(state.Scratchpads, name)
			continue
		}
		st.Visible = hiddenWS == nil || w.WorkspaceID == nil || *w.WorkspaceID != *hiddenWS
	}

	m.state = state
	m.persist()
	return nil
}

// hideWorkspaceID returns the id of the hide workspace, if it exists.
func (m *Manager) hideWorkspaceID(ctx context.Context) *uint64 {
	workspaces, err := m.client.Workspaces(ctx)
	if err != nil {
		return nil
	}
	for _, ws := range workspaces {
		if ws.Name == HideWorkspace {
			id := ws.ID
			return &id
		}
	}
	return nil
}

// persist saves the session state, logging instead of failing the operation.
func (m *Manager) persist() {
	if err := m.store.Save(m.socket, m.state); err != nil {
		logging.Get().Warn().Err(err).Msg("persisting daemon state failed")
	}
}

// binding returns the live window bound to name, rebinding by match rule when
// the stored id is stale.
func (m *Manager) binding(name string, windows []niri.Window) *niri.Window {
	if st, ok := m.state.Scratchpads[name]; ok {
		for i := range windows {
			if windows[i].ID == st.WindowID {
				return &windows[i]
			}
		}
		delete(m.state.Scratchpads, name)
	}

	matcher, ok := m.matchers[name]
	if !ok {
		return nil
	}
	for i := range windows {
		if matcher.Matches(windows[i]) {
			m.state.Scratchpads[name] = &WindowState{WindowID: windows[i].ID, Visible: true}
			return &windows[i]
		}
	}
	return nil
}

// boundName returns the scratchpad name a window id is bound to.
func (m *Manager) boundName(id uint64) (string, bool) {
	for name, st := range m.state.Scratchpads {
		if st.WindowID == id {
			return name, true
		}
	}
	return "", false
}

// Toggle spawns, hides, shows, or focuses the named scratchpad depending on
// where its window currently is.
func (m *Manager) Toggle(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sp, ok := m.cfg.Scratchpad(name)
	if !ok {
		return fmt.Errorf("unknown scratchpad %q", name)
	}
	windows, err := m.client.Windows(ctx)
	if err != nil {
		return err
	}
	w := m.binding(name, windows)
	if w == nil {
		return m.spawn(ctx, sp)
	}

	switch {
	case w.IsFocused:
		return m.hide(ctx, name, w)
	case m.onFocusedWorkspace(ctx, w):
		if err := m.client.Action(ctx, niri.FocusWindow(w.ID)); err != nil {
			return err
		}
		m.touch(name)
		return nil
	default:
		return m.show(ctx, sp, w)
	}
}

// SmartToggle hides the focused scratchpad, or shows the most recently used
// hidden one.
func (m *Manager) SmartToggle(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	windows, err := m.client.Windows(ctx)
	if err != nil {
		return err
	}

	for i := range windows {
		if !windows[i].IsFocused {
			continue
		}
		if name, ok := m.boundName(windows[i].ID); ok {
			return m.hide(ctx, name, &windows[i])
		}
		break
	}

	var mruName string
	var mruWindow *niri.Window
	var mruTime time.Time
	for name := range m.matchers {
		st, ok := m.state.Scratchpads[name]
		if !ok || st.Visible {
			continue
		}
		for i := range windows {
			if windows[i].ID == st.WindowID {
				if mruWindow == nil || st.LastUsed.After(mruTime) {
					mruName, mruWindow, mruTime = name, &windows[i], st.LastUsed
				}
				break
			}
		}
	}
	if mruWindow == nil {
		return fmt.Errorf("no hidden scratchpad windows")
	}
	sp, _ := m.cfg.Scratchpad(mruName)
	return m.show(ctx, sp, mruWindow)
}

// Show makes the named scratchpad visible on the focused workspace, spawning
// it first if needed.
func (m *Manager) Show(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sp, ok := m.cfg.Scratchpad(name)
	if !ok {
		return fmt.Errorf("unknown scratchpad %q", name)
	}
	windows, err := m.client.Windows(ctx)
	if err != nil {
		return err
	}
	w := m.binding(name, windows)
	if w == nil {
		return m.spawn(ctx, sp)
	}
	return m.show(ctx, sp, w)
}

// Hide parks the named scratchpad on the hide workspace.
func (m *Manager) Hide(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cfg.Scratchpad(name); !ok {
		return fmt.Errorf("unknown scratchpad %q", name)
	}
	windows, err := m.client.Windows(ctx)
	if err != nil {
		return err
	}
	w := m.binding(name, windows)
	if w == nil {
		return fmt.Errorf("scratchpad %q has no window", name)
	}
	return m.hide(ctx, name, w)
}

// Adopt binds the focused window to the named scratchpad and applies its
// float, size, and position settings.
func (m *Manager) Adopt(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sp, ok := m.cfg.Scratchpad(name)
	if !ok {
		return fmt.Errorf("unknown scratchpad %q", name)
	}
	w, err := m.client.FocusedWindow(ctx)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("no focused window to adopt")
	}

	m.state.Scratchpads[name] = &WindowState{WindowID: w.ID, Visible: true, LastUsed: time.Now()}
	if err := m.configure(ctx, sp, *w); err != nil {
		return err
	}
	m.persist()
	logging.Get().Info().Str("scratchpad", name).Str("window", strconv.FormatUint(w.ID, 10)).Msg("adopted window")
	return nil
}

// Disown releases the named scratchpad's window back to normal tiling.
func (m *Manager) Disown(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.Scratchpads[name]
	if !ok {
		return fmt.Errorf("scratchpad %q has no window", name)
	}
	delete(m.state.Scratchpads, name)
	m.persist()

	windows, err := m.client.Windows(ctx)
	if err != nil {
		return nil
	}
	for i := range windows {
		if windows[i].ID == st.WindowID && windows[i].IsFloating {
			return m.client.Action(ctx, niri.MoveWindowToTiling(st.WindowID))
		}
	}
	return nil
}

// Close asks niri to close the named scratchpad's window. The binding is
// dropped when the close event arrives.
func (m *Manager) Close(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	windows, err := m.client.Windows(ctx)
	if err != nil {
		return err
	}
	w := m.binding(name, windows)
	if w == nil {
		return fmt.Errorf("scratchpad %q has no window", name)
	}
	return m.client.Action(ctx, niri.CloseWindow(w.ID))
}

// ClaimPID records pid as the session's daemon process. Zero clears the
// record on clean shutdown.
func (m *Manager) ClaimPID(pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.PID = pid
	m.persist()
}

// SetFloat changes the focused window's floating state. Mode is OpFloat,
// OpTile or OpToggleFloat; float and tile are no-ops when already there.
func (m *Manager) SetFloat(ctx context.Context, mode string) error {
	w, err := m.client.FocusedWindow(ctx)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("no focused window")
	}
	switch mode {
	case OpFloat:
		if w.IsFloating {
			return nil
		}
		return m.client.Action(ctx, niri.MoveWindowToFloating(w.ID))
	case OpTile:
		if !w.IsFloating {
			return nil
		}
		return m.client.Action(ctx, niri.MoveWindowToTiling(w.ID))
	default:
		return m.client.Action(ctx, niri.ToggleWindowFloating(w.ID))
	}
}

// Items describes every configured scratchpad in config order.
func (m *Manager) Items(ctx context.Context) []MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	windows, _ := m.client.Windows(ctx)
	live := make(map[uint64]bool, len(windows))
	for _, w := range windows {
		live[w.ID] = true
	}

	items := make([]MenuItem, 0, len(m.cfg.Scratchpads))
	for _, sp := range m.cfg.Scratchpads {
		item := MenuItem{Name: sp.Name}
		if st, ok := m.state.Scratchpads[sp.Name]; ok && live[st.WindowID] {
			item.Bound = true
			item.Visible = st.Visible
		}
		items = append(items, item)
	}
	return items
}

// spawn launches the scratchpad command and records a pending entry so the
// window gets configured when it appears.
func (m *Manager) spawn(ctx context.Context, sp config.Scratchpad) error {
	if sp.Command == "" {
		return fmt.Errorf("scratchpad %q has no command to spawn", sp.Name)
	}

	m.prunePending(time.Now())
	for _, p := range m.pending {
		if p.name == sp.Name {
			return nil // already spawning
		}
	}

	token := uuid.NewString()
	if err := m.client.Action(ctx, niri.Spawn("sh", "-c", sp.Command)); err != nil {
		return fmt.Errorf("spawning scratchpad %q: %w", sp.Name, err)
	}
	m.pending = append(m.pending, pendingSpawn{
		name:    sp.Name,
		token:   token,
		expires: time.Now().Add(pendingTTL),
	})
	logging.Get().Info().Str("scratchpad", sp.Name).Str("token", token).Msg("spawned scratchpad command")
	return nil
}

func (m *Manager) prunePending(now time.Time) {
	kept := m.pending[:0]
	for _, p := range m.pending {
		if now.Before(p.expires) {
			kept = append(kept, p)
		}
	}
	m.pending = kept
}

// onFocusedWorkspace reports whether w sits on the focused workspace.
func (m *Manager) onFocusedWorkspace(ctx context.Context, w *niri.Window) bool {
	if w.WorkspaceID == nil {
		return false
	}
	workspaces, err := m.client.Workspaces(ctx)
	if err != nil {
		return false
	}
	for _, ws := range workspaces {
		if ws.IsFocused {
			return ws.ID == *w.WorkspaceID
		}
	}
	return false
}

// hide parks the window and records it as hidden.
func (m *Manager) hide(ctx context.Context, name string, w *niri.Window) error {
	if err := m.client.Action(ctx, niri.MoveWindowToWorkspace(w.ID, HideWorkspace)); err != nil {
		return fmt.Errorf("hiding scratchpad %q: %w", name, err)
	}
	st := m.state.Scratchpads[name]
	if st == nil {
		st = &WindowState{WindowID: w.ID}
		m.state.Scratchpads[name] = st
	}
	st.Visible = false
	st.LastUsed = time.Now()
	m.persist()
	return nil
}

// show brings the window to the focused workspace, applies geometry, and
// focuses it.
func (m *Manager) show(ctx context.Context, sp config.Scratchpad, w *niri.Window) error {
	output, err := m.client.FocusedOutput(ctx)
	if err != nil {
		return err
	}
	if err := m.client.Action(ctx, niri.MoveWindowToMonitor(w.ID, output.Name)); err != nil {
		return fmt.Errorf("showing scratchpad %q: %w", sp.Name, err)
	}
	if ws := m.focusedWorkspace(ctx); ws != nil {
		if err := m.client.Action(ctx, niri.MoveWindowToWorkspace(w.ID, strconv.Itoa(int(ws.Idx)))); err != nil {
			return fmt.Errorf("showing scratchpad %q: %w", sp.Name, err)
		}
	}
	if err := m.configure(ctx, sp, *w); err != nil {
		return err
	}
	if err := m.client.Action(ctx, niri.FocusWindow(w.ID)); err != nil {
		return err
	}

	st := m.state.Scratchpads[sp.Name]
	if st == nil {
		st = &WindowState{WindowID: w.ID}
		m.state.Scratchpads[sp.Name] = st
	}
	st.Visible = true
	st.LastUsed = time.Now()
	m.persist()
	return nil
}

// focusedWorkspace returns the focused workspace, or nil when it cannot be
// determined.
func (m *Manager) focusedWorkspace(ctx context.Context) *niri.Workspace {
	workspaces, err := m.client.Workspaces(ctx)
	if err != nil {
		return nil
	}
	for i := range workspaces {
		if workspaces[i].IsFocused {
			return &workspaces[i]
		}
	}
	return nil
}

// configure applies the scratchpad's float, size, and position settings to
// the window on the focused output.
func (m *Manager) configure(ctx context.Context, sp config.Scratchpad, w niri.Window) error {
	if !sp.Floating() {
		if w.IsFloating {
			return m.client.Action(ctx, niri.MoveWindowToTiling(w.ID))
		}
		return nil
	}

	if !w.IsFloating {
		if err := m.client.Action(ctx, niri.MoveWindowToFloating(w.ID)); err != nil {
			return err
		}
	}

	output, err := m.client.FocusedOutput(ctx)
	if err != nil || output == nil || output.Logical == nil {
		return nil
	}
	logical := *output.Logical

	if sp.Size != "" {
		size, err := config.ParseSize(sp.Size)
		if err != nil {
			return fmt.Errorf("scratchpad %q: %w", sp.Name, err)
		}
		if err := m.client.Action(ctx, niri.SetWindowWidth(w.ID, size.Width.Resolve(logical.Width))); err != nil {
			return err
		}
		if err := m.client.Action(ctx, niri.SetWindowHeight(w.ID, size.Height.Resolve(logical.Height))); err != nil {
			return err
		}
	}

	value, ok := sp.Position.For(output.Name)
	if !ok {
		return m.client.Action(ctx, niri.CenterWindow(w.ID))
	}
	placement, err := config.ParsePlacement(value)
	if err != nil {
		return fmt.Errorf("scratchpad %q: %w", sp.Name, err)
	}
	if placement.Center {
		return m.client.Action(ctx, niri.CenterWindow(w.ID))
	}
	x := placement.X.Resolve(logical.Width)
	y := placement.Y.Resolve(logical.Height)
	return m.client.Action(ctx, niri.MoveFloatingWindow(w.ID, x, y))
}

// touch refreshes the binding's last-used time.
func (m *Manager) touch(name string) {
	if st, ok := m.state.Scratchpads[name]; ok {
		st.LastUsed = time.Now()
		m.persist()
	}
}

// HandleWindowOpened binds newly mapped windows to pending spawns, or rebinds
// ones that match a rule and were merely unmapped.
func (m *Manager) HandleWindowOpened(ctx context.Context, w niri.Window) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prunePending(time.Now())
	for i, p := range m.pending {
		matcher, ok := m.matchers[p.name]
		if !ok || !matcher.Matches(w) {
			continue
		}
		sp, _ := m.cfg.Scratchpad(p.name)
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		m.state.Scratchpads[p.name] = &WindowState{WindowID: w.ID, Visible: true, LastUsed: time.Now()}
		if err := m.configure(ctx, sp, w); err != nil {
			logging.Get().Warn().Err(err).Str("scratchpad", p.name).Msg("configuring spawned window failed")
		}
		if err := m.client.Action(ctx, niri.FocusWindow(w.ID)); err != nil {
			logging.Get().Warn().Err(err).Str("scratchpad", p.name).Msg("focusing spawned window failed")
		}
		m.persist()
		return
	}
}

// HandleWindowClosed drops any binding for the closed window.
func (m *Manager) HandleWindowClosed(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name, ok := m.boundName(id); ok {
		delete(m.state.Scratchpads, name)
		m.persist()
	}
}

// HandleWindowFocused refreshes recency for bound windows.
func (m *Manager) HandleWindowFocused(id *uint64) {
	if id == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if name, ok := m.boundName(*id); ok {
		st := m.state.Scratchpads[name]
		st.Visible = true
		st.LastUsed = time.Now()
		m.persist()
	}
}

// BoundWindow reports the scratchpad name a window belongs to.
func (m *Manager) BoundWindow(id uint64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boundName(id)
}
