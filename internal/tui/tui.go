// Package tui provides a Bubble Tea TUI for browsing Claude usage history.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palegrave/nirikit/internal/claude"
	"github.com/palegrave/nirikit/internal/waybar"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	activeMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	limitedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Selected row in the Accounts list
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabSession
	tabWeek
	tabSessions
	tabAccounts
	tabCount
)

var tabNames = [tabCount]string{
	"Overview", "Session", "Week", "Sessions", "Accounts",
}

// ── Charts ───────────────────

var chartBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders one row of block glyphs, colored by the raw utilization
// behind each bucket. Empty buckets stay dim so the timeline keeps its shape.
func sparkline(buckets, raw []float64, g waybar.Gradient) string {
	var sb strings.Builder
	for i, v := range buckets {
		if v <= 0 {
			sb.WriteString(dimStyle.Render(string(chartBlocks[0])))
			continue
		}
		idx := int(v*float64(len(chartBlocks)-1) + 0.5)
		if idx < 1 {
			idx = 1
		}
		if idx > len(chartBlocks)-1 {
			idx = len(chartBlocks) - 1
		}
		color := lipgloss.Color(g.Color(raw[i]))
		sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(chartBlocks[idx])))
	}
	return sb.String()
}

// gauge renders a rounded progress bar colored by utilization, plus the
// percent number.
func gauge(util float64, width int) string {
	pct := int(util*100 + 0.5)
	color := lipgloss.Color(waybar.UsageGradient.Color(util))
	bar := lipgloss.NewStyle().Foreground(color).Render(waybar.ProgressBar(pct, width))
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	history   *claude.History
	filename  string
	now       time.Time
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	sortAsc   bool
	// Accounts tab: stable ordering, cursor position and the account whose
	// data the other tabs show.
	acctIDs    []string
	acctCursor int
	selected   string
}

// New creates a TUI model over the given history and its source filename.
func New(h *claude.History, filename string) Model {
	ids := make([]string, 0, len(h.Accounts))
	for id := range h.Accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := h.Accounts[ids[i]], h.Accounts[ids[j]]
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		return ids[i] < ids[j]
	})

	m := Model{
		history:  h,
		filename: filepath.Base(filename),
		now:      time.Now(),
		sortAsc:  false,
		acctIDs:  ids,
	}
	m.selected = h.ActiveAccount
	if _, ok := h.Accounts[m.selected]; !ok && len(ids) > 0 {
		m.selected = ids[0]
	}
	for i, id := range ids {
		if id == m.selected {
			m.acctCursor = i
		}
	}
	return m
}

// account returns the account the tabs are showing, or nil when the history
// is empty.
func (m *Model) account() *claude.Account {
	return m.history.Accounts[m.selected]
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4", "5":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabSessions {
				m.sortAsc = !m.sortAsc
				m.rebuildSessionsViewport()
			}
		case "up", "k":
			if m.activeTab == tabAccounts && m.acctCursor > 0 {
				m.acctCursor--
				m.rebuildAccountsViewport()
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabAccounts && m.acctCursor < len(m.acctIDs)-1 {
				m.acctCursor++
				m.rebuildAccountsViewport()
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabAccounts && len(m.acctIDs) > 0 {
				m.selected = m.acctIDs[m.acctCursor]
				m.initViewports()
				m.activeTab = tabOverview
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	// ── Row 1: title bar ──────────────────────────────────────────────────────
	title := titleStyle.Width(m.width).Render("  nirikit usage  " + m.filename)

	// ── Row 2: tab bar ────────────────────────────────────────────────────────
	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	// ── Row 3…N-1: scrollable content ────────────────────────────────────────
	content := m.viewports[m.activeTab].View()

	// ── Row N: status / hint bar ──────────────────────────────────────────────
	hint := "  ←/→ tab  ↑/↓ scroll  1-5 jump  q quit"
	if m.activeTab == tabSessions {
		dir := "newest first"
		if m.sortAsc {
			dir = "oldest first"
		}
		hint += "  s sort (" + dir + ")"
	}
	if m.activeTab == tabAccounts {
		hint += "  ↑/↓ select  enter view"
	}
	// show scroll % on the right
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildSessionsViewport() {
	m.viewports[tabSessions].SetContent(m.renderTab(tabSessions))
	m.viewports[tabSessions].GotoTop()
}

func (m *Model) rebuildAccountsViewport() {
	m.viewports[tabAccounts].SetContent(m.renderTab(tabAccounts))
}

// chartWidth fits the sparklines to the terminal.
func (m *Model) chartWidth() int {
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	if w > 64 {
		w = 64
	}
	return w
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabOverview:
		return m.renderOverview()
	case tabSession:
		return m.renderSession()
	case tabWeek:
		return m.renderWeek()
	case tabSessions:
		return m.renderSessions()
	case tabAccounts:
		return m.renderAccounts()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func emptyHistory() string {
	return "\n" + dimStyle.Render("  (no usage recorded yet; run 'nirikit status claude' to start the monitor)") + "\n"
}

func (m *Model) renderOverview() string {
	acct := m.account()
	if acct == nil {
		return emptyHistory()
	}
	var sb strings.Builder
	sb.WriteString(heading("Account"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
	}
	email := acct.Email
	if email == "" {
		email = dimStyle.Render("(unknown)")
	}
	row("Email:", email)
	if plan := acct.PlanLabel(); plan != "" {
		row("Plan:", plan)
	}
	if acct.OrganizationName != "" {
		row("Organization:", acct.OrganizationName)
	}
	prefer := m.history.Config.PreferSource
	if prefer == "" {
		prefer = "auto"
	}
	row("Source:", prefer)
	mode := m.history.Config.DisplayMode
	if mode == "" {
		mode = "compact"
	}
	row("Display mode:", mode)
	if m.history.PID != 0 {
		row("Monitor PID:", fmt.Sprintf("%d", m.history.PID))
	}

	sb.WriteString(heading("Current windows"))
	m.renderWindowRow(&sb, "5-hour session:", acct.Current.Session5h)
	m.renderWindowRow(&sb, "7-day window:", acct.Current.Window7d)

	sb.WriteString(heading("Counts"))
	row("Accounts:", fmt.Sprintf("%d", len(m.history.Accounts)))
	row("Sessions:", fmt.Sprintf("%d finished in the last week", len(acct.History.Sessions5h)))
	row("Snapshots:", fmt.Sprintf("%d this session", len(acct.Snapshots)))
	return sb.String()
}

// renderWindowRow writes a gauge line and a dim detail line for one window.
func (m *Model) renderWindowRow(sb *strings.Builder, label string, w claude.WindowSample) {
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)))
	if w.LastUpdated.IsZero() {
		sb.WriteString("  " + dimStyle.Render("(no data)") + "\n")
		return
	}
	sb.WriteString("  " + gauge(w.Utilization, 24))
	if w.Status != "" && w.Status != "allowed" {
		sb.WriteString("  " + limitedStyle.Render(w.Status))
	}
	sb.WriteString("\n")

	var details []string
	if !w.ResetAt.IsZero() {
		if w.ResetAt.After(m.now) {
			details = append(details, fmt.Sprintf("resets %s (%s left)",
				w.ResetAt.Format("Mon 15:04"), waybar.DeltaHM(w.ResetAt.Sub(m.now))))
		} else {
			details = append(details, "rolled over, awaiting next probe")
		}
	}
	details = append(details, "checked "+waybar.DeltaHM(m.now.Sub(w.LastUpdated))+" ago")
	sb.WriteString(strings.Repeat(" ", 20) + dimStyle.Render(strings.Join(details, "  ·  ")) + "\n")
}

func (m *Model) renderSession() string {
	acct := m.account()
	if acct == nil {
		return emptyHistory()
	}
	w := acct.Current.Session5h
	var sb strings.Builder
	sb.WriteString(heading("Current 5-hour session"))
	m.renderWindowRow(&sb, "Utilization:", w)

	sb.WriteString(heading("Usage over the session"))
	if len(acct.Snapshots) == 0 || w.ResetAt.IsZero() {
		sb.WriteString(dimStyle.Render("  (no snapshots yet)") + "\n")
	} else {
		width := m.chartWidth()
		buckets, raw := claude.UsageBuckets(acct.Snapshots, w.ResetAt, width)
		sb.WriteString("  " + sparkline(buckets, raw, waybar.UsageGradient) + "\n")
		sb.WriteString("  " + axisLabels(w.ResetAt.Add(-5*time.Hour), w.ResetAt, "15:04", width) + "\n")
	}

	sb.WriteString(heading(fmt.Sprintf("Snapshots (%d)", len(acct.Snapshots))))
	if len(acct.Snapshots) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	const maxRows = 30
	shown := 0
	for i := len(acct.Snapshots) - 1; i >= 0 && shown < maxRows; i-- {
		s := acct.Snapshots[i]
		ts := timeStyle.Render(s.TS.Format("15:04:05"))
		line := fmt.Sprintf("  %s  %5.1f%%", ts, s.Util*100)
		if i > 0 {
			if delta := (s.Util - acct.Snapshots[i-1].Util) * 100; delta > 0 {
				line += dimStyle.Render(fmt.Sprintf("  (+%.1f%%)", delta))
			}
		}
		sb.WriteString(line + "\n")
		shown++
	}
	if rest := len(acct.Snapshots) - shown; rest > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  … %d earlier snapshots", rest)) + "\n")
	}
	return sb.String()
}

func (m *Model) renderWeek() string {
	acct := m.account()
	if acct == nil {
		return emptyHistory()
	}
	w7 := acct.Current.Window7d
	var sb strings.Builder
	sb.WriteString(heading("7-day window"))
	m.renderWindowRow(&sb, "Utilization:", w7)

	sb.WriteString(heading("Sessions across the window"))
	if w7.ResetAt.IsZero() {
		sb.WriteString(dimStyle.Render("  (no data)") + "\n")
	} else {
		var current *claude.SessionRecord
		if w5 := acct.Current.Session5h; !w5.LastUpdated.IsZero() {
			current = &claude.SessionRecord{ResetAt: w5.LastUpdated, Utilization: w5.Utilization}
		}
		width := m.chartWidth()
		buckets, raw := claude.SessionBuckets(acct.History.Sessions5h, current, w7.ResetAt, width)
		sb.WriteString("  " + sparkline(buckets, raw, waybar.UsageGradient) + "\n")
		sb.WriteString("  " + axisLabels(w7.ResetAt.Add(-7*24*time.Hour), w7.ResetAt, "Mon 02", width) + "\n")
	}

	sb.WriteString(heading(fmt.Sprintf("Archived 7-day windows (%d)", len(acct.History.Windows7d))))
	if len(acct.History.Windows7d) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, rec := range acct.History.Windows7d {
		sb.WriteString(bullet(fmt.Sprintf("%s  ended at %d%%",
			timeStyle.Render(rec.ResetAt.Format("Jan 02 15:04")), int(rec.Utilization*100+0.5))))
	}
	return sb.String()
}

// axisLabels puts the start time on the left and the end time on the right,
// matching the sparkline width.
func axisLabels(start, end time.Time, layout string, width int) string {
	left := start.Format(layout)
	right := end.Format(layout)
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return dimStyle.Render(left + strings.Repeat(" ", pad) + right)
}

func (m *Model) renderSessions() string {
	acct := m.account()
	if acct == nil {
		return emptyHistory()
	}

	dir := "newest first"
	if m.sortAsc {
		dir = "oldest first"
	}
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Finished 5-hour sessions (%s)", dir)))

	sessions := make([]claude.SessionRecord, len(acct.History.Sessions5h))
	copy(sessions, acct.History.Sessions5h)
	if m.sortAsc {
		sort.Slice(sessions, func(i, j int) bool { return sessions[i].ResetAt.Before(sessions[j].ResetAt) })
	} else {
		sort.Slice(sessions, func(i, j int) bool { return sessions[i].ResetAt.After(sessions[j].ResetAt) })
	}

	if len(sessions) == 0 {
		sb.WriteString(dimStyle.Render("  (no finished sessions in the last week)") + "\n")
		return sb.String()
	}

	for _, s := range sessions {
		started := s.ResetAt.Add(-5 * time.Hour)
		span := timeStyle.Render(started.Format("Jan 02 15:04")) +
			dimStyle.Render(" → ") + timeStyle.Render(s.ResetAt.Format("15:04"))
		sb.WriteString("  " + span + "   " + gauge(s.Utilization, 16) + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderAccounts() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Accounts (%d)", len(m.acctIDs))))
	if len(m.acctIDs) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}

	for i, id := range m.acctIDs {
		acct := m.history.Accounts[id]
		marker := "  "
		if id == m.selected {
			marker = activeMarkStyle.Render("● ")
		}
		label := acct.Email
		if label == "" {
			label = shortID(id)
		}
		if plan := acct.PlanLabel(); plan != "" {
			label += dimStyle.Render("  (" + plan + ")")
		}
		usage := fmt.Sprintf("5h %d%% · 7d %d%%",
			int(acct.Current.Session5h.Utilization*100+0.5),
			int(acct.Current.Window7d.Utilization*100+0.5))

		row := fmt.Sprintf("  %s%s   %s", marker, label, dimStyle.Render(usage))
		if id == m.history.ActiveAccount {
			row += dimStyle.Render("   last active")
		}
		if i == m.acctCursor {
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// shortID abbreviates an account UUID for display when no email is known.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Plain prints a no-color summary of the history, for terminals where the
// full TUI is unwanted.
func Plain(h *claude.History, now time.Time) string {
	if len(h.Accounts) == 0 {
		return "no usage recorded yet; run 'nirikit status claude' to start the monitor\n"
	}

	ids := make([]string, 0, len(h.Accounts))
	for id := range h.Accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		// Active account first, then by email.
		if (ids[i] == h.ActiveAccount) != (ids[j] == h.ActiveAccount) {
			return ids[i] == h.ActiveAccount
		}
		a, b := h.Accounts[ids[i]], h.Accounts[ids[j]]
		if a.Email != b.Email {
			return a.Email < b.Email
		}
		return ids[i] < ids[j]
	})

	var sb strings.Builder
	for n, id := range ids {
		if n > 0 {
			sb.WriteString("\n")
		}
		acct := h.Accounts[id]
		label := acct.Email
		if label == "" {
			label = shortID(id)
		}
		if plan := acct.PlanLabel(); plan != "" {
			label += " (" + plan + ")"
		}
		sb.WriteString("Account: " + label + "\n")
		plainWindow(&sb, "5-hour session", acct.Current.Session5h, now)
		plainWindow(&sb, "7-day window", acct.Current.Window7d, now)
		fmt.Fprintf(&sb, "Sessions: %d finished in the last week\n", len(acct.History.Sessions5h))
		fmt.Fprintf(&sb, "Snapshots: %d this session\n", len(acct.Snapshots))
	}
	return sb.String()
}

func plainWindow(sb *strings.Builder, label string, w claude.WindowSample, now time.Time) {
	if w.LastUpdated.IsZero() {
		fmt.Fprintf(sb, "%s: no data\n", label)
		return
	}
	fmt.Fprintf(sb, "%s: %d%%", label, int(w.Utilization*100+0.5))
	if !w.ResetAt.IsZero() && w.ResetAt.After(now) {
		fmt.Fprintf(sb, ", resets %s (%s left)", w.ResetAt.Format("Mon 15:04"), waybar.DeltaHM(w.ResetAt.Sub(now)))
	}
	sb.WriteString("\n")
}

// Run starts the TUI over the given history.
func Run(h *claude.History, filename string) error {
	p := tea.NewProgram(New(h, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
