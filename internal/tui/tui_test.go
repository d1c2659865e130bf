package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palegrave/nirikit/internal/claude"
	"github.com/palegrave/nirikit/internal/waybar"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const (
	devUUID = "11111111-aaaa-4bbb-8ccc-dddddddddddd"
	altUUID = "22222222-eeee-4fff-8aaa-bbbbbbbbbbbb"
)

func testHistory() *claude.History {
	h := claude.NewHistory()
	h.Config.PreferSource = "claude"
	h.Config.DisplayMode = "normal"

	dev := h.Account(devUUID)
	dev.Email = "dev@example.com"
	dev.OrganizationType = "claude_max"
	dev.RateLimitTier = "default_claude_max_20x"
	dev.Current.Session5h = claude.WindowSample{
		Utilization: 0.62,
		ResetAt:     testNow.Add(2 * time.Hour),
		LastUpdated: testNow.Add(-30 * time.Second),
		Status:      "allowed",
	}
	dev.Current.Window7d = claude.WindowSample{
		Utilization: 0.31,
		ResetAt:     testNow.Add(3 * 24 * time.Hour),
		LastUpdated: testNow.Add(-30 * time.Second),
		Status:      "allowed",
	}
	dev.Snapshots = []claude.Snapshot{
		{TS: testNow.Add(-time.Hour), Util: 0.10},
		{TS: testNow.Add(-30 * time.Minute), Util: 0.25},
		{TS: testNow.Add(-2 * time.Minute), Util: 0.62},
	}
	dev.History.Sessions5h = []claude.SessionRecord{
		{ResetAt: testNow.Add(-20 * time.Hour), Utilization: 0.45},
		{ResetAt: testNow.Add(-3 * time.Hour), Utilization: 0.88},
	}
	dev.History.Windows7d = []claude.SessionRecord{
		{ResetAt: testNow.Add(-2 * 24 * time.Hour), Utilization: 0.41},
	}

	alt := h.Account(altUUID)
	alt.Email = "alt@example.com"
	alt.Current.Session5h = claude.WindowSample{
		Utilization: 0.05,
		ResetAt:     testNow.Add(time.Hour),
		LastUpdated: testNow.Add(-time.Minute),
	}

	h.ActiveAccount = devUUID
	return h
}

func testModel(t *testing.T) Model {
	t.Helper()
	m := New(testHistory(), "/home/dev/.local/share/nirikit/claude-usage.json")
	m.now = testNow
	return m
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewSelectsActiveAccount(t *testing.T) {
	m := testModel(t)
	if m.filename != "claude-usage.json" {
		t.Fatalf("filename = %q", m.filename)
	}
	// Accounts sort by email: alt before dev.
	if m.acctIDs[0] != altUUID || m.acctIDs[1] != devUUID {
		t.Fatalf("account order = %v", m.acctIDs)
	}
	if m.selected != devUUID {
		t.Fatalf("selected = %q, want active account", m.selected)
	}
	if m.acctCursor != 1 {
		t.Fatalf("acctCursor = %d, want 1", m.acctCursor)
	}
}

func TestNewWithoutActiveAccountFallsBack(t *testing.T) {
	h := testHistory()
	h.ActiveAccount = ""
	m := New(h, "claude-usage.json")
	if m.selected != altUUID {
		t.Fatalf("selected = %q, want first sorted account", m.selected)
	}
	if m.acctCursor != 0 {
		t.Fatalf("acctCursor = %d, want 0", m.acctCursor)
	}
}

func TestTabNavigation(t *testing.T) {
	m := sized(t, testModel(t))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabSession {
		t.Fatalf("after tab: activeTab = %d", m.activeTab)
	}
	m = press(t, m, runes("l"))
	if m.activeTab != tabWeek {
		t.Fatalf("after l: activeTab = %d", m.activeTab)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != tabOverview {
		t.Fatalf("after two shift+tab: activeTab = %d", m.activeTab)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != tabAccounts {
		t.Fatalf("shift+tab should wrap to the last tab, got %d", m.activeTab)
	}
	m = press(t, m, runes("3"))
	if m.activeTab != tabWeek {
		t.Fatalf("after 3: activeTab = %d", m.activeTab)
	}
}

func TestQuitKey(t *testing.T) {
	m := sized(t, testModel(t))
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q returned %T, want tea.QuitMsg", cmd())
	}
}

func TestAccountSelection(t *testing.T) {
	m := sized(t, testModel(t))
	m = press(t, m, runes("5"))
	if m.activeTab != tabAccounts {
		t.Fatalf("activeTab = %d, want accounts", m.activeTab)
	}
	if m.acctCursor != 1 {
		t.Fatalf("cursor = %d, want 1 (selected account)", m.acctCursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.acctCursor != 0 {
		t.Fatalf("cursor = %d after up, want 0", m.acctCursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.selected != altUUID {
		t.Fatalf("selected = %q after enter, want %q", m.selected, altUUID)
	}
	if m.activeTab != tabOverview {
		t.Fatalf("enter should jump to the overview, got tab %d", m.activeTab)
	}
	if out := m.renderOverview(); !strings.Contains(out, "alt@example.com") {
		t.Fatalf("overview after selection missing new account:\n%s", out)
	}
}

func TestRenderOverview(t *testing.T) {
	m := sized(t, testModel(t))
	out := m.renderOverview()

	for _, want := range []string{
		"dev@example.com",
		"Max 20x",
		"claude",
		"normal",
		"62%",
		"31%",
		"resets Sat 14:00 (2h left)",
		"2 finished in the last week",
		"3 this session",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOverviewEmptyHistory(t *testing.T) {
	m := New(claude.NewHistory(), "claude-usage.json")
	out := m.renderOverview()
	if !strings.Contains(out, "no usage recorded yet") {
		t.Fatalf("empty overview = %q", out)
	}
}

func TestRenderSessionListsSnapshots(t *testing.T) {
	m := sized(t, testModel(t))
	out := m.renderSession()

	for _, want := range []string{
		"Snapshots (3)",
		"11:58:00",
		"62.0%",
		"(+37.0%)",
		// Chart axis: session start and reset time.
		"09:00",
		"14:00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("session tab missing %q:\n%s", want, out)
		}
	}

	// Newest snapshot listed first.
	if strings.Index(out, "11:58:00") > strings.Index(out, "11:30:00") {
		t.Fatal("snapshots should list newest first")
	}
}

func TestRenderSessionCapsSnapshotList(t *testing.T) {
	h := testHistory()
	acct := h.Account(devUUID)
	acct.Snapshots = nil
	for i := 0; i < 40; i++ {
		acct.Snapshots = append(acct.Snapshots, claude.Snapshot{
			TS:   testNow.Add(time.Duration(i-40) * time.Minute),
			Util: float64(i) / 50,
		})
	}
	m := New(h, "claude-usage.json")
	m.now = testNow
	out := m.renderSession()
	if !strings.Contains(out, "… 10 earlier snapshots") {
		t.Fatalf("long snapshot list should be capped:\n%s", out)
	}
}

func TestRenderSessionsSortToggle(t *testing.T) {
	m := sized(t, testModel(t))
	out := m.renderSessions()
	if !strings.Contains(out, "newest first") {
		t.Fatalf("default order header missing:\n%s", out)
	}
	if !strings.Contains(out, "88%") || !strings.Contains(out, "45%") {
		t.Fatalf("session utilizations missing:\n%s", out)
	}
	if strings.Index(out, "Mar 14") > strings.Index(out, "Mar 13") {
		t.Fatal("newest session should be listed first")
	}

	m.sortAsc = true
	out = m.renderSessions()
	if !strings.Contains(out, "oldest first") {
		t.Fatalf("ascending header missing:\n%s", out)
	}
	if strings.Index(out, "Mar 13") > strings.Index(out, "Mar 14") {
		t.Fatal("oldest session should be listed first after sort")
	}
}

func TestRenderWeekArchivedWindows(t *testing.T) {
	m := sized(t, testModel(t))
	out := m.renderWeek()
	if !strings.Contains(out, "Archived 7-day windows (1)") {
		t.Fatalf("archive heading missing:\n%s", out)
	}
	if !strings.Contains(out, "ended at 41%") {
		t.Fatalf("archived window utilization missing:\n%s", out)
	}
}

func TestRenderAccounts(t *testing.T) {
	m := sized(t, testModel(t))
	out := m.renderAccounts()

	for _, want := range []string{
		"Accounts (2)",
		"dev@example.com",
		"alt@example.com",
		"Max 20x",
		"5h 62% · 7d 31%",
		"last active",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("accounts tab missing %q:\n%s", want, out)
		}
	}
}

func TestSparklineShape(t *testing.T) {
	s := sparkline([]float64{0, 0.5, 1}, []float64{0, 0.2, 0.9}, waybar.UsageGradient)
	if w := lipgloss.Width(s); w != 3 {
		t.Fatalf("sparkline width = %d, want 3", w)
	}
	if !strings.Contains(s, "▅") {
		t.Errorf("half-height bucket missing: %q", s)
	}
	if !strings.Contains(s, "█") {
		t.Errorf("full bucket missing: %q", s)
	}
	if !strings.Contains(s, "▁") {
		t.Errorf("empty bucket missing: %q", s)
	}
}

func TestGauge(t *testing.T) {
	if out := gauge(0.62, 10); !strings.Contains(out, " 62%") {
		t.Fatalf("gauge = %q", out)
	}
	if out := gauge(0, 10); !strings.Contains(out, "  0%") {
		t.Fatalf("zero gauge = %q", out)
	}
}

func TestViewLayout(t *testing.T) {
	m := testModel(t)
	if m.View() != "Loading…" {
		t.Fatalf("unsized view = %q", m.View())
	}
	m = sized(t, m)
	view := m.View()
	for _, want := range []string{"nirikit usage", "Overview", "Accounts", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlainSummary(t *testing.T) {
	out := Plain(testHistory(), testNow)

	for _, want := range []string{
		"Account: dev@example.com (Max 20x)",
		"5-hour session: 62%, resets Sat 14:00 (2h left)",
		"7-day window: 31%",
		"Sessions: 2 finished in the last week",
		"Snapshots: 3 this session",
		"Account: alt@example.com",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plain summary missing %q:\n%s", want, out)
		}
	}
	// Active account leads.
	if strings.Index(out, "dev@example.com") > strings.Index(out, "alt@example.com") {
		t.Fatal("active account should be printed first")
	}
	if strings.Contains(out, "\x1b") {
		t.Fatal("plain summary must not contain escape sequences")
	}
}

func TestPlainEmptyHistory(t *testing.T) {
	out := Plain(claude.NewHistory(), testNow)
	if !strings.Contains(out, "no usage recorded yet") {
		t.Fatalf("empty plain summary = %q", out)
	}
}
