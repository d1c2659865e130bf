package profile

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaults(t *testing.T) {
	isolateHome(t)
	def := Defaults()
	if def.NotifyLevel != "error" {
		t.Errorf("NotifyLevel = %q", def.NotifyLevel)
	}
	if def.ClaudeSource != "auto" || def.DisplayMode != "compact" {
		t.Errorf("defaults = %+v", def)
	}
	if !strings.HasSuffix(def.ScreenshotDir, filepath.Join("Pictures", "Screenshots")) {
		t.Errorf("ScreenshotDir = %q", def.ScreenshotDir)
	}
	if def.WrapperShell != "" {
		t.Errorf("WrapperShell = %q, want empty", def.WrapperShell)
	}
}

func TestLoadMissing(t *testing.T) {
	isolateHome(t)
	if _, err := Load(); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("Load = %v, want ErrNoProfile", err)
	}
	if Exists() {
		t.Error("Exists() = true on a fresh home")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := isolateHome(t)
	want := &Profile{
		NotifyLevel:   "all",
		ScreenshotDir: "/tmp/shots",
		ClaudeSource:  "opencode",
		DisplayMode:   "expanded",
		WrapperShell:  "bash",
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	leftovers, err := filepath.Glob(filepath.Join(home, ".config", "nirikit", "profile-*.json.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "nirikit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profile.json"), []byte(`{"notify_level":"none"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	prof, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prof.NotifyLevel != "none" {
		t.Errorf("NotifyLevel = %q", prof.NotifyLevel)
	}
	if prof.ClaudeSource != "auto" || prof.DisplayMode != "compact" {
		t.Errorf("defaults not filled: %+v", prof)
	}
	if prof.ScreenshotDir == "" {
		t.Error("ScreenshotDir left empty")
	}
}

func TestLoadMalformed(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "nirikit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Fatalf("Load = %v, want malformed error", err)
	}
}

func TestLoadOrDefaultsOnFreshHome(t *testing.T) {
	isolateHome(t)
	prof := LoadOrDefaults()
	if prof.NotifyLevel != "error" {
		t.Errorf("NotifyLevel = %q", prof.NotifyLevel)
	}
}

func wizard(t *testing.T, input string, existing *Profile) (*Profile, Installs) {
	t.Helper()
	prof, installs, err := runWizard(bufio.NewReader(strings.NewReader(input)), existing)
	if err != nil {
		t.Fatalf("runWizard: %v", err)
	}
	return prof, installs
}

func TestWizardAcceptsDefaults(t *testing.T) {
	isolateHome(t)
	prof, installs := wizard(t, "\n\n\n\n\n\n", nil)

	if prof.NotifyLevel != "error" || prof.ClaudeSource != "auto" || prof.DisplayMode != "compact" {
		t.Errorf("profile = %+v", prof)
	}
	if prof.WrapperShell != "" {
		t.Errorf("WrapperShell = %q, want empty when declined", prof.WrapperShell)
	}
	if installs.ShellPlugin {
		t.Error("ShellPlugin install requested without the wrapper")
	}
	if !installs.WaybarSnippet {
		t.Error("WaybarSnippet should default to yes")
	}
}

func TestWizardFullEntry(t *testing.T) {
	isolateHome(t)
	input := "all\n/data/shots\nclaude\nexpanded\ny\nbash\nn\n"
	prof, installs := wizard(t, input, nil)

	want := Profile{
		NotifyLevel:   "all",
		ScreenshotDir: "/data/shots",
		ClaudeSource:  "claude",
		DisplayMode:   "expanded",
		WrapperShell:  "bash",
	}
	if *prof != want {
		t.Errorf("profile = %+v, want %+v", prof, want)
	}
	if !installs.ShellPlugin || installs.WaybarSnippet {
		t.Errorf("installs = %+v", installs)
	}
}

func TestWizardNormalizesInvalidChoices(t *testing.T) {
	isolateHome(t)
	prof, _ := wizard(t, "loud\n\n\ncinematic\nn\nn\n", nil)
	if prof.NotifyLevel != "error" {
		t.Errorf("NotifyLevel = %q, want fallback", prof.NotifyLevel)
	}
	if prof.DisplayMode != "compact" {
		t.Errorf("DisplayMode = %q, want fallback", prof.DisplayMode)
	}
}

func TestWizardEditModeKeepsExisting(t *testing.T) {
	isolateHome(t)
	existing := &Profile{
		NotifyLevel:   "all",
		ScreenshotDir: "/data/shots",
		ClaudeSource:  "opencode",
		DisplayMode:   "normal",
		WrapperShell:  "zsh",
	}
	prof, installs := wizard(t, "\n\n\n\n\n\n\n", existing)

	if *prof != *existing {
		t.Errorf("profile = %+v, want existing %+v", prof, existing)
	}
	if !installs.ShellPlugin {
		t.Error("wrapper alias should stay installed in edit mode")
	}
}

func TestPickOne(t *testing.T) {
	if got := pickOne(" Error ", []string{"none", "error", "all"}, "none"); got != "error" {
		t.Errorf("pickOne = %q", got)
	}
	if got := pickOne("bogus", []string{"none", "error", "all"}, "none"); got != "none" {
		t.Errorf("pickOne fallback = %q", got)
	}
}
