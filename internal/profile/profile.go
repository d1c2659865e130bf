// Package profile manages the user's persistent nirikit profile.
// The profile is stored at ~/.config/nirikit/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProfile is returned by Load when setup has never run.
var ErrNoProfile = errors.New("no profile (run 'nirikit setup')")

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	NotifyLevel   string `json:"notify_level"`   // "none" | "error" | "all"
	ScreenshotDir string `json:"screenshot_dir"` // where nirikit shot saves
	ClaudeSource  string `json:"claude_source"`  // "auto" | "claude" | "opencode"
	DisplayMode   string `json:"display_mode"`   // "compact" | "normal" | "expanded"
	WrapperShell  string `json:"wrapper_shell"`  // "zsh" | "bash" | ""
}

// Defaults returns the profile used when setup has not run.
func Defaults() *Profile {
	return &Profile{
		NotifyLevel:   "error",
		ScreenshotDir: defaultScreenshotDir(),
		ClaudeSource:  "auto",
		DisplayMode:   "compact",
	}
}

func defaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Screenshots"
	}
	return filepath.Join(home, "Pictures", "Screenshots")
}

// profilePath returns the path to the profile file.
func profilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// ConfigDir returns the nirikit config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nirikit"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Missing fields fall back to defaults
// so profiles written by older builds keep working.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	prof.fillDefaults()
	return &prof, nil
}

// LoadOrDefaults returns the stored profile, or Defaults when setup has
// not run yet. Commands that must not fail on a fresh machine use this.
func LoadOrDefaults() *Profile {
	prof, err := Load()
	if err != nil {
		return Defaults()
	}
	return prof
}

func (p *Profile) fillDefaults() {
	def := Defaults()
	if p.NotifyLevel == "" {
		p.NotifyLevel = def.NotifyLevel
	}
	if p.ScreenshotDir == "" {
		p.ScreenshotDir = def.ScreenshotDir
	}
	if p.ClaudeSource == "" {
		p.ClaudeSource = def.ClaudeSource
	}
	if p.DisplayMode == "" {
		p.DisplayMode = def.DisplayMode
	}
}

// Save writes the profile atomically, creating the config directory if
// needed.
func Save(prof *Profile) (err error) {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "profile-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Installs records the optional extras the user asked for during setup.
// Performing them is the setup command's job, not the wizard's.
type Installs struct {
	ShellPlugin   bool
	WaybarSnippet bool
}

// RunSetup runs the interactive setup wizard against stdin and returns the
// resulting profile. If existing is non-nil, it seeds each prompt's default
// (edit mode).
func RunSetup(existing *Profile) (*Profile, Installs, error) {
	return runWizard(bufio.NewReader(os.Stdin), existing)
}

func runWizard(r *bufio.Reader, existing *Profile) (*Profile, Installs, error) {
	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		ans = strings.ToLower(ans)
		return ans == "y" || ans == "yes", nil
	}

	prof := Defaults()
	if existing != nil {
		*prof = *existing
		prof.fillDefaults()
	}
	var installs Installs

	fmt.Println()
	fmt.Println("  ┌─────────────────────────────────┐")
	fmt.Println("  │   nirikit — first-time setup    │")
	fmt.Println("  └─────────────────────────────────┘")
	fmt.Println()

	level, err := ask("  Desktop notifications (none/error/all)", prof.NotifyLevel)
	if err != nil {
		return nil, installs, err
	}
	prof.NotifyLevel = pickOne(level, []string{"none", "error", "all"}, "error")

	prof.ScreenshotDir, err = ask("  Screenshot directory", prof.ScreenshotDir)
	if err != nil {
		return nil, installs, err
	}

	source, err := ask("  Claude credential source (auto/claude/opencode)", prof.ClaudeSource)
	if err != nil {
		return nil, installs, err
	}
	prof.ClaudeSource = pickOne(source, []string{"auto", "claude", "opencode"}, "auto")

	mode, err := ask("  Usage display mode (compact/normal/expanded)", prof.DisplayMode)
	if err != nil {
		return nil, installs, err
	}
	prof.DisplayMode = pickOne(mode, []string{"compact", "normal", "expanded"}, "compact")

	wrap, err := askBool("  Alias opencode through the focus wrapper", prof.WrapperShell != "")
	if err != nil {
		return nil, installs, err
	}
	if wrap {
		def := prof.WrapperShell
		if def == "" {
			def = detectShell()
		}
		shell, err := ask("  Shell (zsh/bash)", def)
		if err != nil {
			return nil, installs, err
		}
		prof.WrapperShell = pickOne(shell, []string{"zsh", "bash"}, detectShell())
		installs.ShellPlugin = true
	} else {
		prof.WrapperShell = ""
	}

	installs.WaybarSnippet, err = askBool("  Install the waybar modules snippet", true)
	if err != nil {
		return nil, installs, err
	}

	fmt.Println()
	return prof, installs, nil
}

// pickOne normalizes an answer to one of the allowed values.
func pickOne(answer string, allowed []string, fallback string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, a := range allowed {
		if answer == a {
			return a
		}
	}
	return fallback
}

// detectShell returns the base name of the current shell.
func detectShell() string {
	shell := filepath.Base(os.Getenv("SHELL"))
	if shell == "zsh" || shell == "bash" {
		return shell
	}
	return "zsh"
}
