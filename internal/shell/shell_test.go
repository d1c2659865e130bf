package shell_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/palegrave/nirikit/internal/shell"
)

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestInstallZsh(t *testing.T) {
	isolateHome(t)

	if shell.IsInstalled("zsh") {
		t.Fatal("plugin reported installed on a fresh home")
	}
	if err := shell.Install("zsh"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !shell.IsInstalled("zsh") {
		t.Error("IsInstalled = false after install")
	}

	path, err := shell.PluginPath("zsh")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "nirikit wrap -- opencode") {
		t.Errorf("plugin missing the wrap alias:\n%s", content)
	}
	if !strings.Contains(content, ".zshrc") {
		t.Errorf("plugin missing zsh sourcing hint:\n%s", content)
	}
}

func TestInstallBash(t *testing.T) {
	isolateHome(t)
	if err := shell.Install("bash"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	path, _ := shell.PluginPath("bash")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ".bashrc") {
		t.Error("bash plugin missing bashrc sourcing hint")
	}
}

func TestInstallUnsupportedShell(t *testing.T) {
	isolateHome(t)
	if err := shell.Install("fish"); err == nil {
		t.Fatal("expected an error for an unsupported shell")
	}
}

func TestInstallSnippet(t *testing.T) {
	isolateHome(t)
	if err := shell.InstallSnippet(); err != nil {
		t.Fatalf("InstallSnippet: %v", err)
	}

	path, err := shell.SnippetPath()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Strip the comment header and make sure the body is valid JSON with
	// all four modules wired to status subcommands.
	body := string(data)
	if idx := strings.Index(body, "{"); idx >= 0 {
		body = body[idx:]
	}
	var modules map[string]struct {
		Exec       string `json:"exec"`
		ReturnType string `json:"return-type"`
	}
	if err := json.Unmarshal([]byte(body), &modules); err != nil {
		t.Fatalf("snippet body is not valid JSON: %v", err)
	}
	for module, cmd := range map[string]string{
		"custom/claude":  "nirikit status claude",
		"custom/sun":     "nirikit status sun",
		"custom/mullvad": "nirikit status mullvad",
		"custom/agent":   "nirikit status agent",
	} {
		m, ok := modules[module]
		if !ok {
			t.Errorf("snippet missing %s", module)
			continue
		}
		if m.Exec != cmd {
			t.Errorf("%s exec = %q, want %q", module, m.Exec, cmd)
		}
		if m.ReturnType != "json" {
			t.Errorf("%s return-type = %q", module, m.ReturnType)
		}
	}
}
