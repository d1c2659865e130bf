package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/palegrave/nirikit/internal/profile"
)

// WaybarSnippet is the module block a waybar config includes to host the
// nirikit status commands. Each module streams JSON lines, so waybar runs
// them without an interval.
const WaybarSnippet = `// nirikit waybar modules (auto-generated, do not edit)
// Include from your waybar config:
//   "include": ["~/.config/nirikit/waybar-modules.jsonc"]
{
  "custom/claude": {
    "exec": "nirikit status claude",
    "return-type": "json",
    "tooltip": true
  },
  "custom/sun": {
    "exec": "nirikit status sun",
    "return-type": "json",
    "tooltip": true
  },
  "custom/mullvad": {
    "exec": "nirikit status mullvad",
    "return-type": "json",
    "tooltip": true
  },
  "custom/agent": {
    "exec": "nirikit status agent",
    "return-type": "json",
    "tooltip": true
  }
}
`

// SnippetPath returns where the waybar snippet is written.
func SnippetPath() (string, error) {
	dir, err := profile.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "waybar-modules.jsonc"), nil
}

// InstallSnippet writes the waybar module snippet and prints the include
// line to add to the waybar config.
func InstallSnippet() error {
	path, err := SnippetPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(WaybarSnippet), 0o644); err != nil {
		return fmt.Errorf("writing waybar snippet: %w", err)
	}

	fmt.Printf("\n  ✓ Waybar modules written to %s\n", path)
	fmt.Printf("\n  Add this to your waybar config:\n")
	fmt.Printf("    \"include\": [\"%s\"]\n\n", path)
	return nil
}
