package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/daemon"
	"github.com/palegrave/nirikit/internal/profile"
	"github.com/palegrave/nirikit/internal/shell"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure nirikit (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before a profile exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(false)
	},
}

// runSetup runs the interactive setup wizard.
// If firstRun is true, a welcome message is shown.
func runSetup(firstRun bool) error {
	if firstRun {
		fmt.Println()
		fmt.Println("  Welcome to nirikit! Let's get you set up.")
	}

	// Load existing profile as defaults if present.
	var existing *profile.Profile
	if profile.Exists() {
		p, err := profile.Load()
		if err == nil {
			existing = p
		}
	}

	prof, installs, err := profile.RunSetup(existing)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := profile.Save(prof); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	fmt.Println("  ✓ Profile saved.")

	// Install the shell plugin if requested.
	if installs.ShellPlugin && prof.WrapperShell != "" {
		if err := shell.Install(prof.WrapperShell); err != nil {
			fmt.Printf("  ⚠ Plugin install failed: %v\n", err)
			fmt.Println("    You can retry with: nirikit wrap install --shell " + prof.WrapperShell)
		}
	}

	if installs.WaybarSnippet {
		if err := shell.InstallSnippet(); err != nil {
			fmt.Printf("  ⚠ Waybar snippet install failed: %v\n", err)
			fmt.Println("    You can retry with: nirikit setup")
		}
	}

	fmt.Println()
	fmt.Println("  Scratchpads park on a named workspace while hidden.")
	fmt.Println("  Make sure your niri config declares it:")
	fmt.Println()
	fmt.Printf("      workspace %q\n", daemon.HideWorkspace)
	fmt.Println()
	fmt.Println("  Setup complete. Try 'nirikit scratchpad toggle <name>'.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
