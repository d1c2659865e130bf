package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/profile"
)

// logLevel is the persistent --log-level flag value.
var logLevel string

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "nirikit",
	Short: "Scratchpads, focus-aware wrapping and waybar modules for niri",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupConsole(logLevel)

		// Skip the profile check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal; waybar execs
		// and scripted invocations continue with defaults.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to nirikit! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// currentProfile returns the active profile, or the defaults when setup
// never ran.
func currentProfile() *profile.Profile {
	if activeProfile != nil {
		return activeProfile
	}
	return profile.Defaults()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
}
