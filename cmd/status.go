package cmd

import "github.com/spf13/cobra"

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Waybar modules streaming JSON status lines",
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
