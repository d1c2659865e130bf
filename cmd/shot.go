package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/screenshot"
)

var (
	shotCopy   bool
	shotNotify bool
)

var shotCmd = &cobra.Command{
	Use:   "shot <region|output|window>",
	Short: "Take a screenshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := screenshot.ParseMode(args[0])
		if err != nil {
			return err
		}

		capturer := screenshot.NewCapturer(currentProfile().ScreenshotDir)
		path, err := capturer.Capture(cmd.Context(), mode, screenshot.Options{
			Copy:   shotCopy,
			Notify: shotNotify,
		})
		if err != nil {
			return err
		}
		// Window mode delegates to niri, which keeps the path to itself.
		if path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func init() {
	shotCmd.Flags().BoolVar(&shotCopy, "copy", false, "copy the capture to the clipboard instead of notifying")
	shotCmd.Flags().BoolVar(&shotNotify, "notify", false, "send a desktop notification with the saved path")
	rootCmd.AddCommand(shotCmd)
}
