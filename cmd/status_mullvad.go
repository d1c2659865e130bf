package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/mullvad"
)

var mullvadOnce bool

var statusMullvadCmd = &cobra.Command{
	Use:   "mullvad",
	Short: "Mullvad VPN tunnel module",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupFile("mullvad", logLevel)
		defer logging.Stop()

		mon := mullvad.NewMonitor()
		mon.Out = cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if mullvadOnce {
			return mon.Once(ctx)
		}
		return mon.Run(ctx)
	},
}

func init() {
	statusMullvadCmd.Flags().BoolVar(&mullvadOnce, "once", false, "probe once, print one JSON line and exit")
	statusCmd.AddCommand(statusMullvadCmd)
}
