package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/suntimes"
)

var (
	sunLocation string
	sunOnce     bool
	sunAt       string
)

var statusSunCmd = &cobra.Command{
	Use:   "sun",
	Short: "Sunrise and sunset module",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupFile("sun", logLevel)
		defer logging.Stop()

		loc, err := suntimes.Resolve(sunLocation)
		if err != nil {
			return err
		}
		mon := suntimes.NewMonitor(loc)
		mon.Out = cmd.OutOrStdout()

		if sunOnce || sunAt != "" {
			at := time.Now()
			if sunAt != "" {
				at, err = suntimes.ParseAt(sunAt, time.Now())
				if err != nil {
					return err
				}
			}
			return mon.Once(at)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mon.Run(ctx)
	},
}

func init() {
	statusSunCmd.Flags().StringVar(&sunLocation, "location", "", "latitude,longitude (default inferred from the timezone)")
	statusSunCmd.Flags().BoolVar(&sunOnce, "once", false, "print one JSON line and exit")
	statusSunCmd.Flags().StringVar(&sunAt, "at", "", "render for this time (RFC3339 or HH:MM, implies --once)")
	statusCmd.AddCommand(statusSunCmd)
}
