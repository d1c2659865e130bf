package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/palegrave/nirikit/internal/agentstatus"
	"github.com/palegrave/nirikit/internal/logging"
)

var (
	agentOnce bool
	agentFile string
)

var statusAgentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Agent activity module fed by the focus wrapper",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupFile("agent", logLevel)
		defer logging.Stop()

		mon := agentstatus.NewMonitor()
		mon.Out = cmd.OutOrStdout()
		if agentFile != "" {
			mon.Path = agentFile
		}

		if agentOnce {
			return mon.Once()
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mon.Run(ctx)
	},
}

func init() {
	statusAgentCmd.Flags().BoolVar(&agentOnce, "once", false, "print one JSON line and exit")
	statusAgentCmd.Flags().StringVar(&agentFile, "file", "", "status file to watch instead of the default")
	statusCmd.AddCommand(statusAgentCmd)
}
