package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meowafisha/meowmap/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the events API and the static map",
		Long: `Starts the HTTP server. The feed is reloaded from the data directory
on the configured cron schedule; run "meowmap fetch" (from cron or by
hand) to bring in new events.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, store).Run(ctx)
}
