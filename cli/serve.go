package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"edurate/server"
	"edurate/utils"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the EduRate REST API. Settings come from .env, the environment and the flags below.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().String("port", "", "port to listen on (default 8080)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("redis-url", "", "Redis URL for rate limiting")
	cmd.Flags().String("log-level", "", "log level (debug|info|warn|error)")
	cmd.Flags().String("log-file", "", "also write logs to this file, rotated")
	cmd.Flags().String("lexicon", "", "YAML file extending the built-in word list")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := utils.NewLogger(utils.LogOptions{Level: cfg.LogLevel, File: cfg.LogFile, Mode: cfg.GinMode})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("Failed to start server")
		return err
	}
	return srv.Run(ctx)
}
