package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes profile extraction, scraping and skills
comparison. Without a model API key the model endpoints answer 503.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd, map[string]string{"server.port": "port"})
	if err != nil {
		return err
	}
	defer e.close()

	opts := []server.Option{server.WithFetcher(e.scraper()), server.WithLogger(e.log)}
	if extractor, err := e.extractor(cmd.Context()); err != nil {
		e.log.Warn("model unavailable, serving without profile extraction", zap.Error(err))
	} else {
		opts = append(opts, server.WithExtractor(extractor))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(e.cfg.Server, opts...).Start(ctx)
}
