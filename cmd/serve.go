package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/api"
	"github.com/insightdelivered/statement-analyzer/internal/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload and analysis API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		server := e.cfg.Server
		if servePort > 0 {
			server.Port = servePort
		}
		app := e.newApp(server)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			e.log.Info().Str("addr", server.Addr()).Msg("starting API server")
			errc <- app.Listen(server.Addr())
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		e.log.Info().Msg("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	},
}

func (e *env) newApp(server config.ServerConfig) *fiber.App {
	return api.NewApp(&api.Handler{
		Pipeline:  e.pipeline(),
		UploadDir: server.UploadDir,
		Version:   Version,
		Log:       e.log,
	}, server.BodyLimitMB)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides server.port)")
}
