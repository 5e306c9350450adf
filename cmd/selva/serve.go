package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/simplyzetax/selva/internal/config"
	"github.com/simplyzetax/selva/internal/server"
	"github.com/simplyzetax/selva/internal/ssl"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web server on the configured port. When server.tls.enabled is
set the certificate named by server.tls.cert_name is loaded from
server.tls.cert_dir; create one with "selva setup".`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Config
	if cfg.AppVersion == config.GetDefaultConfig().AppVersion {
		cfg.AppVersion = Version
	}

	app, err := server.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go shutdownOnDone(ctx, app)

	address := ":" + cfg.Server.Port
	log.Infof("Upstream URL: %s", cfg.Upstream.BaseURL)
	log.Infof("Display timezone: %s", cfg.Location())

	if !cfg.Server.TLS.Enabled {
		log.Infof("Listening on http://localhost%s", address)
		return app.Listen(address)
	}

	store := ssl.NewStore(cfg.Server.TLS.CertDir)
	if err := store.Validate(cfg.Server.TLS.CertName); err != nil {
		return fmt.Errorf("invalid certificate %s: %w", cfg.Server.TLS.CertName, err)
	}
	cert, err := store.Load(cfg.Server.TLS.CertName)
	if err != nil {
		return err
	}

	log.Infof("Using certificate: %s", cfg.Server.TLS.CertName)
	log.Infof("Listening on https://localhost%s", address)
	return app.ListenTLSWithCertificate(address, cert)
}

func shutdownOnDone(ctx context.Context, app *fiber.App) {
	<-ctx.Done()
	log.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Errorf("Shutdown failed: %v", err)
	}
}
