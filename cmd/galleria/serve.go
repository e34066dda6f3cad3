package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/galleria"
	"github.com/sagarc03/galleria/config"
	galleriahttp "github.com/sagarc03/galleria/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the galleria HTTP server. The store directory is created if missing.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "listen host")
	serveCmd.Flags().Int("port", 3001, "listen port")
	serveCmd.Flags().Bool("debug", false, "debug logging with source locations")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err = cfg.Auth.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	service, closeStore, err := openGallery(cfg, true)
	if err != nil {
		return err
	}
	defer closeStore()

	codec := galleria.NewSessionCodec(cfg.Auth.SecretKey, cfg.Auth.Salt, cfg.Auth.CookieTTL())

	handlerConfig := galleriahttp.HandlerConfig{
		Credentials: cfg.Auth.Credentials(),
		Tokens:      codec,
		Cookie: galleriahttp.CookieConfig{
			Name:   cfg.Auth.CookieName,
			TTL:    codec.TTL(),
			Secure: cfg.Auth.CookieSecure,
		},
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
	}

	handler := galleriahttp.NewHandler(&handlerConfig, service)

	addr := cfg.Server.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"store", cfg.Store.Path,
		"digest", cfg.Store.Digest,
		"session_ttl", codec.TTL(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
