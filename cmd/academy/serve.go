package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"academy/internal/adapters/email"
	web "academy/internal/adapters/http"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the course catalog over HTTP",
	Long: `Serve the HTML pages and JSON API.

Configuration comes from ACADEMY_* environment variables:
  ACADEMY_ADDR, ACADEMY_BASE_URL, ACADEMY_DB, ACADEMY_ENV,
  ACADEMY_CSRF_KEY, ACADEMY_RESEND_KEY, ACADEMY_RESEND_FROM,
  ACADEMY_CATALOG, ACADEMY_SLOW_REQUEST_MS, ACADEMY_SLOW_QUERY_MS

Without ACADEMY_RESEND_KEY shared emails are logged, not sent.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr    string
	serveBaseURL string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (env ACADEMY_ADDR)")
	serveCmd.Flags().StringVar(&serveBaseURL, "base-url", "", "public URL used in emails (env ACADEMY_BASE_URL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	production := cfg.Env == "production"

	csrfKey, err := web.LoadCSRFKey(cfg.CSRFKeyHex, production)
	if err != nil {
		return err
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	server, err := web.NewServer(web.Deps{
		Catalog:   a.catalog,
		Favorites: a.registry,
		Sender:    newSender(cfg),
		EmailFrom: cfg.ResendFrom,
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		Perf:      a.perf,
		Security: web.SecurityConfig{
			CSRFKey:       csrfKey,
			SecureCookies: production,
			SlowRequestMs: cfg.SlowRequestMs,
		},
	})
	if err != nil {
		return err
	}
	defer server.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server_event", "event", "listening", "addr", cfg.Addr, "env", cfg.Env, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server_event", "event", "shutting_down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newSender returns Resend when an API key is configured, a logging no-op otherwise.
func newSender(c Config) email.Sender {
	if c.ResendKey == "" {
		slog.Info("email_event", "event", "noop_sender", "reason", "ACADEMY_RESEND_KEY not set")
		return email.NewNoopSender()
	}
	return email.NewResendSender(c.ResendKey, c.ResendFrom)
}
