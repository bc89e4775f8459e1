// Command server serves the tabex HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leofalp/tabex/core/extract"
	"github.com/leofalp/tabex/core/store"
	"github.com/leofalp/tabex/internal/api"
	"github.com/leofalp/tabex/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML config file (default $TABEX_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newHandler(cfg *config.Config, logger *slog.Logger) *api.Handler {
	defaultDialect, _ := extract.ParseDialect(cfg.Dialect)
	provider := cfg.Provider()

	return &api.Handler{
		Extractors: map[extract.Dialect]*extract.Extractor{
			extract.DialectPipe: cfg.ExtractorFor(extract.DialectPipe, logger),
			extract.DialectJSON: cfg.ExtractorFor(extract.DialectJSON, logger),
		},
		DefaultDialect: defaultDialect,
		Store:          store.New(),
		Configured:     provider.HasAPIKey,
		Logger:         logger,
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(newHandler(cfg, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			slog.String("addr", srv.Addr),
			slog.String("model", cfg.Model),
			slog.String("dialect", cfg.Dialect),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
