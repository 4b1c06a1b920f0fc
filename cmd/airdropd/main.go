package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"nftdrop/config"
	"nftdrop/core/host"
	"nftdrop/native/airdrop"
	"nftdrop/observability/logging"
	"nftdrop/observability/telemetry"
	"nftdrop/rpc"
	"nftdrop/storage"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "assign" {
		if err := runAssign(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	flags := pflag.NewFlagSet("airdropd", pflag.ExitOnError)
	cfgPath := flags.StringP("config", "c", "./airdropd.toml", "path to the daemon configuration")
	listen := flags.String("listen", "", "override ListenAddress")
	instantiate := flags.Bool("instantiate", false, "initialize the engine on start if it has not been initialized")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*listen); trimmed != "" {
		cfg.ListenAddress = trimmed
	}

	logger, closer := logging.SetupWithOptions(loggingOptions(cfg))
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *instantiate, logger); err != nil {
		logger.Error("airdropd stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func loggingOptions(cfg *config.Config) logging.Options {
	opts := logging.Options{
		Service: "airdropd",
		Env:     cfg.Environment,
		Level:   logging.ParseLevel(cfg.Logging.Level),
	}
	if file := strings.TrimSpace(cfg.Logging.File); file != "" {
		opts.File = &logging.FileOptions{
			Path:       file,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   true,
		}
	}
	return opts
}

func run(ctx context.Context, cfg *config.Config, instantiate bool, logger *slog.Logger) error {
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "airdropd",
		Environment: cfg.Environment,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     telemetry.ParseHeaders(cfg.Telemetry.Headers),
		Traces:      cfg.Telemetry.Traces,
		Metrics:     cfg.Telemetry.Metrics,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	store, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "state"))
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	directory, closeDirectory, err := openDirectory(cfg.Ownership, logger)
	if err != nil {
		return err
	}
	defer closeDirectory()

	funding, err := cfg.Genesis.Funding()
	if err != nil {
		return err
	}
	h, err := host.New(host.Config{
		Params:          airdrop.DefaultParams(),
		Store:           store,
		Directory:       directory,
		Logger:          logger,
		TreasuryFunding: funding,
	})
	if err != nil {
		return err
	}
	if instantiate {
		if _, err := h.Instantiate(ctx); err != nil && !errors.Is(err, airdrop.ErrAlreadyInitialized) {
			return fmt.Errorf("instantiate: %w", err)
		}
	}

	limiter := rpc.NewRateLimiter(rpc.RateLimit{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	})
	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           rpc.NewServer(h, limiter, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("airdropd listening", slog.String("addr", cfg.ListenAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
