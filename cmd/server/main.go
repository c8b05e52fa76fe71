// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tidewatch/internal/auth"
	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	issueToken := flag.String("issue-token", "", "print an operator token for `subject` and exit")
	tokenTTL := flag.Duration("token-ttl", auth.DefaultTokenTTL, "lifetime of the issued token")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	if *issueToken != "" {
		token, err := issueOperatorToken(cfg.Security, *issueToken, *tokenTTL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to issue token")
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Tidewatch stopped with an error")
	}
}

func issueOperatorToken(cfg config.SecurityConfig, subject string, ttl time.Duration) (string, error) {
	manager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return "", fmt.Errorf("JWT_SECRET must be set to issue tokens: %w", err)
	}
	return manager.GenerateToken(subject, ttl)
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("provider", cfg.Feed.Provider).
		Str("storage", cfg.Storage.Backend).
		Dur("poll_interval", cfg.Poller.Interval).
		Msg("Starting tidewatch")

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	// The channel receives exactly one value when the tree stops.
	serveErr := <-a.tree.ServeBackground(ctx)
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}
	if serveErr != nil {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := a.tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Tidewatch stopped")
	return serveErr
}
