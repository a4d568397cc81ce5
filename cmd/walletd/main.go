// walletd is the self-custodial wallet daemon: encrypted seed storage,
// auto-locking sessions, multi-chain address derivation, and transaction
// dispatch behind a local HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"

	_ "github.com/sentinelwallet/sentinel/docs"
	"github.com/sentinelwallet/sentinel/internal/api"
	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/config"
	"github.com/sentinelwallet/sentinel/internal/engine"
	"github.com/sentinelwallet/sentinel/internal/notify"
	"github.com/sentinelwallet/sentinel/internal/rpc"
	"github.com/sentinelwallet/sentinel/internal/store"
	"github.com/sentinelwallet/sentinel/internal/tx"
)

// @title           Sentinel Wallet API
// @version         1.0
// @description     Local self-custodial wallet daemon. Seeds never leave the process; sessions auto-lock after inactivity.
// @host            localhost:8085
// @BasePath        /
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("daemon failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}

	bus := notify.NewBus(logger)
	sessions := auth.NewSessionManager(
		auth.NewVerifier(st, logger),
		clock.NewDefaultClock(),
		cfg.AutoLockTimeout(),
		bus,
		logger,
	)
	sessions.Start()

	client := rpc.New(cfg.Endpoints(), logger)
	dispatcher := tx.NewDispatcher(st, sessions, client, logger)
	eng := engine.New(st, sessions, dispatcher, client, bus, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.SetupRouter(eng, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		eng.Close()
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}

	// Locks every session so no seed survives in memory, then closes the db.
	return eng.Close()
}
