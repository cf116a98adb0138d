package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"quadpong/config"
	"quadpong/game"
	"quadpong/logger"
	"quadpong/network"
	"quadpong/results"
	"quadpong/room"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Get()
	gin.SetMode(cfg.GinMode)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts := []room.Option{
		room.WithRand(game.NewRand(seed)),
		room.WithSendBuffer(cfg.SendBuffer),
	}

	var pub *results.RedisPublisher
	if cfg.RedisURL != "" {
		pub, err = results.NewRedisPublisher(cfg.RedisURL, cfg.ResultsChannel)
		if err != nil {
			logger.Fatal("results publisher", "error", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := pub.Ping(ctx); err != nil {
			log.Warn("redis unreachable at startup", "error", err)
		}
		cancel()
		opts = append(opts, room.WithResults(pub))
		log.Info("publishing match results", "channel", cfg.ResultsChannel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rm := room.New(opts...)
	go rm.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: network.NewRouter(network.NewServer(rm, cfg.AllowedOrigin)),
	}
	listenErr := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", cfg.Addr, "seed", seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")
	case err := <-listenErr:
		log.Error("listen failed", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rm.Stop()
	<-rm.Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		exitCode = 1
	}
	cancel()
	// Run has returned, so no publish is in flight.
	if pub != nil {
		if err := pub.Close(); err != nil {
			log.Warn("close results publisher", "error", err)
		}
	}
	log.Info("server exited")
	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}
