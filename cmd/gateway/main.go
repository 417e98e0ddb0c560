package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/openterra/tilegate/internal/auth"
	"github.com/openterra/tilegate/internal/cache"
	"github.com/openterra/tilegate/internal/cache/redisstore"
	"github.com/openterra/tilegate/internal/config"
	"github.com/openterra/tilegate/internal/ee"
	"github.com/openterra/tilegate/internal/httpclient"
	"github.com/openterra/tilegate/internal/invalidation/kafkaconsumer"
	"github.com/openterra/tilegate/internal/logger"
	"github.com/openterra/tilegate/internal/metrics"
	"github.com/openterra/tilegate/internal/observability"
	"github.com/openterra/tilegate/internal/pipeline"
	"github.com/openterra/tilegate/internal/server"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	addrFlag := flag.String("addr", "", "listen address (overrides ADDR)")
	flag.Parse()

	cfg := config.FromEnv()
	if *addrFlag != "" {
		cfg.Addr = strings.TrimSpace(*addrFlag)
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		Component: "gateway",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	appLog.Info("starting gateway",
		"addr", cfg.Addr,
		"version", Version,
		"backend", cfg.APIBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A gateway that cannot authenticate must not begin serving.
	session := auth.NewSession(appLog, cfg.TokenEnv, cfg.Project)
	if err := session.Initialize(ctx); err != nil {
		appLog.Error("credential resolution failed", "err", err)
		return 1
	}

	backend := ee.NewClient(appLog, httpclient.NewOutbound(), cfg.APIBaseURL, session.Project(), session)
	pipe := pipeline.New(appLog, backend)

	if cfg.CacheEnabled {
		rc, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			appLog.Error("redis setup failed", "err", err)
			return 1
		}
		defer func() { _ = rc.Close() }()

		store, err := cache.NewTiered(cfg.CacheLRUSize, rc, cfg.CacheOpTimeout)
		if err != nil {
			appLog.Error("cache setup failed", "err", err)
			return 1
		}
		pipe = pipe.WithCache(store, cfg.CacheTTL)

		if cfg.Invalidation.Enabled {
			consumer := kafkaconsumer.New(
				kafkaconsumer.NewConfig(cfg.Invalidation.Brokers, cfg.Invalidation.Topic, cfg.Invalidation.GroupID),
				appLog, store)
			go func() {
				if err := consumer.Start(ctx); err != nil {
					appLog.Error("invalidation consumer exited", "err", err)
				}
			}()
		}
	}

	if os.Getenv("METRICS_ENABLED") == "true" {
		runMetricsListener(ctx)
	}

	if err := server.Run(ctx, cfg, appLog, pipe, session); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}

// runMetricsListener starts the optional dedicated metrics endpoint with its
// own registry.
func runMetricsListener(ctx context.Context) {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	path := os.Getenv("METRICS_PATH")
	if path == "" {
		path = "/metrics"
	}

	p := metrics.Init(metrics.Config{
		Enabled: true,
		Addr:    addr,
		Path:    path,
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})

	mux := http.NewServeMux()
	mux.Handle(path, p.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("metrics: listening on %s%s", addr, path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics: shutdown error: %v", err)
		}
	}()
}
