package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/refgraph/referral-core/internal/network"
	"github.com/refgraph/referral-core/internal/refd"
	"github.com/refgraph/referral-core/pkg/config"
	"github.com/refgraph/referral-core/pkg/logger"
)

func main() {
	var httpAddr string
	var configPath string
	var logLevel string

	flag.StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&configPath, "config", "", "path to YAML config file")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	flag.Parse()

	cfg := config.Default()
	var loader *config.Loader
	if configPath != "" {
		var err error
		loader, err = config.NewLoader(configPath)
		if err != nil {
			logger.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = loader.Config()
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	graph := network.NewGraph()
	store := refd.NewRunStore()
	server := refd.NewHTTPServer(graph, store, cfg)

	// Hot-reload simulation defaults on config changes.
	if loader != nil {
		loader.OnChange(func(newCfg *config.Config) {
			server.SetDefaults(newCfg.Growth, newCfg.Bonus)
			logger.Info("simulation defaults reloaded",
				"initial_referrers", newCfg.Growth.InitialReferrers,
				"capacity", newCfg.Growth.Capacity)
		})
		stopWatch, err := loader.Watch()
		if err != nil {
			logger.Warn("config watcher unavailable (hot-reload disabled)", "error", err)
		} else {
			defer stopWatch()
		}
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
}
