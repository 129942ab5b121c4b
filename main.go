package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valyala/fasthttp"

	"pension-engine/internal/config"
	"pension-engine/internal/engine"
	"pension-engine/internal/mutations"
	"pension-engine/internal/scheme"
	"pension-engine/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	registry := mutations.NewRegistry()
	rates := scheme.NewClient(cfg.SchemeRegistryURL)
	eng := engine.New(registry, rates)
	srv := server.New(eng, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("pension engine starting",
		"addr", addr,
		"scheme_registry_configured", cfg.SchemeRegistryURL != "",
	)

	if err := fasthttp.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
