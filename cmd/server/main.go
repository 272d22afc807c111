package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JaimeStill/gallery/internal/api"
	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/pkg/openapi"
)

func main() {
	specPath := flag.String("openapi", "", "write the OpenAPI document to this path and exit")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	if *specPath != "" {
		if err := openapi.WriteJSON(api.NewSpec(cfg), *specPath); err != nil {
			log.Fatal("write openapi document: ", err)
		}
		fmt.Println("openapi document written to", *specPath)
		return
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	logger := srv.infra.Logger
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load .env file", "error", envErr)
	}

	logger.Info(
		"gallery starting",
		"version", cfg.Version,
		"addr", cfg.Server.Addr(),
		"env", cfg.Env(),
		"store", cfg.Store.Driver,
		"media", cfg.Media.Provider,
	)

	if err := srv.Start(); err != nil {
		logger.Error("server start failed", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.Server.ShutdownTimeoutDuration()); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("gallery stopped", slog.String("version", cfg.Version))
}
