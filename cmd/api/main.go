package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainingapi/internal/auth"
	"trainingapi/internal/server"
	"trainingapi/internal/storage"
	"trainingapi/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("API_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("API_DB_PATH", "data/training.db"), "Path to sqlite database file")
	uploadsFlag := flag.String("uploads", util.EnvOrDefault("API_UPLOAD_DIR", "data/uploads"), "Directory for uploaded avatars")
	secretFlag := flag.String("jwt-secret", util.EnvOrDefault("API_JWT_SECRET", "dev-secret-change-me"), "Secret used to sign access tokens")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := storage.Open(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewTokenManager(*secretFlag, "trainingapi")
	srv := server.New(store, tokens, logger, *uploadsFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
