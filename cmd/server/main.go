package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/payments-engine/internal/config"
	"github.com/riteshkumar/payments-engine/internal/csvio"
	"github.com/riteshkumar/payments-engine/internal/engine"
	"github.com/riteshkumar/payments-engine/internal/server"
	"github.com/riteshkumar/payments-engine/internal/utils"
)

func main() {
	serve := flag.Bool("serve", false, "run the transaction listener instead of a batch pass")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-serve] [transactions.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialise logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if *serve {
		runServe(cfg, logger)
		return
	}
	os.Exit(runBatch(flag.Args(), logger))
}

// runBatch replays a transaction file in order and writes the final
// snapshot to stdout. Rejected transactions are skipped, never fatal; the
// run only fails if the input cannot be opened at all.
func runBatch(args []string, logger *slog.Logger) int {
	if len(args) < 1 {
		logger.Error("missing transactions file argument")
		flag.Usage()
		return 1
	}

	file, err := os.Open(args[0])
	if err != nil {
		logger.Error("failed to open transactions file", "path", args[0], "error", err.Error())
		return 1
	}
	defer file.Close()

	transactions, err := csvio.ReadAll(file, logger)
	if err != nil {
		logger.Error("failed to read transactions file", "path", args[0], "error", err.Error())
		return 1
	}

	eng := engine.New(logger)
	for _, tx := range transactions {
		if err := eng.Apply(tx); err != nil {
			logger.Warn("transaction rejected",
				"type", string(tx.Type),
				"client", tx.Client,
				"tx", tx.Tx,
				"error", err.Error(),
			)
		}
	}

	if err := csvio.Write(os.Stdout, eng.Snapshot(), true); err != nil {
		logger.Error("failed to write snapshot", "error", err.Error())
		return 1
	}
	return 0
}

// runServe starts the TCP transaction listener and the read-only HTTP
// admin server, sharing one engine behind the server's mutex.
func runServe(cfg *config.Config, logger *slog.Logger) {
	eng := engine.New(logger)
	srv := server.New(eng, logger)

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("failed to bind transaction listener", "addr", cfg.ListenAddr, "error", err.Error())
		os.Exit(1)
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Error("transaction listener stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Setup admin router
	router := mux.NewRouter()
	adminHandler := server.NewAdminHandler(srv, logger)
	adminHandler.RegisterRoutes(router)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "not found", r.URL.Path)
	})
	router.Use(server.LoggingMiddleware(logger))

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting admin server", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start admin server", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal; the transaction listener has no graceful
	// drain, it stops with the process.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("admin server forced to shutdown", "error", err.Error())
	}
	listener.Close()

	logger.Info("server exited gracefully")
}
