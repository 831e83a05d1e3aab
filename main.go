package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ninetiop/polygon/cliparse"
	"github.com/ninetiop/polygon/db"
	"github.com/ninetiop/polygon/middleware"
	"github.com/ninetiop/polygon/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		slog.Error("log file setup failed", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	// Connect to the configured database
	ctx := context.Background()
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn, db.DialectFor(cfg.DatabaseType)); err != nil {
		logger.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Database schema ready", "type", cfg.DatabaseType, "match_mode", cfg.MatchMode)

	store := db.NewStore(dbConn, cfg, logger)

	// Create router
	mux := router.NewRouter(store, logger)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	logger.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server closed", "error", err)
	} else {
		logger.Info("Server closed", "error", err)
	}
}

// newLogger builds a text logger at the configured level, writing to stderr
// and, when set, appending to the log file as well
func newLogger(cfg cliparse.Config) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stderr, f)
		closeLog = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeLog, nil
}
