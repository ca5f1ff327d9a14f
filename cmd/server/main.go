package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/ingredient-registry/pkg/api"
	"github.com/hazyhaar/ingredient-registry/pkg/source"
	"github.com/hazyhaar/ingredient-registry/pkg/store"
)

const version = "1.0.0"

type config struct {
	Addr         string `yaml:"addr"`
	ReferenceDir string `yaml:"reference_dir"`
	AliasDir     string `yaml:"alias_dir"`
	RunLogPath   string `yaml:"runlog_path"`
	LogLevel     string `yaml:"log_level"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "query":
		cmdQuery(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ingredient-registry <command>

Commands:
  serve   Start the HTTP server
  query   Run a batch lookup from a file or stdin
  mcp     Serve the MCP tools over stdio
`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger(os.Stderr)
	cfg := loadConfig(*cfgPath, logger)
	logger = newLeveledLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	cat := source.NewCatalog(cfg.ReferenceDir, cfg.AliasDir, logger)
	if err := cat.Load(); err != nil {
		if errors.Is(err, source.ErrSourceMissing) {
			// Stay up and answer 503 until the operator supplies the table
			// and triggers a reload.
			logger.Warn("reference table unavailable, refusing queries", "error", err)
		} else {
			logger.Error("failed to load sources", "error", err)
			os.Exit(1)
		}
	} else {
		st := cat.Status()
		logger.Info("sources ready", "records", st.Records, "aliases", st.AliasEntries, "alias_degraded", st.AliasDegraded)
	}

	runLog := openRunLog(cfg.RunLogPath, logger)
	if runLog != nil {
		defer runLog.Close()
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(cat, runLog),
	}

	// SIGHUP: hot reload both indexes.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading sources")
			if err := cat.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				st := cat.Status()
				logger.Info("sources reloaded", "records", st.Records, "aliases", st.AliasEntries)
			}
		}
	}()

	go func() {
		logger.Info("ingredient-registry listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// Logs go to stderr; stdout carries the MCP JSON-RPC stream.
	logger := newLogger(os.Stderr)
	cfg := loadConfig(*cfgPath, logger)

	cat := source.NewCatalog(cfg.ReferenceDir, cfg.AliasDir, logger)
	if err := cat.Load(); err != nil && !errors.Is(err, source.ErrSourceMissing) {
		logger.Error("failed to load sources", "error", err)
		os.Exit(1)
	}

	runLog := openRunLog(cfg.RunLogPath, logger)
	if runLog != nil {
		defer runLog.Close()
	}

	srv := server.NewMCPServer("ingredient-registry", version)
	api.RegisterMCPTools(srv, cat, runLog)

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func openRunLog(path string, logger *slog.Logger) *store.RunLog {
	if path == "" {
		return nil
	}
	runLog, err := store.Open(path)
	if err != nil {
		logger.Warn("run log unavailable, continuing without it", "path", path, "error", err)
		return nil
	}
	return runLog
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:         ":8421",
		ReferenceDir: "data/reference",
		AliasDir:     "data/alias",
		RunLogPath:   "data/runs.db",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(w *os.File) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func newLeveledLogger(w *os.File, level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
