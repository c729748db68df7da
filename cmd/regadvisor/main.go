// Command regadvisor answers automotive regulation questions.
//
// Usage:
//
//	regadvisor -config advisor.yaml                  # serve HTTP
//	regadvisor -query "EU NOx limits for diesel"     # answer once and exit
//	regadvisor -mcp                                  # serve MCP tools on stdio
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/advisor"
)

func main() {
	configPath := flag.String("config", "", "path to advisor.yaml config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	query := flag.String("query", "", "answer a single query and exit")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio instead of HTTP")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Exit codes decided here, after run's deferred cleanup has flushed.
	if err := run(ctx, logger, *configPath, *addr, *query, *mcpMode); err != nil {
		if errors.Is(err, advisor.ErrNoData) {
			fmt.Fprintln(os.Stderr, "no matching regulation data found; try rephrasing or adding a region")
		} else {
			logger.Error("regadvisor: fatal", "error", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run error to the process exit status: 2 for a query
// with no matching data, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, advisor.ErrNoData):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, addr, query string, mcpMode bool) error {
	cfg, err := advisor.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	svc, err := advisor.New(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	switch {
	case query != "":
		return runOnce(ctx, svc, query)
	case mcpMode:
		return serveMCP(ctx, svc)
	default:
		return serve(ctx, logger, cfg.Server.Addr, svc)
	}
}

func serveMCP(ctx context.Context, svc *advisor.Service) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "regadvisor",
		Version: "1.0.0",
	}, nil)
	svc.RegisterMCP(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func runOnce(ctx context.Context, svc *advisor.Service, query string) error {
	resp, err := svc.Ask(ctx, query)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func serve(ctx context.Context, logger *slog.Logger, addr string, svc *advisor.Service) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("regadvisor: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("regadvisor: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
