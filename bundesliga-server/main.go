package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/config"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/league"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/logging"
)

// apiKeyEnv names the environment variable holding the shared API key.
const apiKeyEnv = "BL5_API_KEY"

type ServerConfig struct {
	Service *league.Service
	Logger  *zap.Logger
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	var (
		configPath  = flag.String("config", "", "path to fuenfjahr.yaml (default: ./fuenfjahr.yaml if present)")
		addr        = flag.String("addr", "", "HTTP listen address (overrides server.addr)")
		mcpPath     = flag.String("path", "", "HTTP path for MCP endpoint (overrides server.mcp_path)")
		source      = flag.String("source", "", "default season source: web|simulated (overrides source.mode)")
		requireAuth = flag.Bool("require-auth", false, "require API key auth via "+apiKeyEnv)
		authHeader  = flag.String("auth-header", "", "HTTP header to read API key from (overrides server.auth_header)")
		logLevel    = flag.String("log-level", "", "log level (overrides log.level)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "path":
			cfg.Server.MCPPath = *mcpPath
		case "source":
			cfg.Source.Mode = *source
		case "require-auth":
			cfg.Server.RequireAuth = *requireAuth
		case "auth-header":
			cfg.Server.AuthHeader = *authHeader
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := league.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	apiKey := strings.TrimSpace(os.Getenv(apiKeyEnv))
	if cfg.Server.RequireAuth && apiKey == "" {
		return fmt.Errorf("%s is required (set env var or disable server.require_auth)", apiKeyEnv)
	}

	scfg := ServerConfig{Service: rt.Service, Logger: logger}
	server, registry := newMCPServer(scfg)
	router := newRouter(scfg, server, registry, routerOptions{
		MCPPath:    cfg.Server.MCPPath,
		APIKey:     apiKey,
		AuthHeader: cfg.Server.AuthHeader,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("MCP HTTP server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("mcp_path", cfg.Server.MCPPath),
			zap.String("source", cfg.Source.Mode))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newMCPServer(cfg ServerConfig) (*mcp.Server, []toolInfo) {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "bundesliga-fuenfjahr",
			Version: "0.1.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 4)

	addTool(server, &registry, &mcp.Tool{
		Name:        "five_year_ranking",
		Description: "Five-year weighted Bundesliga ranking (weights 1.0/0.8/0.6/0.4/0.2) ending at a season",
	}, fiveYearRankingHandler(cfg))

	addTool(server, &registry, &mcp.Tool{
		Name:        "season_table",
		Description: "Wins, draws and points of every team in one season",
	}, seasonTableHandler(cfg))

	addTool(server, &registry, &mcp.Tool{
		Name:        "demo_points",
		Description: "Compute points for a hand-entered season line (not stored)",
	}, demoPointsHandler(cfg))

	addTool(server, &registry, &mcp.Tool{
		Name:        "cache_invalidate",
		Description: "Drop a cached season (0 = all) so it is fetched again",
	}, cacheInvalidateHandler(cfg))

	return server, registry
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(res), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
