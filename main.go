package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
	"github.com/The-Kiln/gong-mcp-customized/pkg/database"
	"github.com/The-Kiln/gong-mcp-customized/pkg/engine"
	"github.com/The-Kiln/gong-mcp-customized/pkg/gongauth"
	"github.com/The-Kiln/gong-mcp-customized/pkg/models"
	"github.com/The-Kiln/gong-mcp-customized/pkg/server"
	"github.com/The-Kiln/gong-mcp-customized/pkg/services"
	"github.com/The-Kiln/gong-mcp-customized/specs"
)

const serverName = "gong-mcp"
const serverVersion = "2.0.0"

// loadCatalog builds the operation catalog from the configured source:
// database row, spec file override, or the embedded Gong API description.
func loadCatalog(cfg *server.Config) (*catalog.Catalog, error) {
	if cfg.DatabaseMode {
		if err := database.InitializeDatabase(); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}
		loader := services.NewCatalogLoaderService(database.DB)
		cat, spec, err := loader.LoadActiveCatalog()
		if err != nil {
			return nil, err
		}
		applyStoredCredentials(spec)
		if cfg.BaseURL == "" && spec.BaseURL != nil && *spec.BaseURL != "" {
			cfg.BaseURL = *spec.BaseURL
		}
		return cat, nil
	}

	data := specs.GongOpenAPI
	if cfg.SpecFile != "" {
		fileData, err := os.ReadFile(cfg.SpecFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec file: %v", err)
		}
		data = fileData
	}
	return catalog.Load(data)
}

// applyStoredCredentials exports database-held Gong credentials through the
// environment so the credential provider picks them up. Explicitly set
// environment variables win over stored values.
func applyStoredCredentials(spec *models.CatalogSpec) {
	if spec.AccessKey != nil && *spec.AccessKey != "" && os.Getenv(gongauth.EnvAccessKey) == "" {
		os.Setenv(gongauth.EnvAccessKey, *spec.AccessKey)
		log.Printf("Using access key from catalog spec '%s'", spec.Name)
	}
	if spec.AccessSecret != nil && *spec.AccessSecret != "" && os.Getenv(gongauth.EnvAccessSecret) == "" {
		os.Setenv(gongauth.EnvAccessSecret, *spec.AccessSecret)
	}
}

// registerTools exposes every catalog operation as an MCP tool.
func registerTools(s *mcpserver.MCPServer, eng *engine.Engine, cat *catalog.Catalog) error {
	for _, name := range cat.Names() {
		op, ok := cat.Lookup(name)
		if !ok {
			continue
		}
		schemaJSON, err := json.Marshal(op.InputSchema)
		if err != nil {
			return fmt.Errorf("failed to encode input schema for %s: %v", name, err)
		}
		tool := mcp.NewToolWithRawSchema(op.Name, describeOperation(op), schemaJSON)
		s.AddTool(tool, makeToolHandler(eng, op.Name))
	}
	return nil
}

func describeOperation(op *catalog.Operation) string {
	desc := op.Summary
	if op.Description != "" {
		desc = op.Description
	}
	if desc == "" {
		desc = fmt.Sprintf("%s %s", op.Method, op.PathTemplate)
	}
	return strings.TrimSpace(desc)
}

func makeToolHandler(eng *engine.Engine, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := eng.Invoke(ctx, name, request.GetArguments())
		return mcp.NewToolResultText(text), nil
	}
}

// startServerWithGracefulShutdown starts the HTTP server and shuts it down
// cleanly on SIGINT or SIGTERM.
func startServerWithGracefulShutdown(srv *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %v", err)
	case sig := <-quit:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
			return fmt.Errorf("server shutdown error: %v", err)
		}

		log.Printf("Server shut down gracefully")
		return nil
	}
}

func main() {
	// Stdio transport owns stdout, so all logging goes to stderr.
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	cfg, err := server.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.LogConfiguration()

	cat, err := loadCatalog(cfg)
	if err != nil {
		if serverErr, ok := err.(*server.ServerError); ok {
			serverErr.LogError()
		}
		log.Fatalf("Failed to load operation catalog: %v", err)
	}
	log.Printf("Catalog ready with %d operations", cat.Len())

	creds := gongauth.NewProvider()
	engineOpts := []engine.Option{
		engine.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	}
	if cfg.BaseURL != "" {
		engineOpts = append(engineOpts, engine.WithBaseURL(cfg.BaseURL))
	}
	eng := engine.New(cat, creds, engineOpts...)

	mcpServer := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
	)
	if err := registerTools(mcpServer, eng, cat); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	if !cfg.HTTPMode {
		if err := mcpserver.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpServer,
		mcpserver.WithStateLess(true),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/operations", server.HandleOperations(cat))
	mux.Handle("/mcp", streamable)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  240 * time.Second,
		WriteTimeout: 240 * time.Second,
	}

	log.Printf("Available endpoints:")
	log.Printf("  GET  /health      - Health check")
	log.Printf("  GET  /operations  - List catalog operations")
	log.Printf("  *    /mcp         - MCP streamable HTTP transport")

	if err := startServerWithGracefulShutdown(srv); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
