// Command mcp-newsdesk runs the MCP tool server for assistant gateway
// sessions. Uses stdio transport for integration with AI assistants.
package main

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/config"
	"github.com/newsdesk-hq/newsdesk-go/internal/mcpserver"
	"github.com/newsdesk-hq/newsdesk-go/internal/observability"
	"github.com/newsdesk-hq/newsdesk-go/internal/platform"
	"github.com/newsdesk-hq/newsdesk-go/internal/session"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := observability.InitLogger(cfg.LogLevel)

	var backend chat.Backend
	if cfg.Mode == config.ModeStub {
		backend = chat.NewStubBackend()
	} else {
		backend = chat.NewClient(cfg.ChatBackendURL)
	}

	platformURL := cfg.PlatformURL
	if platformURL == "" {
		platformURL = "http://localhost:3000"
	}

	overrides, err := config.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		log.Fatalf("routes file error: %v", err)
	}

	store := session.NewStore(session.StoreConfig{
		Chat:     backend,
		Platform: platform.NewClient(platformURL),
		Routes:   assistant.NewRouteTable(overrides),
		Logger:   logger,
		TTL:      cfg.SessionTTL,
	})

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "newsdesk-gateway",
		Version: "v1.0.0",
	}, nil)
	mcpserver.RegisterTools(server, store)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
