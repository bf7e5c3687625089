package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpTransport "github.com/kailas-cloud/blogsearch/internal/transport/mcp"
	"github.com/kailas-cloud/blogsearch/internal/version"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents.

Serves the search_blog_posts tool over stdio using the Model Context
Protocol, so LLM agents can search the blog with the same strategy
and stores as the HTTP API. Logs go to stderr.`,
		Example: `  # claude_desktop_config.json
  # {
  #   "mcpServers": {
  #     "blogsearch": {"command": "blogsearch", "args": ["mcp"]}
  #   }
  # }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd.Context(), c)
		},
	}
}

func runMCP(ctx context.Context, c *cli) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	s := mcpTransport.NewServer("blogsearch", version.Version, a.search, c.logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(s)
	}()

	c.logger.Info("MCP server listening on stdio")
	select {
	case <-ctx.Done():
		c.logger.Info("Shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	}
}
