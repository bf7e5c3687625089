// Package mcp exposes blog search as a Model Context Protocol tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/domain"
	"github.com/kailas-cloud/blogsearch/internal/domain/post"
)

// ToolSearchBlogPosts is the tool name registered with the MCP server.
const ToolSearchBlogPosts = "search_blog_posts"

// Searcher resolves a query to documents.
type Searcher interface {
	Search(ctx context.Context, query string) ([]post.Document, error)
}

// Handlers implements the MCP tool callbacks.
type Handlers struct {
	search Searcher
	logger *zap.Logger
}

// NewServer creates an MCP server with the search tool registered.
func NewServer(name, version string, search Searcher, logger *zap.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(name, version, mcpserver.WithToolCapabilities(false))
	RegisterTools(s, search, logger)
	return s
}

// RegisterTools adds the search tool to server.
func RegisterTools(server *mcpserver.MCPServer, search Searcher, logger *zap.Logger) *Handlers {
	h := &Handlers{search: search, logger: logger}

	server.AddTool(mcp.Tool{
		Name:        ToolSearchBlogPosts,
		Description: "Semantic search over blog posts. Returns up to 10 matching posts as a JSON array, best match first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Free-text search query",
				},
			},
			Required: []string{"query"},
		},
	}, h.SearchBlogPosts)

	return h
}

// SearchBlogPosts handles the search_blog_posts tool.
func (h *Handlers) SearchBlogPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	docs, err := h.search.Search(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			return mcp.NewToolResultError("No search term provided"), nil
		}
		h.logger.Error("mcp search failed", zap.Error(err))
		return mcp.NewToolResultError("Error searching blog posts"), nil
	}
	if docs == nil {
		docs = []post.Document{}
	}

	body, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}
