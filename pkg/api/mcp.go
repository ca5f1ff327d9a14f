package api

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/ingredient-registry/pkg/kit"
	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
	"github.com/hazyhaar/ingredient-registry/pkg/source"
	"github.com/hazyhaar/ingredient-registry/pkg/store"
)

// RegisterMCPTools registers the lookup MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, cat *source.Catalog, runLog *store.RunLog) {
	registerSearchIngredient(srv, cat)
	registerSearchBatch(srv, cat, runLog)
	registerSourceStatus(srv, cat)
}

func registerSearchIngredient(srv *server.MCPServer, cat *source.Catalog) {
	tool := mcp.NewTool("search_ingredient",
		mcp.WithDescription("Look up one ingredient name or registry number (e.g. CAS) against the regulatory reference table. Matching is accent- and case-insensitive and resolves known aliases."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Ingredient name, alias, or registry number to look up")),
	)

	endpoint := instrument(slog.Default(), "search_ingredient")(searchTermEndpoint(cat))
	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		term, _ := req.GetArguments()["term"].(string)
		return &kit.MCPDecodeResult{Request: &searchTermReq{Term: term}}, nil
	})
}

func registerSearchBatch(srv *server.MCPServer, cat *source.Catalog, runLog *store.RunLog) {
	tool := mcp.NewTool("search_batch",
		mcp.WithDescription("Look up multiple ingredients (up to 100) in one call; one query per line. Returns found and not-found collections."),
		mcp.WithString("terms", mcp.Required(), mcp.Description("Newline-separated list of queries")),
	)

	endpoint := instrument(slog.Default(), "search_batch")(searchBatchEndpoint(cat, runLog))
	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		raw, _ := req.GetArguments()["terms"].(string)
		return &kit.MCPDecodeResult{Request: &searchBatchReq{Terms: lookup.SplitQueries(raw)}}, nil
	})
}

func registerSourceStatus(srv *server.MCPServer, cat *source.Catalog) {
	tool := mcp.NewTool("source_status",
		mcp.WithDescription("Report whether the reference table is loaded and whether alias matching is degraded."),
	)

	endpoint := instrument(slog.Default(), "source_status")(statusEndpoint(cat))
	kit.RegisterMCPTool(srv, tool, endpoint, func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}
