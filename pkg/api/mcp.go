package api

import (
	"strconv"

	"github.com/hazyhaar/maktaba/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the catalog read tools on the MCP server.
func RegisterMCPTools(srv *server.MCPServer, ep *Endpoints) {
	registerResolveBook(srv, ep)
	registerSuggestBooks(srv, ep)
	registerListScholars(srv, ep)
	registerListBooks(srv, ep)
}

func registerResolveBook(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("resolve_book",
		mcp.WithDescription("Resolve a free-text query to a single book (scholar, title, download URL) using exact, substring and fuzzy matching."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The book or scholar name to look up")),
	)

	kit.RegisterMCPTool(srv, tool, ep.Resolve, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		query, _ := req.GetArguments()["query"].(string)
		return &kit.MCPDecodeResult{Request: &resolveReq{Query: query}}, nil
	})
}

func registerSuggestBooks(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("suggest_books",
		mcp.WithDescription("Rank catalog entries by similarity to a query, for did-you-mean suggestions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The query to rank against")),
		mcp.WithString("limit", mcp.Description("Maximum number of suggestions (default 5)")),
	)

	kit.RegisterMCPTool(srv, tool, ep.Suggest, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		query, _ := args["query"].(string)
		limit := 0
		if v, _ := args["limit"].(string); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		return &kit.MCPDecodeResult{Request: &suggestReq{Query: query, Limit: limit}}, nil
	})
}

func registerListScholars(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("list_scholars",
		mcp.WithDescription("List the scholars present in the book catalog."),
	)

	kit.RegisterMCPTool(srv, tool, ep.Scholars, func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

func registerListBooks(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("list_books",
		mcp.WithDescription("List one scholar's book titles."),
		mcp.WithString("scholar", mcp.Required(), mcp.Description("Exact scholar name as stored in the catalog")),
	)

	kit.RegisterMCPTool(srv, tool, ep.Titles, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		scholar, _ := req.GetArguments()["scholar"].(string)
		return &kit.MCPDecodeResult{Request: &titlesReq{Scholar: scholar}}, nil
	})
}
