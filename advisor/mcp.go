package advisor

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/kit"
)

// RegisterMCP registers the advisor tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerSearchTool(srv)
	s.registerStatisticsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// --- search_regulations ---

type searchReq struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Service) registerSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "search_regulations",
		Description: "Answer a question about automotive regulations with cited sources.",
		InputSchema: inputSchema(map[string]any{
			"query":      map[string]any{"type": "string", "description": "Question about automotive regulations"},
			"session_id": map[string]any{"type": "string", "description": "Optional stable session identifier for query-log correlation"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*searchReq)
		ctx = kit.WithTransport(ctx, "mcp")
		if r.SessionID != "" {
			ctx = kit.WithSessionID(ctx, r.SessionID)
		}
		return s.Ask(ctx, r.Query)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r searchReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- get_statistics ---

func (s *Service) registerStatisticsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_statistics",
		Description: "Aggregate statistics over the query log: totals, success rate, top topics.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Stats(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
