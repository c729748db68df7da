package advisor

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "regadvisor-test", Version: "0.1.0"}

func mcpSession(t *testing.T, s *Service) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	s.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_SearchRegulations(t *testing.T) {
	model := &routedLLM{
		selection: "EU_COMMISSION",
		answer:    "The NOx limit is 80 mg/km [Source 0].",
	}
	s := newTestService(t, model, &stubScraper{markdown: euEmissionsPage, title: "EU Emissions"})
	session := mcpSession(t, s)

	text := mcpCallTool(t, session, "search_regulations",
		map[string]any{"query": "EU NOx emissions limits"})

	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal tool result: %v", err)
	}
	if !strings.Contains(resp.Answer, "80 mg/km") {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 1 {
		t.Errorf("sources = %+v", resp.Sources)
	}
}

func TestMCP_GetStatistics(t *testing.T) {
	model := &routedLLM{
		selection: "EU_COMMISSION",
		answer:    "80 mg/km [Source 0].",
	}
	s := newTestService(t, model, &stubScraper{markdown: euEmissionsPage, title: "EU"})
	if _, err := s.Ask(context.Background(), "EU emissions limits"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	session := mcpSession(t, s)
	text := mcpCallTool(t, session, "get_statistics", map[string]any{})

	var stats struct {
		TotalQueries int `json:"total_queries"`
	}
	if err := json.Unmarshal([]byte(text), &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.TotalQueries != 1 {
		t.Errorf("total_queries = %d, want 1", stats.TotalQueries)
	}
}
