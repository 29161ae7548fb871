package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
)

type summaryStub struct {
	rec summary.HarvestRecord
}

func (s *summaryStub) GenerateSummary(_ context.Context, rec summary.HarvestRecord) summary.Result {
	s.rec = rec
	return summary.Result{Success: true, Summary: " Excelente safra.\n", Reason: summary.ReasonSuccess}
}

func (s *summaryStub) Health(context.Context) summary.HealthReport {
	return summary.HealthReport{Status: "ok", Service: "coffee-api", Ollama: "unavailable", BackendModel: "llama3.2:3b"}
}

func connect(t *testing.T, svc Summary) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := New(svc, nil).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func structured[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode structured content %s: %v", raw, err)
	}
	return out
}

func TestListTools(t *testing.T) {
	t.Parallel()

	cs := connect(t, &summaryStub{})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	if !names["summarize_harvest"] || !names["backend_health"] {
		t.Errorf("unexpected tools %v", names)
	}
}

func TestSummarizeHarvest(t *testing.T) {
	t.Parallel()

	stub := &summaryStub{}
	cs := connect(t, stub)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "summarize_harvest",
		Arguments: map[string]any{
			"farm_name":      "Fazenda Bela Vista",
			"harvest_date":   "2024-06-01",
			"quality_grade":  "AA",
			"weight":         60,
			"certifications": []map[string]any{{"organic": "yes"}},
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res.Content)
	}

	got := structured[summary.Result](t, res)
	if !got.Success || got.Summary != "Excelente safra." || got.Reason != summary.ReasonSuccess {
		t.Errorf("unexpected result %+v", got)
	}
	if stub.rec.FarmName.String() != "Fazenda Bela Vista" || stub.rec.Weight.String() != "60" {
		t.Errorf("record not decoded: %+v", stub.rec)
	}
	if stub.rec.Certifications.String() != "organic: yes" {
		t.Errorf("certifications = %q", stub.rec.Certifications.String())
	}
	if stub.rec.Location.IsSet() {
		t.Error("omitted location should stay unset")
	}
}

func TestSummarizeHarvest_MissingRequired(t *testing.T) {
	t.Parallel()

	stub := &summaryStub{}
	cs := connect(t, stub)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "summarize_harvest",
		Arguments: map[string]any{"farm_name": "Fazenda Bela Vista"},
	})
	if err == nil && !res.IsError {
		t.Fatal("expected a tool error for missing required fields")
	}
	if stub.rec.FarmName.IsSet() {
		t.Error("summary must not run for invalid input")
	}
}

func TestBackendHealth(t *testing.T) {
	t.Parallel()

	cs := connect(t, &summaryStub{})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "backend_health", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	got := structured[summary.HealthReport](t, res)
	if got.Ollama != "unavailable" || got.BackendModel != "llama3.2:3b" {
		t.Errorf("unexpected report %+v", got)
	}
}

func TestRecordFromArgs_EmptyRequired(t *testing.T) {
	t.Parallel()

	if _, err := recordFromArgs(SummarizeArgs{FarmName: "x", HarvestDate: "", QualityGrade: "A"}); err == nil {
		t.Error("expected error for empty harvest_date")
	}
	rec, err := recordFromArgs(SummarizeArgs{FarmName: "x", HarvestDate: "d", QualityGrade: "A", Altitude: 1200.5})
	if err != nil {
		t.Fatalf("recordFromArgs: %v", err)
	}
	if rec.Altitude.String() != "1200.5" {
		t.Errorf("altitude = %q", rec.Altitude.String())
	}
}
