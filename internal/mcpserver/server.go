// Package mcpserver exposes the summary core as MCP tools over stdio:
// summarize_harvest and backend_health.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
	"github.com/matiasleandrokruk/coffee-api/internal/version"
)

// Summary is satisfied by *summary.Orchestrator.
type Summary interface {
	GenerateSummary(ctx context.Context, rec summary.HarvestRecord) summary.Result
	Health(ctx context.Context) summary.HealthReport
}

// SummarizeArgs is the summarize_harvest input. Required fields have no omitempty.
type SummarizeArgs struct {
	FarmName         string           `json:"farm_name" jsonschema:"Name of the farm"`
	HarvestDate      string           `json:"harvest_date" jsonschema:"Harvest date, e.g. 2024-06-01"`
	QualityGrade     string           `json:"quality_grade" jsonschema:"Quality grade, e.g. AA"`
	Location         string           `json:"location,omitempty" jsonschema:"Farm location"`
	Weight           any              `json:"weight,omitempty" jsonschema:"Harvested weight, text or number"`
	ProcessingMethod string           `json:"processing_method,omitempty" jsonschema:"Processing method, e.g. natural or washed"`
	Variety          string           `json:"coffe_variety,omitempty" jsonschema:"Coffee variety"`
	Altitude         any              `json:"altitude,omitempty" jsonschema:"Altitude, text or number"`
	Certifications   []map[string]any `json:"certifications,omitempty" jsonschema:"Certification entries, each mapping authority to value"`
	Notes            string           `json:"notes,omitempty" jsonschema:"Free-text notes"`
}

// HealthArgs is the empty backend_health input.
type HealthArgs struct{}

// New builds the MCP server with both tools registered.
func New(svc Summary, log *slog.Logger) *mcp.Server {
	if log == nil {
		log = logging.Discard()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: summary.ServiceName, Version: version.Short()}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "summarize_harvest",
		Description: "Summarize a coffee harvest record in Portuguese using the local model. " +
			"Falls back to a one-line deterministic summary when the model is unavailable; " +
			"used_fallback and reason tell which path was taken.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in SummarizeArgs) (*mcp.CallToolResult, summary.Result, error) {
		rec, err := recordFromArgs(in)
		if err != nil {
			return nil, summary.Result{}, err
		}
		res := svc.GenerateSummary(ctx, rec)
		res.Summary = strings.TrimSpace(res.Summary)
		log.InfoContext(ctx, "MCP summarize_harvest", "reason", res.Reason, "usedFallback", res.UsedFallback)
		return nil, res, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "backend_health",
		Description: "Report whether the text-generation backend is reachable, with its URL and model.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ HealthArgs) (*mcp.CallToolResult, summary.HealthReport, error) {
		return nil, svc.Health(ctx), nil
	})

	return server
}

// Run serves the tools on stdin/stdout until ctx is done or the client disconnects.
func Run(ctx context.Context, svc Summary, log *slog.Logger) error {
	if err := New(svc, log).Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// recordFromArgs feeds the arguments through the same decoding and
// validation as HTTP bodies.
func recordFromArgs(in SummarizeArgs) (summary.HarvestRecord, error) {
	var empty []string
	for field, v := range map[string]string{
		"farm_name":     in.FarmName,
		"harvest_date":  in.HarvestDate,
		"quality_grade": in.QualityGrade,
	} {
		if v == "" {
			empty = append(empty, field)
		}
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		return summary.HarvestRecord{}, fmt.Errorf("missing required fields: %s", strings.Join(empty, ", "))
	}

	body, err := json.Marshal(in)
	if err != nil {
		return summary.HarvestRecord{}, fmt.Errorf("encode arguments: %w", err)
	}
	return summary.ParseRecord(body)
}
