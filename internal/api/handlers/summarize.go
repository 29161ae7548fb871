package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matiasleandrokruk/coffee-api/internal/domain/summary"
)

// Summarizer is satisfied by *summary.Orchestrator.
type Summarizer interface {
	GenerateSummary(ctx context.Context, rec summary.HarvestRecord) summary.Result
}

// SummarizeHandler validates harvest records and wraps summary results in
// the response envelope.
type SummarizeHandler struct {
	svc        Summarizer
	model      string
	backendURL string
}

func NewSummarizeHandler(svc Summarizer, model, backendURL string) *SummarizeHandler {
	return &SummarizeHandler{svc: svc, model: model, backendURL: backendURL}
}

type summarizeData struct {
	FarmName     json.RawMessage `json:"farm_name"`
	HarvestDate  json.RawMessage `json:"harvest_date"`
	QualityGrade json.RawMessage `json:"quality_grade"`
	Summary      string          `json:"summary"`
}

type summarizeMetadata struct {
	GeneratedBy  string         `json:"generated_by"`
	Model        string         `json:"model"`
	BackendURL   string         `json:"backend_url"`
	FallbackMode bool           `json:"fallback_mode"`
	Reason       summary.Reason `json:"reason"`
}

// SummarizeResponse is the 200 body of POST /summarize.
type SummarizeResponse struct {
	Success  bool              `json:"success"`
	Data     summarizeData     `json:"data"`
	Metadata summarizeMetadata `json:"metadata"`
}

func (h *SummarizeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON")
		return
	}

	rec, parseErr := summary.ParseRecord(body)
	if errors.Is(parseErr, summary.ErrInvalidJSON) {
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON")
		return
	}
	if missing := summary.MissingRequired(body); len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Missing required fields",
			Code:    CodeMissingFields,
			Missing: missing,
		})
		return
	}
	var fieldErr *summary.FieldError
	if errors.As(parseErr, &fieldErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fieldErr.Message,
			Code:  CodeInvalidField,
			Field: fieldErr.Field,
		})
		return
	}
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON")
		return
	}

	res := h.svc.GenerateSummary(r.Context(), rec)
	writeJSON(w, http.StatusOK, h.envelope(body, res))
}

func (h *SummarizeHandler) envelope(body []byte, res summary.Result) SummarizeResponse {
	generatedBy := "ollama"
	if res.UsedFallback {
		generatedBy = "fallback"
	}
	return SummarizeResponse{
		Success: true,
		Data: summarizeData{
			FarmName:     rawField(body, "farm_name"),
			HarvestDate:  rawField(body, "harvest_date"),
			QualityGrade: rawField(body, "quality_grade"),
			Summary:      strings.TrimSpace(res.Summary),
		},
		Metadata: summarizeMetadata{
			GeneratedBy:  generatedBy,
			Model:        h.model,
			BackendURL:   h.backendURL,
			FallbackMode: res.UsedFallback,
			Reason:       res.Reason,
		},
	}
}

// rawField echoes the request's value for key unchanged.
func rawField(body []byte, key string) json.RawMessage {
	v := gjson.GetBytes(body, key)
	if !v.Exists() {
		return json.RawMessage("null")
	}
	return json.RawMessage(v.Raw)
}
