// Ollama HTTP adapter.
// OllamaClient calls the local Ollama REST API using stdlib net/http.
// Endpoints used (paths configurable):
//   - POST /api/generate — non-streaming completion
//   - GET  /api/tags     — liveness (lists available models)
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	DefaultStatusPath   = "/api/tags"
	DefaultGeneratePath = "/api/generate"

	opGenerate    = "generate"
	opHealthCheck = "healthcheck"
)

// OllamaClient talks to a running Ollama instance. It keeps no state between
// calls; timeouts are carried by the caller's context.
type OllamaClient struct {
	baseURL      string
	model        string
	statusPath   string
	generatePath string
	httpClient   *http.Client
}

// Option customises an OllamaClient.
type Option func(*OllamaClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OllamaClient) { o.httpClient = c }
}

// WithPaths overrides the liveness and generate endpoint paths. Empty values keep the defaults.
func WithPaths(statusPath, generatePath string) Option {
	return func(o *OllamaClient) {
		if statusPath != "" {
			o.statusPath = statusPath
		}
		if generatePath != "" {
			o.generatePath = generatePath
		}
	}
}

// NewOllamaClient creates a client for baseURL using model as the default model.
func NewOllamaClient(baseURL, model string, opts ...Option) *OllamaClient {
	c := &OllamaClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		statusPath:   DefaultStatusPath,
		generatePath: DefaultGeneratePath,
		httpClient:   &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─── internal Ollama JSON types ──────────────────────────────────────────────

type ollamaGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// ─── Backend implementation ─────────────────────────────────────────────────

// Generate performs a non-streaming completion via POST generatePath.
// Non-2xx statuses and undecodable bodies are returned as *Error.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:       model,
		Prompt:      req.Prompt,
		Stream:      false,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, &Error{Op: opGenerate, Kind: KindRequest, Err: err}
	}

	respBody, err := c.doPost(ctx, c.generatePath, body)
	if err != nil {
		return nil, err
	}
	defer respBody.Close() //nolint:errcheck

	var ollamaResp ollamaGenerateResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&ollamaResp); decodeErr != nil {
		e := wrap(opGenerate, decodeErr)
		if e.Kind == KindRequest {
			e.Kind = KindDecode
		}
		return nil, e
	}

	out := &GenerateResponse{Model: ollamaResp.Model, Done: ollamaResp.Done}
	if ollamaResp.Response != nil {
		out.Text = *ollamaResp.Response
		out.HasText = true
	}
	return out, nil
}

// HealthCheck calls GET statusPath and returns nil on 200.
func (c *OllamaClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.statusPath, nil)
	if err != nil {
		return &Error{Op: opHealthCheck, Kind: KindRequest, Err: fmt.Errorf("build request: %w", err)}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrap(opHealthCheck, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &Error{Op: opHealthCheck, Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	return nil
}

// ModelInfo returns the backend identity this client targets.
func (c *OllamaClient) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:       c.model,
		Provider: "ollama",
		BaseURL:  c.baseURL,
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends a POST request to baseURL+path and returns the response body.
// Caller is responsible for closing the returned ReadCloser.
func (c *OllamaClient) doPost(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: opGenerate, Kind: KindRequest, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrap(opGenerate, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, &Error{Op: opGenerate, Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
