// Package llm is the HTTP client for the local Ollama generation backend.
// All types here are shared between the client and its consumers.
package llm

// GenerateRequest is the input for a single non-streaming generate call.
type GenerateRequest struct {
	// Model overrides the client default when non-empty.
	Model       string
	Prompt      string
	Temperature float64
}

// GenerateResponse is the decoded body of a successful generate call.
type GenerateResponse struct {
	// Text is the generated completion. Empty when HasText is false.
	Text string
	// HasText reports whether the backend body carried a "response" field at all.
	HasText bool
	Model   string
	Done    bool
}

// ModelMeta describes the backend identity targeted by a client.
type ModelMeta struct {
	ID       string // e.g. "llama3.2:3b"
	Provider string // "ollama"
	BaseURL  string
}
