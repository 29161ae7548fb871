package llm

import "context"

// Generator produces text for a prompt in a single round-trip.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// HealthChecker reports whether the backend is reachable.
// A nil error means the liveness endpoint answered with a success status.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Backend is everything the summary service needs from a generation backend.
type Backend interface {
	Generator
	HealthChecker
	ModelInfo() ModelMeta
}
