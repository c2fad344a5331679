package adapter

import "context"

// Adapter defines the interface for LLM provider backends.
type Adapter interface {
	// Generate sends a prompt to the model and returns the response.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Response wraps one completed generation.
type Response struct {
	Content string
	Adapter string
	Model   string
	Usage   *Usage
}
