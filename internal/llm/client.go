package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("model returned no content")

// Request is a single structured-output generation request.
type Request struct {
	// SystemInstruction fixes the assistant's role for the call.
	SystemInstruction string
	// Prompt is the user turn.
	Prompt string
	// Schema declares the JSON shape the reply must have.
	Schema jsonschema.Definition
	// SchemaName labels the schema for providers that require a name.
	SchemaName string
}

// Client generates a JSON text reply for a Request.  Implementations make
// exactly one upstream call per Generate and do not retry.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Options configures a provider.  Empty fields fall back to provider
// defaults.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	HTTPClient  *http.Client
}

// New constructs the Client for the named provider ("gemini" or "openai").
func New(provider string, opts Options) (Client, error) {
	switch provider {
	case "gemini":
		return NewGemini(opts), nil
	case "openai":
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
