package services

import (
	"context"
	"errors"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
)

var (
	// ErrLLMUnavailable means the model server could not be reached.
	ErrLLMUnavailable = errors.New("llm service unavailable")
	// ErrLLMTimeout means the model server did not answer in time.
	ErrLLMTimeout = errors.New("llm request timed out")
	// ErrLLMStatus means the model server answered with a non-200 status.
	ErrLLMStatus = errors.New("llm request failed")
	// ErrLLMEmptyResponse means the reply carried no content.
	ErrLLMEmptyResponse = errors.New("llm returned an empty response")
)

// ChatOptions tunes a single chat call.
type ChatOptions struct {
	Model      string // overrides the service default when set
	JSONFormat bool   // ask the model for a JSON object
	NumCtx     int    // context window, 0 leaves the server default
}

// LLMService defines the interface for interacting with the LLM API
type LLMService interface {
	// InitModel makes sure the model is available, pulling it if needed
	InitModel(ctx context.Context, modelName string) error

	// Chat sends messages and returns the assistant's reply text
	Chat(ctx context.Context, messages []chat.ChatMessage, opts ChatOptions) (string, error)

	// ListModels returns the names of the locally available models
	ListModels(ctx context.Context) ([]string, error)

	// Ping reports whether the model server is reachable
	Ping(ctx context.Context) error

	// DefaultModel is the model used when a request names none
	DefaultModel() string
}
