package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
)

var _ LLMService = (*MockLLMAPI)(nil)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	InitModelFunc  func(ctx context.Context, modelName string) error
	ChatFunc       func(ctx context.Context, messages []chat.ChatMessage, opts ChatOptions) (string, error)
	ListModelsFunc func(ctx context.Context) ([]string, error)
	PingFunc       func(ctx context.Context) error

	// Responses are returned in order by Chat when ChatFunc is nil.
	// The last one repeats once the list is exhausted.
	Responses []string

	// Track calls for testing
	InitModelCalls  []string
	ChatCalls       []ChatCall
	ListModelsCalls int
	PingCalls       int

	mu sync.Mutex // protects all fields above
}

// ChatCall records one Chat invocation.
type ChatCall struct {
	Messages []chat.ChatMessage
	Options  ChatOptions
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI(responses ...string) *MockLLMAPI {
	return &MockLLMAPI{
		Responses:      responses,
		InitModelCalls: make([]string, 0),
		ChatCalls:      make([]ChatCall, 0),
	}
}

// DefaultModel returns a fixed mock model name.
func (m *MockLLMAPI) DefaultModel() string {
	return "mock-model"
}

// InitModel mocks model initialization
func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Chat mocks a chat completion
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage, opts ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.ChatCalls)
	m.ChatCalls = append(m.ChatCalls, ChatCall{Messages: messages, Options: opts})

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages, opts)
	}
	if len(m.Responses) == 0 {
		return `{"narrative": "Mock response"}`, nil
	}
	if call >= len(m.Responses) {
		call = len(m.Responses) - 1
	}
	return m.Responses[call], nil
}

// ListModels mocks /api/tags
func (m *MockLLMAPI) ListModels(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListModelsCalls++
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return []string{"mock-model"}, nil
}

// Ping mocks a reachability check
func (m *MockLLMAPI) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PingCalls++
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Calls returns a copy of the recorded Chat calls.
func (m *MockLLMAPI) Calls() []ChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatCall, len(m.ChatCalls))
	copy(out, m.ChatCalls)
	return out
}
