package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOllamaService_Chat(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		got = req
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "  {\"narrative\": \"ok\"}\n"}}`))
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL+"/", "default-model", time.Second, testLogger())
	content, err := svc.Chat(context.Background(),
		[]chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}},
		ChatOptions{JSONFormat: true, NumCtx: DefaultNumCtx})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if content != `{"narrative": "ok"}` {
		t.Errorf("Unexpected content %q", content)
	}
	if got.Model != "default-model" {
		t.Errorf("Expected default model, got %q", got.Model)
	}
	if got.Stream {
		t.Error("Expected stream=false")
	}
	if got.Format != "json" {
		t.Errorf("Expected json format, got %q", got.Format)
	}
	if n, ok := got.Options["num_ctx"].(float64); !ok || int(n) != DefaultNumCtx {
		t.Errorf("Expected num_ctx %d, got %v", DefaultNumCtx, got.Options["num_ctx"])
	}

	if _, err := svc.Chat(context.Background(), nil, ChatOptions{Model: "other"}); err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got.Model != "other" {
		t.Errorf("Expected model override, got %q", got.Model)
	}
	if got.Format != "" || got.Options != nil {
		t.Errorf("Expected no format or options, got %q %v", got.Format, got.Options)
	}
}

func TestOllamaService_ChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: ErrLLMStatus,
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"message": {"content": "   "}}`))
			},
			want: ErrLLMEmptyResponse,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			want: ErrLLMTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewOllamaService(server.URL, "m", 100*time.Millisecond, testLogger())
			_, err := svc.Chat(context.Background(), nil, ChatOptions{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOllamaService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := NewOllamaService(url, "m", time.Second, testLogger())
	if _, err := svc.Chat(context.Background(), nil, ChatOptions{}); !errors.Is(err, ErrLLMUnavailable) {
		t.Errorf("Expected ErrLLMUnavailable, got %v", err)
	}
	if err := svc.Ping(context.Background()); !errors.Is(err, ErrLLMUnavailable) {
		t.Errorf("Expected ErrLLMUnavailable from Ping, got %v", err)
	}
}

func TestOllamaService_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.1:8b"}, {"name": "mistral:latest"}]}`))
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "m", time.Second, testLogger())
	models, err := svc.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels returned error: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.1:8b" || models[1] != "mistral:latest" {
		t.Errorf("Unexpected models %v", models)
	}
	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("Ping returned error: %v", err)
	}
}

func TestOllamaService_InitModel(t *testing.T) {
	var pulls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models": [{"name": "present"}]}`))
		case "/api/pull":
			pulls.Add(1)
			_, _ = w.Write([]byte(`{"status": "success"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "present", time.Second, testLogger())
	if err := svc.InitModel(context.Background(), "present"); err != nil {
		t.Fatalf("InitModel returned error: %v", err)
	}
	if pulls.Load() != 0 {
		t.Errorf("Expected no pull for a present model, got %d", pulls.Load())
	}
	if err := svc.InitModel(context.Background(), "missing"); err != nil {
		t.Fatalf("InitModel returned error: %v", err)
	}
	if pulls.Load() != 1 {
		t.Errorf("Expected one pull, got %d", pulls.Load())
	}
}

func TestOllamaService_InitModelNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "m", time.Second, testLogger())
	svc.retryDelay = time.Millisecond
	if err := svc.InitModel(context.Background(), "m"); err == nil {
		t.Error("Expected error when Ollama never becomes ready")
	}
}
