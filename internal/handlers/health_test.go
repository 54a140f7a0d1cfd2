package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/age-of-tension/internal/services"
	"github.com/jwebster45206/age-of-tension/pkg/storage"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name        string
		storageErr  error
		llmErr      error
		wantCode    int
		wantStatus  string
		wantOllama  string
		wantStorage string
	}{
		{"healthy", nil, nil, http.StatusOK, "healthy", "connected", "healthy"},
		{"storage down", errors.New("no redis"), nil, http.StatusServiceUnavailable, "degraded", "connected", "unhealthy"},
		{"ollama down", nil, services.ErrLLMUnavailable, http.StatusServiceUnavailable, "degraded", "disconnected", "healthy"},
		{"ollama error", nil, fmt.Errorf("%w: status 500", services.ErrLLMStatus), http.StatusServiceUnavailable, "degraded", "error", "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMockStorage()
			st.SetPingError(tt.storageErr)
			llm := services.NewMockLLMAPI()
			llm.PingFunc = func(ctx context.Context) error { return tt.llmErr }

			rec := httptest.NewRecorder()
			NewHealthHandler(st, llm, testLogger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("Expected status code %d, got %d", tt.wantCode, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", ct)
			}

			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Expected status %q, got %q", tt.wantStatus, resp.Status)
			}
			if resp.Ollama != tt.wantOllama {
				t.Errorf("Expected ollama %q, got %q", tt.wantOllama, resp.Ollama)
			}
			if resp.Components["storage"] != tt.wantStorage {
				t.Errorf("Expected storage %q, got %q", tt.wantStorage, resp.Components["storage"])
			}
			if resp.Server != "running" || resp.Model != "mock-model" {
				t.Errorf("Unexpected server/model fields: %+v", resp)
			}
		})
	}
}
