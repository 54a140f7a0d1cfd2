package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/age-of-tension/internal/services"
)

// Pinger is anything whose reachability can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Server     string            `json:"server"`
	Ollama     string            `json:"ollama"`
	Model      string            `json:"model"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	storage    Pinger
	llmService services.LLMService
	logger     *slog.Logger
}

func NewHealthHandler(storage Pinger, llmService services.LLMService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:    storage,
		llmService: llmService,
		logger:     logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("Storage health check failed", "error", err)
		components["storage"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["storage"] = "healthy"
	}

	ollama := "connected"
	if err := h.llmService.Ping(ctx); err != nil {
		h.logger.Warn("LLM health check failed", "error", err)
		if errors.Is(err, services.ErrLLMStatus) {
			ollama = "error"
		} else {
			ollama = "disconnected"
		}
		components["llm"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["llm"] = "healthy"
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, h.logger, statusCode, HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "age-of-tension",
		Server:     "running",
		Ollama:     ollama,
		Model:      h.llmService.DefaultModel(),
		Components: components,
	})
}
