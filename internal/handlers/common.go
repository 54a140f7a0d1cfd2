package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/age-of-tension/internal/services"
	"github.com/jwebster45206/age-of-tension/pkg/chat"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err, "status", status)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, chat.ErrorResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, logger *slog.Logger, allowed string) {
	logger.Warn("Method not allowed",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)
	w.Header().Set("Allow", allowed)
	writeError(w, logger, http.StatusMethodNotAllowed, "Method not allowed. Only "+allowed+" is supported.")
}

// llmErrorStatus maps LLM failures to the status reported to the client.
func llmErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrLLMUnavailable):
		return http.StatusServiceUnavailable, "Cannot connect to Ollama. Make sure Ollama is running (ollama serve)"
	case errors.Is(err, services.ErrLLMTimeout):
		return http.StatusGatewayTimeout, "Ollama request timed out. The model might be processing."
	case errors.Is(err, services.ErrLLMEmptyResponse):
		return http.StatusInternalServerError, "Empty response from Ollama"
	default:
		return http.StatusInternalServerError, "Ollama API error: " + err.Error()
	}
}
