package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/age-of-tension/internal/services"
)

// ModelsResponse lists the models the inference server has pulled.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// ModelsHandler lists available models.
type ModelsHandler struct {
	llmService services.LLMService
	logger     *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(llmService services.LLMService, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{llmService: llmService, logger: logger}
}

// ServeHTTP handles GET /api/models
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger, http.MethodGet)
		return
	}
	models, err := h.llmService.ListModels(r.Context())
	if err != nil {
		status, msg := llmErrorStatus(err)
		h.logger.Warn("Failed to list models", "error", err)
		writeError(w, h.logger, status, "Failed to fetch models: "+msg)
		return
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, ModelsResponse{Models: models})
}
