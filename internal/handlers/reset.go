package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/age-of-tension/pkg/state"
)

// ResetResponse confirms a reset.
type ResetResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ResetHandler starts a new game with freshly rolled forces.
type ResetHandler struct {
	store  *state.WorldStore
	logger *slog.Logger
}

// NewResetHandler creates a new reset handler
func NewResetHandler(store *state.WorldStore, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{store: store, logger: logger}
}

// ServeHTTP handles POST /api/reset
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger, http.MethodPost)
		return
	}
	if _, err := h.store.Reset(r.Context()); err != nil {
		h.logger.Error("Failed to reset game", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to reset game: "+err.Error())
		return
	}
	h.logger.Info("Game state reset to defaults")
	writeJSON(w, h.logger, http.StatusOK, ResetResponse{Status: "success", Message: "Game reset successfully"})
}
