package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// StateResponse lets a reconnecting client resync.
type StateResponse struct {
	State             *state.WorldState     `json:"state"`
	MilitaryByFaction []state.FactionForces `json:"military_by_faction"`
	IntelStrength     int                   `json:"intel_strength"`
}

// StateHandler serves the current world.
type StateHandler struct {
	store  *state.WorldStore
	logger *slog.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(store *state.WorldStore, logger *slog.Logger) *StateHandler {
	return &StateHandler{store: store, logger: logger}
}

// ServeHTTP handles GET /api/state?faction=
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger, http.MethodGet)
		return
	}
	faction := state.NormalizeFaction(r.URL.Query().Get("faction"))
	if faction == "" {
		faction = world.FactionUSA
	}

	ctx := r.Context()
	ws := h.store.Snapshot(ctx)
	writeJSON(w, h.logger, http.StatusOK, StateResponse{
		State:             ws,
		MilitaryByFaction: h.store.MilitaryByFaction(ctx),
		IntelStrength:     state.IntelStrength(ws, faction),
	})
}

// AuditReader lists recorded territory changes, newest first.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]state.AuditEntry, error)
}

// DefaultAuditLimit is used when the request names no limit.
const DefaultAuditLimit = 50

// AuditResponse wraps the recorded territory changes.
type AuditResponse struct {
	Changes []state.AuditEntry `json:"changes"`
}

// AuditHandler serves the territory change log.
type AuditHandler struct {
	audit  AuditReader
	logger *slog.Logger
}

// NewAuditHandler creates a new audit handler. audit may be nil when the
// log is disabled.
func NewAuditHandler(audit AuditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

// ServeHTTP handles GET /api/audit?limit=
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger, http.MethodGet)
		return
	}
	if h.audit == nil {
		writeError(w, h.logger, http.StatusNotFound, "Audit log is not enabled")
		return
	}

	limit := DefaultAuditLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, h.logger, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read audit log", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read audit log")
		return
	}
	if entries == nil {
		entries = []state.AuditEntry{}
	}
	writeJSON(w, h.logger, http.StatusOK, AuditResponse{Changes: entries})
}
