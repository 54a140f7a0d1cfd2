package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/age-of-tension/internal/services"
	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/prompts"
	"github.com/jwebster45206/age-of-tension/pkg/state"
)

// BriefingHandler produces the opening narrative for a newly chosen faction.
// It never mutates the world.
type BriefingHandler struct {
	llmService services.LLMService
	store      *state.WorldStore
	logger     *slog.Logger
}

// NewBriefingHandler creates a new briefing handler
func NewBriefingHandler(llmService services.LLMService, store *state.WorldStore, logger *slog.Logger) *BriefingHandler {
	return &BriefingHandler{
		llmService: llmService,
		store:      store,
		logger:     logger,
	}
}

// ServeHTTP handles POST /api/briefing
func (h *BriefingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger, http.MethodPost)
		return
	}

	var req chat.BriefingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'faction' field.")
		return
	}
	_ = req.Validate()

	ctx := r.Context()
	h.logger.Info("Generating briefing", "faction", req.Faction, "faction_name", req.FactionName)

	messages := prompts.BriefingMessages(req.FactionName)
	opts := services.ChatOptions{Model: req.Model, JSONFormat: true}
	content, err := h.llmService.Chat(ctx, messages, opts)
	if err != nil {
		status, msg := llmErrorStatus(err)
		h.logger.Error("Briefing request failed", "error", err, "status", status)
		writeError(w, h.logger, status, "Failed to generate briefing: "+msg)
		return
	}

	ws := h.store.Snapshot(ctx)
	intel := state.IntelStrength(ws, req.Faction)
	resp := chat.TurnResponse{
		Stats:              chat.NewFinalStats(ws, intel),
		CurrentTerritories: ws.Ownership,
		MilitaryData:       ws.Military,
		IntelStrength:      intel,
	}

	root, ok := parseReply(content)
	if !ok {
		h.logger.Warn("Briefing reply is not a JSON object, using fallback")
		resp.Narrative = prompts.BriefingFallback(req.FactionName)
		resp.Relationships = state.DefaultRelationships()
		writeJSON(w, h.logger, http.StatusOK, resp)
		return
	}

	narrative, found := narrativeOf(root)
	if found && isTruncated(narrative) {
		h.logger.Warn("Detected truncated briefing, requesting continuation")
		messages = append(messages,
			chat.ChatMessage{Role: chat.ChatRoleAssistant, Content: content},
			chat.ChatMessage{Role: chat.ChatRoleUser, Content: prompts.BriefingContinuationPrompt},
		)
		if more, err := h.llmService.Chat(ctx, messages, opts); err != nil {
			h.logger.Warn("Briefing continuation failed", "error", err)
		} else if cont, ok := parseReply(more); ok && cont.Get("narrative").Exists() {
			narrative = spliceContinuation(narrative, cont.Get("narrative").String())
		} else {
			h.logger.Warn("Briefing continuation failed to parse")
		}
	}
	if !found || narrative == "" {
		narrative = prompts.BriefingFallback(req.FactionName)
	}

	resp.Narrative = narrative
	resp.Relationships = relationshipsOf(root)
	writeJSON(w, h.logger, http.StatusOK, resp)
}
