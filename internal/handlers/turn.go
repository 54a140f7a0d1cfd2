package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/jwebster45206/age-of-tension/internal/services"
	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/prompts"
	"github.com/jwebster45206/age-of-tension/pkg/state"
)

// TurnHandler runs one player move through the game master and applies
// the reply to the world.
type TurnHandler struct {
	llmService       services.LLMService
	store            *state.WorldStore
	logger           *slog.Logger
	historyLimit     int
	maxContinuations int
	numCtx           int
}

// NewTurnHandler creates a new turn handler
func NewTurnHandler(llmService services.LLMService, store *state.WorldStore, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		llmService:       llmService,
		store:            store,
		logger:           logger,
		historyLimit:     prompts.DefaultHistoryLimit,
		maxContinuations: 2,
		numCtx:           services.DefaultNumCtx,
	}
}

// WithHistoryLimit sets how many transcript lines are forwarded.
// Returns the handler for method chaining.
func (h *TurnHandler) WithHistoryLimit(n int) *TurnHandler {
	h.historyLimit = n
	return h
}

// WithMaxContinuations caps follow-up requests for truncated narratives.
// Returns the handler for method chaining.
func (h *TurnHandler) WithMaxContinuations(n int) *TurnHandler {
	h.maxContinuations = n
	return h
}

// WithNumCtx sets the model context window.
// Returns the handler for method chaining.
func (h *TurnHandler) WithNumCtx(n int) *TurnHandler {
	h.numCtx = n
	return h
}

// ServeHTTP handles POST /api/turn
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger, http.MethodPost)
		return
	}

	var req chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'input' field.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	intel := h.store.IntelStrength(ctx, req.Faction)
	summary := h.store.MilitarySummary(ctx)

	messages, err := prompts.New().
		WithWorld(h.store.Snapshot(ctx)).
		WithRegistry(h.store.Registry()).
		WithFaction(req.Faction).
		WithMilitarySummary(summary).
		WithIntelStrength(intel).
		WithHistory(req.History).
		WithHistoryLimit(h.historyLimit).
		WithUserMessage(req.Input).
		Build()
	if err != nil {
		h.logger.Error("Failed to build prompt", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build prompt")
		return
	}

	h.logger.Info("Processing turn",
		"faction", req.Faction,
		"input_len", len(req.Input),
		"history", len(req.History),
		"intel", intel)

	opts := services.ChatOptions{Model: req.Model, JSONFormat: true, NumCtx: h.numCtx}
	content, err := h.llmService.Chat(ctx, messages, opts)
	if err != nil {
		status, msg := llmErrorStatus(err)
		h.logger.Error("Game master request failed", "error", err, "status", status)
		writeError(w, h.logger, status, msg)
		return
	}

	root, ok := parseReply(content)
	if !ok {
		h.logger.Warn("Game master reply is not a JSON object, returning it as narrative",
			"reply_len", len(content))
		event := chat.DefaultEvent()
		writeJSON(w, h.logger, http.StatusOK, chat.TurnResponse{
			Narrative:     content,
			Event:         &event,
			Relationships: state.DefaultRelationships(),
			Stats:         chat.DefaultFinalStats(intel),
			IntelStrength: intel,
		})
		return
	}

	narrative, found := narrativeOf(root)
	if found {
		narrative = h.continueNarrative(ctx, messages, opts, root, narrative)
	}
	if table, ok := forcesTable(root); ok {
		h.logger.Warn("Found structured military data, converting to table")
		narrative, found = table, true
	}
	if !found {
		h.logger.Warn("Game master reply has no narrative, returning raw reply")
		narrative = content
	}

	delta, rejections := state.ReconcileDelta(root)
	result, err := h.store.ApplyTurn(ctx, delta)
	if err != nil {
		h.logger.Error("Failed to persist world state", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save world state")
		return
	}
	rejections = append(rejections, result.Rejections...)

	ws := h.store.Snapshot(ctx)
	intelAfter := state.IntelStrength(ws, req.Faction)
	event := eventOf(root, req.Input)
	if event.Type == chat.EventPlayerResponse && root.Get("event.type").String() == chat.EventRandom {
		h.logger.Warn("Correcting event type, player asked a question")
	}

	writeJSON(w, h.logger, http.StatusOK, chat.TurnResponse{
		Narrative:          narrative,
		Reasoning:          root.Get("reasoning").String(),
		Event:              &event,
		Relationships:      relationshipsOf(root),
		Stats:              chat.NewFinalStats(ws, intelAfter),
		CurrentTerritories: ws.Ownership,
		MilitaryData:       ws.Military,
		IntelStrength:      intelAfter,
		Rejections:         rejections,
	})
}

// continueNarrative asks for the rest of a narrative that ends in "...".
// Any failure keeps what has been collected so far.
func (h *TurnHandler) continueNarrative(ctx context.Context, messages []chat.ChatMessage, opts services.ChatOptions, root gjson.Result, narrative string) string {
	msgs := slices.Clone(messages)
	for attempt := 1; attempt <= h.maxContinuations && isTruncated(narrative); attempt++ {
		h.logger.Warn("Detected truncated narrative, requesting continuation",
			"attempt", attempt, "max", h.maxContinuations)

		msgs = append(msgs,
			chat.ChatMessage{Role: chat.ChatRoleAssistant, Content: encodeReply(root, narrative)},
			chat.ChatMessage{Role: chat.ChatRoleUser, Content: prompts.ContinuationPrompt},
		)
		content, err := h.llmService.Chat(ctx, msgs, opts)
		if err != nil {
			h.logger.Warn("Continuation request failed", "error", err)
			break
		}
		cont, ok := parseReply(content)
		if !ok {
			h.logger.Warn("Continuation is not a JSON object")
			break
		}
		next := cont.Get("narrative")
		if !next.Exists() {
			h.logger.Warn("Continuation missing narrative field")
			break
		}
		narrative = spliceContinuation(narrative, next.String())
	}
	if isTruncated(narrative) && h.maxContinuations > 0 {
		h.logger.Warn("Narrative still truncated after continuations")
	}
	return narrative
}
