package chat

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

const (
	ChatRoleUser      = "user"      // Player
	ChatRoleAssistant = "assistant" // Game master
	ChatRoleSystem    = "system"    // Instructions
)

// ChatMessage represents a single chat message in the conversation.
// The shape is defined by Ollama's chat API.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// HistoryEntry is one line of the client's terminal transcript.
type HistoryEntry struct {
	Type string `json:"type"` // "user" or anything else for game master output
	Text string `json:"text"`
}

// ToMessages converts the last limit history entries into chat messages.
// Entries with no text are skipped.
func ToMessages(history []HistoryEntry, limit int) []ChatMessage {
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	msgs := make([]ChatMessage, 0, len(history))
	for _, h := range history {
		if h.Text == "" {
			continue
		}
		role := ChatRoleAssistant
		if h.Type == ChatRoleUser {
			role = ChatRoleUser
		}
		msgs = append(msgs, ChatMessage{Role: role, Content: h.Text})
	}
	return msgs
}

// TurnRequest is a player's move.
type TurnRequest struct {
	Input   string          `json:"input"`
	History []HistoryEntry  `json:"history"`
	Model   string          `json:"model,omitempty"`
	Faction world.FactionID `json:"faction,omitempty"`
}

// Validate checks the request and fills in the default faction
func (tr *TurnRequest) Validate() error {
	if strings.TrimSpace(tr.Input) == "" {
		return fmt.Errorf("input cannot be empty")
	}
	tr.Faction = state.NormalizeFaction(string(tr.Faction))
	if tr.Faction == "" {
		tr.Faction = world.FactionUSA
	}
	return nil
}

// BriefingRequest asks for the opening narrative for a faction.
type BriefingRequest struct {
	Faction     world.FactionID `json:"faction"`
	FactionName string          `json:"factionName"`
	Model       string          `json:"model,omitempty"`
}

// Validate fills in defaults for the faction and its display name
func (br *BriefingRequest) Validate() error {
	br.Faction = state.NormalizeFaction(string(br.Faction))
	if br.Faction == "" {
		br.Faction = world.FactionUSA
	}
	if strings.TrimSpace(br.FactionName) == "" {
		br.FactionName = world.FactionDisplayName(br.Faction)
	}
	return nil
}

// Event types
const (
	EventPlayerResponse = "player_response"
	EventRandom         = "random_event"
	EventNone           = "none"
)

// Event is the game master's event block. Impact is informational; state
// changes travel through resource_updates.
type Event struct {
	Type        string         `json:"type"`
	Triggered   bool           `json:"triggered"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Impact      map[string]int `json:"impact,omitempty"`
}

// DefaultEvent is used when the game master sends none.
func DefaultEvent() Event {
	return Event{Type: EventPlayerResponse, Triggered: false}
}

// FinalStats is the flattened absolute view of the counters that clients
// display after each turn.
type FinalStats struct {
	Defcon    int `json:"defcon"`
	Year      int `json:"year"`
	Budget    int `json:"budget"`
	Oil       int `json:"oil"`
	Tech      int `json:"tech"`
	Influence int `json:"influence"`
	TurnCount int `json:"turn_count"`
	Intel     int `json:"intel"`
}

// Display defaults for counters a world has not set yet.
const (
	DisplayOil  = 100
	DisplayTech = 50
)

// NewFinalStats flattens ws for display.
func NewFinalStats(ws *state.WorldState, intel int) FinalStats {
	fs := FinalStats{
		Defcon:    ws.Defcon,
		Year:      ws.Year,
		Budget:    ws.Resources,
		Oil:       DisplayOil,
		Tech:      DisplayTech,
		Influence: ws.Influence,
		TurnCount: ws.TurnCount,
		Intel:     intel,
	}
	if v, ok := ws.Counter(state.CounterOil); ok {
		fs.Oil = v
	}
	if v, ok := ws.Counter(state.CounterTech); ok {
		fs.Tech = v
	}
	return fs
}

// DefaultFinalStats is reported when a reply could not be parsed.
func DefaultFinalStats(intel int) FinalStats {
	return FinalStats{
		Defcon:    state.DefaultDefcon,
		Year:      state.DefaultYear,
		Budget:    state.DefaultResources,
		Oil:       DisplayOil,
		Tech:      DisplayTech,
		Influence: state.DefaultInfluence,
		Intel:     intel,
	}
}

// TurnResponse is returned for both turns and briefings.
type TurnResponse struct {
	Narrative          string                                    `json:"narrative"`
	Reasoning          string                                    `json:"reasoning,omitempty"`
	Event              *Event                                    `json:"event,omitempty"`
	Relationships      map[world.FactionID]state.Relationship    `json:"relationships"`
	Stats              FinalStats                                `json:"stats"`
	CurrentTerritories map[world.CountryCode]world.FactionID     `json:"current_territories,omitempty"`
	MilitaryData       map[world.CountryCode]world.MilitaryForce `json:"military_data,omitempty"`
	IntelStrength      int                                       `json:"intel_strength"`
	Rejections         []state.Rejection                         `json:"rejections,omitempty"`
}

// ErrorResponse is the body of every non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
