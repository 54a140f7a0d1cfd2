package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// DefaultHistoryLimit is how many transcript lines are replayed to the model.
const DefaultHistoryLimit = 10

var upper = cases.Upper(language.Und)

// Builder constructs chat messages for a game master turn using a fluent interface.
type Builder struct {
	ws              *state.WorldState
	registry        *world.Registry
	faction         world.FactionID
	militarySummary string
	intelStrength   int
	history         []chat.HistoryEntry
	historyLimit    int
	userMessage     string
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		faction:       world.FactionUSA,
		intelStrength: state.DefaultIntelStrength,
		historyLimit:  DefaultHistoryLimit,
	}
}

// WithWorld sets the world snapshot the prompt describes.
func (b *Builder) WithWorld(ws *state.WorldState) *Builder {
	b.ws = ws
	return b
}

// WithRegistry sets the registry used for country names.
func (b *Builder) WithRegistry(reg *world.Registry) *Builder {
	b.registry = reg
	return b
}

// WithFaction sets the player's faction.
func (b *Builder) WithFaction(f world.FactionID) *Builder {
	if f != "" {
		b.faction = f
	}
	return b
}

// WithMilitarySummary sets the pre-rendered forces-by-faction block.
func (b *Builder) WithMilitarySummary(summary string) *Builder {
	b.militarySummary = summary
	return b
}

// WithIntelStrength sets the player's intelligence network strength.
func (b *Builder) WithIntelStrength(strength int) *Builder {
	b.intelStrength = strength
	return b
}

// WithHistory sets the client transcript.
func (b *Builder) WithHistory(history []chat.HistoryEntry) *Builder {
	b.history = history
	return b
}

// WithHistoryLimit sets the transcript window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// WithUserMessage sets the player's input for this turn.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// Build constructs the final message array for the model.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.ws == nil {
		return nil, fmt.Errorf("world state is required")
	}
	if strings.TrimSpace(b.userMessage) == "" {
		return nil, fmt.Errorf("user message is required")
	}
	reg := b.registry
	if reg == nil {
		reg = world.DefaultRegistry()
	}

	system := GameMasterSystemPrompt + "\n\n" +
		WorldStatePrompt(b.ws, reg, b.faction, b.militarySummary, b.intelStrength)

	history := chat.ToMessages(b.history, b.historyLimit)
	messages := make([]chat.ChatMessage, 0, len(history)+2)
	messages = append(messages, chat.ChatMessage{Role: chat.ChatRoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, chat.ChatMessage{Role: chat.ChatRoleUser, Content: b.userMessage})
	return messages, nil
}

// WorldStatePrompt renders the live world for the system prompt: current
// alignment of every country, the player's counters, relationships, forces
// and the intelligence rules.
func WorldStatePrompt(ws *state.WorldState, reg *world.Registry, faction world.FactionID, militarySummary string, intel int) string {
	var sb strings.Builder

	sb.WriteString("CURRENT WORLD GEOPOLITICAL STATE (Country Name [Code]: Faction):\n")
	for _, code := range reg.KnownCodes() {
		owner, ok := ws.Ownership[code]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "- %s [%s]: %s\n", reg.LookupDisplayName(code), code, owner)
	}

	oil, ok := ws.Counter(state.CounterOil)
	if !ok {
		oil = chat.DisplayOil
	}
	tech, ok := ws.Counter(state.CounterTech)
	if !ok {
		tech = chat.DisplayTech
	}

	sb.WriteString("\nCURRENT GAME STATE:\n")
	fmt.Fprintf(&sb, "- Player Faction: [%s] %s\n", upper.String(string(faction)), world.FactionDisplayName(faction))
	fmt.Fprintf(&sb, "- Year: %d\n", ws.Year)
	fmt.Fprintf(&sb, "- DEFCON: %d\n", ws.Defcon)
	fmt.Fprintf(&sb, "- Budget: $%s\n", humanize.Comma(int64(ws.Resources)))
	fmt.Fprintf(&sb, "- Oil: %s bbl\n", humanize.Comma(int64(oil)))
	fmt.Fprintf(&sb, "- Tech: %s pts\n", humanize.Comma(int64(tech)))
	fmt.Fprintf(&sb, "- Global Influence: %d%%\n", ws.Influence)
	fmt.Fprintf(&sb, "- Intelligence Network Strength: %d/100\n", intel)

	if rel, err := json.MarshalIndent(ws.Relationships, "", "  "); err == nil {
		sb.WriteString("\nRELATIONSHIPS:\n")
		sb.Write(rel)
		sb.WriteString("\n")
	}

	if militarySummary != "" {
		sb.WriteString("\nMILITARY FORCES DATA:\n")
		sb.WriteString(militarySummary)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(IntelRules(intel))
	return sb.String()
}

// BriefingMessages builds the opening briefing request for a faction.
func BriefingMessages(factionName string) []chat.ChatMessage {
	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: BriefingPrompt(factionName)},
		{Role: chat.ChatRoleUser, Content: BriefingUserMessage},
	}
}
