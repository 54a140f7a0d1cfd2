package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"math/rand/v2"
	"strings"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// Global counter names as they appear in the save file.
const (
	CounterTurnCount = "turn_count"
	CounterYear      = "year"
	CounterDefcon    = "defcon"
	CounterResources = "resources"
	CounterInfluence = "influence"
	CounterOil       = "oil"
	CounterTech      = "tech"

	// CounterBudget is the player-facing name for resources.
	CounterBudget = "budget"
)

const (
	DefaultYear          = 2027
	DefaultDefcon        = 5
	DefaultResources     = 1000
	DefaultInfluence     = 50
	DefaultIntelStrength = 50
)

var defaultIntel = map[world.FactionID]int{
	world.FactionUSA:     90,
	world.FactionChina:   85,
	world.FactionRussia:  80,
	world.FactionEU:      75,
	world.FactionIndia:   60,
	world.FactionRogue:   40,
	world.FactionNeutral: 20,
}

// Relationship is the player's standing with a major bloc. The values are
// whatever the game master last reported; nothing here clamps them.
type Relationship struct {
	Sentiment int    `json:"sentiment"`
	Status    string `json:"status"`
}

// WorldState is the single ongoing game: who owns what, who has which
// forces, and the global counters.
type WorldState struct {
	Military      map[world.CountryCode]world.MilitaryForce `json:"military"`
	Ownership     map[world.CountryCode]world.FactionID     `json:"ownership"`
	IntelNetwork  map[world.FactionID]int                   `json:"intel_network"`
	TurnCount     int                                       `json:"turn_count"`
	Year          int                                       `json:"year"`
	Defcon        int                                       `json:"defcon"`
	Resources     int                                       `json:"resources"`
	Influence     int                                       `json:"influence"`
	Oil           *int                                      `json:"oil,omitempty"`  // absent until first touched
	Tech          *int                                      `json:"tech,omitempty"` // absent until first touched
	Relationships map[world.FactionID]Relationship          `json:"relationships"`

	// Extra keeps top-level keys this version does not model so they
	// survive a load/persist round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

var modeledKeys = map[string]struct{}{
	"military": {}, "ownership": {}, "intel_network": {}, "turn_count": {},
	"year": {}, "defcon": {}, "resources": {}, "influence": {},
	"oil": {}, "tech": {}, "relationships": {},
}

// NewWorldState synthesizes a fresh game from the registry with newly
// rolled forces.
func NewWorldState(reg *world.Registry, src *rand.Rand) *WorldState {
	return &WorldState{
		Military:      world.GenerateInitialMilitary(reg, src),
		Ownership:     reg.InitialOwnership(),
		IntelNetwork:  maps.Clone(defaultIntel),
		TurnCount:     0,
		Year:          DefaultYear,
		Defcon:        DefaultDefcon,
		Resources:     DefaultResources,
		Influence:     DefaultInfluence,
		Relationships: DefaultRelationships(),
	}
}

// DefaultRelationships returns a neutral standing with every major bloc.
func DefaultRelationships() map[world.FactionID]Relationship {
	rel := make(map[world.FactionID]Relationship, len(world.MajorFactions))
	for _, f := range world.MajorFactions {
		rel[f] = Relationship{Sentiment: 0, Status: "neutral"}
	}
	return rel
}

// Counter reads a global counter by its save-file name. Optional counters
// (oil, tech) report false until something has set them.
func (ws *WorldState) Counter(name string) (int, bool) {
	p, ok := ws.counter(name, false)
	if !ok {
		return 0, false
	}
	return *p, true
}

// counter resolves a counter name to its field. With create set, absent
// optional counters are allocated at zero.
func (ws *WorldState) counter(name string, create bool) (*int, bool) {
	switch name {
	case CounterTurnCount:
		return &ws.TurnCount, true
	case CounterYear:
		return &ws.Year, true
	case CounterDefcon:
		return &ws.Defcon, true
	case CounterResources, CounterBudget:
		return &ws.Resources, true
	case CounterInfluence:
		return &ws.Influence, true
	case CounterOil:
		if ws.Oil == nil && create {
			ws.Oil = new(int)
		}
		return ws.Oil, ws.Oil != nil
	case CounterTech:
		if ws.Tech == nil && create {
			ws.Tech = new(int)
		}
		return ws.Tech, ws.Tech != nil
	}
	return nil, false
}

// Clone returns a deep copy.
func (ws *WorldState) Clone() *WorldState {
	if ws == nil {
		return nil
	}
	c := *ws
	c.Military = maps.Clone(ws.Military)
	c.Ownership = maps.Clone(ws.Ownership)
	c.IntelNetwork = maps.Clone(ws.IntelNetwork)
	c.Relationships = maps.Clone(ws.Relationships)
	if ws.Oil != nil {
		v := *ws.Oil
		c.Oil = &v
	}
	if ws.Tech != nil {
		v := *ws.Tech
		c.Tech = &v
	}
	if ws.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(ws.Extra))
		for k, v := range ws.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// UnmarshalJSON decodes the save file, keeping unmodeled keys in Extra.
// Modeled keys match case-insensitively, as encoding/json does.
func (ws *WorldState) UnmarshalJSON(data []byte) error {
	type plain WorldState
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if _, ok := modeledKeys[strings.ToLower(k)]; ok {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	*ws = WorldState(p)
	return nil
}

// MarshalJSON writes the canonical form, merging Extra back in.
func (ws WorldState) MarshalJSON() ([]byte, error) {
	type plain WorldState
	data, err := json.Marshal(plain(ws))
	if err != nil || len(ws.Extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range ws.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// MigratedKeys are the top-level keys backfilled from defaults when a save
// predates them.
var MigratedKeys = []string{"year", "intel_network", "ownership"}

var errNotObject = errors.New("snapshot is not a JSON object")

// DecodeWorldState parses a save file and backfills any MigratedKeys it
// lacks, or holds as null, from defaults(). Keys that are present are left
// untouched. It returns the names of the keys that were backfilled.
func DecodeWorldState(data []byte, defaults func() *WorldState) (*WorldState, []string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, errNotObject
	}

	var ws WorldState
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, key := range MigratedKeys {
		if v, ok := raw[key]; !ok || isNull(v) {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return &ws, nil, nil
	}

	fresh := defaults()
	for _, key := range missing {
		switch key {
		case "year":
			ws.Year = fresh.Year
		case "intel_network":
			ws.IntelNetwork = fresh.IntelNetwork
		case "ownership":
			ws.Ownership = fresh.Ownership
		}
	}
	return &ws, missing, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
