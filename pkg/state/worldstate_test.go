package state

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestNewWorldState_Defaults(t *testing.T) {
	reg := world.DefaultRegistry()
	ws := NewWorldState(reg, seeded())

	assert.Equal(t, 0, ws.TurnCount)
	assert.Equal(t, 2027, ws.Year)
	assert.Equal(t, 5, ws.Defcon)
	assert.Equal(t, 1000, ws.Resources)
	assert.Equal(t, 50, ws.Influence)
	assert.Nil(t, ws.Oil)
	assert.Nil(t, ws.Tech)

	assert.Equal(t, map[world.FactionID]int{
		"usa": 90, "china": 85, "russia": 80, "eu": 75, "india": 60, "rogue": 40, "neutral": 20,
	}, ws.IntelNetwork)

	require.Len(t, ws.Relationships, 5)
	for _, f := range world.MajorFactions {
		assert.Equal(t, Relationship{Sentiment: 0, Status: "neutral"}, ws.Relationships[f], f)
	}

	assert.Equal(t, reg.InitialOwnership(), ws.Ownership)
	assert.Len(t, ws.Military, reg.Len())
	for _, code := range reg.KnownCodes() {
		_, ok := ws.Military[code]
		assert.True(t, ok, "missing forces for %s", code)
	}
}

func TestNewWorldState_OwnershipIsACopy(t *testing.T) {
	reg := world.DefaultRegistry()
	ws := NewWorldState(reg, seeded())
	ws.Ownership["US"] = world.FactionRogue

	f, _ := reg.LookupInitialFaction("US")
	assert.Equal(t, world.FactionUSA, f)
}

func TestWorldState_Counter(t *testing.T) {
	ws := NewWorldState(world.DefaultRegistry(), seeded())

	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{CounterResources, 1000, true},
		{CounterBudget, 1000, true},
		{CounterInfluence, 50, true},
		{CounterYear, 2027, true},
		{CounterDefcon, 5, true},
		{CounterTurnCount, 0, true},
		{CounterOil, 0, false},
		{CounterTech, 0, false},
		{"intel", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ws.Counter(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorldState_JSONKeepsUnknownKeys(t *testing.T) {
	in := []byte(`{
		"military": {"US": {"troops": 10, "navy": 2, "airforce": 3}},
		"ownership": {"US": "usa"},
		"intel_network": {"usa": 90},
		"turn_count": 4,
		"year": 2029,
		"defcon": 3,
		"resources": 700,
		"influence": 40,
		"oil": 80,
		"relationships": {"china": {"sentiment": -20, "status": "hostile"}},
		"notes": {"last_event": "blockade"}
	}`)

	var ws WorldState
	require.NoError(t, json.Unmarshal(in, &ws))
	require.NotNil(t, ws.Oil)
	assert.Equal(t, 80, *ws.Oil)
	assert.Nil(t, ws.Tech)
	assert.Equal(t, Relationship{Sentiment: -20, Status: "hostile"}, ws.Relationships["china"])
	assert.JSONEq(t, `{"last_event": "blockade"}`, string(ws.Extra["notes"]))

	out, err := json.Marshal(ws)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Contains(t, raw, "notes")
	assert.Contains(t, raw, "oil")
	assert.NotContains(t, raw, "tech")
	assert.NotContains(t, raw, "Extra")
}

func TestWorldState_JSONCaseVariantKeysAreModeled(t *testing.T) {
	in := []byte(`{"Military": {"US": {"troops": 10, "navy": 2, "airforce": 3}}, "TURN_COUNT": 6, "notes": 1}`)

	var ws WorldState
	require.NoError(t, json.Unmarshal(in, &ws))
	assert.Equal(t, 10, ws.Military["US"].Troops)
	assert.Equal(t, 6, ws.TurnCount)
	assert.NotContains(t, ws.Extra, "Military")
	assert.NotContains(t, ws.Extra, "TURN_COUNT")
	assert.Contains(t, ws.Extra, "notes")

	ws.Military["US"] = world.MilitaryForce{Troops: 1}
	out, err := json.Marshal(ws)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.NotContains(t, raw, "Military")
	assert.NotContains(t, raw, "TURN_COUNT")
	assert.JSONEq(t, `{"US": {"troops": 1, "navy": 0, "airforce": 0}}`, string(raw["military"]))
}

func TestWorldState_Clone(t *testing.T) {
	ws := NewWorldState(world.DefaultRegistry(), seeded())
	oil := 10
	ws.Oil = &oil
	ws.Extra = map[string]json.RawMessage{"x": json.RawMessage(`1`)}

	c := ws.Clone()
	c.Military["US"] = world.MilitaryForce{}
	c.Ownership["US"] = world.FactionRogue
	c.IntelNetwork["usa"] = 1
	*c.Oil = 99
	c.Extra["x"][0] = '2'

	assert.NotEqual(t, world.MilitaryForce{}, ws.Military["US"])
	assert.Equal(t, world.FactionUSA, ws.Ownership["US"])
	assert.Equal(t, 90, ws.IntelNetwork["usa"])
	assert.Equal(t, 10, *ws.Oil)
	assert.Equal(t, "1", string(ws.Extra["x"]))

	var nilState *WorldState
	assert.Nil(t, nilState.Clone())
}

func TestDecodeWorldState_Backfill(t *testing.T) {
	reg := world.DefaultRegistry()
	defaults := func() *WorldState { return NewWorldState(reg, seeded()) }

	old := []byte(`{
		"military": {"US": {"troops": 5, "navy": 6, "airforce": 7}},
		"turn_count": 12,
		"defcon": 2,
		"resources": 321,
		"influence": 9,
		"relationships": {"usa": {"sentiment": 80, "status": "allied"}}
	}`)

	ws, migrated, err := DecodeWorldState(old, defaults)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"year", "intel_network", "ownership"}, migrated)

	assert.Equal(t, DefaultYear, ws.Year)
	assert.Equal(t, defaultIntel, ws.IntelNetwork)
	assert.Equal(t, reg.InitialOwnership(), ws.Ownership)

	// untouched
	assert.Equal(t, 12, ws.TurnCount)
	assert.Equal(t, 2, ws.Defcon)
	assert.Equal(t, 321, ws.Resources)
	assert.Equal(t, 9, ws.Influence)
	assert.Equal(t, map[world.CountryCode]world.MilitaryForce{"US": {Troops: 5, Navy: 6, Airforce: 7}}, ws.Military)
	assert.Equal(t, Relationship{Sentiment: 80, Status: "allied"}, ws.Relationships["usa"])
}

func TestDecodeWorldState_PresentKeysWin(t *testing.T) {
	called := false
	defaults := func() *WorldState {
		called = true
		return NewWorldState(world.DefaultRegistry(), seeded())
	}

	doc := []byte(`{"year": 2031, "intel_network": {"usa": 12}, "ownership": {"US": "rogue"}}`)
	ws, migrated, err := DecodeWorldState(doc, defaults)
	require.NoError(t, err)
	assert.Empty(t, migrated)
	assert.False(t, called, "defaults should not be synthesized when nothing is missing")
	assert.Equal(t, 2031, ws.Year)
	assert.Equal(t, map[world.FactionID]int{"usa": 12}, ws.IntelNetwork)
	assert.Equal(t, map[world.CountryCode]world.FactionID{"US": "rogue"}, ws.Ownership)
}

func TestDecodeWorldState_NullKeysAreBackfilled(t *testing.T) {
	reg := world.DefaultRegistry()
	defaults := func() *WorldState { return NewWorldState(reg, seeded()) }

	doc := []byte(`{"year": 2030, "intel_network": null, "ownership": null, "turn_count": 3}`)
	ws, migrated, err := DecodeWorldState(doc, defaults)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"intel_network", "ownership"}, migrated)
	assert.Equal(t, 2030, ws.Year)
	assert.Equal(t, 3, ws.TurnCount)
	assert.Equal(t, reg.InitialOwnership(), ws.Ownership)
	assert.Equal(t, defaultIntel, ws.IntelNetwork)

	changes, rej := ApplyTerritoryDelta(ws, map[world.CountryCode]world.FactionID{"TW": world.FactionChina})
	assert.Empty(t, rej)
	assert.Len(t, changes, 1)
}

func TestDecodeWorldState_Invalid(t *testing.T) {
	defaults := func() *WorldState { return NewWorldState(world.DefaultRegistry(), seeded()) }

	tests := []struct {
		name string
		data string
	}{
		{"truncated", `{"military": {`},
		{"array", `[1, 2, 3]`},
		{"null", `null`},
		{"wrong type", `{"turn_count": "soon"}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeWorldState([]byte(tt.data), defaults)
			assert.Error(t, err)
		})
	}
}
