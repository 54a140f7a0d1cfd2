package state

import (
	"maps"
	"slices"
	"testing"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

func smallWorld() *WorldState {
	return &WorldState{
		Military: map[world.CountryCode]world.MilitaryForce{
			"A": {Troops: 10, Navy: 1, Airforce: 1},
			"B": {Troops: 20, Navy: 2, Airforce: 2},
		},
		Ownership:     map[world.CountryCode]world.FactionID{"A": "russia", "B": "usa"},
		IntelNetwork:  map[world.FactionID]int{"usa": 90},
		Year:          2027,
		Defcon:        5,
		Resources:     1000,
		Influence:     50,
		Relationships: DefaultRelationships(),
	}
}

func TestApplyMilitaryDelta_ClampsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		delta ForceDelta
		want  world.MilitaryForce
	}{
		{"small loss", ForceDelta{Troops: intp(-4)}, world.MilitaryForce{Troops: 6, Navy: 1, Airforce: 1}},
		{"exact loss", ForceDelta{Troops: intp(-10)}, world.MilitaryForce{Troops: 0, Navy: 1, Airforce: 1}},
		{"overkill", ForceDelta{Troops: intp(-1_000_000), Navy: intp(-2), Airforce: intp(-999)}, world.MilitaryForce{}},
		{"gain", ForceDelta{Navy: intp(4)}, world.MilitaryForce{Troops: 10, Navy: 5, Airforce: 1}},
		{"no fields", ForceDelta{}, world.MilitaryForce{Troops: 10, Navy: 1, Airforce: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := smallWorld()
			applied, rej := ApplyMilitaryDelta(ws, map[world.CountryCode]ForceDelta{"A": tt.delta})
			if len(rej) != 0 {
				t.Fatalf("unexpected rejections: %v", rej)
			}
			if !slices.Equal(applied, []world.CountryCode{"A"}) {
				t.Errorf("applied = %v", applied)
			}
			if got := ws.Military["A"]; got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyMilitaryDelta_SkipsUnknownCodes(t *testing.T) {
	ws := smallWorld()
	before := maps.Clone(ws.Military)

	_, rej := ApplyMilitaryDelta(ws, map[world.CountryCode]ForceDelta{"ZZ": {Troops: intp(500)}})

	if !maps.Equal(before, ws.Military) {
		t.Errorf("military changed: %v", ws.Military)
	}
	if _, ok := ws.Military["ZZ"]; ok {
		t.Error("unknown code was inserted")
	}
	if len(rej) != 1 || rej[0].Key != "ZZ" || rej[0].Reason != ReasonUnknownCountry {
		t.Errorf("rejections = %v", rej)
	}
}

func TestApplyTerritoryDelta_KeySetNeverGrows(t *testing.T) {
	payloads := []map[world.CountryCode]world.FactionID{
		{"C": "china"},
		{"A": "usa", "C": "china", "D": "eu"},
		{"B": "rogue"},
		{"A": "corporate", "B": "corporate"},
		{"ZZ": "usa", "YY": "russia"},
	}
	for _, p := range payloads {
		ws := smallWorld()
		before := slices.Sorted(maps.Keys(ws.Ownership))

		changes, rej := ApplyTerritoryDelta(ws, p)

		after := slices.Sorted(maps.Keys(ws.Ownership))
		if !slices.Equal(before, after) {
			t.Errorf("payload %v: key set changed from %v to %v", p, before, after)
		}
		for code, faction := range p {
			if _, known := ws.Ownership[code]; known && ws.Ownership[code] != faction {
				t.Errorf("payload %v: %s = %s, want %s", p, code, ws.Ownership[code], faction)
			}
		}
		if len(changes)+len(rej) != len(p) {
			t.Errorf("payload %v: %d changes + %d rejections", p, len(changes), len(rej))
		}
	}
}

func TestApplyTerritoryDelta_RecordsBeforeAfter(t *testing.T) {
	ws := smallWorld()
	changes, _ := ApplyTerritoryDelta(ws, map[world.CountryCode]world.FactionID{"A": "usa"})
	want := []TerritoryChange{{Code: "A", From: "russia", To: "usa"}}
	if !slices.Equal(changes, want) {
		t.Errorf("changes = %v, want %v", changes, want)
	}
}

func TestApplyResourceDelta(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		delta  int
		want   int
		wantOK bool
	}{
		{"underflow clamps", CounterResources, -1100, 0, true},
		{"exact zero", CounterResources, -1000, 0, true},
		{"gain", CounterResources, 250, 1250, true},
		{"budget alias", CounterBudget, -50, 950, true},
		{"absent oil starts at zero", CounterOil, 30, 30, true},
		{"absent tech clamps", CounterTech, -5, 0, true},
		{"influence", CounterInfluence, -51, 0, true},
		{"unknown field", "gold", 10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := smallWorld()
			got, ok := ApplyResourceDelta(ws, tt.field, tt.delta)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("got (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
			if ok {
				if v, _ := ws.Counter(tt.field); v != tt.want {
					t.Errorf("stored %d, want %d", v, tt.want)
				}
			}
		})
	}
}

func TestOverwriteAbsoluteStats(t *testing.T) {
	ws := smallWorld()
	applied, rej := OverwriteAbsoluteStats(ws, map[string]int{
		"budget": 4000,
		"defcon": 2,
		"oil":    70,
		"intel":  99,
	})

	if ws.Resources != 4000 || ws.Defcon != 2 {
		t.Errorf("resources=%d defcon=%d", ws.Resources, ws.Defcon)
	}
	if ws.Oil != nil {
		t.Errorf("oil should stay absent, got %d", *ws.Oil)
	}
	if !slices.Equal(applied, []string{"budget", "defcon"}) {
		t.Errorf("applied = %v", applied)
	}
	if len(rej) != 2 {
		t.Errorf("rejections = %v", rej)
	}
}

func TestOverwriteGlobalCounterSubset(t *testing.T) {
	ws := smallWorld()
	if OverwriteGlobalCounterSubset(ws, nil) {
		t.Error("nil stats reported a change")
	}
	if OverwriteGlobalCounterSubset(ws, &GeneralStats{}) {
		t.Error("empty stats reported a change")
	}
	if !OverwriteGlobalCounterSubset(ws, &GeneralStats{Defcon: intp(1)}) {
		t.Error("defcon not applied")
	}
	if ws.Defcon != 1 || ws.Year != 2027 {
		t.Errorf("defcon=%d year=%d", ws.Defcon, ws.Year)
	}
}

func TestApplyResourceUpdates_BudgetOnlyStoresOilAndTech(t *testing.T) {
	ws := smallWorld()
	ApplyResourceUpdates(ws, &ResourceUpdates{Budget: intp(-100)})
	if ws.Oil == nil || ws.Tech == nil {
		t.Fatalf("oil=%v tech=%v, want both stored", ws.Oil, ws.Tech)
	}
	if *ws.Oil != 0 || *ws.Tech != 0 {
		t.Errorf("oil=%d tech=%d, want 0 and 0", *ws.Oil, *ws.Tech)
	}

	ApplyResourceUpdates(ws, &ResourceUpdates{Oil: intp(25)})
	if *ws.Oil != 25 || ws.Resources != 900 {
		t.Errorf("oil=%d resources=%d, want 25 and 900", *ws.Oil, ws.Resources)
	}
}

func TestApplyResourceUpdates_AdvancesTurn(t *testing.T) {
	ws := smallWorld()
	ApplyResourceUpdates(ws, &ResourceUpdates{Budget: intp(-50), Oil: intp(5)})
	if ws.Resources != 950 || ws.Oil == nil || *ws.Oil != 5 || ws.TurnCount != 1 {
		t.Errorf("resources=%d oil=%v turn=%d", ws.Resources, ws.Oil, ws.TurnCount)
	}

	if ws.Tech == nil || *ws.Tech != 0 {
		t.Errorf("tech should be stored as 0, got %v", ws.Tech)
	}

	ApplyResourceUpdates(ws, &ResourceUpdates{})
	if ws.TurnCount != 2 {
		t.Errorf("turn = %d, want 2", ws.TurnCount)
	}

	ApplyResourceUpdates(ws, nil)
	if ws.TurnCount != 2 {
		t.Errorf("nil updates advanced the turn")
	}
}
