package state

import (
	"slices"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// TerritoryChange is the before/after record of one ownership overwrite.
type TerritoryChange struct {
	Code world.CountryCode `json:"code"`
	From world.FactionID   `json:"from"`
	To   world.FactionID   `json:"to"`
}

// ApplyMilitaryDelta adds each present field to the country's current
// forces, flooring at zero. Codes missing from the military map are
// skipped. It returns the codes that were changed.
func ApplyMilitaryDelta(ws *WorldState, updates map[world.CountryCode]ForceDelta) ([]world.CountryCode, []Rejection) {
	var applied []world.CountryCode
	var rej []Rejection
	for _, code := range sortedCodes(updates) {
		force, ok := ws.Military[code]
		if !ok {
			rej = append(rej, Rejection{Field: "military_updates", Key: string(code), Reason: ReasonUnknownCountry})
			continue
		}
		fd := updates[code]
		force.Troops = addFloor(force.Troops, fd.Troops)
		force.Navy = addFloor(force.Navy, fd.Navy)
		force.Airforce = addFloor(force.Airforce, fd.Airforce)
		ws.Military[code] = force
		applied = append(applied, code)
	}
	return applied, rej
}

func addFloor(cur int, delta *int) int {
	if delta == nil {
		return cur
	}
	return max(0, cur+*delta)
}

// ApplyTerritoryDelta overwrites the owner of each code already present in
// the ownership map. The key set of the map never changes.
func ApplyTerritoryDelta(ws *WorldState, updates map[world.CountryCode]world.FactionID) ([]TerritoryChange, []Rejection) {
	var changes []TerritoryChange
	var rej []Rejection
	for _, code := range sortedCodes(updates) {
		prev, ok := ws.Ownership[code]
		if !ok {
			rej = append(rej, Rejection{Field: "territory_updates", Key: string(code), Reason: ReasonUnknownCountry})
			continue
		}
		next := updates[code]
		ws.Ownership[code] = next
		changes = append(changes, TerritoryChange{Code: code, From: prev, To: next})
	}
	return changes, rej
}

// ApplyResourceDelta sets field to max(0, current+delta) and returns the
// new value. An absent optional counter counts as zero. The bool is false
// when field does not name a global counter.
func ApplyResourceDelta(ws *WorldState, field string, delta int) (int, bool) {
	p, ok := ws.counter(field, true)
	if !ok {
		return 0, false
	}
	*p = max(0, *p+delta)
	return *p, true
}

// OverwriteAbsoluteStats copies each value onto an existing global counter.
// "budget" writes resources. Keys naming no existing counter are returned
// as rejections and otherwise ignored.
func OverwriteAbsoluteStats(ws *WorldState, stats map[string]int) ([]string, []Rejection) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var applied []string
	var rej []Rejection
	for _, k := range keys {
		p, ok := ws.counter(k, false)
		if !ok {
			rej = append(rej, Rejection{Field: "stats", Key: k, Reason: ReasonNotCounter})
			continue
		}
		*p = stats[k]
		applied = append(applied, k)
	}
	return applied, rej
}

// OverwriteGlobalCounterSubset sets defcon and year when present.
func OverwriteGlobalCounterSubset(ws *WorldState, gs *GeneralStats) bool {
	if gs.IsEmpty() {
		return false
	}
	if gs.Defcon != nil {
		ws.Defcon = *gs.Defcon
	}
	if gs.Year != nil {
		ws.Year = *gs.Year
	}
	return true
}

// ApplyResourceUpdates applies all four resource deltas through
// ApplyResourceDelta, a missing one counting as 0, and advances the turn
// count by one. Oil and tech are stored from the first resource turn on.
func ApplyResourceUpdates(ws *WorldState, ru *ResourceUpdates) {
	if ru == nil {
		return
	}
	apply := func(field string, delta *int) {
		var d int
		if delta != nil {
			d = *delta
		}
		ApplyResourceDelta(ws, field, d)
	}
	apply(CounterResources, ru.Budget)
	apply(CounterOil, ru.Oil)
	apply(CounterTech, ru.Tech)
	apply(CounterInfluence, ru.Influence)
	ws.TurnCount++
}
