package state

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

var upper = cases.Upper(language.Und)

// ForceEntry is one country's forces under its current owner.
type ForceEntry struct {
	Code  world.CountryCode   `json:"code"`
	Owner world.FactionID     `json:"owner"`
	Force world.MilitaryForce `json:"force"`
}

// String renders the entry as "CODE(owned by FACTION): troops/navy/airforce".
func (e ForceEntry) String() string {
	return fmt.Sprintf("%s(owned by %s): %d/%d/%d",
		e.Code, upper.String(string(e.Owner)), e.Force.Troops, e.Force.Navy, e.Force.Airforce)
}

// FactionForces groups the countries a faction currently owns.
type FactionForces struct {
	Faction   world.FactionID `json:"faction"`
	Countries []ForceEntry    `json:"countries"`
}

// MilitaryByFaction groups the military map by current ownership. A
// country with no ownership entry is treated as neutral. Countries are
// scanned in the given order, then any remaining codes in sorted order;
// factions appear in order of first occurrence.
func MilitaryByFaction(ws *WorldState, order []world.CountryCode) []FactionForces {
	var groups []FactionForces
	index := make(map[world.FactionID]int)

	add := func(code world.CountryCode) {
		force := ws.Military[code]
		owner, ok := ws.Ownership[code]
		if !ok || owner == "" {
			owner = world.FactionNeutral
		}
		i, seen := index[owner]
		if !seen {
			i = len(groups)
			index[owner] = i
			groups = append(groups, FactionForces{Faction: owner})
		}
		groups[i].Countries = append(groups[i].Countries, ForceEntry{Code: code, Owner: owner, Force: force})
	}

	visited := make(map[world.CountryCode]struct{}, len(ws.Military))
	for _, code := range order {
		if _, ok := ws.Military[code]; !ok {
			continue
		}
		if _, dup := visited[code]; dup {
			continue
		}
		visited[code] = struct{}{}
		add(code)
	}
	rest := slices.Sorted(maps.Keys(ws.Military))
	for _, code := range rest {
		if _, ok := visited[code]; ok {
			continue
		}
		add(code)
	}
	return groups
}

// FormatMilitaryByFaction renders grouped forces as the text block the
// game master prompt embeds.
func FormatMilitaryByFaction(groups []FactionForces) string {
	var b strings.Builder
	b.WriteString("MILITARY FORCES BY FACTION (Country(owner): Troops/Navy/Airforce):\n")
	b.WriteString("**IMPORTANT: Countries are grouped by CURRENT ownership, not original alignment!**\n")
	for _, g := range groups {
		name := upper.String(string(g.Faction))
		fmt.Fprintf(&b, "\n[%s] - Countries CURRENTLY owned by %s:\n", name, name)
		for _, e := range g.Countries {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// IntelStrength returns the faction's intel strength, or
// DefaultIntelStrength when it has none recorded.
func IntelStrength(ws *WorldState, faction world.FactionID) int {
	if v, ok := ws.IntelNetwork[faction]; ok {
		return v
	}
	return DefaultIntelStrength
}

// OwnershipSnapshot returns a copy of the ownership map.
func OwnershipSnapshot(ws *WorldState) map[world.CountryCode]world.FactionID {
	return maps.Clone(ws.Ownership)
}

// MilitarySnapshot returns a copy of the military map.
func MilitarySnapshot(ws *WorldState) map[world.CountryCode]world.MilitaryForce {
	return maps.Clone(ws.Military)
}

// CountriesOwnedBy lists the codes a faction currently controls, sorted.
func CountriesOwnedBy(ws *WorldState, faction world.FactionID) []world.CountryCode {
	var out []world.CountryCode
	for code, owner := range ws.Ownership {
		if owner == faction {
			out = append(out, code)
		}
	}
	slices.Sort(out)
	return out
}
