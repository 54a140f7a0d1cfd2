package world

import "sync"

// CountryCode is an ISO-3166-1 alpha-2 style identifier. A code is valid
// when the registry knows it; there is no check against the real ISO list.
type CountryCode string

// FactionID tags a political bloc. Any string is storable; the constants
// below are the ones the generator and prompts recognize.
type FactionID string

const (
	FactionUSA       FactionID = "usa"
	FactionChina     FactionID = "china"
	FactionRussia    FactionID = "russia"
	FactionEU        FactionID = "eu"
	FactionIndia     FactionID = "india"
	FactionRogue     FactionID = "rogue"
	FactionCorporate FactionID = "corporate"
	FactionNeutral   FactionID = "neutral"
)

// MajorFactions are the blocs tracked in the relationship map.
var MajorFactions = []FactionID{FactionUSA, FactionChina, FactionRussia, FactionEU, FactionIndia}

var factionNames = map[FactionID]string{
	FactionUSA:       "North American Alliance",
	FactionChina:     "Tianxia Federation",
	FactionRussia:    "New Soviet Union",
	FactionEU:        "European Directorate",
	FactionIndia:     "Non-Aligned Movement",
	FactionCorporate: "Global Corporate Alliance",
	FactionRogue:     "Rogue AI Entities",
	FactionNeutral:   "Unaligned Nations",
}

// PlayableFactions is the order factions are offered to a new player.
var PlayableFactions = []FactionID{
	FactionUSA, FactionChina, FactionRussia, FactionEU,
	FactionIndia, FactionCorporate, FactionRogue, FactionNeutral,
}

// FactionDisplayName returns the in-game name of a faction, falling back to
// the neutral bloc's name for unknown ids.
func FactionDisplayName(f FactionID) string {
	if name, ok := factionNames[f]; ok {
		return name
	}
	return factionNames[FactionNeutral]
}

// Registry is the static country table: initial alignment and display names.
// It is immutable once built.
type Registry struct {
	codes    []CountryCode
	initial  map[CountryCode]FactionID
	names    map[CountryCode]string
	codesSet map[CountryCode]struct{}
}

// CountryEntry is one row of a registry definition.
type CountryEntry struct {
	Code    CountryCode
	Faction FactionID
}

// NewRegistry builds a registry from an ordered list of entries and a name
// table. Later duplicates of a code are ignored.
func NewRegistry(entries []CountryEntry, names map[CountryCode]string) *Registry {
	r := &Registry{
		codes:    make([]CountryCode, 0, len(entries)),
		initial:  make(map[CountryCode]FactionID, len(entries)),
		names:    make(map[CountryCode]string, len(names)),
		codesSet: make(map[CountryCode]struct{}, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.codesSet[e.Code]; dup {
			continue
		}
		r.codes = append(r.codes, e.Code)
		r.initial[e.Code] = e.Faction
		r.codesSet[e.Code] = struct{}{}
	}
	for code, name := range names {
		r.names[code] = name
	}
	return r
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// DefaultRegistry returns the built-in 2027 world map. The registry is
// built once and shared; callers must not mutate it.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry(initialAlignment, countryNames)
	})
	return defaultReg
}

// LookupInitialFaction reports the faction a country starts the game with.
func (r *Registry) LookupInitialFaction(code CountryCode) (FactionID, bool) {
	f, ok := r.initial[code]
	return f, ok
}

// LookupDisplayName returns the country's name, or the code itself.
func (r *Registry) LookupDisplayName(code CountryCode) string {
	if name, ok := r.names[code]; ok {
		return name
	}
	return string(code)
}

// Knows reports whether code is part of the registry.
func (r *Registry) Knows(code CountryCode) bool {
	_, ok := r.codesSet[code]
	return ok
}

// KnownCodes returns every registered code in declaration order.
func (r *Registry) KnownCodes() []CountryCode {
	out := make([]CountryCode, len(r.codes))
	copy(out, r.codes)
	return out
}

// InitialOwnership returns a fresh copy of the starting ownership map.
func (r *Registry) InitialOwnership() map[CountryCode]FactionID {
	out := make(map[CountryCode]FactionID, len(r.initial))
	for code, f := range r.initial {
		out[code] = f
	}
	return out
}

// Len returns the number of registered countries.
func (r *Registry) Len() int {
	return len(r.codes)
}
