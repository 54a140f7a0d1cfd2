package world

import "math/rand/v2"

// MilitaryForce is a country's standing establishment. All fields stay >= 0.
type MilitaryForce struct {
	Troops   int `json:"troops"`
	Navy     int `json:"navy"`
	Airforce int `json:"airforce"`
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies in the interval.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) draw(src *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	span := r.Max - r.Min + 1
	if src == nil {
		return r.Min + rand.IntN(span)
	}
	return r.Min + src.IntN(span)
}

// ForceRanges holds the three per-dimension ranges for one country.
type ForceRanges struct {
	Troops   Range
	Navy     Range
	Airforce Range
}

// countryOverride replaces only the dimensions it sets.
type countryOverride struct {
	Troops   *Range
	Navy     *Range
	Airforce *Range
}

func between(lo, hi int) *Range { return &Range{Min: lo, Max: hi} }

var baselineRanges = ForceRanges{
	Troops:   Range{10000, 80000},
	Navy:     Range{0, 10},
	Airforce: Range{10, 40},
}

// Faction tier. A tier entry replaces the baseline wholesale.
var factionRanges = map[FactionID]ForceRanges{
	FactionUSA: {
		Troops:   Range{80000, 250000},
		Navy:     Range{30, 100},
		Airforce: Range{150, 400},
	},
	FactionEU: {
		Troops:   Range{50000, 200000},
		Navy:     Range{20, 80},
		Airforce: Range{100, 300},
	},
	FactionChina: {
		Troops:   Range{400000, 900000},
		Navy:     Range{10, 50},
		Airforce: Range{100, 300},
	},
	FactionRussia: {
		Troops:   Range{50000, 150000},
		Navy:     Range{0, 30},
		Airforce: Range{50, 200},
	},
	FactionRogue: {
		Troops:   Range{150000, 400000},
		Navy:     Range{0, 5},
		Airforce: Range{10, 50},
	},
}

// Major powers. These win over the faction tier, per dimension.
var countryOverrides = map[CountryCode]countryOverride{
	"US": {Troops: between(1100000, 1400000), Navy: between(400, 550), Airforce: between(3500, 5000)},
	"CN": {Troops: between(1900000, 2300000), Navy: between(300, 450), Airforce: between(2500, 3500)},
	"RU": {Troops: between(900000, 1200000), Navy: between(200, 350), Airforce: between(2500, 4000)},
	"IN": {Troops: between(1300000, 1500000), Navy: between(150, 250), Airforce: between(1800, 2200)},
	"KP": {Troops: between(1100000, 1300000), Navy: between(50, 80), Airforce: between(400, 600)},
	"KR": {Troops: between(500000, 600000), Navy: between(100, 150), Airforce: between(400, 600)},
	"IL": {Troops: between(150000, 200000), Airforce: between(400, 600)},
	"TR": {Troops: between(300000, 450000), Airforce: between(250, 400)},
	"IR": {Troops: between(500000, 700000), Navy: between(30, 60), Airforce: between(200, 350)},
}

// ResolveRanges applies baseline, faction tier, then country override.
func ResolveRanges(code CountryCode, faction FactionID) ForceRanges {
	ranges := baselineRanges
	if tier, ok := factionRanges[faction]; ok {
		ranges = tier
	}
	if o, ok := countryOverrides[code]; ok {
		if o.Troops != nil {
			ranges.Troops = *o.Troops
		}
		if o.Navy != nil {
			ranges.Navy = *o.Navy
		}
		if o.Airforce != nil {
			ranges.Airforce = *o.Airforce
		}
	}
	return ranges
}

// GenerateForce draws one establishment from the resolved ranges.
func GenerateForce(code CountryCode, faction FactionID, src *rand.Rand) MilitaryForce {
	ranges := ResolveRanges(code, faction)
	return MilitaryForce{
		Troops:   ranges.Troops.draw(src),
		Navy:     ranges.Navy.draw(src),
		Airforce: ranges.Airforce.draw(src),
	}
}

// GenerateInitialMilitary rolls a fresh establishment for every registered
// country. Results differ run over run; pass a seeded src to pin them.
// A nil src uses the package-level generator.
func GenerateInitialMilitary(reg *Registry, src *rand.Rand) map[CountryCode]MilitaryForce {
	military := make(map[CountryCode]MilitaryForce, reg.Len())
	for _, code := range reg.codes {
		military[code] = GenerateForce(code, reg.initial[code], src)
	}
	return military
}
