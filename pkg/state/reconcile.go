package state

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// ErrInvalidJSON is returned by ParseDelta when the input is not JSON at all.
var ErrInvalidJSON = errors.New("delta is not valid JSON")

// ErrNotObject is returned by ParseDelta when the input is JSON but not an object.
var ErrNotObject = errors.New("delta is not a JSON object")

// Counter values beyond this are treated as garbage rather than truncated.
const maxMagnitude = 1e12

// ParseDelta reads the state-change keys of a game master reply. Other
// top-level keys are ignored.
func ParseDelta(raw []byte) (*WorldDelta, []Rejection, error) {
	if !gjson.ValidBytes(raw) {
		return nil, nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, nil, ErrNotObject
	}
	d, rej := ReconcileDelta(root)
	return d, rej, nil
}

// ReconcileDelta maps an untrusted reply object onto a WorldDelta. Every
// entry that cannot be used is reported as a Rejection; nothing here
// panics or errors on bad shape. Country codes are upper-cased and
// faction tags lower-cased. Whether a code exists is checked later by the
// mutators against live state.
func ReconcileDelta(root gjson.Result) (*WorldDelta, []Rejection) {
	d := &WorldDelta{}
	var rej []Rejection

	if v := root.Get("military_updates"); v.Exists() {
		d.MilitaryUpdates, rej = reconcileMilitary(v, rej)
	}
	if v := root.Get("territory_updates"); v.Exists() {
		d.TerritoryUpdates, rej = reconcileTerritory(v, rej)
	}
	if v := root.Get("stats"); v.Exists() {
		d.Stats, rej = reconcileStats(v, rej)
	}
	if v := root.Get("resource_updates"); v.Exists() {
		d.ResourceUpdates, rej = reconcileResources(v, rej)
	}
	if v := root.Get("general_stats"); v.Exists() {
		d.GeneralStats, rej = reconcileGeneral(v, rej)
	}
	return d, rej
}

func reconcileMilitary(v gjson.Result, rej []Rejection) (map[world.CountryCode]ForceDelta, []Rejection) {
	const field = "military_updates"
	if v.Type == gjson.Null {
		return nil, rej
	}
	if !v.IsObject() {
		return nil, append(rej, Rejection{Field: field, Reason: ReasonNotObject})
	}
	out := make(map[world.CountryCode]ForceDelta)
	v.ForEach(func(key, entry gjson.Result) bool {
		code := NormalizeCode(key.String())
		if code == "" {
			rej = append(rej, Rejection{Field: field, Key: key.String(), Reason: ReasonEmptyKey})
			return true
		}
		if !entry.IsObject() {
			rej = append(rej, Rejection{Field: field, Key: string(code), Reason: ReasonNotObject})
			return true
		}
		var fd ForceDelta
		entry.ForEach(func(name, val gjson.Result) bool {
			sub := string(code) + "." + name.String()
			var dst **int
			switch strings.ToLower(name.String()) {
			case "troops":
				dst = &fd.Troops
			case "navy":
				dst = &fd.Navy
			case "airforce", "air_force":
				dst = &fd.Airforce
			default:
				rej = append(rej, Rejection{Field: field, Key: sub, Reason: ReasonUnknownField})
				return true
			}
			n, reason := intValue(val)
			if reason != "" {
				rej = append(rej, Rejection{Field: field, Key: sub, Reason: reason})
				return true
			}
			*dst = &n
			return true
		})
		if fd.IsEmpty() {
			return true
		}
		out[code] = mergeForce(out[code], fd)
		return true
	})
	return out, rej
}

// mergeForce folds b into a, summing fields set in both. Two keys that
// normalize to the same code ("us" and "US") land here.
func mergeForce(a, b ForceDelta) ForceDelta {
	sum := func(x, y *int) *int {
		switch {
		case x == nil:
			return y
		case y == nil:
			return x
		}
		n := *x + *y
		return &n
	}
	return ForceDelta{
		Troops:   sum(a.Troops, b.Troops),
		Navy:     sum(a.Navy, b.Navy),
		Airforce: sum(a.Airforce, b.Airforce),
	}
}

func reconcileTerritory(v gjson.Result, rej []Rejection) (map[world.CountryCode]world.FactionID, []Rejection) {
	const field = "territory_updates"
	if v.Type == gjson.Null {
		return nil, rej
	}
	if !v.IsObject() {
		return nil, append(rej, Rejection{Field: field, Reason: ReasonNotObject})
	}
	out := make(map[world.CountryCode]world.FactionID)
	v.ForEach(func(key, val gjson.Result) bool {
		code := NormalizeCode(key.String())
		if code == "" {
			rej = append(rej, Rejection{Field: field, Key: key.String(), Reason: ReasonEmptyKey})
			return true
		}
		if val.Type != gjson.String {
			rej = append(rej, Rejection{Field: field, Key: string(code), Reason: ReasonNotString})
			return true
		}
		faction := NormalizeFaction(val.Str)
		if faction == "" {
			rej = append(rej, Rejection{Field: field, Key: string(code), Reason: ReasonUnknownFaction})
			return true
		}
		out[code] = faction
		return true
	})
	return out, rej
}

func reconcileStats(v gjson.Result, rej []Rejection) (map[string]int, []Rejection) {
	const field = "stats"
	if v.Type == gjson.Null {
		return nil, rej
	}
	if !v.IsObject() {
		return nil, append(rej, Rejection{Field: field, Reason: ReasonNotObject})
	}
	out := make(map[string]int)
	v.ForEach(func(key, val gjson.Result) bool {
		name := strings.ToLower(strings.TrimSpace(key.String()))
		n, reason := intValue(val)
		if reason != "" {
			rej = append(rej, Rejection{Field: field, Key: name, Reason: reason})
			return true
		}
		out[name] = n
		return true
	})
	return out, rej
}

func reconcileResources(v gjson.Result, rej []Rejection) (*ResourceUpdates, []Rejection) {
	const field = "resource_updates"
	if !v.IsObject() {
		if v.Type != gjson.Null {
			rej = append(rej, Rejection{Field: field, Reason: ReasonNotObject})
		}
		return nil, rej
	}
	ru := &ResourceUpdates{}
	var alias *int
	v.ForEach(func(key, val gjson.Result) bool {
		name := strings.ToLower(strings.TrimSpace(key.String()))
		var dst **int
		switch name {
		case CounterBudget:
			dst = &ru.Budget
		case CounterResources:
			dst = &alias
		case CounterOil:
			dst = &ru.Oil
		case CounterTech:
			dst = &ru.Tech
		case CounterInfluence:
			dst = &ru.Influence
		default:
			rej = append(rej, Rejection{Field: field, Key: name, Reason: ReasonUnknownField})
			return true
		}
		n, reason := intValue(val)
		if reason != "" {
			rej = append(rej, Rejection{Field: field, Key: name, Reason: reason})
			return true
		}
		*dst = &n
		return true
	})
	if ru.Budget == nil {
		ru.Budget = alias
	}
	return ru, rej
}

func reconcileGeneral(v gjson.Result, rej []Rejection) (*GeneralStats, []Rejection) {
	const field = "general_stats"
	if v.Type == gjson.Null {
		return nil, rej
	}
	if !v.IsObject() {
		return nil, append(rej, Rejection{Field: field, Reason: ReasonNotObject})
	}
	gs := &GeneralStats{}
	for _, name := range []string{CounterDefcon, CounterYear} {
		val := v.Get(name)
		if !val.Exists() {
			continue
		}
		n, reason := intValue(val)
		if reason != "" {
			rej = append(rej, Rejection{Field: field, Key: name, Reason: reason})
			continue
		}
		if name == CounterDefcon {
			gs.Defcon = &n
		} else {
			gs.Year = &n
		}
	}
	return gs, rej
}

// intValue accepts JSON numbers and numeric strings ("-50", "+1,000",
// "12.7"). Fractions are rounded to the nearest integer. The returned
// reason is empty on success.
func intValue(v gjson.Result) (int, string) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		s = strings.TrimPrefix(s, "+")
		s = strings.ReplaceAll(s, ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ReasonNotNumeric
		}
		f = parsed
	default:
		return 0, ReasonNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxMagnitude {
		return 0, ReasonOutOfRange
	}
	return int(math.Round(f)), ""
}

// NormalizeCode trims and upper-cases a country code.
func NormalizeCode(s string) world.CountryCode {
	return world.CountryCode(strings.ToUpper(strings.TrimSpace(s)))
}

// NormalizeFaction trims and lower-cases a faction tag.
func NormalizeFaction(s string) world.FactionID {
	return world.FactionID(strings.ToLower(strings.TrimSpace(s)))
}

// sortedCodes returns the keys of m in ascending order.
func sortedCodes[V any](m map[world.CountryCode]V) []world.CountryCode {
	codes := make([]world.CountryCode, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}
