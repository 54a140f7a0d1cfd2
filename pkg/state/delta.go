package state

import (
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// ForceDelta is a signed change to one country's forces. Nil fields are
// left untouched.
type ForceDelta struct {
	Troops   *int `json:"troops,omitempty"`
	Navy     *int `json:"navy,omitempty"`
	Airforce *int `json:"airforce,omitempty"`
}

// IsEmpty reports whether the delta changes nothing
func (fd ForceDelta) IsEmpty() bool {
	return fd.Troops == nil && fd.Navy == nil && fd.Airforce == nil
}

// ResourceUpdates are signed changes to the player's economy. Budget maps
// onto the resources counter.
type ResourceUpdates struct {
	Budget    *int `json:"budget,omitempty"`
	Oil       *int `json:"oil,omitempty"`
	Tech      *int `json:"tech,omitempty"`
	Influence *int `json:"influence,omitempty"`
}

// GeneralStats are absolute values for world-level counters.
type GeneralStats struct {
	Defcon *int `json:"defcon,omitempty"`
	Year   *int `json:"year,omitempty"`
}

// IsEmpty reports whether neither counter is set
func (gs *GeneralStats) IsEmpty() bool {
	return gs == nil || (gs.Defcon == nil && gs.Year == nil)
}

// WorldDelta is the reconciled form of a game master reply's state changes.
// A nil ResourceUpdates means the reply carried no resource_updates object,
// in which case Stats is treated as absolute values.
type WorldDelta struct {
	MilitaryUpdates  map[world.CountryCode]ForceDelta     `json:"military_updates,omitempty"`
	TerritoryUpdates map[world.CountryCode]world.FactionID `json:"territory_updates,omitempty"`
	Stats            map[string]int                        `json:"stats,omitempty"`
	ResourceUpdates  *ResourceUpdates                      `json:"resource_updates,omitempty"`
	GeneralStats     *GeneralStats                         `json:"general_stats,omitempty"`
}

// IsEmpty reports whether applying the delta would change nothing
func (d *WorldDelta) IsEmpty() bool {
	return d == nil || (len(d.MilitaryUpdates) == 0 &&
		len(d.TerritoryUpdates) == 0 &&
		len(d.Stats) == 0 &&
		d.ResourceUpdates == nil &&
		d.GeneralStats.IsEmpty())
}

// Rejection records one delta entry that was dropped and why.
type Rejection struct {
	Field  string `json:"field"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}

func (r Rejection) String() string {
	if r.Key == "" {
		return r.Field + ": " + r.Reason
	}
	return r.Field + "." + r.Key + ": " + r.Reason
}

// Rejection reasons
const (
	ReasonUnknownCountry = "unknown country code"
	ReasonUnknownFaction = "unknown faction"
	ReasonNotNumeric     = "not a number"
	ReasonOutOfRange     = "value out of range"
	ReasonNotObject      = "expected an object"
	ReasonNotString      = "expected a string"
	ReasonEmptyKey       = "empty key"
	ReasonUnknownField   = "unknown field"
	ReasonNotCounter     = "not a global counter"
)
