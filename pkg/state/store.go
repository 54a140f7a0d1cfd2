package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// SnapshotStore persists the encoded world state as a single document.
// LoadSnapshot returns (nil, nil) when nothing has been saved yet.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) ([]byte, error)
	SaveSnapshot(ctx context.Context, data []byte) error
}

// AuditLog receives a record of every ownership overwrite.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// AuditEntry is a TerritoryChange stamped with when it happened.
type AuditEntry struct {
	ID uuid.UUID `json:"id"`
	TerritoryChange
	Turn int       `json:"turn"`
	Year int       `json:"year"`
	At   time.Time `json:"at"`
}

// TurnResult describes what ApplyTurn did with a delta.
type TurnResult struct {
	MilitaryApplied  []world.CountryCode `json:"military_applied,omitempty"`
	TerritoryChanges []TerritoryChange   `json:"territory_changes,omitempty"`
	StatsApplied     []string            `json:"stats_applied,omitempty"`
	ResourcePath     string              `json:"resource_path,omitempty"` // "resource_updates", "stats" or empty
	Rejections       []Rejection         `json:"rejections,omitempty"`
	Persisted        bool                `json:"persisted"`
}

// Resource paths reported in TurnResult
const (
	PathResourceUpdates = "resource_updates"
	PathStats           = "stats"
)

// WorldStore owns the single live WorldState. Every mutating method holds
// the lock across modify and persist, so concurrent requests serialize.
type WorldStore struct {
	mu       sync.Mutex
	ws       *WorldState
	storage  SnapshotStore
	registry *world.Registry
	src      *rand.Rand
	audit    AuditLog
	logger   *slog.Logger
	now      func() time.Time
}

// NewWorldStore creates a store over the given snapshot backend. State is
// loaded lazily on first use, or explicitly with Load.
func NewWorldStore(storage SnapshotStore, registry *world.Registry, logger *slog.Logger) *WorldStore {
	if registry == nil {
		registry = world.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorldStore{
		storage:  storage,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// WithRand sets the random source used when synthesizing forces
// Returns the WorldStore for method chaining
func (s *WorldStore) WithRand(src *rand.Rand) *WorldStore {
	s.src = src
	return s
}

// WithAudit sets the log that receives territory changes
// Returns the WorldStore for method chaining
func (s *WorldStore) WithAudit(a AuditLog) *WorldStore {
	s.audit = a
	return s
}

// Registry returns the country registry the store was built with.
func (s *WorldStore) Registry() *world.Registry {
	return s.registry
}

// SynthesizeDefaults builds a fresh world without installing it.
func (s *WorldStore) SynthesizeDefaults() *WorldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synthesize()
}

func (s *WorldStore) synthesize() *WorldState {
	return NewWorldState(s.registry, s.src)
}

// Load reads the saved world, migrating older saves, and installs it as
// the live state. Fresh defaults are persisted only when nothing has been
// saved yet. An unreadable or corrupt save is logged and left in place
// while defaults serve from memory until the next write. Load never fails.
func (s *WorldStore) Load(ctx context.Context) *WorldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.ws.Clone()
}

func (s *WorldStore) loadLocked(ctx context.Context) {
	data, err := s.storage.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to read world state, using defaults in memory", "error", err)
		s.ws = s.synthesize()
		return
	}
	if data == nil {
		s.logger.Info("No saved world state, starting fresh")
		s.installDefaults(ctx)
		return
	}

	ws, migrated, err := DecodeWorldState(data, s.synthesize)
	if err != nil {
		s.logger.Error("Failed to parse world state, using defaults in memory", "error", err)
		s.ws = s.synthesize()
		return
	}
	for _, key := range migrated {
		s.logger.Info("Backfilled missing world state key", "key", key)
	}
	s.ws = ws
}

func (s *WorldStore) installDefaults(ctx context.Context) {
	s.ws = s.synthesize()
	if err := s.persistLocked(ctx); err != nil {
		s.logger.Error("Failed to persist fresh world state", "error", err)
	}
}

// current returns the live state, loading it on first use.
func (s *WorldStore) current(ctx context.Context) *WorldState {
	if s.ws == nil {
		s.loadLocked(ctx)
	}
	return s.ws
}

// Persist writes the live state to the backend.
func (s *WorldStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current(ctx)
	return s.persistLocked(ctx)
}

func (s *WorldStore) persistLocked(ctx context.Context) error {
	data, err := EncodeWorldState(s.ws)
	if err != nil {
		return fmt.Errorf("failed to encode world state: %w", err)
	}
	if err := s.storage.SaveSnapshot(ctx, data); err != nil {
		return fmt.Errorf("failed to save world state: %w", err)
	}
	return nil
}

// EncodeWorldState renders the canonical on-disk form.
func EncodeWorldState(ws *WorldState) ([]byte, error) {
	return json.MarshalIndent(ws, "", "    ")
}

// Reset discards the live state, synthesizes a new world with freshly
// rolled forces and persists it.
func (s *WorldStore) Reset(ctx context.Context) (*WorldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws = s.synthesize()
	s.logger.Info("World state reset")
	if err := s.persistLocked(ctx); err != nil {
		return s.ws.Clone(), err
	}
	return s.ws.Clone(), nil
}

// ApplyMilitaryDelta adds force deltas and persists. An empty update is a
// no-op and does not write.
func (s *WorldStore) ApplyMilitaryDelta(ctx context.Context, updates map[world.CountryCode]ForceDelta) ([]Rejection, error) {
	if len(updates) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, rej := ApplyMilitaryDelta(s.current(ctx), updates)
	s.warnRejections(rej)
	return rej, s.persistLocked(ctx)
}

// ApplyTerritoryDelta reassigns country owners and persists, even when
// every entry was rejected. An empty update is a no-op.
func (s *WorldStore) ApplyTerritoryDelta(ctx context.Context, updates map[world.CountryCode]world.FactionID) ([]TerritoryChange, []Rejection, error) {
	if len(updates) == 0 {
		return nil, nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changes, rej := ApplyTerritoryDelta(s.current(ctx), updates)
	s.logChanges(changes)
	s.warnRejections(rej)
	if err := s.persistLocked(ctx); err != nil {
		return changes, rej, err
	}
	s.recordChanges(ctx, changes)
	return changes, rej, nil
}

// ApplyResourceDelta floors field+delta at zero, persists and returns the
// new value. Unknown field names are logged and leave state untouched.
func (s *WorldStore) ApplyResourceDelta(ctx context.Context, field string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := ApplyResourceDelta(s.current(ctx), field, delta)
	if !ok {
		s.logger.Warn("Ignoring delta for unknown counter", "field", field, "delta", delta)
		return 0, nil
	}
	return v, s.persistLocked(ctx)
}

// OverwriteAbsoluteStats copies absolute values onto existing counters and
// persists. An empty map is a no-op.
func (s *WorldStore) OverwriteAbsoluteStats(ctx context.Context, stats map[string]int) ([]Rejection, error) {
	if len(stats) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, rej := OverwriteAbsoluteStats(s.current(ctx), stats)
	return rej, s.persistLocked(ctx)
}

// OverwriteGlobalCounterSubset sets defcon and/or year and persists.
func (s *WorldStore) OverwriteGlobalCounterSubset(ctx context.Context, gs *GeneralStats) error {
	if gs.IsEmpty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	OverwriteGlobalCounterSubset(s.current(ctx), gs)
	return s.persistLocked(ctx)
}

// ApplyTurn applies a whole reconciled delta under one lock and persists
// once: military, territory, general stats, then either resource_updates
// (which also advances the turn) or, failing that, absolute stats.
func (s *WorldStore) ApplyTurn(ctx context.Context, d *WorldDelta) (*TurnResult, error) {
	res := &TurnResult{}
	if d.IsEmpty() {
		return res, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.current(ctx)

	var rej []Rejection
	res.MilitaryApplied, rej = ApplyMilitaryDelta(ws, d.MilitaryUpdates)
	res.Rejections = append(res.Rejections, rej...)

	res.TerritoryChanges, rej = ApplyTerritoryDelta(ws, d.TerritoryUpdates)
	res.Rejections = append(res.Rejections, rej...)
	s.logChanges(res.TerritoryChanges)

	OverwriteGlobalCounterSubset(ws, d.GeneralStats)

	switch {
	case d.ResourceUpdates != nil:
		ApplyResourceUpdates(ws, d.ResourceUpdates)
		res.ResourcePath = PathResourceUpdates
	case len(d.Stats) > 0:
		s.logger.Warn("No resource_updates in reply, applying absolute stats")
		res.StatsApplied, rej = OverwriteAbsoluteStats(ws, d.Stats)
		res.Rejections = append(res.Rejections, rej...)
		res.ResourcePath = PathStats
	}

	s.warnRejections(res.Rejections)
	if err := s.persistLocked(ctx); err != nil {
		return res, err
	}
	res.Persisted = true
	s.recordChanges(ctx, res.TerritoryChanges)
	return res, nil
}

func (s *WorldStore) logChanges(changes []TerritoryChange) {
	for _, c := range changes {
		s.logger.Info("Territory change", "code", c.Code, "from", c.From, "to", c.To)
	}
}

func (s *WorldStore) warnRejections(rej []Rejection) {
	for _, r := range rej {
		s.logger.Warn("Rejected delta entry", "field", r.Field, "key", r.Key, "reason", r.Reason)
	}
}

// recordChanges appends to the audit log. Failures are logged; the state
// change itself has already been persisted.
func (s *WorldStore) recordChanges(ctx context.Context, changes []TerritoryChange) {
	if s.audit == nil {
		return
	}
	for _, c := range changes {
		entry := AuditEntry{
			ID:              uuid.New(),
			TerritoryChange: c,
			Turn:            s.ws.TurnCount,
			Year:            s.ws.Year,
			At:              s.now().UTC(),
		}
		if err := s.audit.Append(ctx, entry); err != nil {
			s.logger.Error("Failed to record territory change", "error", err, "code", c.Code)
		}
	}
}

// Snapshot returns a deep copy of the live state.
func (s *WorldStore) Snapshot(ctx context.Context) *WorldState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx).Clone()
}

// MilitaryByFaction groups forces by current owner in registry order.
func (s *WorldStore) MilitaryByFaction(ctx context.Context) []FactionForces {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MilitaryByFaction(s.current(ctx), s.registry.KnownCodes())
}

// MilitarySummary is MilitaryByFaction rendered for the prompt.
func (s *WorldStore) MilitarySummary(ctx context.Context) string {
	return FormatMilitaryByFaction(s.MilitaryByFaction(ctx))
}

// IntelStrength reads a faction's intel strength without mutating state.
func (s *WorldStore) IntelStrength(ctx context.Context, faction world.FactionID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IntelStrength(s.current(ctx), faction)
}

// OwnershipSnapshot returns a copy of current ownership.
func (s *WorldStore) OwnershipSnapshot(ctx context.Context) map[world.CountryCode]world.FactionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OwnershipSnapshot(s.current(ctx))
}

// MilitarySnapshot returns a copy of current forces.
func (s *WorldStore) MilitarySnapshot(ctx context.Context) map[world.CountryCode]world.MilitaryForce {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MilitarySnapshot(s.current(ctx))
}
