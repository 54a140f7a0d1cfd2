package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/age-of-tension/pkg/state"
	pkgstorage "github.com/jwebster45206/age-of-tension/pkg/storage"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rs, err := NewRedisStorage("redis://"+mr.Addr(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create redis storage: %v", err)
	}
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

// exerciseSnapshots runs the same contract against every backend.
func exerciseSnapshots(t *testing.T, s pkgstorage.Storage) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	data, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "empty backend reports not found as nil, nil")

	first := []byte(`{"turn_count": 1}`)
	require.NoError(t, s.SaveSnapshot(ctx, first))
	data, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, data)

	second := []byte(`{"turn_count": 2, "year": 2028}`)
	require.NoError(t, s.SaveSnapshot(ctx, second))
	data, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, data, "save replaces wholesale")

	require.NoError(t, s.DeleteSnapshot(ctx))
	data, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.DeleteSnapshot(ctx), "deleting twice is fine")
}

func TestFileStorage_Snapshots(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "world_state.json"), testLogger())
	exerciseSnapshots(t, s)
}

func TestFileStorage_CreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	s := NewFileStorage(filepath.Join(dir, "world.json"), testLogger())
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, []byte(`{}`)))
	require.NoError(t, s.SaveSnapshot(ctx, []byte(`{"a": 1}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "world.json", entries[0].Name())
}

func TestFileStorage_PingMissingDirectory(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nope", "world.json"), testLogger())
	assert.Error(t, s.Ping(context.Background()))
}

func TestRedisStorage_Snapshots(t *testing.T) {
	rs, _ := setupTestRedis(t)
	exerciseSnapshots(t, rs)
}

func TestRedisStorage_NoExpiry(t *testing.T) {
	rs, mr := setupTestRedis(t)
	require.NoError(t, rs.SaveSnapshot(context.Background(), []byte(`{}`)))
	mr.FastForward(48 * time.Hour)
	assert.True(t, mr.Exists(SnapshotKey))
}

func TestRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("not a url", testLogger())
	assert.Error(t, err)
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	rs, _ := setupTestRedis(t)
	assert.NoError(t, rs.WaitForConnection(context.Background(), 3, time.Millisecond))
}

func TestSQLiteStorage_Snapshots(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "world.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseSnapshots(t, s)
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")
	ctx := context.Background()

	s, err := OpenSQLite(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.SaveSnapshot(ctx, []byte(`{"year": 2030}`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, testLogger())
	require.NoError(t, err)
	defer s.Close()
	data, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year": 2030}`, string(data))
}

func change(code world.CountryCode, from, to world.FactionID, turn int) state.AuditEntry {
	return state.AuditEntry{
		ID:              uuid.New(),
		TerritoryChange: state.TerritoryChange{Code: code, From: from, To: to},
		Turn:            turn,
		Year:            2027,
		At:              time.Date(2027, 1, 1, 0, 0, turn, 0, time.UTC),
	}
}

type auditReader interface {
	state.AuditLog
	Recent(ctx context.Context, limit int) ([]state.AuditEntry, error)
	Clear(ctx context.Context) error
}

func exerciseAudit(t *testing.T, log auditReader) {
	t.Helper()
	ctx := context.Background()

	entries, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	a := change("TW", "neutral", "china", 1)
	b := change("UA", "eu", "russia", 2)
	c := change("PL", "eu", "russia", 3)
	for _, e := range []state.AuditEntry{a, b, c} {
		require.NoError(t, log.Append(ctx, e))
	}

	entries, err = log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, c.ID, entries[0].ID)
	assert.Equal(t, b.ID, entries[1].ID)
	assert.Equal(t, world.CountryCode("UA"), entries[1].Code)
	assert.Equal(t, world.FactionID("russia"), entries[1].To)
	assert.True(t, b.At.Equal(entries[1].At))

	entries, err = log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, log.Clear(ctx))
	entries, err = log.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRedisAuditLog(t *testing.T) {
	rs, _ := setupTestRedis(t)
	exerciseAudit(t, NewRedisAuditLog(rs.Client(), testLogger()))
}

func TestRedisAuditLog_Cap(t *testing.T) {
	rs, _ := setupTestRedis(t)
	log := NewRedisAuditLog(rs.Client(), testLogger()).WithCap(2)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, log.Append(ctx, change("TW", "neutral", "china", i)))
	}
	depth, err := log.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)

	entries, err := log.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 5, entries[0].Turn)
	assert.Equal(t, 4, entries[1].Turn)
}

func TestSQLiteAuditLog(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "world.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseAudit(t, s)
}

func TestWorldStoreOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world_state.json")
	ctx := context.Background()

	store := state.NewWorldStore(NewFileStorage(path, testLogger()), world.DefaultRegistry(), testLogger())
	ws := store.Load(ctx)

	_, _, err := store.ApplyTerritoryDelta(ctx, map[world.CountryCode]world.FactionID{"TW": "china", "ZZ": "usa"})
	require.NoError(t, err)

	reloaded := state.NewWorldStore(NewFileStorage(path, testLogger()), world.DefaultRegistry(), testLogger()).Load(ctx)
	assert.Equal(t, world.FactionID("china"), reloaded.Ownership["TW"])
	assert.Equal(t, ws.Military, reloaded.Military)
	assert.Len(t, reloaded.Ownership, len(ws.Ownership))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"defcon\": 5")
}
