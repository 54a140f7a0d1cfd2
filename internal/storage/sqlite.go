package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jwebster45206/age-of-tension/pkg/state"
	pkgstorage "github.com/jwebster45206/age-of-tension/pkg/storage"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// SQLiteStorage keeps the world snapshot in a one-row table and the
// territory audit trail alongside it.
type SQLiteStorage struct {
	conn   *sqlx.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ pkgstorage.Storage = (*SQLiteStorage)(nil)

// Ensure SQLiteStorage can serve as the audit log
var _ state.AuditLog = (*SQLiteStorage)(nil)

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; WorldStore already serializes mutations.
	conn.SetMaxOpenConns(1)

	s := &SQLiteStorage{conn: conn, logger: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStorage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS world_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS territory_changes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		code TEXT NOT NULL,
		from_faction TEXT NOT NULL,
		to_faction TEXT NOT NULL,
		turn INTEGER NOT NULL,
		year INTEGER NOT NULL,
		at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_territory_changes_code ON territory_changes(code);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStorage) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var data string
	err := s.conn.GetContext(ctx, &data, "SELECT data FROM world_snapshot WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load world snapshot: %w", err)
	}
	return []byte(data), nil
}

func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, data []byte) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO world_snapshot (id, data, updated_at) VALUES (1, ?, ?)",
		string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save world snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM world_snapshot"); err != nil {
		return fmt.Errorf("failed to delete world snapshot: %w", err)
	}
	return nil
}

type changeRow struct {
	ID   string `db:"id"`
	Code string `db:"code"`
	From string `db:"from_faction"`
	To   string `db:"to_faction"`
	Turn int    `db:"turn"`
	Year int    `db:"year"`
	At   int64  `db:"at"`
}

// Append records a territory change.
func (s *SQLiteStorage) Append(ctx context.Context, e state.AuditEntry) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO territory_changes (id, code, from_faction, to_faction, turn, year, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), string(e.Code), string(e.From), string(e.To), e.Turn, e.Year, e.At.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record territory change: %w", err)
	}
	return nil
}

// Recent returns up to limit territory changes, newest first.
func (s *SQLiteStorage) Recent(ctx context.Context, limit int) ([]state.AuditEntry, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	var rows []changeRow
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT id, code, from_faction, to_faction, turn, year, at FROM territory_changes ORDER BY seq DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read territory changes: %w", err)
	}

	out := make([]state.AuditEntry, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			s.logger.Warn("Skipping territory change with bad id", "id", r.ID, "error", err)
			continue
		}
		out = append(out, state.AuditEntry{
			ID: id,
			TerritoryChange: state.TerritoryChange{
				Code: world.CountryCode(r.Code),
				From: world.FactionID(r.From),
				To:   world.FactionID(r.To),
			},
			Turn: r.Turn,
			Year: r.Year,
			At:   time.UnixMilli(r.At).UTC(),
		})
	}
	return out, nil
}

// Clear removes the audit trail.
func (s *SQLiteStorage) Clear(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, "DELETE FROM territory_changes"); err != nil {
		return fmt.Errorf("failed to clear territory changes: %w", err)
	}
	return nil
}
