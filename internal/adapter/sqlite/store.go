package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// ErrNoSnapshot is returned when the store holds no dataset yet.
var ErrNoSnapshot = errors.New("no dataset snapshot stored")

const schema = `
CREATE TABLE IF NOT EXISTS dataset_snapshots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT    NOT NULL,
	payload    BLOB    NOT NULL,
	fetched_at TEXT    NOT NULL
)`

// Store persists raw dataset payloads so a render can survive an upstream outage.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open creates or opens the snapshot database at path.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, clockwork.NewRealClock())
}

// OpenWithClock is Open with an injectable time source.
func OpenWithClock(path string, clock clockwork.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

// SaveSnapshot records payload as the newest snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, source string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dataset_snapshots(source, payload, fetched_at) VALUES(?,?,?)`,
		source, payload, s.clock.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently saved snapshot.
func (s *Store) LatestSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var (
		snap      domain.Snapshot
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source, payload, fetched_at FROM dataset_snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&snap.Source, &snap.Payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse snapshot time: %w", err)
	}
	return snap, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
