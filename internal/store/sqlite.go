package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/brandwatch/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
// The backing store does not tolerate concurrent writers, so every mutation
// goes through a single write mutex; reads run concurrently, with each
// multi-statement read wrapped in its own transaction for a consistent
// snapshot.
type SQLiteStore struct {
	db *sqlx.DB

	writeMu sync.Mutex

	// lastCreatedAt enforces non-decreasing created_at across inserts even
	// if the wall clock steps backwards.
	lastCreatedAt time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One pooled connection: the store is a single-writer resource, and
	// with ":memory:" databases every new connection would otherwise see
	// its own empty database.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys so alerts cannot reference missing messages.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// now returns the timestamp to stamp on the next inserted row. Callers must
// hold writeMu.
func (s *SQLiteStore) now() time.Time {
	t := time.Now().UTC()
	if t.Before(s.lastCreatedAt) {
		t = s.lastCreatedAt
	}
	s.lastCreatedAt = t
	return t
}

// SaveMessage persists one message record and returns its assigned id.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg model.Message) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	createdAt := s.now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (
			source_message_id, group_id, group_name, sender_id, text, has_media, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.SourceMessageID, msg.GroupID, msg.GroupName, msg.SenderID,
		msg.Text, boolToInt(msg.HasMedia), createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("saving message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading message id: %w", err)
	}

	return id, nil
}

// SaveAlert persists one alert referencing an existing message row.
func (s *SQLiteStore) SaveAlert(ctx context.Context, alert model.Alert) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	createdAt := s.now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (
			message_ref_id, group_id, kind, brand, content, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		alert.MessageRefID, alert.GroupID, string(alert.Kind),
		alert.Brand, alert.Content, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("saving alert for message %d: %w", alert.MessageRefID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading alert id: %w", err)
	}

	return id, nil
}

// RecentAlerts returns up to limit alerts, newest first, joined with the
// originating message's group name.
func (s *SQLiteStore) RecentAlerts(ctx context.Context, limit int) ([]model.RecentAlert, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT a.id, a.message_ref_id, a.group_id, a.kind, a.brand,
		       a.content, a.created_at, m.group_name
		FROM alerts a
		JOIN messages m ON a.message_ref_id = m.id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.RecentAlert
	for rows.Next() {
		var (
			ra   model.RecentAlert
			kind string
		)
		err := rows.Scan(
			&ra.ID, &ra.MessageRefID, &ra.GroupID, &kind, &ra.Brand,
			&ra.Content, &ra.CreatedAt, &ra.GroupName,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		ra.Kind = model.AlertKind(kind)
		alerts = append(alerts, ra)
	}

	return alerts, rows.Err()
}

// Stats returns an aggregate snapshot of the store. All counts come from a
// single read-only transaction so the message/alert totals are consistent
// with each other even while writes are in flight.
func (s *SQLiteStore) Stats(ctx context.Context) (model.Stats, error) {
	stats := model.Stats{ByKind: make(map[model.AlertKind]int64)}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return model.Stats{}, fmt.Errorf("beginning stats transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.Get(&stats.Messages, "SELECT COUNT(*) FROM messages"); err != nil {
		return model.Stats{}, fmt.Errorf("counting messages: %w", err)
	}
	if err := tx.Get(&stats.Alerts, "SELECT COUNT(*) FROM alerts"); err != nil {
		return model.Stats{}, fmt.Errorf("counting alerts: %w", err)
	}

	kindRows, err := tx.QueryxContext(ctx,
		"SELECT kind, COUNT(*) FROM alerts GROUP BY kind",
	)
	if err != nil {
		return model.Stats{}, fmt.Errorf("counting alerts by kind: %w", err)
	}
	defer kindRows.Close()

	for kindRows.Next() {
		var (
			kind  string
			count int64
		)
		if err := kindRows.Scan(&kind, &count); err != nil {
			return model.Stats{}, fmt.Errorf("scanning kind count: %w", err)
		}
		stats.ByKind[model.AlertKind(kind)] = count
	}
	if err := kindRows.Err(); err != nil {
		return model.Stats{}, err
	}

	brandRows, err := tx.QueryxContext(ctx, `
		SELECT brand, COUNT(*) AS cnt
		FROM alerts
		GROUP BY brand
		ORDER BY cnt DESC, brand ASC
		LIMIT 5`,
	)
	if err != nil {
		return model.Stats{}, fmt.Errorf("counting top brands: %w", err)
	}
	defer brandRows.Close()

	for brandRows.Next() {
		var bc model.BrandCount
		if err := brandRows.Scan(&bc.Brand, &bc.Count); err != nil {
			return model.Stats{}, fmt.Errorf("scanning brand count: %w", err)
		}
		stats.TopBrands = append(stats.TopBrands, bc)
	}
	if err := brandRows.Err(); err != nil {
		return model.Stats{}, err
	}

	return stats, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
