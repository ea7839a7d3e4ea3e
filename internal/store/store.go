// Package store persists persona records in SQLite. The orchestration core
// never touches storage itself: the caller loads a record, runs a cycle, and
// writes the result back (read-modify-write, one concurrent cycle per session
// is the caller's responsibility).
package store

// #region imports
import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS persona_records (
	session_id  TEXT PRIMARY KEY,
	calm        REAL NOT NULL,
	empathy     REAL NOT NULL,
	curiosity   REAL NOT NULL,
	tension     REAL NOT NULL DEFAULT 0.1,
	warmth      REAL NOT NULL DEFAULT 0.2,
	hesitation  REAL NOT NULL DEFAULT 0.1,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS turn_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	turn_id      TEXT NOT NULL,
	session_id   TEXT NOT NULL,
	final_state  TEXT NOT NULL,
	prev_state   TEXT,
	completed    INTEGER NOT NULL,
	token_usage  INTEGER NOT NULL,
	traits_json  TEXT,
	safety_json  TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region record

// Record is one session's persisted persona state.
type Record struct {
	SessionID string
	Traits    trait.Vector
	Emotion   trait.Emotion
	UpdatedAt time.Time
}

// #endregion record

// #region store-struct

// Store manages persona records in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store-struct

// #region load-or-create

// LoadOrCreate returns the record for a session, inserting the default
// disposition on first contact.
func (s *Store) LoadOrCreate(sessionID string) (Record, error) {
	row := s.db.QueryRow(
		`SELECT calm, empathy, curiosity, tension, warmth, hesitation, updated_at
		 FROM persona_records WHERE session_id = ?`, sessionID)

	var rec Record
	var updatedAt string
	err := row.Scan(
		&rec.Traits.Calm, &rec.Traits.Empathy, &rec.Traits.Curiosity,
		&rec.Emotion.Tension, &rec.Emotion.Warmth, &rec.Emotion.Hesitation,
		&updatedAt,
	)
	switch {
	case err == sql.ErrNoRows:
		rec = Record{
			SessionID: sessionID,
			Traits:    trait.DefaultVector(),
			Emotion:   trait.DefaultEmotion(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := s.Save(rec); err != nil {
			return Record{}, fmt.Errorf("create record: %w", err)
		}
		return rec, nil
	case err != nil:
		return Record{}, fmt.Errorf("load record: %w", err)
	}

	rec.SessionID = sessionID
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return rec, nil
}

// #endregion load-or-create

// #region save

// Save upserts a record. Traits are clamped on the way in so storage never
// holds an out-of-range disposition.
func (s *Store) Save(rec Record) error {
	t := rec.Traits.Clamped()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO persona_records (session_id, calm, empathy, curiosity, tension, warmth, hesitation, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			calm=excluded.calm, empathy=excluded.empathy, curiosity=excluded.curiosity,
			tension=excluded.tension, warmth=excluded.warmth, hesitation=excluded.hesitation,
			updated_at=excluded.updated_at`,
		rec.SessionID, t.Calm, t.Empathy, t.Curiosity,
		rec.Emotion.Tension, rec.Emotion.Warmth, rec.Emotion.Hesitation,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// #endregion save

// #region sessions

// Sessions lists all known session IDs, most recently updated first.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT session_id FROM persona_records ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// #endregion sessions
