// Package logging writes the per-turn provenance trail: which state each
// cycle ended in, whether it completed, and the serialized traits and safety
// report that fed the decision.
package logging

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion imports

// #region log-turn

// LogTurn appends an entry to the turn_log table.
func LogTurn(db *sql.DB, entry TurnEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO turn_log (turn_id, session_id, final_state, prev_state, completed, token_usage, traits_json, safety_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TurnID,
		entry.SessionID,
		entry.FinalState,
		nullIfEmpty(entry.PrevState),
		boolToInt(entry.Completed),
		entry.TokenUsage,
		nullIfEmpty(entry.TraitsJSON),
		nullIfEmpty(entry.SafetyJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log turn: %w", err)
	}
	return nil
}

// #endregion log-turn

// #region read-back

// RecentTurns returns the latest n entries for a session, newest first.
func RecentTurns(db *sql.DB, sessionID string, n int) ([]TurnEntry, error) {
	rows, err := db.Query(
		`SELECT turn_id, session_id, final_state, COALESCE(prev_state, ''), completed, token_usage,
		        COALESCE(traits_json, ''), COALESCE(safety_json, ''), created_at
		 FROM turn_log WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []TurnEntry
	for rows.Next() {
		var e TurnEntry
		var completed int
		var createdAt string
		if err := rows.Scan(&e.TurnID, &e.SessionID, &e.FinalState, &e.PrevState,
			&completed, &e.TokenUsage, &e.TraitsJSON, &e.SafetyJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		e.Completed = completed != 0
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion read-back

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
