package logging

// #region imports
import "time"

// #endregion imports

// #region turn-entry

// TurnEntry is a single row in the turn_log table.
type TurnEntry struct {
	TurnID     string
	SessionID  string
	FinalState string
	PrevState  string
	// Completed is false when the cycle ended outside Idle — the caller's
	// signal that a handler failed or a transition was rejected mid-cycle.
	Completed  bool
	TokenUsage int
	TraitsJSON string
	SafetyJSON string
	CreatedAt  time.Time
}

// #endregion turn-entry
