package machine

// #region imports
import "context"

// #endregion imports

// #region safety-mode

// safetyModeState is the terminal containment response: a pure circuit
// breaker with no conditional branching. The reply is always the fixed
// de-escalation message, regardless of the report contents, and traits are
// left untouched.
type safetyModeState struct{}

func (s *safetyModeState) Step(_ context.Context, sc StateContext) (StateContext, StateName, error) {
	sc.Output = fallbackFor(containSafety)
	return sc, StateIdle, nil
}

// #endregion safety-mode
