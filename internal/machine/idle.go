package machine

// #region imports
import (
	"context"
	"strings"
)

// #endregion imports

// #region idle

// idleState is the entry and exit point of a cycle. It gates on whether there
// is actual user input and cools the affect toward baseline on every pass,
// even when no transition follows.
type idleState struct{}

func (s *idleState) Step(_ context.Context, sc StateContext) (StateContext, StateName, error) {
	sc.Emotion = sc.Emotion.Scaled(0.85, 0.98, 0.9)

	if strings.TrimSpace(sc.Input) == "" {
		// Nothing to do this cycle. Idle->Idle is outside the transition
		// table, so the loop halts cleanly with the state unchanged.
		return sc, StateIdle, nil
	}
	return sc, StateDialogue, nil
}

// #endregion idle
