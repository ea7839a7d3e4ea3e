package machine

// #region imports
import "context"

// #endregion imports

// #region overload-prevent

// overloadPreventState de-escalates without any model work. It is the only
// place outside the evaluation stages that restores calm, and it self-loops
// (bounded by MaxSteps) until calm clears the resume threshold.
type overloadPreventState struct {
	config Config
}

func (s *overloadPreventState) Step(_ context.Context, sc StateContext) (StateContext, StateName, error) {
	sc.Output = fallbackFor(containOverload)

	calm := sc.Traits.Calm + s.config.CalmRecoveryStep
	if calm > 1 {
		calm = 1
	}
	sc.Traits.Calm = calm

	if calm > s.config.CalmResume {
		return sc, StateDialogue, nil
	}
	return sc, StateOverloadPrevent, nil
}

// #endregion overload-prevent
