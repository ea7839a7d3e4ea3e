package machine

// #region imports
import (
	"context"

	"github.com/sigmaris-os/persona-core/internal/engines"
)

// #endregion imports

// #region reflect

// reflectState produces a lightweight introspective summary of the completed
// exchange. Invariant: it writes only Meta.Reflection — the dialogue reply in
// Output is never touched from here on.
type reflectState struct {
	reflector Reflector
}

func (s *reflectState) Step(ctx context.Context, sc StateContext) (StateContext, StateName, error) {
	pair := engines.DialoguePair{User: sc.Input, AI: sc.Output}
	hint := engines.DeriveDepthHint(sc.SelfRef)

	if s.reflector != nil {
		text, tokens, err := s.reflector.Reflect(ctx, pair, hint)
		if err != nil || text == "" {
			sc.Meta.Reflection = fallbackFor(failureReflection)
		} else {
			sc.Meta.Reflection = text
			sc.TokenUsage += tokens
		}
	} else {
		sc.Meta.Reflection = fallbackFor(failureReflection)
	}

	sc.ReflectCount++
	sc.Emotion = sc.Emotion.Decayed(0.82, 0.015, 0.88)
	return sc, StateIntrospect, nil
}

// #endregion reflect
