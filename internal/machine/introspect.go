package machine

// #region imports
import (
	"context"
	"log"

	"github.com/sigmaris-os/persona-core/internal/engines"
	"github.com/sigmaris-os/persona-core/internal/selfref"
)

// #endregion imports

// #region introspect

// introspectState runs the two-stage refinement over the reflection output:
// introspection first, then meta-reflection over its result. The meta stage's
// trait proposal wins over the introspection stage's; absent both, traits are
// unchanged. This is also the only path that resets ReflectCount, which keeps
// the overload predicate from tripping permanently.
type introspectState struct {
	introspector Introspector
	meta         MetaReflector
}

func (s *introspectState) Step(ctx context.Context, sc StateContext) (StateContext, StateName, error) {
	hint := engines.DeriveDepthHint(sc.SelfRef)

	introText := sc.Meta.Reflection
	if s.introspector != nil {
		res, err := s.introspector.Introspect(ctx, sc.Meta.Reflection, sc.Traits, hint)
		if err != nil {
			// Pass the reflection through unchanged; the cycle goes on.
			log.Printf("[FSM] %s: introspection failed: %v", sc.SessionID, err)
		} else {
			if res.Output != "" {
				introText = res.Output
			}
			if res.UpdatedTraits != nil {
				sc.Traits = *res.UpdatedTraits
			}
			sc.TokenUsage += res.TokensUsed
		}
	}
	sc.Meta.Introspection = introText

	if s.meta != nil {
		res, err := s.meta.MetaReflect(ctx, introText, sc.Traits, engines.MetaInput{
			SelfReferent: sc.SelfRef != nil && sc.SelfRef.Target == selfref.TargetSelf,
			Hint:         hint,
			ReflectCount: sc.ReflectCount,
		})
		if err != nil {
			log.Printf("[FSM] %s: meta-reflection failed: %v", sc.SessionID, err)
			sc.Meta.MetaReflection = introText
		} else {
			if res.Output != "" {
				sc.Meta.MetaReflection = res.Output
			} else {
				sc.Meta.MetaReflection = introText
			}
			if res.UpdatedTraits != nil {
				sc.Traits = *res.UpdatedTraits
			}
			sc.TokenUsage += res.TokensUsed
		}
	} else {
		sc.Meta.MetaReflection = introText
	}

	sc.ReflectCount = 0
	sc.Emotion = sc.Emotion.Decayed(0.72, 0.02, 0.9)
	return sc, StateIdle, nil
}

// #endregion introspect
