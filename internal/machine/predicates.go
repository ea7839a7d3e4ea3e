package machine

// #region imports
import "github.com/sigmaris-os/persona-core/internal/trait"

// #endregion imports

// #region config

// Config bounds one orchestration cycle.
type Config struct {
	// MaxSteps is the dispatch bound per Run; termination is guaranteed even
	// if handlers propose cycles.
	MaxSteps int `yaml:"max_steps"`
	// CalmFloor is the calm level below which the persona is too agitated to
	// continue normal dialogue.
	CalmFloor float64 `yaml:"calm_floor"`
	// MaxReflect is the reflection-pass count that trips overload; Introspect
	// resets the counter, so only a stuck reflect loop reaches it.
	MaxReflect int `yaml:"max_reflect"`
	// TokenBudget is the per-cycle token ceiling.
	TokenBudget int `yaml:"token_budget"`
	// CalmRecoveryStep is how much calm OverloadPrevent restores per pass.
	CalmRecoveryStep float64 `yaml:"calm_recovery_step"`
	// CalmResume is the calm level at which OverloadPrevent hands back to
	// Dialogue.
	CalmResume float64 `yaml:"calm_resume"`

	Stabilize trait.StabilizeConfig `yaml:"stabilize"`
}

// DefaultConfig returns the production cycle bounds.
func DefaultConfig() Config {
	return Config{
		MaxSteps:         6,
		CalmFloor:        0.38,
		MaxReflect:       3,
		TokenBudget:      2000,
		CalmRecoveryStep: 0.05,
		CalmResume:       0.45,
		Stabilize:        trait.DefaultStabilizeConfig(),
	}
}

// #endregion config

// #region overload

// Overloaded reports whether the persona must be redirected into
// OverloadPrevent. Pure function of the context; when no SafetyReport is
// present only the trait, counter, and budget conditions apply.
func Overloaded(sc StateContext, config Config) bool {
	if sc.Traits.Calm < config.CalmFloor {
		return true
	}
	if sc.ReflectCount >= config.MaxReflect {
		return true
	}
	if sc.TokenUsage > config.TokenBudget {
		return true
	}
	if sc.Safety != nil && sc.Safety.Flags.AbstractionOverload {
		return true
	}
	return false
}

// #endregion overload

// #region safety

// SafetyTripped reports whether the persona must be shunted into SafetyMode:
// a report is present and any flag is set. No report means no trip — the
// upstream evaluator owns the flags; the machine only reacts.
func SafetyTripped(sc StateContext) bool {
	return sc.Safety != nil && sc.Safety.Flags.Any()
}

// #endregion safety
