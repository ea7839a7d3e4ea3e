package trait

// #region config

// StabilizeConfig holds the bounds for the end-of-cycle stabilization pass.
type StabilizeConfig struct {
	// GroundWeight is how far a grounded cycle pulls traits back toward the
	// pre-cycle vector (0 = keep proposed, 1 = full revert).
	GroundWeight float64 `yaml:"ground_weight"`
	// MaxDrift caps the Euclidean distance a single cycle may move the
	// vector. 0 disables the cap.
	MaxDrift float64 `yaml:"max_drift"`
}

// DefaultStabilizeConfig returns the production stabilization bounds.
func DefaultStabilizeConfig() StabilizeConfig {
	return StabilizeConfig{
		GroundWeight: 0.3,
		// Wide enough that a full overload-recovery cycle (six calm steps of
		// 0.05) is never pulled back.
		MaxDrift: 0.35,
	}
}

// #endregion config

// #region stabilize

// Stabilize enforces the [0,1] invariant on the proposed vector and applies
// the cross-cutting corrections, regardless of which states ran this cycle:
//
//  1. clamp every dimension;
//  2. when the cycle's safety outcome demands grounding, blend the proposed
//     vector back toward the pre-cycle one;
//  3. cap total per-cycle drift.
//
// Idempotent on already-valid input when grounding is off: stabilizing twice
// yields the identical vector.
func Stabilize(prev, proposed Vector, ground bool, config StabilizeConfig) Vector {
	out := proposed.Clamped()

	if ground && config.GroundWeight > 0 {
		out = out.Blended(prev.Clamped(), config.GroundWeight)
	}

	if config.MaxDrift > 0 {
		if dist := prev.DistanceTo(out); dist > config.MaxDrift {
			// Pull back onto the drift sphere around prev.
			w := config.MaxDrift / dist
			out = prev.Clamped().Blended(out, w)
		}
	}

	return out
}

// #endregion stabilize
