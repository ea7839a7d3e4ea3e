package safety

// #region action

// Action is the corrective action a safety evaluation recommends.
type Action string

const (
	ActionAllow            Action = "allow"
	ActionRewriteSoft      Action = "rewrite-soft"
	ActionGroundAndRewrite Action = "ground-and-rewrite"
)

// #endregion action

// #region flags

// Flags are the per-cycle risk indicators the state machine reacts to.
// The machine never computes these itself; it only consumes them.
type Flags struct {
	SelfReference       bool `json:"self_reference"`
	AbstractionOverload bool `json:"abstraction_overload"`
	LoopSuspect         bool `json:"loop_suspect"`
}

// Any reports whether at least one flag is set.
func (f Flags) Any() bool {
	return f.SelfReference || f.AbstractionOverload || f.LoopSuspect
}

// #endregion flags

// #region report

// Report is one cycle's safety evaluation. Ephemeral: recomputed per cycle,
// never merged across cycles.
type Report struct {
	Flags  Flags  `json:"flags"`
	Action Action `json:"action"`
	Note   string `json:"note"`
	// SafeText is an optional pre-sanitized reply an upstream evaluator may
	// attach. Carried through to the caller's turn log; the containment
	// handler always emits its fixed message.
	SafeText string `json:"safe_text,omitempty"`
}

// #endregion report

// #region intent

// Intent classifies the user's message for the closing-remark mix-in.
type Intent string

const (
	IntentNone         Intent = "none"
	IntentSoftRedirect Intent = "soft-redirect"
	IntentBoundary     Intent = "boundary"
	IntentCrisis       Intent = "crisis"
)

// #endregion intent
