// Package engines implements the self-evaluation collaborators: reflection,
// introspection, and meta-reflection, each a thin JSON-structured call over
// the shared llm.Client.
package engines

// #region imports
import "github.com/sigmaris-os/persona-core/internal/selfref"

// #endregion imports

// #region depth-hint

// DepthHint frames how deeply an evaluation pass should look inward.
type DepthHint string

const (
	DepthSelf    DepthHint = "self"
	DepthUser    DepthHint = "user"
	DepthThird   DepthHint = "third"
	DepthNeutral DepthHint = "neutral"
)

// #endregion depth-hint

// #region derive

// DeriveDepthHint maps a self-referent classification to a depth hint using
// per-target confidence thresholds. A nil info is neutral.
func DeriveDepthHint(info *selfref.Info) DepthHint {
	if info == nil {
		return DepthNeutral
	}
	switch {
	case info.Target == selfref.TargetSelf && info.Confidence > 0.6:
		return DepthSelf
	case info.Target == selfref.TargetUser && info.Confidence > 0.4:
		return DepthUser
	case info.Target == selfref.TargetThird:
		return DepthThird
	default:
		return DepthNeutral
	}
}

// framingFor returns the framing instruction for a depth hint.
func framingFor(hint DepthHint) string {
	switch hint {
	case DepthSelf:
		return "The exchange was about the persona itself. Examine your own stance carefully, without meta-commentary about implementation."
	case DepthUser:
		return "The exchange was about the user. Focus on what the user seems to need."
	case DepthThird:
		return "The exchange was about a third party. Keep the evaluation observational."
	default:
		return "Keep the evaluation brief and neutral."
	}
}

// #endregion derive
