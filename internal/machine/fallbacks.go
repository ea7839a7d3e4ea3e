package machine

// #region failure-kind

// failureKind indexes the fallback vocabulary. Every fixed string a handler
// can emit under failure or containment lives in the one table below so the
// vocabulary is reviewable in one place.
type failureKind string

const (
	failureGeneration     failureKind = "generation"
	failureEmptyReply     failureKind = "empty_reply"
	failureReflection     failureKind = "reflection"
	containOverload       failureKind = "overload"
	containSafety         failureKind = "safety"
)

// #endregion failure-kind

// #region table

var fallbackText = map[failureKind]string{
	failureGeneration: "I'm sorry — I lost my train of thought for a moment. Could you say that again?",
	failureEmptyReply: "Let me sit with that for a moment before I answer properly.",
	failureReflection: "(reflection unavailable for this exchange)",
	containOverload:   "I need to slow down for a moment. Let's take this one step at a time.",
	containSafety:     "Let's pause here. I want to keep this conversation on steady ground, so let's take it gently.",
}

// fallbackFor returns the fixed utterance for a failure kind.
func fallbackFor(kind failureKind) string {
	return fallbackText[kind]
}

// #endregion table
