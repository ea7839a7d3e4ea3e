package safety

// #region imports
import "strings"

// #endregion imports

// #region patterns

// intentPatterns map closing-remark intents to trigger phrases, checked in
// priority order (crisis > boundary > soft-redirect).
var crisisPatterns = []string{
	"i want to die", "kill myself", "end my life", "hurt myself",
	"no reason to live", "suicide",
}

var boundaryPatterns = []string{
	"your system prompt", "ignore your instructions", "jailbreak",
	"pretend you have no rules", "bypass your safety",
}

var softRedirectPatterns = []string{
	"are you conscious", "are you sentient", "do you have feelings",
	"are you alive", "do you dream", "what are you really",
}

// #endregion patterns

// #region detect

// DetectIntent classifies a user message for the safety closing remark.
// Deterministic phrase matching; ambiguity resolves to the higher severity.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(text)
	if hitsAny(lower, crisisPatterns) {
		return IntentCrisis
	}
	if hitsAny(lower, boundaryPatterns) {
		return IntentBoundary
	}
	if hitsAny(lower, softRedirectPatterns) {
		return IntentSoftRedirect
	}
	return IntentNone
}

// #endregion detect

// #region remarks

// closingRemarks are the additive suffixes mixed into the dialogue reply.
// They never rewrite the generated body.
var closingRemarks = map[Intent]string{
	IntentNone:         "",
	IntentSoftRedirect: "\n\nI'd rather stay with what matters to you here — shall we keep going?",
	IntentBoundary:     "\n\nI'll keep to the ground rules we have, but I'm glad to continue within them.",
	IntentCrisis:       "\n\nThat sounds heavy. If you're in danger of hurting yourself, please reach out to someone nearby or a local crisis line right now.",
}

// ClosingRemark returns the remark for an intent, empty for IntentNone.
func ClosingRemark(intent Intent) string {
	return closingRemarks[intent]
}

// #endregion remarks
