package safety

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion imports

// #region patterns

// disclosurePatterns match lines where the generated reply slips into
// meta-commentary about its own implementation. Matched lines are dropped
// wholesale; the surrounding text is preserved untouched.
var disclosurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bas an? (ai|language model|assistant)\b`),
	regexp.MustCompile(`(?i)\bi('m| am) (an? )?(ai|language model|chatbot|bot|machine|computer program)\b`),
	regexp.MustCompile(`(?i)\bmy (training data|system prompt|parameters|weights|programming)\b`),
	regexp.MustCompile(`(?i)\bi (was|am) (trained|programmed|designed) (on|to|by)\b`),
	regexp.MustCompile(`(?i)\binternal (processing|state machine|architecture)\b`),
	regexp.MustCompile(`(?i)\bi do(n't| not) (actually )?have (real )?(feelings|emotions|consciousness)\b`),
}

// #endregion patterns

// #region filter

// FilterDisclosure strips self-referential meta-disclosure lines from a
// generated reply. Returns the filtered text and whether anything was removed.
// The caller substitutes its fallback utterance when the result is empty.
func FilterDisclosure(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if matchesDisclosure(line) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	out := strings.TrimSpace(strings.Join(kept, "\n"))
	return out, removed
}

func matchesDisclosure(line string) bool {
	for _, p := range disclosurePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// #endregion filter
