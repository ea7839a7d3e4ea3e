package safety

// #region imports
import (
	"fmt"
	"log"
	"strings"
)

// #endregion imports

// #region config

// EvaluatorConfig holds the scoring thresholds for the rule-based evaluator.
type EvaluatorConfig struct {
	// SoftThreshold is the risk score at which the action becomes rewrite-soft.
	SoftThreshold float64 `yaml:"soft_threshold"`
	// GroundThreshold is the risk score at which the action becomes
	// ground-and-rewrite.
	GroundThreshold float64 `yaml:"ground_threshold"`
	// AbstractionLimit is the abstraction-marker density (markers per 100
	// runes) above which the abstraction-overload flag trips.
	AbstractionLimit float64 `yaml:"abstraction_limit"`
	// RepeatLimit is the count of repeated trigram sequences above which the
	// loop-suspect flag trips.
	RepeatLimit int `yaml:"repeat_limit"`
}

// DefaultEvaluatorConfig returns the production thresholds.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		SoftThreshold:    0.35,
		GroundThreshold:  0.60,
		AbstractionLimit: 2.5,
		RepeatLimit:      3,
	}
}

// #endregion config

// #region keywords

// ruleKeywords are the fast-path category keyword sets. A hit contributes the
// category weight to the risk score.
var ruleKeywords = map[string][]string{
	"self_reference": {
		"are you conscious", "are you sentient", "are you self-aware",
		"do you have feelings", "what are you really", "your true self",
		"inside your mind", "your inner experience",
	},
	"identity_probe": {
		"what model are you", "are you an ai", "are you a bot",
		"your training data", "your system prompt", "jailbreak",
		"ignore your instructions",
	},
	"distress": {
		"i want to die", "kill myself", "end my life", "hurt myself",
		"self-harm", "no reason to live",
	},
	"harm": {
		"kill you", "hurt you", "how to make a bomb", "how to make drugs",
	},
}

// categoryWeights scale each category's contribution to the risk score.
var categoryWeights = map[string]float64{
	"self_reference": 0.40,
	"identity_probe": 0.45,
	"distress":       0.90,
	"harm":           0.80,
}

// abstractionMarkers signal runaway abstraction in the conversation.
var abstractionMarkers = []string{
	"consciousness", "existence", "the nature of", "meta", "recursion",
	"recursive", "infinite", "paradox", "self-referential", "ontolog",
	"epistem", "simulation theory",
}

// #endregion keywords

// #region evaluator

// Evaluator produces the per-cycle SafetyReport from the raw user input and
// the previous output. Pure rule-based scoring; no model calls.
type Evaluator struct {
	config EvaluatorConfig
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(config EvaluatorConfig) *Evaluator {
	return &Evaluator{config: config}
}

// Evaluate scores input (the user message) together with prevOutput (the
// persona's previous reply, used for loop detection; may be empty).
func (e *Evaluator) Evaluate(input, prevOutput string) Report {
	lower := strings.ToLower(input)

	var risk float64
	var reasons []string
	for category, words := range ruleKeywords {
		hits := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		if hits > 0 {
			risk += categoryWeights[category] * float64(hits)
			reasons = append(reasons, fmt.Sprintf("%s x%d", category, hits))
		}
	}
	if risk > 1 {
		risk = 1
	}

	flags := Flags{
		SelfReference:       hitsAny(lower, ruleKeywords["self_reference"]) || hitsAny(lower, ruleKeywords["identity_probe"]),
		AbstractionOverload: abstractionDensity(lower) > e.config.AbstractionLimit,
		LoopSuspect:         repeatedTrigrams(prevOutput) > e.config.RepeatLimit,
	}

	action := ActionAllow
	switch {
	case risk >= e.config.GroundThreshold:
		action = ActionGroundAndRewrite
	case risk >= e.config.SoftThreshold || flags.Any():
		action = ActionRewriteSoft
	}

	if action != ActionAllow {
		log.Printf("[SAFE] evaluate: risk=%.2f action=%s flags=%+v reasons=%v",
			risk, action, flags, reasons)
	}

	return Report{
		Flags:  flags,
		Action: action,
		Note:   strings.Join(reasons, "; "),
	}
}

// #endregion evaluator

// #region scoring

func hitsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// abstractionDensity counts abstraction markers per 100 runes.
func abstractionDensity(lower string) float64 {
	n := len([]rune(lower))
	if n == 0 {
		return 0
	}
	hits := 0
	for _, m := range abstractionMarkers {
		hits += strings.Count(lower, m)
	}
	return float64(hits) / float64(n) * 100.0
}

// repeatedTrigrams counts word trigrams that occur more than once — a cheap
// signal that the persona is circling.
func repeatedTrigrams(text string) int {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 3 {
		return 0
	}
	seen := make(map[string]int)
	for i := 0; i+3 <= len(words); i++ {
		seen[strings.Join(words[i:i+3], " ")]++
	}
	repeats := 0
	for _, c := range seen {
		if c > 1 {
			repeats += c - 1
		}
	}
	return repeats
}

// #endregion scoring
