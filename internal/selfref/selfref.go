// Package selfref classifies whether an utterance is about the persona
// itself, the user, or a third party. The state machine consumes the result
// read-only to modulate introspection depth.
package selfref

// #region imports
import "strings"

// #endregion imports

// #region types

// Target is who an utterance refers to.
type Target string

const (
	TargetSelf    Target = "self"
	TargetUser    Target = "user"
	TargetThird   Target = "third"
	TargetUnknown Target = "unknown"
)

// Info is the classification result attached to a cycle.
type Info struct {
	Target     Target   `json:"target"`
	Confidence float64  `json:"confidence"`
	Cues       []string `json:"cues"`
}

// #endregion types

// #region cues

// selfCues address the persona directly.
var selfCues = []string{
	"you think", "you feel", "do you", "are you", "your opinion",
	"what do you", "tell me about yourself", "how do you",
}

// userCues are first-person statements about the speaker.
var userCues = []string{
	"i feel", "i think", "i am", "i'm", "my life", "i want", "i can't",
	"i need", "help me",
}

// thirdCues refer to someone or something else.
var thirdCues = []string{
	"my friend", "my mother", "my father", "my boss", "they", "he said",
	"she said", "people who",
}

// #endregion cues

// #region analyze

// Analyze scores the cue sets against the text and returns the dominant
// target with a confidence proportional to its margin. Nil is never returned;
// an inconclusive text yields TargetUnknown with zero confidence.
func Analyze(text string) *Info {
	lower := strings.ToLower(text)

	selfScore, selfHits := score(lower, selfCues)
	userScore, userHits := score(lower, userCues)
	thirdScore, thirdHits := score(lower, thirdCues)

	total := selfScore + userScore + thirdScore
	if total == 0 {
		return &Info{Target: TargetUnknown, Confidence: 0}
	}

	target := TargetSelf
	best := selfScore
	cues := selfHits
	if userScore > best {
		target, best, cues = TargetUser, userScore, userHits
	}
	if thirdScore > best {
		target, best, cues = TargetThird, thirdScore, thirdHits
	}

	return &Info{
		Target:     target,
		Confidence: best / total,
		Cues:       cues,
	}
}

func score(lower string, cues []string) (float64, []string) {
	var s float64
	var hits []string
	for _, c := range cues {
		if strings.Contains(lower, c) {
			s += 1.0
			hits = append(hits, c)
		}
	}
	return s, hits
}

// #endregion analyze
