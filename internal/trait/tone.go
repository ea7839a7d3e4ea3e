package trait

// #region sampling

// Sampling carries the generation parameters derived from disposition.
type Sampling struct {
	Tone        string
	Temperature float32
	TopP        float32
}

// #endregion sampling

// #region decide

// DecideSampling maps the current disposition to a tone label and sampling
// parameters for the generation call. Arousal rises as calm drops and
// curiosity rises; higher arousal widens the temperature.
func DecideSampling(v Vector) Sampling {
	calm := clamp01(v.Calm)
	empathy := clamp01(v.Empathy)
	curiosity := clamp01(v.Curiosity)

	arousal := clamp01((1.0-calm)*0.6 + curiosity*0.4)

	temperature := 0.7 + (arousal-0.5)*0.4
	if temperature < 0.2 {
		temperature = 0.2
	}
	if temperature > 1.1 {
		temperature = 1.1
	}

	topP := 0.90 + (curiosity-0.5)*0.12 - (calm-0.5)*0.08
	if topP < 0.60 {
		topP = 0.60
	}
	if topP > 0.98 {
		topP = 0.98
	}

	return Sampling{
		Tone:        decideTone(calm, empathy, curiosity),
		Temperature: float32(temperature),
		TopP:        float32(topP),
	}
}

// #endregion decide

// #region tone

// decideTone buckets the disposition into a human-readable style label.
// The label goes into the system prompt and the turn log.
func decideTone(calm, empathy, curiosity float64) string {
	switch {
	case calm >= 0.7 && empathy >= 0.6 && curiosity >= 0.6:
		return "warm-curious"
	case calm >= 0.7 && empathy >= 0.6:
		return "warm-calm"
	case curiosity >= 0.7 && calm >= 0.5:
		return "curious-balanced"
	case curiosity >= 0.7:
		return "curious-intense"
	case calm <= 0.3 && empathy >= 0.6:
		return "gentle-tense"
	case calm <= 0.3:
		return "tense-direct"
	case empathy >= 0.7:
		return "soft-supportive"
	default:
		return "neutral-analytic"
	}
}

// #endregion tone
