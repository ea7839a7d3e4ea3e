package trait

// #region imports
import (
	"fmt"
	"math"
)

// #endregion imports

// #region vector

// Vector is the slow-moving persona disposition: calm, empathy, curiosity.
// Every dimension is clamped to [0,1] at all observation points.
type Vector struct {
	Calm      float64 `json:"calm" yaml:"calm"`
	Empathy   float64 `json:"empathy" yaml:"empathy"`
	Curiosity float64 `json:"curiosity" yaml:"curiosity"`
}

// DefaultVector returns the first-session disposition (0.5 on each axis).
func DefaultVector() Vector {
	return Vector{Calm: 0.5, Empathy: 0.5, Curiosity: 0.5}
}

// Clamped returns a copy with every dimension clipped to [0,1].
func (v Vector) Clamped() Vector {
	return Vector{
		Calm:      clamp01(v.Calm),
		Empathy:   clamp01(v.Empathy),
		Curiosity: clamp01(v.Curiosity),
	}
}

// DistanceTo computes the Euclidean distance between two clamped vectors.
// Used for drift detection and over-adjustment checks.
func (v Vector) DistanceTo(other Vector) float64 {
	a := v.Clamped()
	b := other.Clamped()
	return math.Sqrt(
		(a.Calm-b.Calm)*(a.Calm-b.Calm) +
			(a.Empathy-b.Empathy)*(a.Empathy-b.Empathy) +
			(a.Curiosity-b.Curiosity)*(a.Curiosity-b.Curiosity),
	)
}

// Blended pulls the vector toward target by weight and returns the clamped result.
func (v Vector) Blended(target Vector, weight float64) Vector {
	w := clamp01(weight)
	return Vector{
		Calm:      v.Calm*(1-w) + target.Calm*w,
		Empathy:   v.Empathy*(1-w) + target.Empathy*w,
		Curiosity: v.Curiosity*(1-w) + target.Curiosity*w,
	}.Clamped()
}

// Adjusted applies per-dimension deltas, each clipped to [-maxDelta, +maxDelta],
// and returns the clamped result.
func (v Vector) Adjusted(dCalm, dEmpathy, dCuriosity, maxDelta float64) Vector {
	return Vector{
		Calm:      v.Calm + clipDelta(dCalm, maxDelta),
		Empathy:   v.Empathy + clipDelta(dEmpathy, maxDelta),
		Curiosity: v.Curiosity + clipDelta(dCuriosity, maxDelta),
	}.Clamped()
}

func (v Vector) String() string {
	return fmt.Sprintf("calm=%.2f empathy=%.2f curiosity=%.2f", v.Calm, v.Empathy, v.Curiosity)
}

// #endregion vector

// #region emotion

// Emotion is the fast-moving per-cycle affect: tension, warmth, hesitation.
// Not guaranteed to be persisted across cycles.
type Emotion struct {
	Tension    float64 `json:"tension" yaml:"tension"`
	Warmth     float64 `json:"warmth" yaml:"warmth"`
	Hesitation float64 `json:"hesitation" yaml:"hesitation"`
}

// DefaultEmotion returns the fallback affect used when a cycle starts without one.
func DefaultEmotion() Emotion {
	return Emotion{Tension: 0.1, Warmth: 0.2, Hesitation: 0.1}
}

// Decayed applies multiplicative decay to tension and hesitation and an
// additive warmth nudge, clamped to [0,1].
func (e Emotion) Decayed(tensionFactor, warmthDelta, hesitationFactor float64) Emotion {
	return Emotion{
		Tension:    clamp01(e.Tension * tensionFactor),
		Warmth:     clamp01(e.Warmth + warmthDelta),
		Hesitation: clamp01(e.Hesitation * hesitationFactor),
	}
}

// Scaled applies multiplicative decay to all three dimensions. Used by the
// idle pass, which cools warmth instead of nudging it up.
func (e Emotion) Scaled(tensionFactor, warmthFactor, hesitationFactor float64) Emotion {
	return Emotion{
		Tension:    clamp01(e.Tension * tensionFactor),
		Warmth:     clamp01(e.Warmth * warmthFactor),
		Hesitation: clamp01(e.Hesitation * hesitationFactor),
	}
}

func (e Emotion) String() string {
	return fmt.Sprintf("tension=%.2f warmth=%.2f hesitation=%.2f", e.Tension, e.Warmth, e.Hesitation)
}

// #endregion emotion

// #region helpers
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clipDelta(d, max float64) float64 {
	if max < 0 {
		max = -max
	}
	if d < -max {
		return -max
	}
	if d > max {
		return max
	}
	return d
}

// #endregion helpers
