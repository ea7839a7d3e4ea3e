// Package machine implements the persona orchestration state machine: a
// bounded-step controller that sequences dialogue generation and the
// self-evaluation passes while enforcing safety and overload preemption.
package machine

// #region imports
import (
	"time"

	"github.com/sigmaris-os/persona-core/internal/safety"
	"github.com/sigmaris-os/persona-core/internal/selfref"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region state-name

// StateName identifies one orchestration state.
type StateName string

const (
	StateIdle            StateName = "idle"
	StateDialogue        StateName = "dialogue"
	StateReflect         StateName = "reflect"
	StateIntrospect      StateName = "introspect"
	StateOverloadPrevent StateName = "overload-prevent"
	StateSafetyMode      StateName = "safety"
)

// #endregion state-name

// #region transitions

// allowedTransitions is the authoritative transition table. Handler proposals
// outside it halt the loop without being applied. Forced preemptions into
// SafetyMode/OverloadPrevent happen before dispatch and are not table-checked.
var allowedTransitions = map[StateName]map[StateName]bool{
	StateIdle:            {StateDialogue: true},
	StateDialogue:        {StateReflect: true, StateSafetyMode: true},
	StateReflect:         {StateIntrospect: true},
	StateIntrospect:      {StateIdle: true},
	StateOverloadPrevent: {StateDialogue: true, StateOverloadPrevent: true},
	StateSafetyMode:      {StateIdle: true},
}

// #endregion transitions

// #region meta

// Meta is the side channel that carries self-evaluation text between stages
// without ever touching the dialogue reply in Output.
type Meta struct {
	Reflection     string `json:"reflection,omitempty"`
	Introspection  string `json:"introspection,omitempty"`
	MetaReflection string `json:"meta_reflection,omitempty"`
}

// #endregion meta

// #region state-context

// StateContext is the working set for one orchestration cycle. It is threaded
// through handlers as a value: each handler receives a snapshot and returns
// an updated one, and the machine owns the authoritative copy. One instance
// per user turn; the caller overwrites Input, SessionID, Traits, and Emotion
// with persisted values before Run and persists Traits and Output after.
type StateContext struct {
	Input  string `json:"input"`
	Output string `json:"output"`

	Current StateName `json:"current_state"`
	// Previous is the state immediately prior to the most recent applied
	// transition; empty only before the first transition.
	Previous StateName `json:"previous_state,omitempty"`

	Traits  trait.Vector  `json:"traits"`
	Emotion trait.Emotion `json:"emotion"`

	ReflectCount int `json:"reflect_count"`
	TokenUsage   int `json:"token_usage"`

	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`

	// Safety is supplied by the surrounding layer before Run; the machine
	// only reacts to it (and replaces it when synthesizing an overload
	// report). Serializes as explicit null when absent.
	Safety *safety.Report `json:"safety"`

	// SelfRef is attached by the external classifier and never mutated here.
	SelfRef *selfref.Info `json:"self_ref"`

	Meta Meta `json:"meta"`
}

// NewStateContext returns the default context: Idle, no previous state,
// 0.5 traits, fallback emotion, zeroed counters, empty session and meta.
func NewStateContext() StateContext {
	return StateContext{
		Current:   StateIdle,
		Traits:    trait.DefaultVector(),
		Emotion:   trait.DefaultEmotion(),
		Timestamp: time.Now().UTC(),
	}
}

// normalize fills defaulted optional fields so persistence always sees a
// well-formed record. Nil Safety/SelfRef stay nil and serialize as null.
func (sc StateContext) normalize() StateContext {
	if sc.Emotion == (trait.Emotion{}) {
		sc.Emotion = trait.DefaultEmotion()
	}
	if sc.Timestamp.IsZero() {
		sc.Timestamp = time.Now().UTC()
	}
	return sc
}

// #endregion state-context
