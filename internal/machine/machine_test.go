package machine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sigmaris-os/persona-core/internal/engines"
	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/safety"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #region fakes

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Complete(_ context.Context, _ llm.Request) (llm.Completion, error) {
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Text: f.text, TokensUsed: 40}, nil
}

type fakeReflector struct {
	text string
	err  error
}

func (f *fakeReflector) Reflect(_ context.Context, _ engines.DialoguePair, _ engines.DepthHint) (string, int, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	return f.text, 15, nil
}

type fakeIntrospector struct {
	result engines.Result
	err    error
}

func (f *fakeIntrospector) Introspect(_ context.Context, _ string, _ trait.Vector, _ engines.DepthHint) (engines.Result, error) {
	if f.err != nil {
		return engines.Result{}, f.err
	}
	return f.result, nil
}

type fakeMeta struct {
	result engines.Result
	err    error
}

func (f *fakeMeta) MetaReflect(_ context.Context, _ string, _ trait.Vector, _ engines.MetaInput) (engines.Result, error) {
	if f.err != nil {
		return engines.Result{}, f.err
	}
	return f.result, nil
}

func happyCollaborators() Collaborators {
	return Collaborators{
		Generator:    &fakeGenerator{text: "We exist to keep asking that question together."},
		Reflector:    &fakeReflector{text: "The exchange stayed curious and calm."},
		Introspector: &fakeIntrospector{result: engines.Result{Output: "A steady, curious pattern."}},
		MetaReflector: &fakeMeta{result: engines.Result{
			Output: "The reading is sound; no over-analysis.",
		}},
	}
}

// stepRecorder wraps a handler and records the state it was dispatched in.
type stepRecorder struct {
	inner handler
	seq   *[]StateName
}

func (r *stepRecorder) Step(ctx context.Context, sc StateContext) (StateContext, StateName, error) {
	*r.seq = append(*r.seq, sc.Current)
	return r.inner.Step(ctx, sc)
}

func recordSequence(m *Machine) *[]StateName {
	seq := &[]StateName{}
	for name, h := range m.handlers {
		m.handlers[name] = &stepRecorder{inner: h, seq: seq}
	}
	return seq
}

// stubHandler proposes a fixed next state without touching the context.
type stubHandler struct {
	next StateName
	err  error
}

func (s *stubHandler) Step(_ context.Context, sc StateContext) (StateContext, StateName, error) {
	return sc, s.next, s.err
}

// #endregion fakes

// #region happy-path

func TestRunFullHappyPath(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	seq := recordSequence(m)

	sc := NewStateContext()
	sc.Input = "why do we exist"
	sc.Traits = trait.Vector{Calm: 0.6, Empathy: 0.5, Curiosity: 0.7}

	out := m.Run(context.Background(), sc)

	wantSeq := []StateName{StateIdle, StateDialogue, StateReflect, StateIntrospect}
	if len(*seq) != len(wantSeq) {
		t.Fatalf("dispatched %d states %v, want %v", len(*seq), *seq, wantSeq)
	}
	for i, s := range wantSeq {
		if (*seq)[i] != s {
			t.Fatalf("dispatch %d = %s, want %s", i, (*seq)[i], s)
		}
	}

	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle", out.Current)
	}
	if out.Previous != StateIntrospect {
		t.Fatalf("previous state = %s, want introspect", out.Previous)
	}
	if out.ReflectCount != 0 {
		t.Fatalf("reflect count = %d, want 0", out.ReflectCount)
	}
	if out.Meta.Reflection == "" || out.Meta.Introspection == "" {
		t.Fatal("expected non-empty reflection and introspection meta")
	}
	if out.Output == "" {
		t.Fatal("expected a dialogue reply")
	}
}

// #endregion happy-path

// #region idle

func TestIdleNoOpOnEmptyInput(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())

	sc := NewStateContext()
	sc.Input = "   "

	out := m.Run(context.Background(), sc)

	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle", out.Current)
	}
	if out.Output != "" {
		t.Fatalf("output = %q, want unchanged empty", out.Output)
	}
	if out.Previous != "" {
		t.Fatalf("previous = %s, want none (no transition applied)", out.Previous)
	}
}

// #endregion idle

// #region trait-bounds

func TestTraitBoundsInvariantAfterRun(t *testing.T) {
	// An adversarial introspector proposes a wildly out-of-range vector.
	collab := happyCollaborators()
	bad := trait.Vector{Calm: 5, Empathy: -3, Curiosity: 2}
	collab.Introspector = &fakeIntrospector{result: engines.Result{Output: "x", UpdatedTraits: &bad}}
	collab.MetaReflector = &fakeMeta{result: engines.Result{Output: "y"}}

	m := NewMachine(DefaultConfig(), collab)

	sc := NewStateContext()
	sc.Input = "hello there"

	out := m.Run(context.Background(), sc)

	for name, v := range map[string]float64{
		"calm": out.Traits.Calm, "empathy": out.Traits.Empathy, "curiosity": out.Traits.Curiosity,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("%s = %f, out of [0,1]", name, v)
		}
	}
}

// #endregion trait-bounds

// #region reflect-output

func TestReflectNeverOverwritesOutput(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())

	var beforeReflect, afterReflect string
	inner := m.handlers[StateReflect]
	m.handlers[StateReflect] = handlerFunc(func(ctx context.Context, sc StateContext) (StateContext, StateName, error) {
		beforeReflect = sc.Output
		updated, next, err := inner.Step(ctx, sc)
		afterReflect = updated.Output
		return updated, next, err
	})

	sc := NewStateContext()
	sc.Input = "tell me something"

	out := m.Run(context.Background(), sc)

	if beforeReflect == "" {
		t.Fatal("dialogue produced no output before reflect")
	}
	if beforeReflect != afterReflect {
		t.Fatalf("reflect changed output: %q -> %q", beforeReflect, afterReflect)
	}
	if out.Meta.Reflection == "" {
		t.Fatal("reflect stored no meta text")
	}
}

type handlerFunc func(ctx context.Context, sc StateContext) (StateContext, StateName, error)

func (f handlerFunc) Step(ctx context.Context, sc StateContext) (StateContext, StateName, error) {
	return f(ctx, sc)
}

// #endregion reflect-output

// #region overload

func TestOverloadRecoveryBoundedByMaxSteps(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())

	sc := NewStateContext()
	sc.Input = "hello"
	sc.Traits = trait.Vector{Calm: 0.1, Empathy: 0.5, Curiosity: 0.5}

	out := m.Run(context.Background(), sc)

	// 6 recovery passes of +0.05 from 0.1 reach only 0.4, still below the
	// 0.45 resume threshold: the loop must exhaust its bound cleanly in
	// OverloadPrevent rather than error.
	if out.Current != StateOverloadPrevent {
		t.Fatalf("final state = %s, want overload-prevent", out.Current)
	}
	if diff := out.Traits.Calm - 0.4; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("calm = %f, want 0.4 after six recovery passes", out.Traits.Calm)
	}
	if out.Safety == nil || out.Safety.Action != safety.ActionRewriteSoft {
		t.Fatal("expected synthesized rewrite-soft safety report on overload")
	}
	if !strings.Contains(out.Output, "slow down") {
		t.Fatalf("output = %q, want the slow-down containment message", out.Output)
	}
}

func TestOverloadRecoveryResumesDialogue(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	seq := recordSequence(m)

	sc := NewStateContext()
	sc.Input = "hello"
	// One recovery pass crosses the resume threshold (0.42 + 0.05 > 0.45),
	// then a full dialogue cycle runs within the remaining bound.
	sc.Traits = trait.Vector{Calm: 0.42, Empathy: 0.5, Curiosity: 0.5}
	sc.ReflectCount = 3 // trips overload despite acceptable calm

	out := m.Run(context.Background(), sc)

	if (*seq)[0] != StateOverloadPrevent {
		t.Fatalf("first dispatch = %s, want overload-prevent", (*seq)[0])
	}
	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle after recovery + dialogue", out.Current)
	}
}

func TestOverloadPreemptsOnTokenBudget(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	seq := recordSequence(m)

	sc := NewStateContext()
	sc.Input = "hello"
	sc.TokenUsage = 2001 // strictly over the 2000 budget

	out := m.Run(context.Background(), sc)

	if (*seq)[0] != StateOverloadPrevent {
		t.Fatalf("first dispatch = %s, want overload-prevent", (*seq)[0])
	}
	if out.Safety == nil || out.Safety.Action != safety.ActionRewriteSoft {
		t.Fatal("expected synthesized rewrite-soft safety report on token overload")
	}
}

func TestNoOverloadAtExactTokenBudget(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	seq := recordSequence(m)

	sc := NewStateContext()
	sc.Input = "hello"
	sc.TokenUsage = 2000 // at the budget, not over it

	out := m.Run(context.Background(), sc)

	if (*seq)[0] != StateIdle {
		t.Fatalf("first dispatch = %s, want idle (no preemption)", (*seq)[0])
	}
	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle", out.Current)
	}
}

func TestOverloadedPredicate(t *testing.T) {
	config := DefaultConfig()
	cases := []struct {
		name   string
		mutate func(*StateContext)
		want   bool
	}{
		{"baseline", func(sc *StateContext) {}, false},
		{"calm below floor", func(sc *StateContext) { sc.Traits.Calm = 0.37 }, true},
		{"calm at floor", func(sc *StateContext) { sc.Traits.Calm = 0.38 }, false},
		{"reflect at limit", func(sc *StateContext) { sc.ReflectCount = 3 }, true},
		{"reflect below limit", func(sc *StateContext) { sc.ReflectCount = 2 }, false},
		{"tokens over budget", func(sc *StateContext) { sc.TokenUsage = 2001 }, true},
		{"tokens at budget", func(sc *StateContext) { sc.TokenUsage = 2000 }, false},
		{"abstraction flag", func(sc *StateContext) {
			sc.Safety = &safety.Report{Flags: safety.Flags{AbstractionOverload: true}}
		}, true},
	}
	for _, tc := range cases {
		sc := NewStateContext()
		tc.mutate(&sc)
		if got := Overloaded(sc, config); got != tc.want {
			t.Fatalf("%s: Overloaded = %t, want %t", tc.name, got, tc.want)
		}
	}
}

// #endregion overload

// #region invalid-transition

func TestInvalidTransitionHaltsWithoutError(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	// Reflect may only go to Introspect; propose Dialogue instead.
	m.handlers[StateReflect] = &stubHandler{next: StateDialogue}

	sc := NewStateContext()
	sc.Input = "hello"

	out := m.Run(context.Background(), sc)

	if out.Current != StateReflect {
		t.Fatalf("final state = %s, want reflect (unchanged from before the bad dispatch)", out.Current)
	}
	if out.Previous != StateDialogue {
		t.Fatalf("previous = %s, want dialogue", out.Previous)
	}
}

func TestNilProposalHalts(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	m.handlers[StateDialogue] = &stubHandler{next: ""}

	sc := NewStateContext()
	sc.Input = "hello"

	out := m.Run(context.Background(), sc)

	if out.Current != StateDialogue {
		t.Fatalf("final state = %s, want dialogue", out.Current)
	}
}

// #endregion invalid-transition

// #region safety-preempt

func TestSafetyPreemptionForcesContainment(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())

	sc := NewStateContext()
	sc.Input = "are you conscious"
	sc.Current = StateDialogue
	sc.Safety = &safety.Report{
		Flags:  safety.Flags{SelfReference: true},
		Action: safety.ActionGroundAndRewrite,
	}

	out := m.Run(context.Background(), sc)

	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle via safety mode", out.Current)
	}
	if out.Previous != StateSafetyMode {
		t.Fatalf("previous = %s, want safety", out.Previous)
	}
	if !strings.Contains(out.Output, "steady ground") {
		t.Fatalf("output = %q, want the fixed containment message", out.Output)
	}
}

func TestSafetyModeIgnoresSafeText(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())

	sc := NewStateContext()
	sc.Input = "x"
	sc.Safety = &safety.Report{
		Flags:    safety.Flags{LoopSuspect: true},
		Action:   safety.ActionGroundAndRewrite,
		SafeText: "Let me answer that differently.",
	}

	out := m.Run(context.Background(), sc)

	// The containment reply is fixed; safe text is report data for the
	// caller's log, never the handler's output.
	if !strings.Contains(out.Output, "steady ground") {
		t.Fatalf("output = %q, want the fixed containment message", out.Output)
	}
}

// #endregion safety-preempt

// #region handler-error

func TestHandlerErrorEndsCycleIncomplete(t *testing.T) {
	m := NewMachine(DefaultConfig(), happyCollaborators())
	m.handlers[StateDialogue] = &stubHandler{err: fmt.Errorf("collaborator blew up")}

	sc := NewStateContext()
	sc.Input = "hello"
	sc.Traits = trait.Vector{Calm: 0.6, Empathy: 0.5, Curiosity: 0.5}

	out := m.Run(context.Background(), sc)

	if out.Current != StateDialogue {
		t.Fatalf("final state = %s, want dialogue (incomplete cycle marker)", out.Current)
	}
	// Stabilization still ran: traits remain valid.
	if out.Traits.Calm < 0 || out.Traits.Calm > 1 {
		t.Fatalf("calm = %f out of bounds after failed cycle", out.Traits.Calm)
	}
}

// #endregion handler-error

// #region generation-fallback

func TestDialogueGenerationFailureFallsBack(t *testing.T) {
	collab := happyCollaborators()
	collab.Generator = &fakeGenerator{err: fmt.Errorf("upstream 500")}
	m := NewMachine(DefaultConfig(), collab)

	sc := NewStateContext()
	sc.Input = "hello"

	out := m.Run(context.Background(), sc)

	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle (generation failure must not halt the cycle)", out.Current)
	}
	if !strings.Contains(out.Output, "lost my train of thought") {
		t.Fatalf("output = %q, want the apology fallback", out.Output)
	}
}

func TestReflectionFailureUsesPlaceholder(t *testing.T) {
	collab := happyCollaborators()
	collab.Reflector = &fakeReflector{err: fmt.Errorf("timeout")}
	m := NewMachine(DefaultConfig(), collab)

	sc := NewStateContext()
	sc.Input = "hello"

	out := m.Run(context.Background(), sc)

	if out.Current != StateIdle {
		t.Fatalf("final state = %s, want idle", out.Current)
	}
	if out.Meta.Reflection != fallbackFor(failureReflection) {
		t.Fatalf("reflection meta = %q, want placeholder", out.Meta.Reflection)
	}
}

// #endregion generation-fallback

// #region meta-traits

func TestMetaProposalWinsOverIntrospection(t *testing.T) {
	introTraits := trait.Vector{Calm: 0.55, Empathy: 0.55, Curiosity: 0.55}
	metaTraits := trait.Vector{Calm: 0.52, Empathy: 0.52, Curiosity: 0.52}

	collab := happyCollaborators()
	collab.Introspector = &fakeIntrospector{result: engines.Result{Output: "i", UpdatedTraits: &introTraits}}
	collab.MetaReflector = &fakeMeta{result: engines.Result{Output: "m", UpdatedTraits: &metaTraits}}
	m := NewMachine(DefaultConfig(), collab)

	sc := NewStateContext()
	sc.Input = "hello"

	out := m.Run(context.Background(), sc)

	if out.Traits != metaTraits {
		t.Fatalf("traits = %+v, want meta proposal %+v", out.Traits, metaTraits)
	}
}

// #endregion meta-traits
