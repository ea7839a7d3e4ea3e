package machine

// #region imports
import (
	"context"
	"log"

	"github.com/sigmaris-os/persona-core/internal/engines"
	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/safety"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region collaborators

// Generator is the language-generation collaborator.
type Generator interface {
	Complete(ctx context.Context, req llm.Request) (llm.Completion, error)
}

// Reflector is the reflection collaborator.
type Reflector interface {
	Reflect(ctx context.Context, pair engines.DialoguePair, hint engines.DepthHint) (string, int, error)
}

// Introspector is the introspection collaborator.
type Introspector interface {
	Introspect(ctx context.Context, reflection string, traits trait.Vector, hint engines.DepthHint) (engines.Result, error)
}

// MetaReflector is the meta-reflection collaborator.
type MetaReflector interface {
	MetaReflect(ctx context.Context, introspection string, traits trait.Vector, input engines.MetaInput) (engines.Result, error)
}

// Collaborators bundles the injected engines. Constructed explicitly by the
// caller — no package-level singletons — so tests can swap in fakes.
type Collaborators struct {
	Generator     Generator
	Reflector     Reflector
	Introspector  Introspector
	MetaReflector MetaReflector
}

// #endregion collaborators

// #region handler

// handler executes one state against a snapshot of the context and returns
// the updated snapshot plus the proposed next state. An empty proposal halts
// the loop.
type handler interface {
	Step(ctx context.Context, sc StateContext) (StateContext, StateName, error)
}

// #endregion handler

// #region machine

// Machine is the orchestration controller.
type Machine struct {
	config   Config
	handlers map[StateName]handler
}

// NewMachine wires the six state handlers over the injected collaborators.
func NewMachine(config Config, collab Collaborators) *Machine {
	if config.MaxSteps <= 0 {
		config = DefaultConfig()
	}
	return &Machine{
		config: config,
		handlers: map[StateName]handler{
			StateIdle:            &idleState{},
			StateDialogue:        &dialogueState{generator: collab.Generator},
			StateReflect:         &reflectState{reflector: collab.Reflector},
			StateIntrospect:      &introspectState{introspector: collab.Introspector, meta: collab.MetaReflector},
			StateOverloadPrevent: &overloadPreventState{config: config},
			StateSafetyMode:      &safetyModeState{},
		},
	}
}

// #endregion machine

// #region run

// Run executes one orchestration cycle. It never returns an error: handler
// failures are absorbed (§ fallbacks) and the worst case is an incomplete
// cycle, observable as Current != StateIdle. Final trait stabilization runs
// unconditionally, so the returned context always satisfies the [0,1] trait
// invariant.
func (m *Machine) Run(ctx context.Context, sc StateContext) StateContext {
	sc = sc.normalize()
	initialTraits := sc.Traits

	// Preemption pass: safety first, then overload. These forced switches
	// bypass the transition table.
	if SafetyTripped(sc) {
		log.Printf("[FSM] %s: safety preempt from %s (%s)", sc.SessionID, sc.Current, sc.Safety.Note)
		sc.Previous = sc.Current
		sc.Current = StateSafetyMode
	} else if Overloaded(sc, m.config) {
		log.Printf("[FSM] %s: overload preempt from %s (calm=%.2f reflect=%d tokens=%d)",
			sc.SessionID, sc.Current, sc.Traits.Calm, sc.ReflectCount, sc.TokenUsage)
		sc.Previous = sc.Current
		sc.Current = StateOverloadPrevent
		sc.Safety = &safety.Report{
			Action: safety.ActionRewriteSoft,
			Note:   "overload condition: forced slow-down",
		}
	}

	for step := 0; step < m.config.MaxSteps; step++ {
		h, ok := m.handlers[sc.Current]
		if !ok {
			log.Printf("[FSM] %s: no handler for state %s, halting", sc.SessionID, sc.Current)
			break
		}

		from := sc.Current
		updated, next, err := h.Step(ctx, sc)
		if err != nil {
			// Best-effort partial result: keep the pre-dispatch snapshot and
			// end the cycle in whatever state it reached.
			log.Printf("[FSM] %s: handler %s failed: %v", sc.SessionID, from, err)
			break
		}
		sc = updated

		if next == "" || !allowedTransitions[from][next] {
			log.Printf("[FSM] %s: %s proposed %q, not in allow-list, halting", sc.SessionID, from, next)
			break
		}

		sc.Previous = from
		sc.Current = next
		if next == StateIdle {
			break
		}
	}

	ground := sc.Safety != nil && sc.Safety.Action == safety.ActionGroundAndRewrite
	sc.Traits = trait.Stabilize(initialTraits, sc.Traits, ground, m.config.Stabilize)
	return sc.normalize()
}

// #endregion run
