// Package replay runs recorded conversations through the full orchestration
// machine with a scripted generation client, entirely in memory. Used for
// offline tuning of the cycle bounds and safety thresholds.
package replay

// #region imports
import (
	"context"

	"github.com/sigmaris-os/persona-core/internal/engines"
	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/machine"
	"github.com/sigmaris-os/persona-core/internal/safety"
	"github.com/sigmaris-os/persona-core/internal/selfref"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region types

// ReplayConfig bundles the machine and safety configs for a replay run.
type ReplayConfig struct {
	MachineConfig machine.Config
	SafetyConfig  safety.EvaluatorConfig
}

// DefaultReplayConfig returns production defaults for both stages.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		MachineConfig: machine.DefaultConfig(),
		SafetyConfig:  safety.DefaultEvaluatorConfig(),
	}
}

// ReplayResult captures the outcome of one replayed turn.
type ReplayResult struct {
	TurnID     string
	FinalState machine.StateName
	Completed  bool
	Output     string
	Traits     trait.Vector
	TokenUsage int
	Safety     safety.Report
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTurns  int
	Completed   int
	Incomplete  int
	SafetyTrips int
	FinalTraits trait.Vector
}

// #endregion types

// #region replay

// Replay runs each interaction through safety evaluation, self-referent
// classification, and a full machine cycle, carrying traits forward between
// turns the way the production caller does.
func Replay(f *Fixture, config ReplayConfig) ([]ReplayResult, ReplaySummary) {
	scripts := make([]llm.Completion, 0, len(f.Completions))
	for _, c := range f.Completions {
		scripts = append(scripts, llm.Completion{Text: c.Text, TokensUsed: c.TokensUsed})
	}
	client := llm.NewMockClient(scripts...)

	m := machine.NewMachine(config.MachineConfig, machine.Collaborators{
		Generator:     client,
		Reflector:     engines.NewReflectionEngine(client),
		Introspector:  engines.NewIntrospectionEngine(client, 0),
		MetaReflector: engines.NewMetaReflectionEngine(client, 0),
	})
	evaluator := safety.NewEvaluator(config.SafetyConfig)

	traits := trait.DefaultVector()
	if f.StartTraits != nil {
		traits = f.StartTraits.Clamped()
	}
	emotion := trait.DefaultEmotion()
	prevOutput := ""

	results := make([]ReplayResult, 0, len(f.Interactions))
	summary := ReplaySummary{TotalTurns: len(f.Interactions)}

	for _, inter := range f.Interactions {
		report := evaluator.Evaluate(inter.Input, prevOutput)

		sc := machine.NewStateContext()
		sc.SessionID = inter.TurnID
		sc.Input = inter.Input
		sc.Traits = traits
		sc.Emotion = emotion
		sc.Safety = &report
		sc.SelfRef = selfref.Analyze(inter.Input)

		out := m.Run(context.Background(), sc)

		completed := out.Current == machine.StateIdle
		if completed {
			summary.Completed++
		} else {
			summary.Incomplete++
		}
		if report.Flags.Any() {
			summary.SafetyTrips++
		}

		traits = out.Traits
		emotion = out.Emotion
		prevOutput = out.Output

		results = append(results, ReplayResult{
			TurnID:     inter.TurnID,
			FinalState: out.Current,
			Completed:  completed,
			Output:     out.Output,
			Traits:     out.Traits,
			TokenUsage: out.TokenUsage,
			Safety:     report,
		})
	}

	summary.FinalTraits = traits
	return results, summary
}

// #endregion replay
