package engines

// #region imports
import (
	"context"
	"fmt"
	"strings"

	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region types

// MetaInput carries the context the meta pass sees beyond the introspection
// output itself.
type MetaInput struct {
	SelfReferent bool
	Hint         DepthHint
	ReflectCount int
}

// #endregion types

// #region engine

// MetaReflectionEngine is the final refinement stage: it reviews the
// introspection output across the whole cycle and may override the proposed
// trait adjustment with a more conservative one.
type MetaReflectionEngine struct {
	client        llm.Client
	maxAdjustment float64
}

// NewMetaReflectionEngine creates a meta-reflection engine. Adjustments are
// clipped to ±maxAdjustment per dimension; 0 selects the default 0.05.
func NewMetaReflectionEngine(client llm.Client, maxAdjustment float64) *MetaReflectionEngine {
	if maxAdjustment <= 0 {
		maxAdjustment = 0.05
	}
	return &MetaReflectionEngine{client: client, maxAdjustment: maxAdjustment}
}

// MetaReflect refines the introspection result. traits is the vector after
// the introspection stage's proposal, so the meta proposal supersedes it.
func (e *MetaReflectionEngine) MetaReflect(ctx context.Context, introspection string, traits trait.Vector, input MetaInput) (Result, error) {
	system := strings.Join([]string{
		"You are the meta-reflection layer of the Sigmaris persona, the last evaluation stage of a cycle.",
		"Review the introspection output: is the proposed reading sound, or is the persona over-analyzing?",
		framingFor(input.Hint),
		replySchema,
	}, " ")

	user := fmt.Sprintf(
		"Current traits: %s\nSelf-referent exchange: %t\nReflection passes this cycle: %d\n\n--- INTROSPECTION ---\n%s",
		traits.String(), input.SelfReferent, input.ReflectCount, introspection,
	)

	resp, err := e.client.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		return Result{}, fmt.Errorf("meta-reflection call: %w", err)
	}
	return parseStructured(resp, traits, e.maxAdjustment)
}

// #endregion engine
