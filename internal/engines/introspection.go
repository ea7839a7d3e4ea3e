package engines

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region types

// Result is the structured output of an introspection-style pass. When the
// model proposed trait adjustments, UpdatedTraits holds the adjusted vector.
type Result struct {
	Output        string
	UpdatedTraits *trait.Vector
	TokensUsed    int
}

// structuredReply is the JSON shape both introspection stages request.
type structuredReply struct {
	Output          string `json:"output"`
	TraitAdjustment *struct {
		Calm      float64 `json:"calm"`
		Empathy   float64 `json:"empathy"`
		Curiosity float64 `json:"curiosity"`
	} `json:"trait_adjustment"`
}

const replySchema = `Output ONLY a JSON object:
{"output": "...", "trait_adjustment": {"calm": 0.0, "empathy": 0.0, "curiosity": 0.0}}
Each adjustment must be between -0.05 and 0.05. No markdown, no extra keys.`

// #endregion types

// #region engine

// IntrospectionEngine runs the second-order evaluation over the reflection
// text and may propose small trait adjustments.
type IntrospectionEngine struct {
	client        llm.Client
	maxAdjustment float64
}

// NewIntrospectionEngine creates an introspection engine. Adjustments are
// clipped to ±maxAdjustment per dimension; 0 selects the default 0.05.
func NewIntrospectionEngine(client llm.Client, maxAdjustment float64) *IntrospectionEngine {
	if maxAdjustment <= 0 {
		maxAdjustment = 0.05
	}
	return &IntrospectionEngine{client: client, maxAdjustment: maxAdjustment}
}

// Introspect evaluates the reflection text against the current traits.
func (e *IntrospectionEngine) Introspect(ctx context.Context, reflection string, traits trait.Vector, hint DepthHint) (Result, error) {
	system := strings.Join([]string{
		"You are the introspection layer of the Sigmaris persona.",
		"Evaluate the reflection below: what pattern does it show, and should the persona's disposition shift slightly?",
		framingFor(hint),
		replySchema,
	}, " ")

	user := fmt.Sprintf("Current traits: %s\n\n--- REFLECTION ---\n%s", traits.String(), reflection)

	resp, err := e.client.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return Result{}, fmt.Errorf("introspection call: %w", err)
	}
	return parseStructured(resp, traits, e.maxAdjustment)
}

// #endregion engine

// #region parse

// parseStructured decodes the JSON reply and applies clipped adjustments.
// Malformed JSON is an error; the caller decides the fallback.
func parseStructured(resp llm.Completion, traits trait.Vector, maxAdjustment float64) (Result, error) {
	raw := stripFences(resp.Text)

	var reply structuredReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return Result{}, fmt.Errorf("decode structured reply: %w (raw=%.120s)", err, raw)
	}

	out := Result{
		Output:     strings.TrimSpace(reply.Output),
		TokensUsed: resp.TokensUsed,
	}
	if reply.TraitAdjustment != nil {
		updated := traits.Adjusted(
			reply.TraitAdjustment.Calm,
			reply.TraitAdjustment.Empathy,
			reply.TraitAdjustment.Curiosity,
			maxAdjustment,
		)
		out.UpdatedTraits = &updated
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence if the model added one.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	}
	return strings.TrimSpace(t)
}

// #endregion parse
