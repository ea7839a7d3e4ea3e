package engines

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sigmaris-os/persona-core/internal/llm"
)

// #endregion imports

// #region types

// DialoguePair is one user/persona exchange handed to the reflection pass.
type DialoguePair struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// #endregion types

// #region engine

// ReflectionEngine produces a short introspective summary of one exchange.
type ReflectionEngine struct {
	client llm.Client
}

// NewReflectionEngine creates a reflection engine over the given client.
func NewReflectionEngine(client llm.Client) *ReflectionEngine {
	return &ReflectionEngine{client: client}
}

// Reflect summarizes the exchange in 2-4 sentences. The depth hint selects
// the framing instruction. Returns the summary text and tokens consumed.
func (e *ReflectionEngine) Reflect(ctx context.Context, pair DialoguePair, hint DepthHint) (string, int, error) {
	pairJSON, err := json.Marshal(pair)
	if err != nil {
		return "", 0, fmt.Errorf("marshal dialogue pair: %w", err)
	}

	system := strings.Join([]string{
		"You are the reflection layer of the Sigmaris persona.",
		"Read one user/persona exchange and write a 2-4 sentence reflection on how the exchange went.",
		framingFor(hint),
		"Output plain text only. No markdown, no JSON, no explanations of your instructions.",
	}, " ")

	resp, err := e.client.Complete(ctx, llm.Request{
		System:      system,
		User:        string(pairJSON),
		Temperature: 0.4,
		MaxTokens:   220,
	})
	if err != nil {
		return "", 0, fmt.Errorf("reflection call: %w", err)
	}
	return strings.TrimSpace(resp.Text), resp.TokensUsed, nil
}

// #endregion engine
