// Package llm abstracts the language-generation collaborator behind a small
// interface so the persona core can be driven by an OpenAI-compatible server
// in production and a scripted mock in tests.
package llm

// #region imports
import "context"

// #endregion imports

// #region request

// Request is one completion call.
type Request struct {
	System      string
	User        string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Completion is the result of one completion call.
type Completion struct {
	Text       string
	TokensUsed int
}

// #endregion request

// #region client

// Client is the language-generation collaborator interface.
type Client interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// #endregion client
