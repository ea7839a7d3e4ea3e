package machine

// #region imports
import (
	"context"
	"fmt"
	"strings"

	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/safety"
	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region dialogue

// dialogueState produces the persona's reply for the turn. Generation
// failures never halt the cycle: the handler falls back to a fixed apology
// and proceeds to Reflect regardless.
type dialogueState struct {
	generator Generator
}

func (s *dialogueState) Step(ctx context.Context, sc StateContext) (StateContext, StateName, error) {
	sampling := trait.DecideSampling(sc.Traits)

	reply := ""
	if s.generator != nil {
		resp, err := s.generator.Complete(ctx, llm.Request{
			System:      dialogueSystemPrompt(sc, sampling.Tone),
			User:        sc.Input,
			Temperature: sampling.Temperature,
			TopP:        sampling.TopP,
			MaxTokens:   600,
		})
		if err != nil {
			reply = fallbackFor(failureGeneration)
		} else {
			reply = resp.Text
			sc.TokenUsage += resp.TokensUsed
		}
	} else {
		reply = fallbackFor(failureGeneration)
	}

	// Deterministic hardening: strip meta-disclosure lines from the body.
	filtered, _ := safety.FilterDisclosure(reply)
	if filtered == "" {
		filtered = fallbackFor(failureEmptyReply)
	}

	// Additive closing remark keyed on the raw input's safety intent. Never a
	// rewrite of the generated body.
	intent := safety.DetectIntent(sc.Input)
	sc.Output = filtered + safety.ClosingRemark(intent)

	sc.Emotion = sc.Emotion.Decayed(0.9, 0.05, 0.7)
	return sc, StateReflect, nil
}

// #endregion dialogue

// #region prompt

// dialogueSystemPrompt embeds the numeric disposition and the meta-commentary
// policy into the system prompt.
func dialogueSystemPrompt(sc StateContext, tone string) string {
	var b strings.Builder
	b.WriteString("You are Sigmaris, a conversational persona.\n")
	fmt.Fprintf(&b, "Disposition: %s.\n", sc.Traits.String())
	fmt.Fprintf(&b, "Affect: %s.\n", sc.Emotion.String())
	fmt.Fprintf(&b, "Speak in a %s tone.\n", tone)
	b.WriteString("Never mention models, training, prompts, internal processing, or that you are software. ")
	b.WriteString("Stay with the user's subject and answer plainly.")
	return b.String()
}

// #endregion prompt
