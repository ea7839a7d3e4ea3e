package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sigmaris-os/persona-core/internal/trait"
)

// #endregion imports

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a scripted
// conversation plus the canned completions the mock generation client serves.
type Fixture struct {
	Description string `json:"description"`

	// StartTraits seeds the session disposition; nil means defaults.
	StartTraits *trait.Vector `json:"start_traits,omitempty"`

	// Completions are served by the scripted client in order (one per
	// collaborator call), repeating the last one when exhausted.
	Completions []FixtureCompletion `json:"completions"`

	Interactions []FixtureInteraction `json:"interactions"`

	// ExpectedFinalStates captures the expected final state per turn, for
	// fixture-driven regression checks.
	ExpectedFinalStates []FixtureExpectedResult `json:"expected_final_states,omitempty"`
}

// FixtureCompletion is one canned collaborator reply.
type FixtureCompletion struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used"`
}

// FixtureInteraction is one recorded user turn.
type FixtureInteraction struct {
	TurnID string `json:"turn_id"`
	Input  string `json:"input"`
}

// FixtureExpectedResult captures the expected final state per turn.
type FixtureExpectedResult struct {
	TurnID     string `json:"turn_id"`
	FinalState string `json:"final_state"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader
