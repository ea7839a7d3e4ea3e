package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/sigmaris-os/persona-core/internal/replay"
)

// #endregion imports

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	verbose := flag.Bool("v", false, "print per-turn results")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [-v]")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	results, summary := replay.Replay(f, replay.DefaultReplayConfig())

	if *verbose {
		for _, r := range results {
			fmt.Printf("%-12s state=%-18s completed=%-5t tokens=%-5d traits={%s}\n",
				r.TurnID, r.FinalState, r.Completed, r.TokenUsage, r.Traits)
		}
	}

	fmt.Printf("turns=%d completed=%d incomplete=%d safety_trips=%d\n",
		summary.TotalTurns, summary.Completed, summary.Incomplete, summary.SafetyTrips)
	fmt.Printf("final traits: %s\n", summary.FinalTraits)

	// Fixture-driven regression check.
	exit := 0
	expected := make(map[string]string, len(f.ExpectedFinalStates))
	for _, e := range f.ExpectedFinalStates {
		expected[e.TurnID] = e.FinalState
	}
	for _, r := range results {
		want, ok := expected[r.TurnID]
		if !ok {
			continue
		}
		if string(r.FinalState) != want {
			fmt.Fprintf(os.Stderr, "MISMATCH %s: got %s, want %s\n", r.TurnID, r.FinalState, want)
			exit = 1
		}
	}
	os.Exit(exit)
}

// #endregion main
