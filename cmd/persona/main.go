package main

// #region imports
import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sigmaris-os/persona-core/internal/config"
	"github.com/sigmaris-os/persona-core/internal/engines"
	"github.com/sigmaris-os/persona-core/internal/llm"
	"github.com/sigmaris-os/persona-core/internal/logging"
	"github.com/sigmaris-os/persona-core/internal/machine"
	"github.com/sigmaris-os/persona-core/internal/safety"
	"github.com/sigmaris-os/persona-core/internal/selfref"
	"github.com/sigmaris-os/persona-core/internal/store"
)

// #endregion imports

// #region main
func main() {
	cfgPath := envOr("PERSONA_CONFIG", "")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	dbPath := envOr("PERSONA_DB", cfg.DBPath)

	st, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	client := llm.NewOpenAIClient(cfg.APIKey(), cfg.LLM.BaseURL, cfg.LLM.Model)
	m := machine.NewMachine(cfg.Machine, machine.Collaborators{
		Generator:     client,
		Reflector:     engines.NewReflectionEngine(client),
		Introspector:  engines.NewIntrospectionEngine(client, 0),
		MetaReflector: engines.NewMetaReflectionEngine(client, 0),
	})
	evaluator := safety.NewEvaluator(cfg.Safety)

	sessionID := envOr("PERSONA_SESSION", uuid.New().String())
	rec, err := st.LoadOrCreate(sessionID)
	if err != nil {
		log.Fatalf("failed to load persona record: %v", err)
	}

	fmt.Println("Sigmaris persona core ready.")
	fmt.Printf("  DB: %s | Session: %s | Model: %s\n", dbPath, sessionID, cfg.LLM.Model)
	fmt.Println("Type a message (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	turnNum := 0
	prevOutput := ""

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		turnNum++
		turnID := fmt.Sprintf("turn-%d", turnNum)

		report := evaluator.Evaluate(input, prevOutput)

		sc := machine.NewStateContext()
		sc.SessionID = sessionID
		sc.Input = input
		sc.Traits = rec.Traits
		sc.Emotion = rec.Emotion
		sc.Safety = &report
		sc.SelfRef = selfref.Analyze(input)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		out := m.Run(ctx, sc)
		cancel()

		fmt.Printf("\n%s\n\n", out.Output)
		prevOutput = out.Output

		// Read-modify-write the persona record.
		rec.Traits = out.Traits
		rec.Emotion = out.Emotion
		if err := st.Save(rec); err != nil {
			log.Printf("save error: %v", err)
		}

		traitsJSON, _ := json.Marshal(out.Traits)
		safetyJSON, _ := json.Marshal(out.Safety)
		err = logging.LogTurn(st.DB(), logging.TurnEntry{
			TurnID:     turnID,
			SessionID:  sessionID,
			FinalState: string(out.Current),
			PrevState:  string(out.Previous),
			Completed:  out.Current == machine.StateIdle,
			TokenUsage: out.TokenUsage,
			TraitsJSON: string(traitsJSON),
			SafetyJSON: string(safetyJSON),
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			log.Printf("logging error: %v", err)
		}

		fmt.Printf("[%s] state=%s traits={%s} tokens=%d\n", turnID, out.Current, out.Traits, out.TokenUsage)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
