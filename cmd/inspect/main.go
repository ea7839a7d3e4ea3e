package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/sigmaris-os/persona-core/internal/logging"
	"github.com/sigmaris-os/persona-core/internal/store"
)

// #endregion imports

// #region main

func main() {
	dbPath := flag.String("db", "persona.db", "path to persona.db")
	session := flag.String("session", "", "session ID to inspect (empty lists sessions)")
	limit := flag.Int("n", 20, "number of turn-log entries to show")
	flag.Parse()

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *session == "" {
		listSessions(st)
		return
	}
	showSession(st, *session, *limit)
}

// #endregion main

// #region list-sessions

func listSessions(st *store.Store) {
	ids, err := st.Sessions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(ids) == 0 {
		fmt.Println("no sessions")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}

// #endregion list-sessions

// #region show-session

func showSession(st *store.Store, sessionID string, limit int) {
	rec, err := st.LoadOrCreate(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("session: %s\n", sessionID)
	fmt.Printf("traits:  %s\n", rec.Traits)
	fmt.Printf("emotion: %s\n", rec.Emotion)
	fmt.Printf("updated: %s\n\n", rec.UpdatedAt)

	turns, err := logging.RecentTurns(st.DB(), sessionID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, t := range turns {
		fmt.Printf("%-12s final=%-18s prev=%-18s completed=%-5t tokens=%-5d %s\n",
			t.TurnID, t.FinalState, t.PrevState, t.Completed, t.TokenUsage,
			t.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

// #endregion show-session
