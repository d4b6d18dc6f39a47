package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jaysmobilewash/detailbrain/internal/config"
	"github.com/jaysmobilewash/detailbrain/internal/engine"
	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
	"github.com/jaysmobilewash/detailbrain/internal/observability"
	"github.com/jaysmobilewash/detailbrain/internal/persist"
	"github.com/jaysmobilewash/detailbrain/internal/profile"
	"github.com/jaysmobilewash/detailbrain/internal/training"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	prof := profile.Default()
	if cfg.ProfilePath != "" {
		prof, err = profile.LoadFile(cfg.ProfilePath)
		if err != nil {
			log.Fatalf("profile load failed: %v", err)
		}
	}

	ctx := context.Background()
	storage, err := persist.NewStore(ctx, persist.Options{
		DatabaseURL:  cfg.DatabaseURL,
		SQLitePath:   cfg.SQLitePath,
		SnapshotPath: cfg.SnapshotPath,
	})
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	defer storage.Close()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	brain := engine.New(prof, storage, engine.Config{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MemoryWindow:        cfg.MemoryWindow,
		MaxEntries:          cfg.MaxKnowledgeEntries,
		EmbeddingDim:        cfg.EmbeddingDim,
	}, engine.WithObservability(metrics))
	if err := brain.Init(ctx); err != nil {
		log.Fatalf("engine init failed: %v", err)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.MetricsHandler())
		go func() {
			log.Printf("metrics listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics listener error: %v", err)
			}
		}()
	}

	fmt.Printf("%s knowledge engine ready. Type a question, or /help for commands.\n", prof.BusinessName)
	repl(ctx, brain)
}

func repl(ctx context.Context, brain *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := command(ctx, brain, line); quit {
				return
			}
			continue
		}

		res := brain.GenerateResponse(ctx, line, nil)
		if res.ShouldUseExternalAPI {
			fmt.Printf("[defer] not confident enough (%.2f, intent=%s); consult the external API "+
				"and feed the answer back with /learn <source> <answer>\n", res.Confidence, res.Intent)
			continue
		}
		fmt.Printf("[%.2f %s] %s\n", res.Confidence, res.Intent, res.Response)
	}
}

// command handles slash commands; returns true on /quit.
func command(ctx context.Context, brain *engine.Engine, line string) bool {
	fields := strings.SplitN(line, " ", 3)
	switch fields[0] {
	case "/help":
		fmt.Println(`commands:
  /train <text|video|website> <content>  ingest training content
  /learn <source> <answer>               feed back an external API answer for the last query
  /metrics                               show engine counters
  /export <path>                         write a knowledge snapshot
  /import <path>                         replace the knowledge base from a snapshot
  /clear                                 wipe knowledge, memory, and counters
  /quit                                  exit`)
	case "/train":
		if len(fields) < 3 {
			fmt.Println("usage: /train <text|video|website> <content>")
			return false
		}
		res, err := brain.SubmitTrainingContent(ctx, training.Input{
			Type:     training.ContentType(fields[1]),
			Text:     fields[2],
			Metadata: map[string]string{"source": "repl"},
		})
		if err != nil {
			fmt.Printf("training failed: %v\n", err)
			return false
		}
		fmt.Printf("success=%v entries=%d %s\n", res.Success, res.EntriesAdded, res.Message)
	case "/learn":
		if len(fields) < 3 {
			fmt.Println("usage: /learn <source> <answer>")
			return false
		}
		query := lastUserQuery(brain)
		learned, err := brain.LearnFromExternalResponse(ctx, query, fields[2], fields[1])
		if err != nil {
			fmt.Printf("learning failed: %v\n", err)
			return false
		}
		fmt.Printf("learned=%v\n", learned)
	case "/metrics":
		data, _ := json.MarshalIndent(brain.Metrics(), "", "  ")
		fmt.Println(string(data))
	case "/export":
		if len(fields) < 2 {
			fmt.Println("usage: /export <path>")
			return false
		}
		data, err := json.MarshalIndent(brain.ExportKnowledgeBase(), "", "  ")
		if err == nil {
			err = os.WriteFile(fields[1], data, 0o644)
		}
		if err != nil {
			fmt.Printf("export failed: %v\n", err)
			return false
		}
		fmt.Printf("exported to %s\n", fields[1])
	case "/import":
		if len(fields) < 2 {
			fmt.Println("usage: /import <path>")
			return false
		}
		if err := importSnapshot(ctx, brain, fields[1]); err != nil {
			fmt.Printf("import failed: %v\n", err)
			return false
		}
		fmt.Println("imported")
	case "/clear":
		brain.ClearKnowledgeBase(ctx)
		fmt.Println("knowledge base cleared")
	case "/quit", "/exit":
		return true
	default:
		fmt.Printf("unknown command %s (try /help)\n", fields[0])
	}
	return false
}

func importSnapshot(ctx context.Context, brain *engine.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	return brain.ImportKnowledgeBase(ctx, snap)
}

func decodeSnapshot(data []byte) (*knowledge.Snapshot, error) {
	var snap knowledge.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", knowledge.ErrInvalidSnapshot, err)
	}
	return &snap, nil
}

func lastUserQuery(brain *engine.Engine) string {
	turns := brain.ConversationMemory()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			return turns[i].Content
		}
	}
	return ""
}
