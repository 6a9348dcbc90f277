// Command converse-chat is an interactive terminal chat against a Bedrock
// Claude model.
//
// Attachments are staged with /image, /doc, or /files and ride along with
// the next message. Sessions can be persisted to Redis and resumed by ID.
//
// Usage:
//
//	converse-chat [-config converse.yaml] [-session <id>]
//
// In-chat commands:
//
//	/image <path>...     stage image attachments for the next message
//	/doc <path>...       stage document attachments for the next message
//	/files <path>...     stage mixed attachments, classified by extension
//	/history             print the conversation so far
//	/clear               drop the conversation history
//	/export <path>       write the conversation to a JSON file
//	/reasoning on|off    toggle extended reasoning
//	/budget <tokens>     set the reasoning token budget
//	/quit                save the session (if enabled) and exit
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zero-day-ai/converse"
	"github.com/zero-day-ai/converse/agent"
	"github.com/zero-day-ai/converse/bedrock"
	"github.com/zero-day-ai/converse/config"
	"github.com/zero-day-ai/converse/content"
	"github.com/zero-day-ai/converse/observe"
	"github.com/zero-day-ai/converse/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "converse-chat:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		configPath    = flag.String("config", "", "path to converse.yaml")
		sessionID     = flag.String("session", "", "session ID to resume (requires a configured Redis store)")
		showReasoning = flag.Bool("show-reasoning", false, "print the model's reasoning trace before each answer")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := observe.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	sender, err := newSender(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []agent.Option{
		agent.WithLogger(logger),
		agent.WithModelConfig(agent.ModelConfig{
			ModelID:               cfg.Model.ID,
			MaxTokens:             cfg.Model.MaxTokens,
			Temperature:           cfg.Model.Temperature,
			TopP:                  cfg.Model.TopP,
			ContextWindowTokens:   cfg.Model.ContextWindowTokens,
			EnableReasoning:       cfg.ReasoningEnabled(),
			ReasoningBudgetTokens: cfg.Model.ReasoningBudgetTokens,
		}),
	}
	a := agent.New(cfg.Agent.Name, cfg.Agent.System, sender, opts...)

	var store session.Store
	if cfg.Session.RedisURL != "" {
		rs, err := session.NewRedisStore(session.RedisOptions{
			URL: cfg.Session.RedisURL,
			TTL: cfg.Session.GetTTL(),
		})
		if err != nil {
			return err
		}
		defer converse.CloseWithLog(rs, logger, "session store")
		store = rs
	}

	id := *sessionID
	switch {
	case id != "" && store == nil:
		return fmt.Errorf("-session requires session.redis_url in the config")
	case id != "" && store != nil:
		rec, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		a.Restore(rec.Transcript)
		fmt.Printf("Resumed session %s (%d messages)\n", id, a.HistoryLen())
	case store != nil:
		id = session.NewID()
		fmt.Printf("New session %s\n", id)
	}

	fmt.Printf("Chatting with %s (%s). Type /quit to exit.\n", cfg.Agent.Name, cfg.Model.ID)

	loop := &chatLoop{
		agent:         a,
		store:         store,
		sessionID:     id,
		showReasoning: *showReasoning,
	}
	return loop.run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("converse.yaml"); err == nil {
		return config.Load("converse.yaml")
	}
	return config.FromEnv()
}

func newSender(ctx context.Context, cfg *config.Config) (bedrock.Sender, error) {
	api, err := bedrock.NewClient(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	if cfg.AWS.API == config.APIInvoke {
		return bedrock.NewInvokeSender(api), nil
	}
	return bedrock.NewConverseSender(api), nil
}

// chatLoop holds the interactive state: the agent, the staged attachments,
// and the optional session store.
type chatLoop struct {
	agent         *agent.Agent
	store         session.Store
	sessionID     string
	showReasoning bool

	pendingImages []string
	pendingDocs   []string
}

func (l *chatLoop) run(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return l.save(ctx)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := l.command(ctx, line)
			if err != nil {
				fmt.Println("error:", err)
			}
			if quit {
				return l.save(ctx)
			}
			continue
		}

		l.send(ctx, line)
	}
}

func (l *chatLoop) command(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/image":
		if len(args) == 0 {
			return false, errors.New("usage: /image <path>...")
		}
		l.pendingImages = append(l.pendingImages, args...)
		fmt.Printf("Staged %d image(s) for the next message.\n", len(l.pendingImages))

	case "/doc":
		if len(args) == 0 {
			return false, errors.New("usage: /doc <path>...")
		}
		l.pendingDocs = append(l.pendingDocs, args...)
		fmt.Printf("Staged %d document(s) for the next message.\n", len(l.pendingDocs))

	case "/files":
		if len(args) == 0 {
			return false, errors.New("usage: /files <path>...")
		}
		images, docs, err := agent.SplitFiles(args)
		if err != nil {
			return false, err
		}
		l.pendingImages = append(l.pendingImages, images...)
		l.pendingDocs = append(l.pendingDocs, docs...)
		fmt.Printf("Staged %d image(s) and %d document(s).\n", len(l.pendingImages), len(l.pendingDocs))

	case "/history":
		l.printHistory()

	case "/clear":
		l.agent.ClearHistory()
		l.pendingImages, l.pendingDocs = nil, nil
		fmt.Println("History cleared.")

	case "/export":
		if len(args) != 1 {
			return false, errors.New("usage: /export <path>")
		}
		if err := l.agent.ExportHistory(args[0]); err != nil {
			return false, err
		}
		fmt.Println("Exported to", args[0])

	case "/reasoning":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return false, errors.New("usage: /reasoning on|off")
		}
		l.agent.SetReasoning(args[0] == "on")
		fmt.Println("Reasoning", args[0])

	case "/budget":
		if len(args) != 1 {
			return false, errors.New("usage: /budget <tokens>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return false, errors.New("budget must be a positive integer")
		}
		l.agent.SetReasoningBudget(n)
		fmt.Println("Reasoning budget set to", n)

	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}

	return false, nil
}

func (l *chatLoop) send(ctx context.Context, prompt string) {
	images, docs := l.pendingImages, l.pendingDocs
	l.pendingImages, l.pendingDocs = nil, nil

	turn, err := l.agent.ChatWithFiles(ctx, prompt, images, docs)
	if err != nil {
		fmt.Println("error:", err)

		// Attachment and validation failures never touched the history, so
		// the staged files are simply dropped and the user can retry.
		var cerr *converse.Error
		if errors.As(err, &cerr) && cerr.Kind == converse.KindTransport {
			fmt.Println("The request failed in transit; use /clear before retrying.")
		}
		return
	}

	if l.showReasoning && turn.HasReasoning() {
		fmt.Println("[reasoning]", turn.ReasoningText())
	}
	fmt.Println(turn.Answer)
	fmt.Printf("(%d in / %d out tokens, %d total in history)\n",
		turn.Usage.InputTokens, turn.Usage.OutputTokens, l.agent.TokenCount())

	if err := l.saveQuiet(ctx); err != nil {
		fmt.Println("warning: session save failed:", err)
	}
}

func (l *chatLoop) printHistory() {
	msgs := l.agent.History()
	if len(msgs) == 0 {
		fmt.Println("No history yet.")
		return
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s\n", m.Role, renderBlocks(m.Blocks))
	}
	fmt.Printf("%d messages, ~%d tokens\n", len(msgs), l.agent.TokenCount())
}

func renderBlocks(blocks []content.Block) string {
	var parts []string
	for _, b := range blocks {
		switch v := b.(type) {
		case content.Text:
			parts = append(parts, v.Text)
		case content.Image:
			parts = append(parts, fmt.Sprintf("<image %s, %d bytes>", v.Format, len(v.Data)))
		case content.Document:
			parts = append(parts, fmt.Sprintf("<document %s>", v.Name))
		}
	}
	return strings.Join(parts, " ")
}

func (l *chatLoop) save(ctx context.Context) error {
	if err := l.saveQuiet(ctx); err != nil {
		return err
	}
	if l.store != nil {
		fmt.Println("Session saved as", l.sessionID)
	}
	return nil
}

func (l *chatLoop) saveQuiet(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	return l.store.Save(ctx, session.Record{
		ID:         l.sessionID,
		AgentName:  l.agent.Name(),
		Model:      l.agent.Model().ModelID,
		UpdatedAt:  time.Now().UTC(),
		Transcript: l.agent.Snapshot(),
	})
}
