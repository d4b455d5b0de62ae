package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookdesk/agent/contract"
	"bookdesk/agent/prompt"
	"bookdesk/agent/session"
	"bookdesk/agent/tool"
	configx "bookdesk/pkg/config"
	_ "bookdesk/pkg/logger/autoload"
	"bookdesk/pkg/openrouter"
	"bookdesk/store"
	"bookdesk/store/memory"
	"bookdesk/store/postgres"
)

type appConfig struct {
	SystemPromptPath string `envconfig:"SYSTEM_PROMPT_PATH" split_words:"true"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[appConfig]("BOOKDESK")
	modelCfg := configx.MustNew[openrouter.Config]("OPENROUTER")
	dbCfg := configx.MustNew[postgres.Config]("DATABASE")

	st, cleanup := openStore(ctx, *dbCfg)
	defer cleanup()

	systemPrompt, err := prompt.Load(appCfg.SystemPromptPath)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to built-in system prompt")
		systemPrompt = prompt.Default()
	}

	completer := openrouter.MustNew(*modelCfg)
	dispatcher := tool.NewDispatcher(tool.NewRegistry(st), st)

	ui := &terminalUI{
		store:      st,
		completer:  completer,
		dispatcher: dispatcher,
		prompt:     systemPrompt,
		in:         bufio.NewScanner(os.Stdin),
	}
	ui.run(ctx)
}

// openStore picks the backend: a Postgres DSN when configured, otherwise a
// seeded in-memory store for local trials.
func openStore(ctx context.Context, cfg postgres.Config) (store.Store, func()) {
	if cfg.DSN == "" {
		log.Info().Msg("no database dsn configured, using in-memory store")
		return memory.NewSeeded(), func() {}
	}

	pg := postgres.New(cfg)
	if err := pg.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}
	if err := pg.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema creation failed")
	}
	if err := pg.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	return pg, func() {
		if err := pg.Close(); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}
}

type terminalUI struct {
	store      store.Store
	completer  contract.Completer
	dispatcher *tool.Dispatcher
	prompt     string
	in         *bufio.Scanner

	agent *session.Agent
}

func (ui *terminalUI) run(ctx context.Context) {
	ui.printHeader()
	ui.initAgent(ctx)
	ui.printMenu()
	ui.chatLoop(ctx)
}

func (ui *terminalUI) printHeader() {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("%30s\n", "BOOKSTORE DESK AGENT")
	fmt.Println(strings.Repeat("=", 60))
}

func (ui *terminalUI) printMenu() {
	fmt.Println("\n Commands:")
	fmt.Println("  - Type your question")
	fmt.Println("  - 'sessions' - List all sessions")
	fmt.Println("  - 'history' - Show current session history")
	fmt.Println("  - 'switch <number>' - Change session")
	fmt.Println("  - 'new' - New session")
	fmt.Println("  - 'clear' - Clear screen")
	fmt.Println("  - 'quit' - Exit")
	fmt.Println()
}

func newSessionID() string {
	return "session-" + uuid.NewString()[:8]
}

// showSessions lists saved sessions with message counts and marks the
// active one. Returns the list so callers can index picks.
func (ui *terminalUI) showSessions(ctx context.Context) []string {
	sessions, err := ui.store.GetAllSessions(ctx)
	if err != nil {
		fmt.Printf("\n Error: %v\n\n", err)
		return nil
	}
	if len(sessions) == 0 {
		fmt.Println("\n  No saved sessions")
		fmt.Println()
		return sessions
	}

	fmt.Println("\n Available Sessions:")
	for i, id := range sessions {
		count, err := ui.store.CountMessages(ctx, id)
		if err != nil {
			count = 0
		}
		marker := " "
		if ui.agent != nil && id == ui.agent.SessionID() {
			marker = "*"
		}
		fmt.Printf("  %s %d. %s  %d msg\n", marker, i+1, id, count)
	}
	fmt.Println()
	return sessions
}

// selectSession offers saved sessions at startup; Enter starts a new one.
func (ui *terminalUI) selectSession(ctx context.Context) string {
	sessions, err := ui.store.GetAllSessions(ctx)
	if err == nil && len(sessions) > 0 {
		fmt.Printf("\n Found %d session(s)\n", len(sessions))
		ui.showSessions(ctx)

		choice := ui.readLine("Select session number (or Enter for new): ")
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(sessions) {
			return sessions[n-1]
		}
	}
	return newSessionID()
}

func (ui *terminalUI) initAgent(ctx context.Context) {
	id := ui.selectSession(ctx)
	fmt.Printf("\n Loading: %s\n", id)

	ui.agent = session.New(id, ui.store, ui.completer, ui.dispatcher, ui.prompt)
	if err := ui.agent.LoadHistory(ctx); err != nil {
		fmt.Printf(" Error loading history: %v\n", err)
	}

	history := ui.agent.History()
	if len(history) > 0 {
		fmt.Printf("\n Previous Messages (%d):\n", len(history))
		fmt.Println(strings.Repeat("-", 60))
		for _, m := range history {
			fmt.Printf("%s: %s\n", roleLabel(m.Role), preview(m.Content))
		}
		fmt.Println(strings.Repeat("-", 60))
	}

	fmt.Println(" Ready!")
	fmt.Println()
}

func roleLabel(r contract.Role) string {
	if r == contract.RoleUser {
		return " You"
	}
	return " Agent"
}

// preview truncates resumed messages so the recap stays one line each.
func preview(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) > 80 {
		return content[:80] + "..."
	}
	return content
}

func (ui *terminalUI) readLine(promptText string) string {
	fmt.Print(promptText)
	if !ui.in.Scan() {
		return "quit"
	}
	return strings.TrimSpace(ui.in.Text())
}

func (ui *terminalUI) chatLoop(ctx context.Context) {
	for {
		input := ui.readLine(" You: ")
		if input == "" {
			continue
		}

		cmd := strings.ToLower(input)
		switch {
		case cmd == "quit" || cmd == "exit" || cmd == "q":
			fmt.Println("\n Goodbye!")
			fmt.Println()
			return

		case cmd == "clear":
			fmt.Print("\033[2J\033[H")
			ui.printHeader()
			ui.printMenu()

		case cmd == "sessions":
			ui.showSessions(ctx)

		case cmd == "history":
			ui.showHistory()

		case strings.HasPrefix(cmd, "switch "):
			ui.switchSession(ctx, strings.TrimSpace(strings.TrimPrefix(cmd, "switch ")))

		case cmd == "new":
			id := newSessionID()
			ui.agent = session.New(id, ui.store, ui.completer, ui.dispatcher, ui.prompt)
			fmt.Printf("\n New session: %s\n\n", id)

		default:
			fmt.Print("\n Agent: ")
			fmt.Println(ui.agent.Chat(ctx, input))
			fmt.Println()
		}
	}
}

func (ui *terminalUI) showHistory() {
	history := ui.agent.History()
	if len(history) == 0 {
		fmt.Println("\n No messages in this session yet.")
		fmt.Println()
		return
	}

	fmt.Printf("\n Session History (%d messages):\n", len(history))
	fmt.Println(strings.Repeat("=", 60))
	for _, m := range history {
		fmt.Printf("\n%s:\n%s\n", roleLabel(m.Role), m.Content)
	}
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
}

func (ui *terminalUI) switchSession(ctx context.Context, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("\n Usage: switch <number>")
		fmt.Println()
		return
	}

	sessions, err := ui.store.GetAllSessions(ctx)
	if err != nil {
		fmt.Printf("\n Error: %v\n\n", err)
		return
	}
	if n < 1 || n > len(sessions) {
		fmt.Println("\n No such session.")
		fmt.Println()
		return
	}

	id := sessions[n-1]
	ui.agent = session.New(id, ui.store, ui.completer, ui.dispatcher, ui.prompt)
	if err := ui.agent.LoadHistory(ctx); err != nil {
		fmt.Printf(" Error loading history: %v\n", err)
	}
	fmt.Printf("\n Switched to: %s\n\n", id)
}
