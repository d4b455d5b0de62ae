// Package session runs the conversation loop for one chat session: it
// carries the rolling history window, invokes the model, and routes tool
// markers to the dispatcher.
package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"bookdesk/agent/contract"
	"bookdesk/agent/parser"
	"bookdesk/agent/tool"
	"bookdesk/store"
)

const (
	// historyWindow caps the in-memory history after each turn.
	historyWindow = 10

	// promptWindow is how many prior messages accompany each completion.
	promptWindow = 6
)

// Agent is a single-session conversation controller. It is not safe for
// concurrent use; each session gets its own Agent.
type Agent struct {
	sessionID  string
	store      store.Store
	completer  contract.Completer
	dispatcher *tool.Dispatcher
	prompt     string
	history    []contract.ChatMessage
}

func New(sessionID string, st store.Store, completer contract.Completer, dispatcher *tool.Dispatcher, systemPrompt string) *Agent {
	return &Agent{
		sessionID:  sessionID,
		store:      st,
		completer:  completer,
		dispatcher: dispatcher,
		prompt:     systemPrompt,
	}
}

func (a *Agent) SessionID() string {
	return a.sessionID
}

// Chat runs one turn: persist the user message, complete, execute any tool
// calls, update the window, persist the reply. A failed turn returns an
// error string and leaves the session usable.
func (a *Agent) Chat(ctx context.Context, msg string) string {
	reply, err := a.turn(ctx, msg)
	if err != nil {
		log.Warn().Str("session", a.sessionID).Err(err).Msg("turn failed")
		return "Error: " + err.Error()
	}
	return reply
}

func (a *Agent) turn(ctx context.Context, msg string) (string, error) {
	if err := a.store.LogMessage(ctx, a.sessionID, string(contract.RoleUser), msg); err != nil {
		return "", err
	}

	window := a.history
	if len(window) > promptWindow {
		window = window[len(window)-promptWindow:]
	}
	messages := make([]contract.ChatMessage, 0, len(window)+1)
	messages = append(messages, window...)
	messages = append(messages, contract.ChatMessage{Role: contract.RoleUser, Content: msg})

	completion, err := a.completer.Complete(ctx, a.prompt, messages)
	if err != nil {
		return "", err
	}
	completion = strings.TrimSpace(completion)

	response := completion
	if parser.HasMarker(completion) {
		if invocations := parser.Parse(completion); len(invocations) > 0 {
			response = a.dispatcher.Run(ctx, a.sessionID, invocations)
		}
	}

	a.history = append(a.history,
		contract.ChatMessage{Role: contract.RoleUser, Content: msg},
		contract.ChatMessage{Role: contract.RoleAssistant, Content: response},
	)
	if len(a.history) > historyWindow {
		a.history = a.history[len(a.history)-historyWindow:]
	}

	if err := a.store.LogMessage(ctx, a.sessionID, string(contract.RoleAssistant), response); err != nil {
		return "", err
	}
	return response, nil
}

// LoadHistory restores the rolling window from the persisted session log.
func (a *Agent) LoadHistory(ctx context.Context) error {
	msgs, err := a.store.GetSessionHistory(ctx, a.sessionID)
	if err != nil {
		return err
	}
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}

	a.history = a.history[:0]
	for _, m := range msgs {
		a.history = append(a.history, contract.ChatMessage{
			Role:    contract.Role(m.Role),
			Content: m.Content,
		})
	}
	return nil
}

// History returns a copy of the current rolling window.
func (a *Agent) History() []contract.ChatMessage {
	out := make([]contract.ChatMessage, len(a.history))
	copy(out, a.history)
	return out
}
