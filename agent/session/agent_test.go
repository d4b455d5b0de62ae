package session

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"bookdesk/agent/contract"
	"bookdesk/agent/tool"
	"bookdesk/store/memory"
)

// scriptedCompleter returns canned completions in order and records what
// it was asked.
type scriptedCompleter struct {
	replies []string
	calls   int

	lastSystem   string
	lastMessages []contract.ChatMessage
}

func (c *scriptedCompleter) Complete(_ context.Context, systemPrompt string, messages []contract.ChatMessage) (string, error) {
	c.lastSystem = systemPrompt
	c.lastMessages = messages
	if c.calls >= len(c.replies) {
		return "", fmt.Errorf("unexpected completion call %d", c.calls)
	}
	reply := c.replies[c.calls]
	c.calls++
	return reply, nil
}

type failingCompleter struct{}

func (failingCompleter) Complete(context.Context, string, []contract.ChatMessage) (string, error) {
	return "", fmt.Errorf("%w: upstream unavailable", contract.ErrModelInvoke)
}

func newAgent(completer contract.Completer, st *memory.MemStore) *Agent {
	dispatcher := tool.NewDispatcher(tool.NewRegistry(st), st)
	return New("test-session", st, completer, dispatcher, "You are a bookstore desk agent.")
}

func TestChatPlainReplyPassesThrough(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()
	completer := &scriptedCompleter{replies: []string{"We open at nine."}}
	a := newAgent(completer, st)

	reply := a.Chat(context.Background(), "When do you open?")
	if reply != "We open at nine." {
		t.Fatalf("reply = %q", reply)
	}
	if completer.lastSystem != "You are a bookstore desk agent." {
		t.Fatalf("system prompt = %q", completer.lastSystem)
	}
}

func TestChatRoutesToolMarkerToDispatcher(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()
	completer := &scriptedCompleter{replies: []string{`TOOL: find_books(q="hobbit")`}}
	a := newAgent(completer, st)

	reply := a.Chat(context.Background(), "Do you have The Hobbit?")
	if !strings.Contains(reply, "The Hobbit") || !strings.Contains(reply, "$14.99") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestChatPersistsBothSides(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()
	completer := &scriptedCompleter{replies: []string{"Hello!"}}
	a := newAgent(completer, st)

	a.Chat(context.Background(), "hi")

	msgs, err := st.GetSessionHistory(context.Background(), "test-session")
	if err != nil {
		t.Fatalf("GetSessionHistory: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "hi" {
		t.Fatalf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "Hello!" {
		t.Fatalf("second message = %+v", msgs[1])
	}
}

func TestChatWindowStaysCapped(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()

	replies := make([]string, 12)
	for i := range replies {
		replies[i] = fmt.Sprintf("reply %d", i)
	}
	completer := &scriptedCompleter{replies: replies}
	a := newAgent(completer, st)

	ctx := context.Background()
	for i := 0; i < 12; i++ {
		a.Chat(ctx, fmt.Sprintf("message %d", i))
	}

	history := a.History()
	if len(history) != historyWindow {
		t.Fatalf("window = %d, want %d", len(history), historyWindow)
	}
	if history[len(history)-1].Content != "reply 11" {
		t.Fatalf("newest entry = %q", history[len(history)-1].Content)
	}
	if history[0].Content != "message 7" {
		t.Fatalf("oldest entry = %q", history[0].Content)
	}
}

func TestChatSendsAtMostPromptWindowPriorMessages(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()

	replies := make([]string, 8)
	for i := range replies {
		replies[i] = fmt.Sprintf("reply %d", i)
	}
	completer := &scriptedCompleter{replies: replies}
	a := newAgent(completer, st)

	ctx := context.Background()
	for i := 0; i < 8; i++ {
		a.Chat(ctx, fmt.Sprintf("message %d", i))
	}

	// promptWindow prior messages plus the new user message.
	if len(completer.lastMessages) != promptWindow+1 {
		t.Fatalf("sent %d messages, want %d", len(completer.lastMessages), promptWindow+1)
	}
	last := completer.lastMessages[len(completer.lastMessages)-1]
	if last.Role != contract.RoleUser || last.Content != "message 7" {
		t.Fatalf("last sent = %+v", last)
	}
}

func TestChatModelFailureReturnsErrorString(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()
	a := newAgent(failingCompleter{}, st)

	reply := a.Chat(context.Background(), "hello?")
	if !strings.HasPrefix(reply, "Error: ") {
		t.Fatalf("reply = %q", reply)
	}

	// The session must stay usable after a failed turn.
	if got := len(a.History()); got != 0 {
		t.Fatalf("history grew to %d after failed turn", got)
	}
}

func TestLoadHistoryRestoresCappedWindow(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()
	ctx := context.Background()

	for i := 0; i < 14; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if err := st.LogMessage(ctx, "test-session", role, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
	}

	a := newAgent(&scriptedCompleter{}, st)
	if err := a.LoadHistory(ctx); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	history := a.History()
	if len(history) != historyWindow {
		t.Fatalf("restored %d messages, want %d", len(history), historyWindow)
	}
	if history[0].Content != "msg 4" {
		t.Fatalf("oldest restored = %q", history[0].Content)
	}
	if history[len(history)-1].Role != contract.RoleAssistant {
		t.Fatalf("newest restored role = %q", history[len(history)-1].Role)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	t.Parallel()
	st := memory.NewSeeded()
	completer := &scriptedCompleter{replies: []string{"sure"}}
	a := newAgent(completer, st)

	a.Chat(context.Background(), "hi")

	h := a.History()
	h[0].Content = "mutated"
	if a.History()[0].Content != "hi" {
		t.Fatal("History exposed internal slice")
	}
}
