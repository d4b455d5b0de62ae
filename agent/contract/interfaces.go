package contract

import "context"

// Completer is the language model boundary: one best-effort completion per
// call, no streaming, no retries.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error)
}
