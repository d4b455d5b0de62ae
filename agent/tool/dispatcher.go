package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"bookdesk/agent/contract"
	"bookdesk/agent/parser"
	"bookdesk/store"
)

// Dispatcher executes parsed tool invocations against the registry and
// renders each outcome. A failed invocation never aborts the batch.
type Dispatcher struct {
	registry *Registry
	store    store.Store
}

func NewDispatcher(registry *Registry, st store.Store) *Dispatcher {
	return &Dispatcher{registry: registry, store: st}
}

// Run executes the invocations in order and joins their rendered results
// with a blank line. Tool calls are recorded in the audit log best-effort.
func (d *Dispatcher) Run(ctx context.Context, sessionID string, invocations []parser.Invocation) string {
	results := make([]string, 0, len(invocations))
	for _, inv := range invocations {
		results = append(results, d.runOne(ctx, sessionID, inv))
	}
	return strings.Join(results, "\n\n")
}

func (d *Dispatcher) runOne(ctx context.Context, sessionID string, inv parser.Invocation) string {
	def, ok := d.registry.Lookup(inv.Name)
	if !ok {
		err := fmt.Errorf("%w: %s", contract.ErrUnknownTool, inv.Name)
		log.Debug().Err(err).Msg("tool dispatch")
		return fmt.Sprintf("Unknown tool: %s", inv.Name)
	}

	args := parser.CoerceArgs(inv.RawArgs)

	result, err := def.Handler(ctx, args)
	if err != nil {
		log.Debug().Str("tool", inv.Name).Err(err).Msg("tool execution failed")
		d.store.LogToolCall(ctx, sessionID, inv.Name, args, err.Error())
		return "Error: " + err.Error()
	}

	d.store.LogToolCall(ctx, sessionID, inv.Name, args, result)
	return Render(result)
}
