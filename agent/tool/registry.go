// Package tool holds the fixed catalog of store-backed tools, the
// dispatcher that executes parsed invocations against it, and the single
// presentation boundary that renders results for the user.
package tool

import (
	"context"

	"bookdesk/store"
)

const (
	ToolFindBooks        = "find_books"
	ToolCreateOrder      = "create_order"
	ToolRestockBook      = "restock_book"
	ToolUpdatePrice      = "update_price"
	ToolOrderStatus      = "order_status"
	ToolInventorySummary = "inventory_summary"
)

// Handler executes one tool with coerced keyword arguments and returns a
// structured result. It must contain its own failures in the error value.
type Handler func(ctx context.Context, args map[string]any) (any, error)

type Definition struct {
	Name        string
	Description string
	Handler     Handler
}

// Registry is the fixed name-to-tool mapping consumed by the dispatcher.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry(st store.Store) *Registry {
	t := &toolset{store: st}

	defs := []Definition{
		{Name: ToolFindBooks, Description: "Search for books by title or author", Handler: t.findBooks},
		{Name: ToolCreateOrder, Description: "Create order and reduce stock", Handler: t.createOrder},
		{Name: ToolRestockBook, Description: "Add quantity to book stock", Handler: t.restockBook},
		{Name: ToolUpdatePrice, Description: "Update book price", Handler: t.updatePrice},
		{Name: ToolOrderStatus, Description: "Get order details", Handler: t.orderStatus},
		{Name: ToolInventorySummary, Description: "Get inventory summary with low stock alerts", Handler: t.inventorySummary},
	}

	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		r.defs[def.Name] = def
	}
	return r
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// toolset binds every tool handler to the store.
type toolset struct {
	store store.Store
}
