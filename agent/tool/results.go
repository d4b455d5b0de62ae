package tool

import (
	"github.com/shopspring/decimal"

	"bookdesk/store"
)

// Structured tool outcomes. Rendering to user text happens only in
// Render; tests assert on these values directly.

type BookListing struct {
	Query string
	Field string
	Books []store.Book
}

type OrderCreated struct {
	Customer store.Customer
	Order    store.OrderResult
}

type Restocked struct {
	Title    string
	Previous int
	Added    int
	Stock    int
}

type PriceUpdated struct {
	Title    string
	OldPrice decimal.Decimal
	NewPrice decimal.Decimal
}

type OrderStatus struct {
	Detail store.OrderDetail
}

type InventoryReport struct {
	Summary store.InventorySummary
}
