// Package store owns all persisted bookstore state: books, customers,
// orders, conversation messages, and the tool-call audit log.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold flags books in the inventory summary.
	LowStockThreshold = 5

	// StatusCompleted is the only order status assigned at creation.
	StatusCompleted = "completed"

	SearchByTitle  = "title"
	SearchByAuthor = "author"
)

type Book struct {
	ISBN   string          `json:"isbn"`
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock"`
}

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderLine is one requested item of an order: ISBN plus quantity.
type OrderLine struct {
	ISBN string `json:"isbn"`
	Qty  int    `json:"qty"`
}

// OrderItem is a persisted order line with the price snapshotted at
// purchase time. The snapshot never changes, even if the book price does.
type OrderItem struct {
	OrderID         int64           `json:"order_id"`
	ISBN            string          `json:"isbn"`
	Title           string          `json:"title"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// StockLevel reports a book's stock after an order decremented it.
type StockLevel struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Stock int    `json:"stock"`
}

// OrderResult is returned by CreateOrder.
type OrderResult struct {
	OrderID      int64           `json:"order_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []OrderItem     `json:"items"`
	UpdatedStock []StockLevel    `json:"updated_stock"`
}

// OrderDetailItem is an order line joined with its book.
type OrderDetailItem struct {
	ISBN            string          `json:"isbn"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderDetail is an order header joined with its customer and lines.
type OrderDetail struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderDetailItem `json:"items"`
}

type Message struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type InventorySummary struct {
	TotalTitles int             `json:"total_titles"`
	TotalUnits  int             `json:"total_units"`
	TotalValue  decimal.Decimal `json:"total_value"`
	LowStock    []Book          `json:"low_stock"`
}

// Store is the persistence contract. Every operation is atomic: it either
// fully commits or leaves state unchanged.
type Store interface {
	// FindBooks matches case-insensitively on the chosen field
	// (SearchByTitle or SearchByAuthor; anything else falls back to
	// title), ordered by title ascending. No match is an empty slice,
	// not an error.
	FindBooks(ctx context.Context, query, by string) ([]Book, error)

	// GetBook returns ErrBookNotFound for an unknown ISBN.
	GetBook(ctx context.Context, isbn string) (*Book, error)

	// UpdateStock applies stock += delta. It does not enforce
	// non-negativity; the order path is the guarded way to decrement.
	UpdateStock(ctx context.Context, isbn string, delta int) error

	// UpdatePrice replaces the book's price.
	UpdatePrice(ctx context.Context, isbn string, price decimal.Decimal) error

	// GetCustomer returns ErrCustomerNotFound for an unknown id.
	GetCustomer(ctx context.Context, id int64) (*Customer, error)

	// CreateOrder verifies the customer, every book, and every stock
	// level, then persists the order header, its lines with price
	// snapshots, and the stock decrements as one all-or-nothing unit.
	// An *InsufficientStockError aborts the whole order.
	CreateOrder(ctx context.Context, customerID int64, lines []OrderLine) (*OrderResult, error)

	// GetOrderStatus returns ErrOrderNotFound for an unknown id.
	GetOrderStatus(ctx context.Context, orderID int64) (*OrderDetail, error)

	GetInventorySummary(ctx context.Context) (*InventorySummary, error)

	// LogMessage appends one conversation message.
	LogMessage(ctx context.Context, sessionID, role, content string) error

	// GetSessionHistory returns a session's messages in creation order.
	GetSessionHistory(ctx context.Context, sessionID string) ([]Message, error)

	// GetAllSessions returns distinct session ids, lexicographically.
	GetAllSessions(ctx context.Context) ([]string, error)

	// CountMessages returns the number of messages in a session.
	CountMessages(ctx context.Context, sessionID string) (int, error)

	// LogToolCall appends a best-effort audit record. Failures are
	// swallowed; it never blocks the operation it describes.
	LogToolCall(ctx context.Context, sessionID, tool string, args map[string]any, result any)
}
