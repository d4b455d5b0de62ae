// Package memory implements store.Store in process memory. It backs tests
// and the demo mode of the CLI when no database is configured, with the
// same all-or-nothing semantics as the Postgres store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bookdesk/store"
)

type orderRecord struct {
	header store.OrderDetail
	items  []store.OrderItem
}

type toolCallRecord struct {
	SessionID string
	Tool      string
	Args      map[string]any
	Result    any
	CreatedAt time.Time
}

type MemStore struct {
	mu          sync.RWMutex
	books       map[string]store.Book
	customers   map[int64]store.Customer
	orders      map[int64]orderRecord
	nextOrderID int64
	messages    []store.Message
	toolCalls   []toolCallRecord
}

var _ store.Store = (*MemStore)(nil)

func New() *MemStore {
	return &MemStore{
		books:       make(map[string]store.Book),
		customers:   make(map[int64]store.Customer),
		orders:      make(map[int64]orderRecord),
		nextOrderID: 1,
	}
}

// NewSeeded returns a store preloaded with the demo catalog.
func NewSeeded() *MemStore {
	s := New()
	for _, b := range store.SeedBooks() {
		s.books[b.ISBN] = b
	}
	for _, c := range store.SeedCustomers() {
		s.customers[c.ID] = c
	}
	return s
}

// AddBook inserts or replaces a book. Intended for test setup.
func (s *MemStore) AddBook(b store.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ISBN] = b
}

// AddCustomer inserts or replaces a customer. Intended for test setup.
func (s *MemStore) AddCustomer(c store.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

func (s *MemStore) FindBooks(_ context.Context, query, by string) ([]store.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []store.Book
	for _, b := range s.books {
		field := b.Title
		if by == store.SearchByAuthor {
			field = b.Author
		}
		if strings.Contains(strings.ToLower(field), needle) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemStore) GetBook(_ context.Context, isbn string) (*store.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[isbn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrBookNotFound, isbn)
	}
	return &b, nil
}

func (s *MemStore) UpdateStock(_ context.Context, isbn string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[isbn]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrBookNotFound, isbn)
	}
	b.Stock += delta
	s.books[isbn] = b
	return nil
}

func (s *MemStore) UpdatePrice(_ context.Context, isbn string, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[isbn]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrBookNotFound, isbn)
	}
	b.Price = price
	s.books[isbn] = b
	return nil
}

func (s *MemStore) GetCustomer(_ context.Context, id int64) (*store.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", store.ErrCustomerNotFound, id)
	}
	return &c, nil
}

func (s *MemStore) CreateOrder(_ context.Context, customerID int64, lines []store.OrderLine) (*store.OrderResult, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("order has no items")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return nil, fmt.Errorf("%w: %d", store.ErrCustomerNotFound, customerID)
	}

	// Validate everything before touching stock so a late failure cannot
	// leave earlier decrements behind.
	total := decimal.Zero
	items := make([]store.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("quantity must be positive, got %d for %s", line.Qty, line.ISBN)
		}
		b, ok := s.books[line.ISBN]
		if !ok {
			return nil, fmt.Errorf("%w: %s", store.ErrBookNotFound, line.ISBN)
		}
		if b.Stock < line.Qty {
			return nil, &store.InsufficientStockError{
				Title:     b.Title,
				Available: b.Stock,
				Requested: line.Qty,
			}
		}
		total = total.Add(b.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		items = append(items, store.OrderItem{
			ISBN:            b.ISBN,
			Title:           b.Title,
			Quantity:        line.Qty,
			PriceAtPurchase: b.Price,
		})
	}

	orderID := s.nextOrderID
	s.nextOrderID++

	updated := make([]store.StockLevel, 0, len(items))
	for i := range items {
		items[i].OrderID = orderID
		b := s.books[items[i].ISBN]
		b.Stock -= items[i].Quantity
		s.books[items[i].ISBN] = b
		updated = append(updated, store.StockLevel{ISBN: b.ISBN, Title: b.Title, Stock: b.Stock})
	}

	customer := s.customers[customerID]
	s.orders[orderID] = orderRecord{
		header: store.OrderDetail{
			ID:            orderID,
			CustomerID:    customerID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			TotalAmount:   total,
			Status:        store.StatusCompleted,
			CreatedAt:     time.Now(),
		},
		items: items,
	}

	return &store.OrderResult{
		OrderID:      orderID,
		TotalAmount:  total,
		Items:        items,
		UpdatedStock: updated,
	}, nil
}

func (s *MemStore) GetOrderStatus(_ context.Context, orderID int64) (*store.OrderDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", store.ErrOrderNotFound, orderID)
	}

	detail := rec.header
	detail.Items = make([]store.OrderDetailItem, 0, len(rec.items))
	for _, item := range rec.items {
		author := ""
		if b, ok := s.books[item.ISBN]; ok {
			author = b.Author
		}
		detail.Items = append(detail.Items, store.OrderDetailItem{
			ISBN:            item.ISBN,
			Title:           item.Title,
			Author:          author,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return &detail, nil
}

func (s *MemStore) GetInventorySummary(_ context.Context) (*store.InventorySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &store.InventorySummary{TotalValue: decimal.Zero}
	for _, b := range s.books {
		summary.TotalTitles++
		summary.TotalUnits += b.Stock
		summary.TotalValue = summary.TotalValue.Add(b.Price.Mul(decimal.NewFromInt(int64(b.Stock))))
		if b.Stock < store.LowStockThreshold {
			summary.LowStock = append(summary.LowStock, b)
		}
	}
	sort.Slice(summary.LowStock, func(i, j int) bool {
		return summary.LowStock[i].Stock < summary.LowStock[j].Stock
	})
	return summary, nil
}

func (s *MemStore) LogMessage(_ context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, store.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *MemStore) GetSessionHistory(_ context.Context, sessionID string) ([]store.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Message
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemStore) GetAllSessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, m := range s.messages {
		if _, ok := seen[m.SessionID]; ok {
			continue
		}
		seen[m.SessionID] = struct{}{}
		ids = append(ids, m.SessionID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemStore) CountMessages(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) LogToolCall(_ context.Context, sessionID, tool string, args map[string]any, result any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toolCalls = append(s.toolCalls, toolCallRecord{
		SessionID: sessionID,
		Tool:      tool,
		Args:      args,
		Result:    result,
		CreatedAt: time.Now(),
	})
}

// ToolCallCount reports audit log size. Intended for tests.
func (s *MemStore) ToolCallCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.toolCalls)
}
