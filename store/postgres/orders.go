package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"bookdesk/store"
)

// CreateOrder runs the whole order as one transaction: customer check,
// per-book stock checks under row locks, order header, line items with
// price snapshots, and the stock decrements. Any failure rolls back all
// of it.
func (s *PGStore) CreateOrder(ctx context.Context, customerID int64, lines []store.OrderLine) (*store.OrderResult, error) {
	if len(lines) == 0 {
		return nil, errors.New("order has no items")
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("quantity must be positive, got %d for %s", line.Qty, line.ISBN)
		}
	}

	var result *store.OrderResult
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*customerRow)(nil)).
			Where("id = ?", customerID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %d", store.ErrCustomerNotFound, customerID)
		}

		total := decimal.Zero
		items := make([]store.OrderItem, 0, len(lines))
		for _, line := range lines {
			var book bookRow
			err := tx.NewSelect().
				Model(&book).
				Where("isbn = ?", line.ISBN).
				For("UPDATE").
				Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", store.ErrBookNotFound, line.ISBN)
			}
			if err != nil {
				return fmt.Errorf("load book %s: %w", line.ISBN, err)
			}

			if book.Stock < line.Qty {
				return &store.InsufficientStockError{
					Title:     book.Title,
					Available: book.Stock,
					Requested: line.Qty,
				}
			}

			total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
			items = append(items, store.OrderItem{
				ISBN:            book.ISBN,
				Title:           book.Title,
				Quantity:        line.Qty,
				PriceAtPurchase: book.Price,
			})
		}

		order := &orderRow{
			CustomerID:  customerID,
			TotalAmount: total,
			Status:      store.StatusCompleted,
		}
		if _, err := tx.NewInsert().Model(order).Returning("id, created_at").Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		updated := make([]store.StockLevel, 0, len(items))
		for i := range items {
			items[i].OrderID = order.ID

			itemRow := &orderItemRow{
				OrderID:         order.ID,
				ISBN:            items[i].ISBN,
				Quantity:        items[i].Quantity,
				PriceAtPurchase: items[i].PriceAtPurchase,
			}
			if _, err := tx.NewInsert().Model(itemRow).Exec(ctx); err != nil {
				return fmt.Errorf("insert order item %s: %w", items[i].ISBN, err)
			}

			if _, err := tx.NewUpdate().
				Model((*bookRow)(nil)).
				Set("stock = stock - ?", items[i].Quantity).
				Where("isbn = ?", items[i].ISBN).
				Exec(ctx); err != nil {
				return fmt.Errorf("decrement stock %s: %w", items[i].ISBN, err)
			}

			var after bookRow
			if err := tx.NewSelect().
				Model(&after).
				Column("isbn", "title", "stock").
				Where("isbn = ?", items[i].ISBN).
				Scan(ctx); err != nil {
				return fmt.Errorf("reread stock %s: %w", items[i].ISBN, err)
			}
			updated = append(updated, store.StockLevel{
				ISBN:  after.ISBN,
				Title: after.Title,
				Stock: after.Stock,
			})
		}

		result = &store.OrderResult{
			OrderID:      order.ID,
			TotalAmount:  total,
			Items:        items,
			UpdatedStock: updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PGStore) GetOrderStatus(ctx context.Context, orderID int64) (*store.OrderDetail, error) {
	var detail store.OrderDetail
	err := s.db.NewSelect().
		Model((*orderRow)(nil)).
		ColumnExpr("o.id, o.customer_id, o.total_amount, o.status, o.created_at").
		ColumnExpr("c.name AS customer_name, c.email AS customer_email").
		Join("JOIN customers AS c ON c.id = o.customer_id").
		Where("o.id = ?", orderID).
		Scan(ctx, &detail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", store.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	err = s.db.NewSelect().
		Model((*orderItemRow)(nil)).
		ColumnExpr("oi.isbn, oi.quantity, oi.price_at_purchase").
		ColumnExpr("b.title, b.author").
		Join("JOIN books AS b ON b.isbn = oi.isbn").
		Where("oi.order_id = ?", orderID).
		Order("oi.id ASC").
		Scan(ctx, &detail.Items)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return &detail, nil
}
