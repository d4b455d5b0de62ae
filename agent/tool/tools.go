package tool

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"bookdesk/agent/contract"
	"bookdesk/store"
)

func (t *toolset) findBooks(ctx context.Context, args map[string]any) (any, error) {
	query := getString(args, "q")
	by := getString(args, "by")
	if by != store.SearchByAuthor {
		by = store.SearchByTitle
	}

	books, err := t.store.FindBooks(ctx, query, by)
	if err != nil {
		return nil, err
	}
	return BookListing{Query: query, Field: by, Books: books}, nil
}

func (t *toolset) createOrder(ctx context.Context, args map[string]any) (any, error) {
	customerID, ok := getInt64(args, "customer_id")
	if !ok {
		return nil, fmt.Errorf("%w: customer_id is required", contract.ErrValidation)
	}

	customer, err := t.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	lines, disamb, err := t.orderLines(ctx, args[itemsKey])
	if err != nil {
		return nil, err
	}
	if disamb != nil {
		return *disamb, nil
	}

	result, err := t.store.CreateOrder(ctx, customerID, lines)
	if err != nil {
		return nil, err
	}
	return OrderCreated{Customer: *customer, Order: *result}, nil
}

const itemsKey = "items"

// orderLines converts the raw items argument into store order lines,
// resolving title fragments to ISBNs on the way.
func (t *toolset) orderLines(ctx context.Context, raw any) ([]store.OrderLine, *Disambiguation, error) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, nil, fmt.Errorf("%w: items must be a list of {isbn, qty} objects", contract.ErrValidation)
	}

	lines := make([]store.OrderLine, 0, len(list))
	for _, entry := range list {
		item, ok := entry.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: items must be a list of {isbn, qty} objects", contract.ErrValidation)
		}

		ref := getString(item, "isbn")
		if ref == "" {
			return nil, nil, fmt.Errorf("%w: each item needs an isbn or title", contract.ErrValidation)
		}
		qty, ok := getInt64(item, "qty")
		if !ok {
			qty = 1
		}

		if !isISBN(ref) {
			book, disamb, err := t.resolveBook(ctx, ref, DetailNone)
			if err != nil {
				return nil, nil, err
			}
			if disamb != nil {
				return nil, disamb, nil
			}
			ref = book.ISBN
		}

		lines = append(lines, store.OrderLine{ISBN: ref, Qty: int(qty)})
	}
	return lines, nil, nil
}

func (t *toolset) restockBook(ctx context.Context, args map[string]any) (any, error) {
	ref := getString(args, "isbn")
	if ref == "" {
		return nil, fmt.Errorf("%w: isbn is required", contract.ErrValidation)
	}
	qty, ok := getInt64(args, "qty")
	if !ok || qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be a positive integer", contract.ErrValidation)
	}

	book, disamb, err := t.resolveBook(ctx, ref, DetailStock)
	if err != nil {
		return nil, err
	}
	if disamb != nil {
		return *disamb, nil
	}

	if err := t.store.UpdateStock(ctx, book.ISBN, int(qty)); err != nil {
		return nil, err
	}
	after, err := t.store.GetBook(ctx, book.ISBN)
	if err != nil {
		return nil, err
	}

	return Restocked{
		Title:    book.Title,
		Previous: book.Stock,
		Added:    int(qty),
		Stock:    after.Stock,
	}, nil
}

func (t *toolset) updatePrice(ctx context.Context, args map[string]any) (any, error) {
	ref := getString(args, "isbn")
	if ref == "" {
		return nil, fmt.Errorf("%w: isbn is required", contract.ErrValidation)
	}
	price, ok := getDecimal(args, "price")
	if !ok {
		return nil, fmt.Errorf("%w: price is required", contract.ErrValidation)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", contract.ErrValidation)
	}

	book, disamb, err := t.resolveBook(ctx, ref, DetailPrice)
	if err != nil {
		return nil, err
	}
	if disamb != nil {
		return *disamb, nil
	}

	if err := t.store.UpdatePrice(ctx, book.ISBN, price); err != nil {
		return nil, err
	}

	return PriceUpdated{
		Title:    book.Title,
		OldPrice: book.Price,
		NewPrice: price,
	}, nil
}

func (t *toolset) orderStatus(ctx context.Context, args map[string]any) (any, error) {
	orderID, ok := getInt64(args, "order_id")
	if !ok {
		return nil, fmt.Errorf("%w: order_id is required", contract.ErrValidation)
	}

	detail, err := t.store.GetOrderStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return OrderStatus{Detail: *detail}, nil
}

func (t *toolset) inventorySummary(ctx context.Context, _ map[string]any) (any, error) {
	summary, err := t.store.GetInventorySummary(ctx)
	if err != nil {
		return nil, err
	}
	return InventoryReport{Summary: *summary}, nil
}

/* ---------------------------- argument helpers --------------------------- */

func getString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func getInt64(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func getDecimal(args map[string]any, key string) (decimal.Decimal, bool) {
	switch v := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
