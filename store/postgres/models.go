package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"bookdesk/store"
)

type bookRow struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ISBN   string          `bun:"isbn,pk"`
	Title  string          `bun:"title,notnull"`
	Author string          `bun:"author,notnull"`
	Price  decimal.Decimal `bun:"price,notnull,type:numeric(10,2)"`
	Stock  int             `bun:"stock,notnull,default:0"`
}

func (r *bookRow) toBook() store.Book {
	return store.Book{
		ISBN:   r.ISBN,
		Title:  r.Title,
		Author: r.Author,
		Price:  r.Price,
		Stock:  r.Stock,
	}
}

type customerRow struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull"`
	Email string `bun:"email,notnull"`
}

type orderRow struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          int64           `bun:"id,pk,autoincrement"`
	CustomerID  int64           `bun:"customer_id,notnull"`
	TotalAmount decimal.Decimal `bun:"total_amount,notnull,type:numeric(10,2)"`
	Status      string          `bun:"status,notnull"`
	CreatedAt   time.Time       `bun:"created_at,notnull,nullzero,default:current_timestamp"`
}

type orderItemRow struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID              int64           `bun:"id,pk,autoincrement"`
	OrderID         int64           `bun:"order_id,notnull"`
	ISBN            string          `bun:"isbn,notnull"`
	Quantity        int             `bun:"quantity,notnull"`
	PriceAtPurchase decimal.Decimal `bun:"price_at_purchase,notnull,type:numeric(10,2)"`
}

type messageRow struct {
	bun.BaseModel `bun:"table:messages,alias:m"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	Role      string    `bun:"role,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
}

type toolCallRow struct {
	bun.BaseModel `bun:"table:tool_calls,alias:tc"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SessionID  string    `bun:"session_id,notnull"`
	ToolName   string    `bun:"tool_name,notnull"`
	ArgsJSON   string    `bun:"args_json"`
	ResultJSON string    `bun:"result_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
}
