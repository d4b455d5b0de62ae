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

func (s *PGStore) FindBooks(ctx context.Context, query, by string) ([]store.Book, error) {
	column := "title"
	if by == store.SearchByAuthor {
		column = "author"
	}

	var rows []bookRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("? ILIKE ?", bun.Ident(column), "%"+query+"%").
		Order("title ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	books := make([]store.Book, 0, len(rows))
	for i := range rows {
		books = append(books, rows[i].toBook())
	}
	return books, nil
}

func (s *PGStore) GetBook(ctx context.Context, isbn string) (*store.Book, error) {
	var row bookRow
	err := s.db.NewSelect().Model(&row).Where("isbn = ?", isbn).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrBookNotFound, isbn)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	book := row.toBook()
	return &book, nil
}

func (s *PGStore) UpdateStock(ctx context.Context, isbn string, delta int) error {
	res, err := s.db.NewUpdate().
		Model((*bookRow)(nil)).
		Set("stock = stock + ?", delta).
		Where("isbn = ?", isbn).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return requireRow(res, isbn)
}

func (s *PGStore) UpdatePrice(ctx context.Context, isbn string, price decimal.Decimal) error {
	res, err := s.db.NewUpdate().
		Model((*bookRow)(nil)).
		Set("price = ?", price).
		Where("isbn = ?", isbn).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	return requireRow(res, isbn)
}

func requireRow(res sql.Result, isbn string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrBookNotFound, isbn)
	}
	return nil
}

func (s *PGStore) GetCustomer(ctx context.Context, id int64) (*store.Customer, error) {
	var row customerRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", store.ErrCustomerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &store.Customer{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

func (s *PGStore) GetInventorySummary(ctx context.Context) (*store.InventorySummary, error) {
	var agg struct {
		TotalTitles int             `bun:"total_titles"`
		TotalUnits  int             `bun:"total_units"`
		TotalValue  decimal.Decimal `bun:"total_value"`
	}
	err := s.db.NewSelect().
		Model((*bookRow)(nil)).
		ColumnExpr("COUNT(*) AS total_titles").
		ColumnExpr("COALESCE(SUM(stock), 0) AS total_units").
		ColumnExpr("COALESCE(SUM(stock * price), 0) AS total_value").
		Scan(ctx, &agg)
	if err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}

	var rows []bookRow
	err = s.db.NewSelect().
		Model(&rows).
		Where("stock < ?", store.LowStockThreshold).
		Order("stock ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock listing: %w", err)
	}

	low := make([]store.Book, 0, len(rows))
	for i := range rows {
		low = append(low, rows[i].toBook())
	}

	return &store.InventorySummary{
		TotalTitles: agg.TotalTitles,
		TotalUnits:  agg.TotalUnits,
		TotalValue:  agg.TotalValue,
		LowStock:    low,
	}, nil
}
