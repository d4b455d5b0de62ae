// Package postgres implements store.Store on PostgreSQL via bun.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"bookdesk/store"
)

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type PGStore struct {
	db *bun.DB
}

var _ store.Store = (*PGStore)(nil)

func New(cfg Config) *PGStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	return &PGStore{db: bun.NewDB(sqldb, pgdialect.New())}
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PGStore) Close() error {
	return s.db.Close()
}

// CreateSchema creates all tables if they do not exist yet.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	models := []any{
		(*bookRow)(nil),
		(*customerRow)(nil),
		(*orderRow)(nil),
		(*orderItemRow)(nil),
		(*messageRow)(nil),
		(*toolCallRow)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// Seed inserts the demo catalog and customers when the books table is
// empty, so a fresh database is immediately usable.
func (s *PGStore) Seed(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*bookRow)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		return nil
	}

	books := make([]bookRow, 0)
	for _, b := range store.SeedBooks() {
		books = append(books, bookRow{ISBN: b.ISBN, Title: b.Title, Author: b.Author, Price: b.Price, Stock: b.Stock})
	}
	if _, err := s.db.NewInsert().Model(&books).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("seed books: %w", err)
	}

	customers := make([]customerRow, 0)
	for _, c := range store.SeedCustomers() {
		customers = append(customers, customerRow{ID: c.ID, Name: c.Name, Email: c.Email})
	}
	if _, err := s.db.NewInsert().Model(&customers).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}

	return nil
}
