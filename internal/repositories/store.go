package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and pgxmock.
// Begin on a pgx.Tx opens a savepoint.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store groups the repositories over one connection or transaction.
type Store interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository

	// WithTx runs fn inside a transaction; fn's Store is bound to it. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transactional Store nests a savepoint.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Ping checks storage connectivity.
	Ping(ctx context.Context) error
}

type pgStore struct {
	db DBTX
}

func NewStore(db DBTX) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Customers() CustomerRepository   { return NewCustomerRepo(s.db) }
func (s *pgStore) Products() ProductRepository     { return NewProductRepo(s.db) }
func (s *pgStore) Orders() OrderRepository         { return NewOrderRepo(s.db) }
func (s *pgStore) OrderItems() OrderItemRepository { return NewOrderItemRepo(s.db) }

func (s *pgStore) WithTx(ctx context.Context, fn func(Store) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(&pgStore{db: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}
