package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by stores when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Querier is the part of pgxpool.Pool the CRUD stores depend on. Handlers
// receive the pool through it, tests substitute a fake.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NotFound maps pgx.ErrNoRows onto ErrNotFound and leaves other errors as is.
func NotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
