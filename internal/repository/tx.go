package repository

import "context"

// Tx is the minimal transaction surface repositories need, satisfied by
// pgx.Tx.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
