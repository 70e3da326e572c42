package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTxAttempts = 3

// TxBeginner is the part of *pgxpool.Pool the transactor needs.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// PGTransactor runs units of work in SERIALIZABLE transactions and retries
// them when PostgreSQL aborts one on a serialization failure.
type PGTransactor struct {
	db       TxBeginner
	attempts int
}

func NewTransactor(db *pgxpool.Pool) *PGTransactor {
	return &PGTransactor{db: db, attempts: defaultTxAttempts}
}

func (t *PGTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	var err error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		err = t.run(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		log.Printf("transaction attempt %d aborted: %v", attempt, err)
	}
	return domain.Conflictf("concurrent update, giving up after %d attempts: %v", t.attempts, err)
}

func (t *PGTransactor) run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ Transactor = (*PGTransactor)(nil)
