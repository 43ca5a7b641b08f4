package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openleague/league-system/repositories"
)

// TxBeginner is the slice of *sql.DB the service layer needs to manage its
// own transactions.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// runInTx executes fn inside a transaction when a database handle is
// available. A nil db (memory-backed stores in tests) runs fn without one;
// the memory store serializes internally.
func runInTx(ctx context.Context, db TxBeginner, fn func(exec repositories.SQLExecutor) error) error {
	if db == nil {
		return fn(nil)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
