// Package storage implements the persistence interfaces over PostgreSQL
// using sqlx. All queries run through an ExtContext so the same code serves
// both the pooled connection and an open transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"todolist/core/logger"
	"todolist/internal/goals"
	"todolist/internal/model"
)

const pgUniqueViolation = "23505"

// SQLStore is the sqlx-backed implementation of goals.Store.
type SQLStore struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

// NewSQLStore wraps an open connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, ext: db}
}

// InTx runs fn against a store bound to one transaction. A nested call runs
// fn directly on the already open transaction.
func (s *SQLStore) InTx(ctx context.Context, fn func(goals.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := &SQLStore{ext: tx}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.DB.Error("rollback failed",
				"event", "db.rollback",
				"err", rbErr.Error(),
			)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// mapNotFound rewrites sql.ErrNoRows into the domain sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}
