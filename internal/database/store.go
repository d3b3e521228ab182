package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Store adds transactional helpers on top of the generated queries.
type Store struct {
	*Queries
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{Queries: New(db), db: db}
}

// ExecTx runs fn inside a transaction, rolling back if fn fails.
func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(s.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// UpsertReports writes a whole recompute pass atomically.
func (s *Store) UpsertReports(ctx context.Context, reports []UpsertReportParams) error {
	return s.ExecTx(ctx, func(q *Queries) error {
		for _, r := range reports {
			if err := q.UpsertReport(ctx, r); err != nil {
				return fmt.Errorf("upsert report %s: %w", r.ResumeID, err)
			}
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
