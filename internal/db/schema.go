package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables on boot when they are missing.
// Entries reference their owner so an orphaned row cannot be written
// even though handlers only ever use session-derived user ids.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS incomes (
			id           BIGSERIAL PRIMARY KEY,
			user_id      UUID NOT NULL REFERENCES users(id),
			amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
			source       TEXT NOT NULL,
			entry_date   DATE NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id           BIGSERIAL PRIMARY KEY,
			user_id      UUID NOT NULL REFERENCES users(id),
			amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
			category     TEXT NOT NULL,
			entry_date   DATE NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS incomes_user_date_idx ON incomes (user_id, entry_date DESC, id)`,
		`CREATE INDEX IF NOT EXISTS expenses_user_date_idx ON expenses (user_id, entry_date DESC, id)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
