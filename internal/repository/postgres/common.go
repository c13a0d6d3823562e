// Package postgres implements the Report Store: session, file, and message
// persistence over a raw pgx/v5 pool (no sqlc layer — queries are
// hand-written, following the teacher's repository-per-aggregate shape).
package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the additive schema (CREATE TABLE IF NOT EXISTS / ADD
// COLUMN IF NOT EXISTS), safe to run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
