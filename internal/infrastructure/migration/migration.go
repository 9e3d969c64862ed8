package migration

import (
	"context"

	"craftfolio/pkg/logger"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations are applied in order on startup. Each statement must be safe to
// run again.
var Migrations = []Migration{
	{
		Name: "create_portfolios",
		SQL: `
		CREATE TABLE IF NOT EXISTS portfolios (
			id UUID PRIMARY KEY,
			sections JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name: "create_chat_turns",
		SQL: `
		CREATE TABLE IF NOT EXISTS chat_turns (
			id UUID PRIMARY KEY,
			portfolio_id UUID NOT NULL,
			input TEXT NOT NULL,
			changes JSONB NOT NULL DEFAULT '[]'::jsonb,
			reply TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name: "index_chat_turns_portfolio",
		SQL:  `CREATE INDEX IF NOT EXISTS chat_turns_portfolio_id_idx ON chat_turns (portfolio_id, created_at);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	logger.Log.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			logger.Log.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		logger.Log.Info("Migration completed", "name", m.Name)
	}

	logger.Log.Info("All migrations completed successfully")
	return nil
}
