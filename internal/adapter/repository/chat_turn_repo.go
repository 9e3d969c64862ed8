package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"craftfolio/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ChatTurnRepo is the append-only log of successful chat edits.
type ChatTurnRepo struct {
	pool *pgxpool.Pool
}

func NewChatTurnRepo(pool *pgxpool.Pool) *ChatTurnRepo {
	return &ChatTurnRepo{pool: pool}
}

func (r *ChatTurnRepo) Record(ctx context.Context, t *domain.ChatTurn) error {
	if r.pool == nil {
		return nil
	}

	changesB, err := json.Marshal(t.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO chat_turns (id, portfolio_id, input, changes, reply, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.PortfolioID, t.Input, changesB, t.Reply, t.CreatedAt)
	return err
}

// ListByPortfolio returns the turns of a portfolio, oldest first.
func (r *ChatTurnRepo) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]domain.ChatTurn, error) {
	turns := []domain.ChatTurn{}
	if r.pool == nil {
		return turns, nil
	}
	err := queryJSON(ctx, r.pool, &turns,
		`SELECT coalesce(json_agg(row_to_json(t) ORDER BY t.created_at), '[]') FROM chat_turns t WHERE t.portfolio_id = $1`,
		portfolioID)
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// queryJSON runs a SQL that returns a single json value and unmarshals it
// into out.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, out any, sql string, args ...any) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
