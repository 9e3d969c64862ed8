package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"craftfolio/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PortfolioRepo keeps the current document of each portfolio as JSONB. A
// repo without a pool stores nothing and finds nothing.
type PortfolioRepo struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

func (r *PortfolioRepo) Save(ctx context.Context, p *domain.Portfolio) error {
	if r.pool == nil {
		return nil
	}

	sectionsB, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO portfolios (id, sections, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET sections = EXCLUDED.sections, updated_at = EXCLUDED.updated_at`,
		p.ID, sectionsB, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PortfolioRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	if r.pool == nil {
		return nil, domain.ErrPortfolioNotFound
	}

	var (
		p         domain.Portfolio
		sectionsB []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, sections, created_at, updated_at FROM portfolios WHERE id = $1`, id).
		Scan(&p.ID, &sectionsB, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPortfolioNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sectionsB, &p.Sections); err != nil {
		return nil, fmt.Errorf("decode sections of %s: %w", id, err)
	}
	return &p, nil
}
