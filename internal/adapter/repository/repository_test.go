package repository

import (
	"context"
	"testing"
	"time"

	"craftfolio/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioRepoWithoutPool(t *testing.T) {
	r := NewPortfolioRepo(nil)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, r.Save(ctx, &domain.Portfolio{ID: id, Sections: domain.Document{}, CreatedAt: time.Now(), UpdatedAt: time.Now()}))

	_, err := r.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
}

func TestChatTurnRepoWithoutPool(t *testing.T) {
	r := NewChatTurnRepo(nil)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, &domain.ChatTurn{ID: uuid.New(), PortfolioID: uuid.New()}))

	turns, err := r.ListByPortfolio(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.NotNil(t, turns)
}
