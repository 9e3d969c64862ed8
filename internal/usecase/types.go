package usecase

import (
	"context"

	"craftfolio/internal/domain"

	"github.com/google/uuid"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// PortfolioRepo stores the current document of each portfolio. Get returns
// domain.ErrPortfolioNotFound when there is nothing stored under id.
type PortfolioRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error)
	Save(ctx context.Context, p *domain.Portfolio) error
}

type ChatTurnRepo interface {
	Record(ctx context.Context, t *domain.ChatTurn) error
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]domain.ChatTurn, error)
}

// ChatRequest is one chat edit. PortfolioData may be left empty when
// PortfolioID names a stored portfolio, the stored document is used then.
type ChatRequest struct {
	PortfolioData domain.Document
	InputValue    string
	MessageMemory []domain.MessageMemory
	PortfolioID   *uuid.UUID
}

type ChatResult struct {
	OriginalData domain.Document `json:"originalData"`
	UpdatedData  domain.Document `json:"updatedData"`
	Changes      []domain.Change `json:"changes"`
	UserReply    string          `json:"userReply"`
}

// Replies used when the model cannot supply one.
const (
	NoChangesReply = "I couldn't find a change to make in that message. Could you tell me what you'd like to update?"
	ErrorReply     = "Sorry, I couldn't update your portfolio this time. Please try rephrasing your request."
)
