package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"craftfolio/internal/domain"
	"craftfolio/internal/model"
	"craftfolio/internal/render"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/ai/formatters"
	"craftfolio/pkg/apperror"
	"craftfolio/pkg/catalog"
	"craftfolio/pkg/logger"

	"github.com/google/uuid"
)

// pdfAttempts bounds headless Chrome renders of one preview.
const pdfAttempts = 3

// Processor runs the two content pipelines (resume extraction and chat
// edits) and the portfolio store operations around them. It keeps no
// per-request state, every call gets its document by value.
type Processor struct {
	resume  *formatters.ResumeFormatter
	intents *formatters.IntentFormatter
	patches *formatters.PatchFormatter
	replies *formatters.ReplyFormatter

	portfolios PortfolioRepo
	turns      ChatTurnRepo
	renderer   Renderer
}

// NewProcessor wires the pipeline stages around one model. Any of the
// repositories or the renderer may be nil, the operations that need them then
// fail or, for the chat turn log, are skipped.
func NewProcessor(m ai.Model, cat *catalog.Catalog, memoryWindow int, portfolios PortfolioRepo, turns ChatTurnRepo, r Renderer) *Processor {
	return &Processor{
		resume:     formatters.NewResumeFormatter(m, cat),
		intents:    formatters.NewIntentFormatter(m, memoryWindow),
		patches:    formatters.NewPatchFormatter(m, cat),
		replies:    formatters.NewReplyFormatter(m),
		portfolios: portfolios,
		turns:      turns,
		renderer:   r,
	}
}

// ExtractResume turns a resume image (a full data URI) into the initial
// portfolio document. When portfolioID is set the document is stored under it.
func (p *Processor) ExtractResume(ctx context.Context, dataURI string, portfolioID *uuid.UUID) (domain.Document, error) {
	img, err := ai.ParseDataURI(dataURI)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	resume, err := p.resume.Format(ctx, img)
	if err != nil {
		return nil, err
	}

	doc := MapResume(*resume)
	logger.Log.Info("processor: resume mapped", "sections", len(doc))

	if portfolioID != nil {
		if err := p.store(ctx, *portfolioID, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ApplyChatEdit resolves the changes asked for in one chat message, applies
// them in order and composes the confirmation reply. A failed change aborts
// the turn. Nothing is stored on failure.
func (p *Processor) ApplyChatEdit(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	input := strings.TrimSpace(req.InputValue)
	if input == "" {
		return nil, apperror.BadRequest("inputValue is required")
	}

	current := req.PortfolioData
	if len(current) == 0 && req.PortfolioID != nil {
		stored, err := p.GetPortfolio(ctx, *req.PortfolioID)
		if err != nil {
			return nil, err
		}
		current = stored.Sections
	}
	if current == nil {
		current = domain.Document{}
	}
	original := current.Clone()

	changes, err := p.intents.Resolve(ctx, current.Clone(), input, req.MessageMemory)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		logger.Log.Info("processor: no changes requested")
		return &ChatResult{
			OriginalData: original,
			UpdatedData:  original.Clone(),
			Changes:      []domain.Change{},
			UserReply:    NoChangesReply,
		}, nil
	}

	updated, err := p.patches.Apply(ctx, current.Clone(), changes)
	if err != nil {
		return nil, err
	}

	reply, err := p.replies.Compose(ctx, input, changes)
	if err != nil {
		logger.Log.Warn("processor: reply failed, using fallback", "error", err)
		reply = formatters.FallbackReply
	}

	if req.PortfolioID != nil {
		if err := p.store(ctx, *req.PortfolioID, updated); err != nil {
			return nil, err
		}
		p.recordTurn(ctx, *req.PortfolioID, input, changes, reply)
	}

	logger.Log.Info("processor: chat edit applied", "changes", len(changes))
	return &ChatResult{
		OriginalData: original,
		UpdatedData:  updated,
		Changes:      changes,
		UserReply:    reply,
	}, nil
}

func (p *Processor) GetPortfolio(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	if p.portfolios == nil {
		return nil, apperror.NotFound("portfolio storage is not configured")
	}
	pf, err := p.portfolios.Get(ctx, id)
	if errors.Is(err, domain.ErrPortfolioNotFound) {
		return nil, apperror.NotFound(fmt.Sprintf("portfolio %s not found", id))
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return pf, nil
}

// SavePortfolio replaces the stored document of a portfolio.
func (p *Processor) SavePortfolio(ctx context.Context, id uuid.UUID, doc domain.Document) (*domain.Portfolio, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := model.ValidateDocument(raw); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := p.store(ctx, id, doc); err != nil {
		return nil, err
	}
	return p.GetPortfolio(ctx, id)
}

func (p *Processor) ListChatTurns(ctx context.Context, id uuid.UUID) ([]domain.ChatTurn, error) {
	if p.turns == nil {
		return []domain.ChatTurn{}, nil
	}
	turns, err := p.turns.ListByPortfolio(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return turns, nil
}

// RenderPreview returns the stored portfolio as a standalone HTML page.
func (p *Processor) RenderPreview(ctx context.Context, id uuid.UUID) (string, error) {
	pf, err := p.GetPortfolio(ctx, id)
	if err != nil {
		return "", err
	}
	html, err := render.HTML(pf.Sections)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return html, nil
}

// RenderPDF prints the preview page to an A4 PDF.
func (p *Processor) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if p.renderer == nil {
		return nil, apperror.Internal(errors.New("pdf renderer is not configured"))
	}
	html, err := p.RenderPreview(ctx, id)
	if err != nil {
		return nil, err
	}

	var renderErr error
	for i := 0; i < pdfAttempts; i++ {
		pdf, err := p.renderer.RenderHTMLToPDF(ctx, html)
		if err == nil {
			if strings.HasPrefix(string(pdf), "%PDF") {
				return pdf, nil
			}
			err = fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
		}
		renderErr = err
		logger.Log.Warn("processor: render attempt failed", "attempt", i+1, "error", err)
		if i < pdfAttempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, apperror.Internal(ctx.Err())
			}
		}
	}
	return nil, apperror.Internal(fmt.Errorf("rendering failed after %d attempts: %w", pdfAttempts, renderErr))
}

func (p *Processor) store(ctx context.Context, id uuid.UUID, doc domain.Document) error {
	if p.portfolios == nil {
		return nil
	}
	now := time.Now().UTC()
	pf := &domain.Portfolio{ID: id, Sections: doc, CreatedAt: now, UpdatedAt: now}
	if err := p.portfolios.Save(ctx, pf); err != nil {
		return apperror.Internal(fmt.Errorf("save portfolio: %w", err))
	}
	return nil
}

// recordTurn is best-effort, the edit has already been stored.
func (p *Processor) recordTurn(ctx context.Context, portfolioID uuid.UUID, input string, changes []domain.Change, reply string) {
	if p.turns == nil {
		return
	}
	turn := &domain.ChatTurn{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Input:       input,
		Changes:     changes,
		Reply:       reply,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.turns.Record(ctx, turn); err != nil {
		logger.Log.Warn("processor: unable to record chat turn (non-fatal)", "portfolio_id", portfolioID, "error", err)
	}
}
