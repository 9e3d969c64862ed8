package http

import (
	"strings"

	"craftfolio/internal/domain"
	"craftfolio/internal/usecase"
	"craftfolio/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	processor *usecase.Processor
	validate  *validator.Validate
}

func NewHandler(p *usecase.Processor) *Handler {
	return &Handler{processor: p, validate: validator.New()}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/healthz", h.Health)

	api := r.Group("/api")
	api.Post("/resume/extract", h.ExtractResume)
	api.Post("/chat", h.ApplyChatEdit)

	portfolios := api.Group("/portfolios")
	portfolios.Get("/:id", h.GetPortfolio)
	portfolios.Put("/:id", h.PutPortfolio)
	portfolios.Get("/:id/turns", h.ListChatTurns)
	portfolios.Get("/:id/preview", h.Preview)
	portfolios.Get("/:id/pdf", h.PDF)
}

type extractReq struct {
	Base64      string `json:"base64" validate:"required"`
	PortfolioID string `json:"portfolioId" validate:"omitempty,uuid"`
}

type chatReq struct {
	PortfolioData domain.Document        `json:"portfolioData"`
	InputValue    string                 `json:"inputValue" validate:"required"`
	MessageMemory []domain.MessageMemory `json:"messageMemory"`
	PortfolioID   string                 `json:"portfolioId" validate:"omitempty,uuid"`
}

type putPortfolioReq struct {
	Sections domain.Document `json:"sections" validate:"required"`
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) ExtractResume(c *fiber.Ctx) error {
	var req extractReq
	if err := h.bind(c, &req); err != nil {
		return err
	}

	doc, err := h.processor.ExtractResume(c.UserContext(), req.Base64, optionalID(req.PortfolioID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sections": doc})
}

// ApplyChatEdit always answers with a userReply, failures included.
func (h *Handler) ApplyChatEdit(c *fiber.Ctx) error {
	var req chatReq
	if err := h.bind(c, &req); err != nil {
		return chatError(c, err)
	}

	res, err := h.processor.ApplyChatEdit(c.UserContext(), usecase.ChatRequest{
		PortfolioData: req.PortfolioData,
		InputValue:    req.InputValue,
		MessageMemory: req.MessageMemory,
		PortfolioID:   optionalID(req.PortfolioID),
	})
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.processor.GetPortfolio(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) PutPortfolio(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req putPortfolioReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	p, err := h.processor.SavePortfolio(c.UserContext(), id, req.Sections)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) ListChatTurns(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	turns, err := h.processor.ListChatTurns(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"turns": turns})
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	html, err := h.processor.RenderPreview(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	pdf, err := h.processor.RenderPDF(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="portfolio-`+id.String()+`.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.BadRequest("invalid payload")
	}
	if err := h.validate.Struct(out); err != nil {
		return apperror.BadRequest(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed on "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("invalid portfolio id")
	}
	return id, nil
}

// optionalID parses an already validated id; empty means none.
func optionalID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
