package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pullstory/api/internal/markdown"
	"github.com/pullstory/api/internal/middleware"
	"github.com/pullstory/api/internal/models"
	"github.com/pullstory/api/internal/service"
)

// ArticleHandler wires HTTP → ArticleService.
type ArticleHandler struct {
	svc service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(svc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// Register mounts the article routes on the supplied router group.
func (h *ArticleHandler) Register(r fiber.Router) {
	r.Post("/articles", middleware.RequireUser, h.ingest)
	r.Post("/articles/:owner/:repo/:number/summary", h.generate)
	r.Get("/articles/:owner/:repo/:number", h.getByKey)
	r.Get("/articles/:id", h.getByID)
}

// articleResponse decorates an article with the rendered snapshot body.
type articleResponse struct {
	models.Article
	BodyHTML string `json:"body_html,omitempty"`
}

func toArticleResponse(a models.Article) articleResponse {
	return articleResponse{Article: a, BodyHTML: markdown.ToHTML(a.Source.Body)}
}

// ingest handles POST /articles
func (h *ArticleHandler) ingest(c *fiber.Ctx) error {
	var req struct {
		Owner  string `json:"owner"`
		Repo   string `json:"repo"`
		Number int    `json:"number"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if req.Owner == "" || req.Repo == "" || req.Number <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "owner, repo, and number are required")
	}

	a, err := h.svc.Ingest(c.UserContext(), middleware.UserID(c), req.Owner, req.Repo, req.Number)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(toArticleResponse(a))
}

// generate handles POST /articles/:owner/:repo/:number/summary
func (h *ArticleHandler) generate(c *fiber.Ctx) error {
	owner, repo, number, err := parseKey(c)
	if err != nil {
		return err
	}

	var req struct {
		Lang string `json:"lang"`
	}
	// Empty body means "default language".
	_ = c.BodyParser(&req)

	a, err := h.svc.Generate(c.UserContext(), owner, repo, number, req.Lang)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(toArticleResponse(a))
}

// getByID handles GET /articles/:id
func (h *ArticleHandler) getByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "article id is required")
	}

	a, err := h.svc.GetArticle(c.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(toArticleResponse(a))
}

// getByKey handles GET /articles/:owner/:repo/:number
func (h *ArticleHandler) getByKey(c *fiber.Ctx) error {
	owner, repo, number, err := parseKey(c)
	if err != nil {
		return err
	}

	a, err := h.svc.GetArticleByKey(c.UserContext(), owner, repo, number)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(toArticleResponse(a))
}

func parseKey(c *fiber.Ctx) (string, string, int, error) {
	owner := c.Params("owner")
	repo := c.Params("repo")
	number, err := strconv.Atoi(c.Params("number"))
	if owner == "" || repo == "" || err != nil || number <= 0 {
		return "", "", 0, fiber.NewError(fiber.StatusBadRequest, "owner, repo, and a numeric number are required")
	}
	return owner, repo, number, nil
}
