package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pullstory/api/internal/middleware"
	"github.com/pullstory/api/internal/service"
)

// LikeHandler wires HTTP → EngagementService.
type LikeHandler struct {
	svc service.EngagementService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(svc service.EngagementService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// Register mounts the engagement routes. All of them require a user.
func (h *LikeHandler) Register(r fiber.Router) {
	r.Put("/articles/:id/like", middleware.RequireUser, h.like)
	r.Delete("/articles/:id/like", middleware.RequireUser, h.unlike)
	r.Get("/users/me/likes", middleware.RequireUser, h.listLiked)
}

// like handles PUT /articles/:id/like?lang=xx
func (h *LikeHandler) like(c *fiber.Ctx) error {
	id, lang, err := likeParams(c)
	if err != nil {
		return err
	}

	res, err := h.svc.Like(c.UserContext(), middleware.UserID(c), id, lang)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(res)
}

// unlike handles DELETE /articles/:id/like?lang=xx
func (h *LikeHandler) unlike(c *fiber.Ctx) error {
	id, lang, err := likeParams(c)
	if err != nil {
		return err
	}

	count, err := h.svc.Unlike(c.UserContext(), middleware.UserID(c), id, lang)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"like_count": count})
}

// listLiked handles GET /users/me/likes?lang&limit&offset&sort
func (h *LikeHandler) listLiked(c *fiber.Ctx) error {
	p := service.ListLikedParams{
		Lang:   c.Query("lang"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
		Sort:   c.Query("sort"),
	}

	entries, err := h.svc.ListLiked(c.UserContext(), middleware.UserID(c), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func likeParams(c *fiber.Ctx) (string, string, error) {
	id := c.Params("id")
	lang := c.Query("lang")
	if id == "" || lang == "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "article id and lang are required")
	}
	return id, lang, nil
}
