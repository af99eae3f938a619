package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pullstory/api/internal/service"
)

// RankingHandler wires HTTP → RankingService.
type RankingHandler struct {
	svc service.RankingService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(svc service.RankingService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

// Register mounts GET /ranking on the supplied router group.
func (h *RankingHandler) Register(r fiber.Router) {
	r.Get("/ranking", h.getRanking)
}

// getRanking handles GET /ranking?period&lang&limit&offset
func (h *RankingHandler) getRanking(c *fiber.Ctx) error {
	p := service.RankingParams{
		Period: c.Query("period"),
		Lang:   c.Query("lang"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}

	page, err := h.svc.GetRanking(c.UserContext(), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(page)
}
