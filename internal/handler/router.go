package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/service"
)

// RegisterRoutes mounts every resource handler under /api/v1.
func RegisterRoutes(app *fiber.App,
	articleSvc service.ArticleService,
	engagementSvc service.EngagementService,
	rankingSvc service.RankingService,
) {
	v1 := app.Group("/api/v1")
	NewArticleHandler(articleSvc).Register(v1)
	NewLikeHandler(engagementSvc).Register(v1)
	NewRankingHandler(rankingSvc).Register(v1)
}

// toHTTPError maps the error taxonomy onto HTTP statuses.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
