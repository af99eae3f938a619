package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports liveness plus store connectivity.
type HealthHandler struct {
	db *mongo.Client // nil in memory-storage mode
}

// NewHealthHandler creates a HealthHandler. db may be nil.
func NewHealthHandler(db *mongo.Client) *HealthHandler {
	return &HealthHandler{db: db}
}

// Register mounts GET /api/v1/health directly on the app.
func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/api/v1/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"db":     h.checkDB(),
	})
}

func (h *HealthHandler) checkDB() string {
	if h.db == nil {
		return "not_configured"
	}
	if err := h.db.Ping(context.Background(), nil); err != nil {
		return "error"
	}
	return "connected"
}
