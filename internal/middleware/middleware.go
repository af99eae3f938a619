// Package middleware holds the request-scoped plumbing: logging and the user
// identity boundary. Session verification itself lives upstream; by the time
// a request reaches this API, the gateway has already validated the session
// cookie and forwarded the user id in X-User-ID.
package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "userID"

// Logging logs method, path, status, and latency for every request.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Printf("%s %s -> %d (%s)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}

// Identify stores the forwarded user id in locals when present. It never
// rejects; protected routes add RequireUser.
func Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Get("X-User-ID"); id != "" {
			c.Locals(userIDKey, id)
		}
		return c.Next()
	}
}

// RequireUser rejects requests that carry no user identity.
func RequireUser(c *fiber.Ctx) error {
	if UserID(c) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return c.Next()
}

// UserID returns the authenticated user id, or "" when anonymous.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok {
		return id
	}
	return ""
}
