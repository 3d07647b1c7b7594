package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"siamestates_backend/pkg/utils/jwt"
)

// AuthMiddleware validates the bearer token and places the claims in
// c.Locals("user").
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header",
			})
		}

		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// OptionalAuth parses the token when present but never rejects.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if tokenString := strings.TrimPrefix(authHeader, "Bearer "); tokenString != authHeader {
			if claims, err := jwt.ValidateToken(tokenString); err == nil {
				c.Locals("user", claims)
			}
		}
		return c.Next()
	}
}
