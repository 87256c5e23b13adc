package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"urbankey_backend/pkg/utils/token"
)

const actorKey = "actor"

// AuthMiddleware requires a provider-signed bearer token and stores the
// verified claims in locals.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromHeader(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid token",
			})
		}
		c.Locals(actorKey, claims)
		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present but lets the
// request through either way. Used on public reads that record who viewed.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := claimsFromHeader(c); err == nil {
			c.Locals(actorKey, claims)
		}
		return c.Next()
	}
}

func claimsFromHeader(c *fiber.Ctx) (*token.Claims, error) {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fiber.ErrUnauthorized
	}
	return token.Verify(strings.TrimPrefix(header, "Bearer "))
}

// ActorID returns the verified subject id, or "" when the request was
// anonymous.
func ActorID(c *fiber.Ctx) string {
	if claims, ok := c.Locals(actorKey).(*token.Claims); ok {
		return claims.Subject
	}
	return ""
}
