package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const usernameLocalKey = "username"

// TokenVerifier validates a bearer token and returns its subject.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// AuthMiddleware parses the Authorization header and stores the
// authenticated username in the request locals.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header is required")
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return fiber.NewError(fiber.StatusUnauthorized, "bearer token is required")
		}

		username, err := verifier.VerifyToken(token)
		if err != nil {
			return toHTTPError(err)
		}

		c.Locals(usernameLocalKey, username)
		return c.Next()
	}
}

// authenticatedUsername returns the username the auth middleware
// stored, or an empty string on unauthenticated routes.
func authenticatedUsername(c *fiber.Ctx) string {
	if username, ok := c.Locals(usernameLocalKey).(string); ok {
		return username
	}
	return ""
}
