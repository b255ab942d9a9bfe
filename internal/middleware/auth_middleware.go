package middleware

import (
	"strings"

	"go-ppm-dashboard/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const (
	localOperator   = "operator"
	localPrivileges = "privileges"
)

// Auth validates operator tokens. A disabled Auth lets every request through
// with full privileges.
type Auth struct {
	signer  *jwt.Signer
	enabled bool
}

func NewAuth(signer *jwt.Signer, enabled bool) *Auth {
	return &Auth{signer: signer, enabled: enabled}
}

// RequireAuth is middleware that validates the bearer token and sets operator info in context
func (a *Auth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !a.enabled {
			c.Locals(localOperator, "anonymous")
			c.Locals(localPrivileges, jwt.AllPrivileges)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := a.signer.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(localOperator, claims.Operator)
		c.Locals(localPrivileges, claims.Privileges)
		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated operator has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(localPrivileges).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// Operator returns the name set by RequireAuth
func Operator(c *fiber.Ctx) string {
	name, _ := c.Locals(localOperator).(string)
	return name
}
