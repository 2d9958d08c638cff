package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khabarhub/newsdesk/internal/config"
	"github.com/khabarhub/newsdesk/internal/logger"
)

// Capabilities is the per-role permission map gating store operations.
type Capabilities struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
	Hide   bool
}

// Can reports whether a named capability is granted.
func (c Capabilities) Can(name string) bool {
	switch name {
	case "create":
		return c.Create
	case "read":
		return c.Read
	case "update":
		return c.Update
	case "delete":
		return c.Delete
	case "hide":
		return c.Hide
	}
	return false
}

// RoleProvider resolves an API key to a role and its capabilities.
type RoleProvider interface {
	Resolve(apiKey string) (role string, caps Capabilities)
}

// StaticRoles maps the configured admin and editor keys to fixed roles.
// Anything else is an anonymous reader.
type StaticRoles struct {
	adminKey  string
	editorKey string
}

func NewStaticRoles(cfg *config.Config) *StaticRoles {
	return &StaticRoles{adminKey: cfg.AdminAPIKey, editorKey: cfg.EditorAPIKey}
}

func (s *StaticRoles) Resolve(apiKey string) (string, Capabilities) {
	switch {
	case s.adminKey != "" && apiKey == s.adminKey:
		return "admin", Capabilities{Create: true, Read: true, Update: true, Delete: true, Hide: true}
	case s.editorKey != "" && apiKey == s.editorKey:
		return "editor", Capabilities{Create: true, Read: true, Update: true, Hide: true}
	}
	return "reader", Capabilities{Read: true}
}

// RequireCapability guards a route behind one capability. The API key is
// read from the X-API-Key header; a missing capability yields the
// standard failure envelope.
func RequireCapability(provider RoleProvider, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, caps := provider.Resolve(c.Get("X-API-Key"))
		if !caps.Can(capability) {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Str("role", role).
				Str("capability", capability).
				Msg("Permission denied")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"msg":     "permission denied",
			})
		}

		c.Locals("role", role)
		return c.Next()
	}
}
