package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// NewServer returns a fiber backed router server suitable for mounting
// the auth endpoints. Callers that need custom fiber options can build
// their own adapter and call RegisterAuthRoutes directly.
func NewServer() router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})
}
