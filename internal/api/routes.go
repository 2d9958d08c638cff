package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/khabarhub/newsdesk/internal/cache"
	"github.com/khabarhub/newsdesk/internal/config"
	"github.com/khabarhub/newsdesk/internal/middleware"
	"github.com/khabarhub/newsdesk/internal/newsstore"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, c cache.Cache, repo newsstore.Repository, images newsstore.ImageResolver) {
	handlers := NewHandlers(cfg, c, repo, images)
	roles := middleware.NewStaticRoles(cfg)

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	app.Get("/health", handlers.HealthCheck)

	news := app.Group("/news")
	{
		// Public reads
		news.Get("/stream", handlers.StreamNews)
		news.Get("/getallnews", handlers.GetAllNews)
		news.Get("/getnewsbysection/:section", handlers.GetNewsBySection)
		news.Get("/getnewsbyslug/:section/:slug", handlers.GetNewsBySlug)

		// Editorial mutations, gated per capability
		news.Post("/addnews",
			middleware.RequireCapability(roles, "create"), handlers.AddNews)
		news.Put("/updatenews/:section/:slug",
			middleware.RequireCapability(roles, "update"), handlers.UpdateNews)
		news.Delete("/deletenews/:section/:slug",
			middleware.RequireCapability(roles, "delete"), handlers.DeleteNews)
		news.Patch("/flags/:section/:slug",
			middleware.RequireCapability(roles, "hide"), handlers.SetFlags)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"msg":     "endpoint not found",
		})
	})
}
