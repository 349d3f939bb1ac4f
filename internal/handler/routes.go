package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/middleware"
)

type Routes struct {
	Auth         *AuthHandler
	Dosen        *DosenHandler
	DosenImport  *ImportHandler[domain.Dosen]
	Taruna       *TarunaHandler
	TarunaImport *ImportHandler[domain.Taruna]
	Middleware   *middleware.AuthMiddleware
}

// Register mounts every endpoint under api.
func (r Routes) Register(api fiber.Router) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/login", r.Auth.Login)
	authRoutes.Get("/me", r.Middleware.Optional(), r.Auth.Me)

	// Dosen routes
	dosen := api.Group("/dosen", r.Middleware.Optional())
	dosen.Post("/upload", r.DosenImport.Upload)
	dosen.Get("/template", r.DosenImport.Template)
	dosen.Get("/export", r.Dosen.Export)
	dosen.Get("/stats", r.Dosen.Stats)
	dosen.Get("/nip/:nip", r.Dosen.GetByNIP)
	dosen.Get("/upt/:upt", r.Dosen.ListByUpt)
	dosen.Get("/", r.Dosen.List)
	dosen.Post("/", r.Dosen.Create)
	dosen.Get("/:id", r.Dosen.Get)
	dosen.Put("/:id", r.Dosen.Update)
	dosen.Delete("/:id", r.Dosen.Delete)

	// Taruna routes
	taruna := api.Group("/taruna", r.Middleware.Optional())
	taruna.Post("/upload", r.TarunaImport.Upload)
	taruna.Get("/template", r.TarunaImport.Template)
	taruna.Get("/export", r.Taruna.Export)
	taruna.Get("/stats", r.Taruna.Stats)
	taruna.Get("/nim/:nim", r.Taruna.GetByNIM)
	taruna.Get("/upt/:upt", r.Taruna.ListByUpt)
	taruna.Get("/", r.Taruna.List)
	taruna.Post("/", r.Taruna.Create)
	taruna.Get("/:id", r.Taruna.Get)
	taruna.Put("/:id", r.Taruna.Update)
	taruna.Delete("/:id", r.Taruna.Delete)
}
