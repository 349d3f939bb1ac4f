package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sidata/backend/internal/auth"
	"github.com/sidata/backend/internal/config"
	"github.com/sidata/backend/internal/database"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/handler"
	"github.com/sidata/backend/internal/ingest"
	"github.com/sidata/backend/internal/logging"
	"github.com/sidata/backend/internal/middleware"
	"github.com/sidata/backend/internal/repository"
	"github.com/sidata/backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate schema", zap.Error(err))
	}

	// Upload archive is optional
	var archiver handler.Archiver
	if cfg.MinIO.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO, zl)
		cancel()
		if err != nil {
			zl.Fatal("connect minio", zap.Error(err))
		}
		archiver = minioClient
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	dosenRepo := repository.NewDosenRepository(db)
	tarunaRepo := repository.NewTarunaRepository(db)

	// Importers
	dosenImporter := ingest.NewImporter(ingest.DosenProfile(), ingest.Store[domain.Dosen](dosenRepo),
		ingest.WithMaxBytes(cfg.Import.MaxUploadBytes), ingest.WithLogger(zl))
	tarunaImporter := ingest.NewImporter(ingest.TarunaProfile(nil), ingest.Store[domain.Taruna](tarunaRepo),
		ingest.WithMaxBytes(cfg.Import.MaxUploadBytes), ingest.WithLogger(zl))

	unit := cfg.Import.DefaultUnitCode
	routes := handler.Routes{
		Auth:         handler.NewAuthHandler(userRepo, jwtService, zl),
		Dosen:        handler.NewDosenHandler(dosenRepo, dosenImporter, unit, zl),
		DosenImport:  handler.NewImportHandler(dosenImporter, archiver, unit, zl),
		Taruna:       handler.NewTarunaHandler(tarunaRepo, tarunaImporter, unit, zl),
		TarunaImport: handler.NewImportHandler(tarunaImporter, archiver, unit, zl),
		Middleware:   middleware.NewAuthMiddleware(jwtService),
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		// Multipart overhead on top of the largest accepted workbook.
		BodyLimit: int(cfg.Import.MaxUploadBytes) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "INTERNAL_ERROR",
					"message": err.Error(),
				},
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.Origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// API v1 routes
	routes.Register(app.Group("/api/v1"))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.App.Port
	if port == "" {
		port = "3001"
	}
	zl.Info("Server starting", zap.String("port", port), zap.Bool("archive", archiver != nil))
	if err := app.Listen(":" + port); err != nil {
		zl.Fatal("start server", zap.Error(err))
	}
}
