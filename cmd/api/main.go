package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"dapur-keluarga/internal/config"
	"dapur-keluarga/internal/handler"
	"dapur-keluarga/internal/middleware"
	"dapur-keluarga/internal/pkg/logger"
	"dapur-keluarga/internal/repository"
	"dapur-keluarga/internal/service"
	authsvc "dapur-keluarga/internal/service/auth"
)

func main() {
	envLoaded := godotenv.Load() == nil

	cfg := config.Load()
	log := logger.New(cfg.Environment)

	if !envLoaded {
		log.Info().Msg("no .env file found, using environment variables")
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to MinIO, avatar upload will not work")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, cfg, log)
	handlers := handler.NewHandlers(services, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService authsvc.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Get("/verify-email", h.Auth.VerifyEmail)

	browse := v1.Group("", middleware.OptionalAuth(authService))
	browse.Get("/recipes", h.Recipe.List)
	browse.Get("/recipes/:recipeId", h.Recipe.Get)
	browse.Get("/recipes/:recipeId/comments", h.Discussion.GetThread)
	browse.Get("/recipes/:recipeId/comments/stream", h.Discussion.Stream)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me", h.User.GetProfile)
	users.Put("/me", h.User.UpdateProfile)
	users.Post("/me/avatar", h.User.UploadAvatar)
	users.Get("/me/recipes", h.Recipe.ListMine)

	recipes := protected.Group("/recipes")
	recipes.Post("/", h.Recipe.Create)
	recipes.Put("/:recipeId", h.Recipe.Update)
	recipes.Delete("/:recipeId", h.Recipe.Delete)

	comments := protected.Group("/recipes/:recipeId/comments")
	comments.Post("/", h.Discussion.Create)
	comments.Post("/:commentId/replies", h.Discussion.CreateReply)
	comments.Put("/:commentId", h.Discussion.Update)
	comments.Delete("/:commentId", h.Discussion.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
