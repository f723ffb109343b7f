package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dapur-keluarga/internal/config"
	"dapur-keluarga/internal/repository"
	"dapur-keluarga/internal/service/auth"
	"dapur-keluarga/internal/service/email"
	"dapur-keluarga/internal/service/feed"
	"dapur-keluarga/internal/service/notification"
	"dapur-keluarga/internal/service/recipe"
	"dapur-keluarga/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Recipe       recipe.Service
	Feed         *feed.Service
	Notification notification.Service
	Email        email.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config, log zerolog.Logger) *Services {
	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg, log)
	userService := user.NewService(repos.User, minioClient, cfg)
	recipeService := recipe.NewService(repos.Recipe, redisClient)
	notificationService := notification.NewService(repos.Notification, repos.User, repos.Comment, repos.Recipe, emailService, log)

	feedService := feed.NewService(repos.Comment, repos.Recipe, redisClient, log)
	feedService.SetNotifier(notificationService)

	return &Services{
		Auth:         authService,
		User:         userService,
		Recipe:       recipeService,
		Feed:         feedService,
		Notification: notificationService,
		Email:        emailService,
	}
}
