package handler

import (
	"github.com/rs/zerolog"

	"dapur-keluarga/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Recipe       *RecipeHandler
	Discussion   *DiscussionHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services, log zerolog.Logger) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Recipe:       NewRecipeHandler(services.Recipe),
		Discussion:   NewDiscussionHandler(services.Feed, services.Recipe, log),
		Notification: NewNotificationHandler(services.Notification),
	}
}
