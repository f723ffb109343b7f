package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Recipe struct {
	ID           uuid.UUID      `json:"id" db:"recipe_id"`
	UserID       uuid.UUID      `json:"user_id" db:"user_id"`
	Title        string         `json:"title" db:"title"`
	Description  *string        `json:"description,omitempty" db:"description"`
	Ingredients  pq.StringArray `json:"ingredients" db:"ingredients"`
	Instructions string         `json:"instructions" db:"instructions"`
	Servings     int            `json:"servings" db:"servings"`
	CookTimeMins int            `json:"cook_time_minutes" db:"cook_time_minutes"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time     `json:"-" db:"deleted_at"`

	Owner *CommentAuthor `json:"owner,omitempty"`
}

type CreateRecipeInput struct {
	Title        string   `json:"title" validate:"required,min=2,max=200"`
	Description  *string  `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1"`
	Instructions string   `json:"instructions" validate:"required"`
	Servings     int      `json:"servings" validate:"omitempty,min=1"`
	CookTimeMins int      `json:"cook_time_minutes" validate:"omitempty,min=1"`
}

type UpdateRecipeInput struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description  *string  `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
	Servings     *int     `json:"servings,omitempty" validate:"omitempty,min=1"`
	CookTimeMins *int     `json:"cook_time_minutes,omitempty" validate:"omitempty,min=1"`
}
