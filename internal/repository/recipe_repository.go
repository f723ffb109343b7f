package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dapur-keluarga/internal/domain"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, params domain.PaginationParams) ([]domain.Recipe, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Recipe, int64, error)
}

type recipeRepository struct {
	db *sqlx.DB
}

func NewRecipeRepository(db *sqlx.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	query := `
		INSERT INTO recipes (recipe_id, user_id, title, description, ingredients, instructions, servings, cook_time_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		recipe.ID, recipe.UserID, recipe.Title, recipe.Description,
		recipe.Ingredients, recipe.Instructions, recipe.Servings, recipe.CookTimeMins,
	).Scan(&recipe.CreatedAt, &recipe.UpdatedAt)
}

func (r *recipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	query := `SELECT * FROM recipes WHERE recipe_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &recipe, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	query := `
		UPDATE recipes
		SET title = $2, description = $3, ingredients = $4, instructions = $5,
			servings = $6, cook_time_minutes = $7, updated_at = NOW()
		WHERE recipe_id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		recipe.ID, recipe.Title, recipe.Description, recipe.Ingredients,
		recipe.Instructions, recipe.Servings, recipe.CookTimeMins,
	).Scan(&recipe.UpdatedAt)
}

func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE recipes SET deleted_at = NOW() WHERE recipe_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *recipeRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]domain.Recipe, int64, error) {
	params.Validate()

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM recipes
		WHERE deleted_at IS NULL AND ($1 = '' OR title ILIKE '%' || $1 || '%')`
	if err := r.db.GetContext(ctx, &total, countQuery, search); err != nil {
		return nil, 0, err
	}

	var recipes []domain.Recipe
	query := `
		SELECT * FROM recipes
		WHERE deleted_at IS NULL AND ($1 = '' OR title ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &recipes, query, search, params.PageSize, params.Offset())
	return recipes, total, err
}

func (r *recipeRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Recipe, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM recipes WHERE user_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	var recipes []domain.Recipe
	query := `
		SELECT * FROM recipes
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &recipes, query, userID, params.PageSize, params.Offset())
	return recipes, total, err
}
