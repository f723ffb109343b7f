package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/repository"
)

var (
	ErrNotFound = errors.New("recipe not found")
	ErrNotOwner = errors.New("insufficient permissions to modify this recipe")
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateRecipeInput) (*domain.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateRecipeInput) (*domain.Recipe, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, search string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Recipe], error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Recipe], error)
}

type service struct {
	recipeRepo repository.RecipeRepository
	redis      *redis.Client
}

func NewService(recipeRepo repository.RecipeRepository, redisClient *redis.Client) Service {
	return &service{
		recipeRepo: recipeRepo,
		redis:      redisClient,
	}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateRecipeInput) (*domain.Recipe, error) {
	servings := input.Servings
	if servings == 0 {
		servings = 1
	}

	recipe := &domain.Recipe{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		Servings:     servings,
		CookTimeMins: input.CookTimeMins,
	}

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return recipe, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrNotFound
	}
	return recipe, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateRecipeInput) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrNotFound
	}
	if recipe.UserID != userID {
		return nil, ErrNotOwner
	}

	if input.Title != nil {
		recipe.Title = *input.Title
	}
	if input.Description != nil {
		recipe.Description = input.Description
	}
	if input.Ingredients != nil {
		recipe.Ingredients = input.Ingredients
	}
	if input.Instructions != nil {
		recipe.Instructions = *input.Instructions
	}
	if input.Servings != nil {
		recipe.Servings = *input.Servings
	}
	if input.CookTimeMins != nil {
		recipe.CookTimeMins = *input.CookTimeMins
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return recipe, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if recipe == nil {
		return ErrNotFound
	}
	if recipe.UserID != userID {
		return ErrNotOwner
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *service) List(ctx context.Context, search string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Recipe], error) {
	cacheKey := fmt.Sprintf("recipes:search:%s:page:%d:size:%d", search, params.Page, params.PageSize)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var result domain.PaginatedResponse[domain.Recipe]
			if json.Unmarshal([]byte(cached), &result) == nil {
				return result, nil
			}
		}
	}

	recipes, total, err := s.recipeRepo.List(ctx, search, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Recipe]{}, err
	}

	result := domain.NewPaginatedResponse(recipes, params.Page, params.PageSize, total)

	if s.redis != nil {
		if resultJSON, err := json.Marshal(result); err == nil {
			_ = s.redis.Set(ctx, cacheKey, resultJSON, 5*time.Minute).Err()
		}
	}

	return result, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Recipe], error) {
	recipes, total, err := s.recipeRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Recipe]{}, err
	}
	return domain.NewPaginatedResponse(recipes, params.Page, params.PageSize, total), nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	keys, _ := s.redis.Keys(ctx, "recipes:*").Result()
	if len(keys) > 0 {
		_ = s.redis.Del(ctx, keys...).Err()
	}
}
