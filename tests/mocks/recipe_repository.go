package mocks

import (
	"context"
	"dapur-keluarga/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RecipeRepository struct {
	mock.Mock
}

func (m *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RecipeRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]domain.Recipe, int64, error) {
	args := m.Called(ctx, search, params)
	return args.Get(0).([]domain.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *RecipeRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Recipe, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.Recipe), args.Get(1).(int64), args.Error(2)
}
