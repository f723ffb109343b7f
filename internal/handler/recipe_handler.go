package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/middleware"
	"dapur-keluarga/internal/service/recipe"
)

type RecipeHandler struct {
	recipeService recipe.Service
}

func NewRecipeHandler(recipeService recipe.Service) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreateRecipeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if strings.TrimSpace(input.Title) == "" {
		return middleware.ValidationError("Title is required")
	}
	if len(input.Ingredients) == 0 {
		return middleware.ValidationError("At least one ingredient is required")
	}
	if strings.TrimSpace(input.Instructions) == "" {
		return middleware.ValidationError("Instructions are required")
	}

	created, err := h.recipeService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	recipeID, err := uuid.Parse(c.Params("recipeId"))
	if err != nil {
		return middleware.BadRequest("Invalid recipe ID")
	}

	found, err := h.recipeService.GetByID(c.Context(), recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			return middleware.NotFound("Recipe not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *RecipeHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)
	search := c.Query("search")

	result, err := h.recipeService.List(c.Context(), search, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *RecipeHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	params := getPaginationParams(c)

	result, err := h.recipeService.ListByUser(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	recipeID, err := uuid.Parse(c.Params("recipeId"))
	if err != nil {
		return middleware.BadRequest("Invalid recipe ID")
	}

	var input domain.UpdateRecipeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.recipeService.Update(c.Context(), userID, recipeID, input)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			return middleware.NotFound("Recipe not found")
		}
		if errors.Is(err, recipe.ErrNotOwner) {
			return middleware.Forbidden("Only the recipe owner can update it")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	recipeID, err := uuid.Parse(c.Params("recipeId"))
	if err != nil {
		return middleware.BadRequest("Invalid recipe ID")
	}

	if err := h.recipeService.Delete(c.Context(), userID, recipeID); err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			return middleware.NotFound("Recipe not found")
		}
		if errors.Is(err, recipe.ErrNotOwner) {
			return middleware.Forbidden("Only the recipe owner can delete it")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
