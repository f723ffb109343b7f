package unit_test

import (
	"context"
	"testing"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/service/feed"
	"dapur-keluarga/tests/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFeedService(commentRepo *mocks.CommentRepository, recipeRepo *mocks.RecipeRepository) *feed.Service {
	return feed.NewService(commentRepo, recipeRepo, nil, zerolog.Nop()) // Redis nil
}

func ratingOf(n int) *int {
	return &n
}

func TestFeedService_Create(t *testing.T) {
	ctx := context.Background()
	recipeID := uuid.New()
	ownerID := uuid.New()
	reviewerID := uuid.New()

	existingRecipe := &domain.Recipe{
		ID:     recipeID,
		UserID: ownerID,
		Title:  "Rendang Daging",
	}

	t.Run("Success", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		mockRecipeRepo := new(mocks.RecipeRepository)
		svc := newFeedService(mockCommentRepo, mockRecipeRepo)

		mockRecipeRepo.On("GetByID", ctx, recipeID).Return(existingRecipe, nil).Once()
		mockCommentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.RecipeID == recipeID && c.UserID == reviewerID &&
				c.Rating != nil && *c.Rating == 5 && !c.IsOwnerReply
		})).Return(nil).Once()

		id, err := svc.Create(ctx, domain.CommentDraft{
			RecipeID: recipeID,
			UserID:   reviewerID,
			Content:  "Enak sekali",
			Rating:   ratingOf(5),
		})

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		mockCommentRepo.AssertExpectations(t)
		mockRecipeRepo.AssertExpectations(t)
	})

	t.Run("Recipe Not Found", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		mockRecipeRepo := new(mocks.RecipeRepository)
		svc := newFeedService(mockCommentRepo, mockRecipeRepo)

		mockRecipeRepo.On("GetByID", ctx, recipeID).Return(nil, nil).Once()

		_, err := svc.Create(ctx, domain.CommentDraft{
			RecipeID: recipeID,
			UserID:   reviewerID,
			Content:  "Enak sekali",
		})

		assert.ErrorIs(t, err, feed.ErrRecipeNotFound)
		mockCommentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Owner Reply Is Stamped", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		mockRecipeRepo := new(mocks.RecipeRepository)
		svc := newFeedService(mockCommentRepo, mockRecipeRepo)

		parentID := uuid.New()
		parent := &domain.Comment{ID: parentID, RecipeID: recipeID, UserID: reviewerID}

		mockRecipeRepo.On("GetByID", ctx, recipeID).Return(existingRecipe, nil).Once()
		mockCommentRepo.On("GetByID", ctx, parentID).Return(parent, nil).Once()
		mockCommentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.IsOwnerReply && c.ParentID != nil && *c.ParentID == parentID
		})).Return(nil).Once()

		_, err := svc.Create(ctx, domain.CommentDraft{
			RecipeID: recipeID,
			UserID:   ownerID,
			ParentID: &parentID,
			Content:  "Terima kasih!",
		})

		assert.NoError(t, err)
		mockCommentRepo.AssertExpectations(t)
	})

	t.Run("Reply Rating Is Dropped", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		mockRecipeRepo := new(mocks.RecipeRepository)
		svc := newFeedService(mockCommentRepo, mockRecipeRepo)

		parentID := uuid.New()
		parent := &domain.Comment{ID: parentID, RecipeID: recipeID, UserID: reviewerID}

		mockRecipeRepo.On("GetByID", ctx, recipeID).Return(existingRecipe, nil).Once()
		mockCommentRepo.On("GetByID", ctx, parentID).Return(parent, nil).Once()
		mockCommentRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.Rating == nil
		})).Return(nil).Once()

		_, err := svc.Create(ctx, domain.CommentDraft{
			RecipeID: recipeID,
			UserID:   uuid.New(),
			ParentID: &parentID,
			Content:  "Setuju",
			Rating:   ratingOf(5),
		})

		assert.NoError(t, err)
		mockCommentRepo.AssertExpectations(t)
	})

	t.Run("Reply To Reply Rejected", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		mockRecipeRepo := new(mocks.RecipeRepository)
		svc := newFeedService(mockCommentRepo, mockRecipeRepo)

		grandparentID := uuid.New()
		parentID := uuid.New()
		parent := &domain.Comment{ID: parentID, RecipeID: recipeID, UserID: reviewerID, ParentID: &grandparentID}

		mockRecipeRepo.On("GetByID", ctx, recipeID).Return(existingRecipe, nil).Once()
		mockCommentRepo.On("GetByID", ctx, parentID).Return(parent, nil).Once()

		_, err := svc.Create(ctx, domain.CommentDraft{
			RecipeID: recipeID,
			UserID:   uuid.New(),
			ParentID: &parentID,
			Content:  "Terlalu dalam",
		})

		assert.ErrorIs(t, err, feed.ErrReplyDepth)
		mockCommentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Notifier Receives Created Comment", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		mockRecipeRepo := new(mocks.RecipeRepository)
		mockNotifier := new(mocks.Notifier)
		svc := newFeedService(mockCommentRepo, mockRecipeRepo)
		svc.SetNotifier(mockNotifier)

		mockRecipeRepo.On("GetByID", ctx, recipeID).Return(existingRecipe, nil).Once()
		mockCommentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).Return(nil).Once()
		mockNotifier.On("NotifyCommentCreated", ctx, mock.AnythingOfType("*domain.Comment")).Once()

		_, err := svc.Create(ctx, domain.CommentDraft{
			RecipeID: recipeID,
			UserID:   reviewerID,
			Content:  "Enak",
		})

		assert.NoError(t, err)
		mockNotifier.AssertExpectations(t)
	})
}

func TestFeedService_Update(t *testing.T) {
	ctx := context.Background()
	recipeID := uuid.New()
	authorID := uuid.New()
	commentID := uuid.New()

	existing := &domain.Comment{
		ID:       commentID,
		RecipeID: recipeID,
		UserID:   authorID,
		Content:  "Lumayan",
		Rating:   ratingOf(3),
	}

	t.Run("Success", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		mockCommentRepo.On("Update", ctx, mock.MatchedBy(func(c *domain.Comment) bool {
			return c.ID == commentID && c.Content == "Ternyata enak" && *c.Rating == 5
		})).Return(nil).Once()

		err := svc.Update(ctx, authorID, commentID, domain.CommentPatch{
			Content: "Ternyata enak",
			Rating:  ratingOf(5),
		})

		assert.NoError(t, err)
		mockCommentRepo.AssertExpectations(t)
	})

	t.Run("Not Author", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()

		err := svc.Update(ctx, uuid.New(), commentID, domain.CommentPatch{Content: "Diubah"})

		assert.ErrorIs(t, err, feed.ErrNotAuthor)
		mockCommentRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Reply Immutable", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		parentID := uuid.New()
		replyComment := &domain.Comment{
			ID:       commentID,
			RecipeID: recipeID,
			UserID:   authorID,
			ParentID: &parentID,
		}
		mockCommentRepo.On("GetByID", ctx, commentID).Return(replyComment, nil).Once()

		err := svc.Update(ctx, authorID, commentID, domain.CommentPatch{Content: "Diubah"})

		assert.ErrorIs(t, err, feed.ErrReplyImmutable)
		mockCommentRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Not Found", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("GetByID", ctx, commentID).Return(nil, nil).Once()

		err := svc.Update(ctx, authorID, commentID, domain.CommentPatch{Content: "Diubah"})

		assert.ErrorIs(t, err, feed.ErrCommentNotFound)
	})
}

func TestFeedService_Delete(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	commentID := uuid.New()

	existing := &domain.Comment{
		ID:       commentID,
		RecipeID: uuid.New(),
		UserID:   authorID,
	}

	t.Run("Success", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()
		mockCommentRepo.On("Delete", ctx, commentID).Return(nil).Once()

		err := svc.Delete(ctx, authorID, commentID)

		assert.NoError(t, err)
		mockCommentRepo.AssertExpectations(t)
	})

	t.Run("Not Author", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("GetByID", ctx, commentID).Return(existing, nil).Once()

		err := svc.Delete(ctx, uuid.New(), commentID)

		assert.ErrorIs(t, err, feed.ErrNotAuthor)
		mockCommentRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("Not Found", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("GetByID", ctx, commentID).Return(nil, nil).Once()

		err := svc.Delete(ctx, authorID, commentID)

		assert.ErrorIs(t, err, feed.ErrCommentNotFound)
	})
}

func TestFeedService_Subscribe(t *testing.T) {
	recipeID := uuid.New()

	t.Run("Initial Snapshot Is Synchronous", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		stored := []domain.Comment{
			{ID: uuid.New(), RecipeID: recipeID, Content: "Enak"},
		}
		mockCommentRepo.On("ListByRecipe", mock.Anything, recipeID).Return(stored, nil).Once()

		var delivered []domain.Comment
		cancel, err := svc.Subscribe(recipeID,
			func(comments []domain.Comment) { delivered = comments },
			func(err error) { t.Errorf("unexpected feed error: %v", err) },
		)

		assert.NoError(t, err)
		assert.Equal(t, stored, delivered)
		cancel()
		mockCommentRepo.AssertExpectations(t)
	})

	t.Run("Initial Load Failure Fails Subscribe", func(t *testing.T) {
		mockCommentRepo := new(mocks.CommentRepository)
		svc := newFeedService(mockCommentRepo, new(mocks.RecipeRepository))

		mockCommentRepo.On("ListByRecipe", mock.Anything, recipeID).Return(nil, assert.AnError).Once()

		_, err := svc.Subscribe(recipeID,
			func(comments []domain.Comment) { t.Error("no snapshot expected") },
			func(err error) {},
		)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
