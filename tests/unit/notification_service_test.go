package unit_test

import (
	"context"
	"testing"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/service/notification"
	"dapur-keluarga/tests/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type notifFixture struct {
	notifRepo   *mocks.NotificationRepository
	userRepo    *mocks.UserRepository
	commentRepo *mocks.CommentRepository
	recipeRepo  *mocks.RecipeRepository
	emailSvc    *mocks.EmailService
	svc         notification.Service
}

func newNotifFixture() *notifFixture {
	f := &notifFixture{
		notifRepo:   new(mocks.NotificationRepository),
		userRepo:    new(mocks.UserRepository),
		commentRepo: new(mocks.CommentRepository),
		recipeRepo:  new(mocks.RecipeRepository),
		emailSvc:    new(mocks.EmailService),
	}
	f.svc = notification.NewService(f.notifRepo, f.userRepo, f.commentRepo, f.recipeRepo, f.emailSvc, zerolog.Nop())
	return f
}

func TestNotificationService_NotifyCommentCreated(t *testing.T) {
	ctx := context.Background()
	recipeID := uuid.New()
	ownerID := uuid.New()
	reviewerID := uuid.New()

	recipe := &domain.Recipe{ID: recipeID, UserID: ownerID, Title: "Gado-Gado"}
	owner := &domain.User{ID: ownerID, FullName: "Siti", Email: "siti@example.com"}
	reviewer := &domain.User{ID: reviewerID, FullName: "Budi", Email: "budi@example.com"}

	t.Run("Top-Level Comment Notifies Recipe Owner", func(t *testing.T) {
		f := newNotifFixture()

		f.recipeRepo.On("GetByID", ctx, recipeID).Return(recipe, nil).Once()
		f.userRepo.On("GetByID", ctx, reviewerID).Return(reviewer, nil).Once()
		f.userRepo.On("GetByID", ctx, ownerID).Return(owner, nil).Once()
		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == ownerID && n.Type == domain.NotifNewComment
		})).Return(nil).Once()
		f.emailSvc.On("SendNewCommentEmail", mock.Anything, owner.Email, owner.FullName, reviewer.FullName, recipe.Title).Return(nil).Maybe()

		f.svc.NotifyCommentCreated(ctx, &domain.Comment{
			ID:       uuid.New(),
			RecipeID: recipeID,
			UserID:   reviewerID,
			Content:  "Segar sekali",
		})

		f.notifRepo.AssertExpectations(t)
	})

	t.Run("Owner Commenting Own Recipe Is Skipped", func(t *testing.T) {
		f := newNotifFixture()

		f.recipeRepo.On("GetByID", ctx, recipeID).Return(recipe, nil).Once()
		f.userRepo.On("GetByID", ctx, ownerID).Return(owner, nil).Once()

		f.svc.NotifyCommentCreated(ctx, &domain.Comment{
			ID:       uuid.New(),
			RecipeID: recipeID,
			UserID:   ownerID,
			Content:  "Catatan untuk diri sendiri",
		})

		f.notifRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Reply Notifies Parent Author", func(t *testing.T) {
		f := newNotifFixture()

		parentID := uuid.New()
		parent := &domain.Comment{ID: parentID, RecipeID: recipeID, UserID: reviewerID}

		f.recipeRepo.On("GetByID", ctx, recipeID).Return(recipe, nil).Once()
		f.userRepo.On("GetByID", ctx, ownerID).Return(owner, nil).Once()
		f.commentRepo.On("GetByID", ctx, parentID).Return(parent, nil).Once()
		f.userRepo.On("GetByID", ctx, reviewerID).Return(reviewer, nil).Once()
		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == reviewerID && n.Type == domain.NotifNewReply
		})).Return(nil).Once()
		f.emailSvc.On("SendNewReplyEmail", mock.Anything, reviewer.Email, reviewer.FullName, owner.FullName, recipe.Title).Return(nil).Maybe()

		f.svc.NotifyCommentCreated(ctx, &domain.Comment{
			ID:       uuid.New(),
			RecipeID: recipeID,
			UserID:   ownerID,
			ParentID: &parentID,
			Content:  "Terima kasih!",
		})

		f.notifRepo.AssertExpectations(t)
	})

	t.Run("Replying To Yourself Is Skipped", func(t *testing.T) {
		f := newNotifFixture()

		parentID := uuid.New()
		parent := &domain.Comment{ID: parentID, RecipeID: recipeID, UserID: reviewerID}

		f.recipeRepo.On("GetByID", ctx, recipeID).Return(recipe, nil).Once()
		f.userRepo.On("GetByID", ctx, reviewerID).Return(reviewer, nil).Once()
		f.commentRepo.On("GetByID", ctx, parentID).Return(parent, nil).Once()

		f.svc.NotifyCommentCreated(ctx, &domain.Comment{
			ID:       uuid.New(),
			RecipeID: recipeID,
			UserID:   reviewerID,
			ParentID: &parentID,
			Content:  "Tambahan",
		})

		f.notifRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Recipe Lookup Failure Is Silent", func(t *testing.T) {
		f := newNotifFixture()

		f.recipeRepo.On("GetByID", ctx, recipeID).Return(nil, assert.AnError).Once()

		f.svc.NotifyCommentCreated(ctx, &domain.Comment{
			ID:       uuid.New(),
			RecipeID: recipeID,
			UserID:   reviewerID,
		})

		f.notifRepo.AssertNotCalled(t, "Create")
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	params := domain.PaginationParams{Page: 1, PageSize: 20}

	t.Run("Success", func(t *testing.T) {
		f := newNotifFixture()

		stored := []domain.Notification{
			{ID: uuid.New(), UserID: userID, Type: domain.NotifNewComment},
		}
		f.notifRepo.On("ListByUser", ctx, userID, false, params).Return(stored, int64(1), nil).Once()

		result, err := f.svc.List(ctx, userID, false, params)

		assert.NoError(t, err)
		assert.Len(t, result.Data, 1)
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("Unread Count", func(t *testing.T) {
		f := newNotifFixture()

		f.notifRepo.On("CountUnread", ctx, userID).Return(int64(3), nil).Once()

		count, err := f.svc.GetUnreadCount(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
