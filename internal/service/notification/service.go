package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/repository"
	"dapur-keluarga/internal/service/email"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	NotifyCommentCreated(ctx context.Context, comment *domain.Comment)
}

type service struct {
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
	emailSvc    email.Service
	log         zerolog.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	recipeRepo repository.RecipeRepository,
	emailSvc email.Service,
	log zerolog.Logger,
) Service {
	return &service{
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
		emailSvc:    emailSvc,
		log:         log.With().Str("component", "notification").Logger(),
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// NotifyCommentCreated fans a successful comment write out to the person it
// concerns: the parent comment's author for a reply, the recipe owner for a
// top-level comment. Self-notifications are skipped. Failures are logged,
// never propagated back into the write path.
func (s *service) NotifyCommentCreated(ctx context.Context, comment *domain.Comment) {
	recipe, err := s.recipeRepo.GetByID(ctx, comment.RecipeID)
	if err != nil || recipe == nil {
		s.log.Warn().Err(err).Str("recipe_id", comment.RecipeID.String()).Msg("skipping notification, recipe lookup failed")
		return
	}

	author, err := s.userRepo.GetByID(ctx, comment.UserID)
	if err != nil || author == nil {
		s.log.Warn().Err(err).Str("user_id", comment.UserID.String()).Msg("skipping notification, author lookup failed")
		return
	}

	if comment.ParentID != nil {
		s.notifyReply(ctx, comment, recipe, author)
		return
	}
	s.notifyNewComment(ctx, comment, recipe, author)
}

func (s *service) notifyNewComment(ctx context.Context, comment *domain.Comment, recipe *domain.Recipe, author *domain.User) {
	if recipe.UserID == comment.UserID {
		return
	}

	owner, err := s.userRepo.GetByID(ctx, recipe.UserID)
	if err != nil || owner == nil {
		return
	}

	s.create(ctx, owner.ID, domain.NotifNewComment,
		"Komentar baru",
		fmt.Sprintf("%s mengomentari resep \"%s\"", author.FullName, recipe.Title),
		comment)

	go func() {
		if err := s.emailSvc.SendNewCommentEmail(context.Background(), owner.Email, owner.FullName, author.FullName, recipe.Title); err != nil {
			s.log.Error().Err(err).Str("email", owner.Email).Msg("failed to send new comment email")
		}
	}()
}

func (s *service) notifyReply(ctx context.Context, comment *domain.Comment, recipe *domain.Recipe, author *domain.User) {
	parent, err := s.commentRepo.GetByID(ctx, *comment.ParentID)
	if err != nil || parent == nil {
		return
	}
	if parent.UserID == comment.UserID {
		return
	}

	recipient, err := s.userRepo.GetByID(ctx, parent.UserID)
	if err != nil || recipient == nil {
		return
	}

	s.create(ctx, recipient.ID, domain.NotifNewReply,
		"Balasan baru",
		fmt.Sprintf("%s membalas komentar Anda di resep \"%s\"", author.FullName, recipe.Title),
		comment)

	go func() {
		if err := s.emailSvc.SendNewReplyEmail(context.Background(), recipient.Email, recipient.FullName, author.FullName, recipe.Title); err != nil {
			s.log.Error().Err(err).Str("email", recipient.Email).Msg("failed to send new reply email")
		}
	}()
}

func (s *service) create(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, title, message string, comment *domain.Comment) {
	data, _ := json.Marshal(map[string]string{
		"comment_id": comment.ID.String(),
		"recipe_id":  comment.RecipeID.String(),
	})

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create notification")
	}
}
