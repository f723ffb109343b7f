package feed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/repository"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("only the comment author can modify it")
	ErrReplyImmutable  = errors.New("replies cannot be edited")
	ErrReplyDepth      = errors.New("replies can only target top-level comments")
)

// Service is the remote comment feed: Postgres holds the comment records,
// Redis pub/sub carries change notifications. Every write publishes the
// recipe id; every subscriber answers a notification by reloading the full
// snapshot and pushing it, so subscribers converge without diff plumbing.
//
// Write-side rules live here, not in the client: authorship on update and
// delete, two-level thread depth, and no ratings on replies.
type Service struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
	redis       *redis.Client
	log         zerolog.Logger

	notifier Notifier
}

// Notifier receives successful creates, for fan-out outside the write path.
type Notifier interface {
	NotifyCommentCreated(ctx context.Context, comment *domain.Comment)
}

func NewService(commentRepo repository.CommentRepository, recipeRepo repository.RecipeRepository, redisClient *redis.Client, log zerolog.Logger) *Service {
	return &Service{
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
		redis:       redisClient,
		log:         log.With().Str("component", "comment_feed").Logger(),
	}
}

func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func channelFor(recipeID uuid.UUID) string {
	return "recipe:comments:" + recipeID.String()
}

// Create stores a new comment and notifies subscribers. IsOwnerReply is
// stamped at write time from the recipe's current owner so historical
// replies keep their authorship context.
func (s *Service) Create(ctx context.Context, draft domain.CommentDraft) (uuid.UUID, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, draft.RecipeID)
	if err != nil {
		return uuid.Nil, err
	}
	if recipe == nil {
		return uuid.Nil, ErrRecipeNotFound
	}

	rating := draft.Rating
	if draft.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *draft.ParentID)
		if err != nil {
			return uuid.Nil, err
		}
		if parent == nil {
			return uuid.Nil, ErrCommentNotFound
		}
		if !parent.IsTopLevel() {
			return uuid.Nil, ErrReplyDepth
		}
		// Replies never carry a rating, whatever the draft says.
		rating = nil
	}

	comment := &domain.Comment{
		ID:           uuid.New(),
		RecipeID:     draft.RecipeID,
		UserID:       draft.UserID,
		ParentID:     draft.ParentID,
		Content:      draft.Content,
		Rating:       rating,
		IsOwnerReply: draft.UserID == recipe.UserID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return uuid.Nil, err
	}

	s.publish(ctx, draft.RecipeID)

	if s.notifier != nil {
		s.notifier.NotifyCommentCreated(ctx, comment)
	}

	return comment.ID, nil
}

// Update overwrites text and rating of a top-level comment. Only the
// original author may edit, and replies are immutable after creation.
func (s *Service) Update(ctx context.Context, actorID, commentID uuid.UUID, patch domain.CommentPatch) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != actorID {
		return ErrNotAuthor
	}
	if !comment.IsTopLevel() {
		return ErrReplyImmutable
	}

	comment.Content = patch.Content
	comment.Rating = patch.Rating

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return err
	}

	s.publish(ctx, comment.RecipeID)
	return nil
}

// Delete removes the target comment only. Replies stay in place and become
// orphaned; they are hidden by the thread partitioning on the read side.
func (s *Service) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != actorID {
		return ErrNotAuthor
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.publish(ctx, comment.RecipeID)
	return nil
}

// Subscribe delivers the current snapshot synchronously, then one snapshot
// per change notification until cancelled. A reload failure is terminal for
// the subscription: onError fires once and the pump stops.
func (s *Service) Subscribe(recipeID uuid.UUID, onUpdate func(comments []domain.Comment), onError func(err error)) (func(), error) {
	snapshot, err := s.commentRepo.ListByRecipe(context.Background(), recipeID)
	if err != nil {
		return nil, err
	}
	onUpdate(snapshot)

	if s.redis == nil {
		return func() {}, nil
	}

	pubsub := s.redis.Subscribe(context.Background(), channelFor(recipeID))

	go func() {
		for range pubsub.Channel() {
			snapshot, err := s.commentRepo.ListByRecipe(context.Background(), recipeID)
			if err != nil {
				s.log.Error().Err(err).Str("recipe_id", recipeID.String()).Msg("failed to reload comment snapshot")
				onError(err)
				_ = pubsub.Close()
				return
			}
			onUpdate(snapshot)
		}
	}()

	return func() { _ = pubsub.Close() }, nil
}

func (s *Service) publish(ctx context.Context, recipeID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Publish(ctx, channelFor(recipeID), recipeID.String()).Err(); err != nil {
		s.log.Warn().Err(err).Str("recipe_id", recipeID.String()).Msg("failed to publish comment change")
	}
}
