package discussion_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dapur-keluarga/internal/domain"
	"dapur-keluarga/internal/service/discussion"
)

// fakeFeed is an in-memory stand-in for the comment feed: tests push
// synthetic snapshots through it and inspect what the gateway wrote.
type fakeFeed struct {
	mu       sync.Mutex
	onUpdate func([]domain.Comment)
	onError  func(error)

	cancelled bool
	drafts    []domain.CommentDraft
	patches   []domain.CommentPatch
	deleted   []uuid.UUID

	createErr error
}

func (f *fakeFeed) Subscribe(recipeID uuid.UUID, onUpdate func([]domain.Comment), onError func(err error)) (func(), error) {
	f.onUpdate = onUpdate
	f.onError = onError
	onUpdate(nil)
	return func() {
		f.mu.Lock()
		f.cancelled = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeFeed) Create(ctx context.Context, draft domain.CommentDraft) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.drafts = append(f.drafts, draft)
	return uuid.New(), nil
}

func (f *fakeFeed) Update(ctx context.Context, actorID, commentID uuid.UUID, patch domain.CommentPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeFeed) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, commentID)
	return nil
}

func (f *fakeFeed) Push(comments []domain.Comment) {
	f.onUpdate(comments)
}

func (f *fakeFeed) Fail(err error) {
	f.onError(err)
}

func intPtr(n int) *int {
	return &n
}

func topLevel(id, userID uuid.UUID, rating *int) domain.Comment {
	return domain.Comment{
		ID:        id,
		UserID:    userID,
		Rating:    rating,
		Content:   "enak sekali",
		CreatedAt: time.Now(),
	}
}

func reply(id, userID, parentID uuid.UUID) domain.Comment {
	return domain.Comment{
		ID:        id,
		UserID:    userID,
		ParentID:  &parentID,
		Content:   "terima kasih",
		CreatedAt: time.Now(),
	}
}

func openDiscussion(t *testing.T, feed *fakeFeed, ownerID uuid.UUID, viewer discussion.Viewer) *discussion.Discussion {
	t.Helper()
	d, err := discussion.Open(feed, uuid.New(), ownerID, viewer, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestDiscussion_RatingSummary(t *testing.T) {
	ownerID := uuid.New()
	reviewerID := uuid.New()

	t.Run("excludes owner ratings", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		feed.Push([]domain.Comment{
			topLevel(uuid.New(), reviewerID, intPtr(5)),
			topLevel(uuid.New(), ownerID, intPtr(5)),
		})

		summary := d.RatingSummary()
		assert.Equal(t, 1, summary.TotalRatings)
		assert.Equal(t, 5.0, summary.AverageRating)
	})

	t.Run("excludes rated replies even if the write-side invariant is broken", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		parentID := uuid.New()
		badReply := reply(uuid.New(), uuid.New(), parentID)
		badReply.Rating = intPtr(1)

		feed.Push([]domain.Comment{
			badReply,
			topLevel(parentID, reviewerID, intPtr(4)),
		})

		summary := d.RatingSummary()
		assert.Equal(t, 1, summary.TotalRatings)
		assert.Equal(t, 4.0, summary.AverageRating)
	})

	t.Run("unrated comments do not count", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		feed.Push([]domain.Comment{
			topLevel(uuid.New(), reviewerID, nil),
			topLevel(uuid.New(), uuid.New(), intPtr(2)),
			topLevel(uuid.New(), uuid.New(), intPtr(5)),
		})

		summary := d.RatingSummary()
		assert.Equal(t, 2, summary.TotalRatings)
		assert.Equal(t, 3.5, summary.AverageRating)
	})

	t.Run("empty set yields zero not NaN", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		summary := d.RatingSummary()
		assert.Equal(t, 0, summary.TotalRatings)
		assert.Equal(t, 0.0, summary.AverageRating)
		assert.Equal(t, 0.0, d.AverageRating())
		assert.Equal(t, 0, d.TotalRatings())
	})
}

func TestDiscussion_Threads(t *testing.T) {
	ownerID := uuid.New()

	t.Run("partitions top-level comments and replies", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		parentID := uuid.New()
		replyID := uuid.New()
		feed.Push([]domain.Comment{
			reply(replyID, uuid.New(), parentID),
			topLevel(parentID, uuid.New(), intPtr(4)),
		})

		top := d.TopLevel()
		require.Len(t, top, 1)
		assert.Equal(t, parentID, top[0].ID)

		replies := d.RepliesOf(parentID)
		require.Len(t, replies, 1)
		assert.Equal(t, replyID, replies[0].ID)

		assert.Empty(t, d.RepliesOf(replyID))
		assert.Empty(t, d.RepliesOf(uuid.New()))
		assert.Equal(t, 1, d.ReplyCount(parentID))

		threads := d.Threads()
		require.Len(t, threads, 1)
		assert.Equal(t, parentID, threads[0].ID)
		assert.Equal(t, 1, threads[0].ReplyCount)
	})

	t.Run("orphaned replies are invisible, not errors", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		deletedParent := uuid.New()
		survivorID := uuid.New()
		feed.Push([]domain.Comment{
			reply(uuid.New(), uuid.New(), deletedParent),
			topLevel(survivorID, uuid.New(), nil),
		})

		threads := d.Threads()
		require.Len(t, threads, 1)
		assert.Equal(t, survivorID, threads[0].ID)
		assert.Zero(t, threads[0].ReplyCount)
	})

	t.Run("every comment lands in exactly one view", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		parentID := uuid.New()
		comments := []domain.Comment{
			reply(uuid.New(), uuid.New(), parentID),
			reply(uuid.New(), uuid.New(), uuid.New()), // orphan
			topLevel(parentID, uuid.New(), intPtr(3)),
			topLevel(uuid.New(), uuid.New(), nil),
		}
		feed.Push(comments)

		seen := 0
		for _, thread := range d.Threads() {
			seen++
			seen += len(thread.Replies)
		}
		assert.Equal(t, 3, seen)
	})
}

func TestDiscussion_IdempotentReads(t *testing.T) {
	feed := &fakeFeed{}
	d := openDiscussion(t, feed, uuid.New(), discussion.Viewer{})

	parentID := uuid.New()
	feed.Push([]domain.Comment{
		reply(uuid.New(), uuid.New(), parentID),
		topLevel(parentID, uuid.New(), intPtr(5)),
	})

	assert.Equal(t, d.TopLevel(), d.TopLevel())
	assert.Equal(t, d.Threads(), d.Threads())
	assert.Equal(t, d.RatingSummary(), d.RatingSummary())
}

func TestDiscussion_ViewerExistingRating(t *testing.T) {
	ownerID := uuid.New()
	viewerID := uuid.New()
	viewer := discussion.Viewer{ID: viewerID, FullName: "Budi"}

	t.Run("returns the viewer's top-level comment", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		mine := uuid.New()
		feed.Push([]domain.Comment{
			topLevel(uuid.New(), uuid.New(), intPtr(4)),
			topLevel(mine, viewerID, intPtr(5)),
		})

		existing := d.ViewerExistingRating()
		require.NotNil(t, existing)
		assert.Equal(t, mine, existing.ID)
	})

	t.Run("first in feed order wins when duplicates exist", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		newest := uuid.New()
		feed.Push([]domain.Comment{
			topLevel(newest, viewerID, intPtr(5)),
			topLevel(uuid.New(), viewerID, intPtr(2)),
		})

		existing := d.ViewerExistingRating()
		require.NotNil(t, existing)
		assert.Equal(t, newest, existing.ID)
	})

	t.Run("replies do not count as an existing rating", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		feed.Push([]domain.Comment{
			reply(uuid.New(), viewerID, uuid.New()),
		})

		assert.Nil(t, d.ViewerExistingRating())
	})

	t.Run("anonymous viewer has none", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		feed.Push([]domain.Comment{
			topLevel(uuid.New(), viewerID, intPtr(5)),
		})

		assert.Nil(t, d.ViewerExistingRating())
	})
}

func TestDiscussion_AddComment(t *testing.T) {
	ownerID := uuid.New()
	viewer := discussion.Viewer{ID: uuid.New(), FullName: "Budi"}
	ctx := context.Background()

	t.Run("rejects empty text before any write", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		_, err := d.AddComment(ctx, "   ", intPtr(4))
		assert.ErrorIs(t, err, discussion.ErrEmptyText)
		assert.Empty(t, feed.drafts)
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		_, err := d.AddComment(ctx, "lezat", intPtr(6))
		assert.ErrorIs(t, err, discussion.ErrInvalidRating)

		_, err = d.AddComment(ctx, "lezat", intPtr(0))
		assert.ErrorIs(t, err, discussion.ErrInvalidRating)
		assert.Empty(t, feed.drafts)
	})

	t.Run("rejects anonymous viewers", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, discussion.Viewer{})

		_, err := d.AddComment(ctx, "lezat", nil)
		assert.ErrorIs(t, err, discussion.ErrUnauthenticated)
		assert.Empty(t, feed.drafts)
	})

	t.Run("writes a trimmed top-level draft", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		id, err := d.AddComment(ctx, "  lezat sekali  ", intPtr(5))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		require.Len(t, feed.drafts, 1)
		draft := feed.drafts[0]
		assert.Equal(t, d.RecipeID(), draft.RecipeID)
		assert.Equal(t, viewer.ID, draft.UserID)
		assert.Nil(t, draft.ParentID)
		assert.Equal(t, "lezat sekali", draft.Content)
		require.NotNil(t, draft.Rating)
		assert.Equal(t, 5, *draft.Rating)
	})

	t.Run("local state only changes on the next delivery", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, ownerID, viewer)

		_, err := d.AddComment(ctx, "lezat", intPtr(5))
		require.NoError(t, err)
		assert.Empty(t, d.TopLevel())

		feed.Push([]domain.Comment{topLevel(uuid.New(), viewer.ID, intPtr(5))})
		assert.Len(t, d.TopLevel(), 1)
	})
}

func TestDiscussion_AddReply(t *testing.T) {
	viewer := discussion.Viewer{ID: uuid.New()}
	ctx := context.Background()

	t.Run("writes an unrated reply draft", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), viewer)

		parentID := uuid.New()
		_, err := d.AddReply(ctx, parentID, "terima kasih")
		require.NoError(t, err)

		require.Len(t, feed.drafts, 1)
		draft := feed.drafts[0]
		require.NotNil(t, draft.ParentID)
		assert.Equal(t, parentID, *draft.ParentID)
		assert.Nil(t, draft.Rating)
	})

	t.Run("parent absent from the local snapshot is still attempted", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), viewer)

		_, err := d.AddReply(ctx, uuid.New(), "terima kasih")
		assert.NoError(t, err)
		assert.Len(t, feed.drafts, 1)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), viewer)

		_, err := d.AddReply(ctx, uuid.New(), "\n\t ")
		assert.ErrorIs(t, err, discussion.ErrEmptyText)
		assert.Empty(t, feed.drafts)
	})
}

func TestDiscussion_UpdateAndDelete(t *testing.T) {
	viewer := discussion.Viewer{ID: uuid.New()}
	ctx := context.Background()

	t.Run("update validates like create", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), viewer)

		err := d.UpdateComment(ctx, uuid.New(), "", intPtr(3))
		assert.ErrorIs(t, err, discussion.ErrEmptyText)

		err = d.UpdateComment(ctx, uuid.New(), "masih enak", intPtr(9))
		assert.ErrorIs(t, err, discussion.ErrInvalidRating)
		assert.Empty(t, feed.patches)

		err = d.UpdateComment(ctx, uuid.New(), " masih enak ", intPtr(3))
		require.NoError(t, err)
		require.Len(t, feed.patches, 1)
		assert.Equal(t, "masih enak", feed.patches[0].Content)
	})

	t.Run("delete requires a signed-in viewer", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), discussion.Viewer{})

		err := d.DeleteComment(ctx, uuid.New())
		assert.ErrorIs(t, err, discussion.ErrUnauthenticated)
		assert.Empty(t, feed.deleted)
	})

	t.Run("delete goes through the feed", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), viewer)

		target := uuid.New()
		require.NoError(t, d.DeleteComment(ctx, target))
		assert.Equal(t, []uuid.UUID{target}, feed.deleted)
	})
}

func TestDiscussion_Lifecycle(t *testing.T) {
	t.Run("close tears the subscription down once", func(t *testing.T) {
		feed := &fakeFeed{}
		d, err := discussion.Open(feed, uuid.New(), uuid.New(), discussion.Viewer{}, zerolog.Nop())
		require.NoError(t, err)

		d.Close()
		d.Close()
		assert.True(t, feed.cancelled)
	})

	t.Run("subscription failure is terminal but reads keep serving the last snapshot", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), discussion.Viewer{})

		feed.Push([]domain.Comment{topLevel(uuid.New(), uuid.New(), intPtr(4))})
		feed.Fail(errors.New("stream lost"))

		degraded, err := d.Degraded()
		assert.True(t, degraded)
		assert.EqualError(t, err, "stream lost")
		assert.Len(t, d.TopLevel(), 1)
	})

	t.Run("snapshot replacements signal Changes", func(t *testing.T) {
		feed := &fakeFeed{}
		d := openDiscussion(t, feed, uuid.New(), discussion.Viewer{})

		// Drain the signal from the initial delivery, if still pending.
		select {
		case <-d.Changes():
		default:
		}

		feed.Push([]domain.Comment{topLevel(uuid.New(), uuid.New(), nil)})

		select {
		case <-d.Changes():
		case <-time.After(time.Second):
			t.Fatal("expected a change signal after a delivery")
		}
	})
}
