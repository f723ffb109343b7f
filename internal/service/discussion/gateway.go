package discussion

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"dapur-keluarga/internal/domain"
)

// Mutations validate locally, then write through the feed. None of them
// touch the local snapshot: the effect of a successful write becomes
// visible when the next feed delivery arrives, which is not guaranteed to
// be the very next one this discussion observes.

// AddComment writes a new top-level comment, optionally rated.
func (d *Discussion) AddComment(ctx context.Context, text string, rating *int) (uuid.UUID, error) {
	if !d.viewer.SignedIn() {
		return uuid.Nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return uuid.Nil, ErrEmptyText
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return uuid.Nil, ErrInvalidRating
	}

	return d.feed.Create(ctx, domain.CommentDraft{
		RecipeID: d.recipeID,
		UserID:   d.viewer.ID,
		Content:  text,
		Rating:   rating,
	})
}

// UpdateComment overwrites the text and rating of an existing top-level
// comment. Authorship is enforced by the feed, not here; a viewer editing
// someone else's comment gets the feed's authorization error back.
func (d *Discussion) UpdateComment(ctx context.Context, commentID uuid.UUID, text string, rating *int) error {
	if !d.viewer.SignedIn() {
		return ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return ErrInvalidRating
	}

	return d.feed.Update(ctx, d.viewer.ID, commentID, domain.CommentPatch{
		Content: text,
		Rating:  rating,
	})
}

// AddReply writes an unrated reply under a top-level comment. The parent is
// not required to be present in the local snapshot: it may exist server-side
// without having been delivered yet, so the write is attempted regardless
// and the feed decides.
func (d *Discussion) AddReply(ctx context.Context, parentID uuid.UUID, text string) (uuid.UUID, error) {
	if !d.viewer.SignedIn() {
		return uuid.Nil, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return uuid.Nil, ErrEmptyText
	}

	return d.feed.Create(ctx, domain.CommentDraft{
		RecipeID: d.recipeID,
		UserID:   d.viewer.ID,
		ParentID: &parentID,
		Content:  text,
	})
}

// DeleteComment removes the target comment only. Replies of a deleted
// top-level comment stay in the store and simply stop being surfaced.
func (d *Discussion) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	if !d.viewer.SignedIn() {
		return ErrUnauthenticated
	}
	return d.feed.Delete(ctx, d.viewer.ID, commentID)
}
