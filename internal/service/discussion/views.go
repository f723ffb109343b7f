package discussion

import (
	"github.com/google/uuid"

	"dapur-keluarga/internal/domain"
)

// TopLevel returns the top-level comments in feed order, newest first.
func (d *Discussion) TopLevel() []domain.Comment {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var topLevel []domain.Comment
	for _, c := range d.comments {
		if c.IsTopLevel() {
			topLevel = append(topLevel, c)
		}
	}
	return topLevel
}

// RepliesOf returns the direct replies of one comment, newest first. An id
// with no replies (unknown, deleted, or simply unanswered) yields an empty
// slice.
func (d *Discussion) RepliesOf(commentID uuid.UUID) []domain.Comment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.repliesOfLocked(commentID)
}

func (d *Discussion) repliesOfLocked(commentID uuid.UUID) []domain.Comment {
	var replies []domain.Comment
	for _, c := range d.comments {
		if c.ParentID != nil && *c.ParentID == commentID {
			replies = append(replies, c)
		}
	}
	return replies
}

// ReplyCount counts the direct replies of one comment.
func (d *Discussion) ReplyCount(commentID uuid.UUID) int {
	return len(d.RepliesOf(commentID))
}

// Threads partitions the snapshot into top-level comments with their direct
// replies attached. Replies whose parent is not in the snapshot are not
// surfaced anywhere; they reappear if their parent does.
func (d *Discussion) Threads() []domain.CommentThread {
	d.mu.RLock()
	defer d.mu.RUnlock()

	threads := make([]domain.CommentThread, 0)
	for _, c := range d.comments {
		if !c.IsTopLevel() {
			continue
		}
		replies := d.repliesOfLocked(c.ID)
		threads = append(threads, domain.CommentThread{
			Comment:    c,
			Replies:    replies,
			ReplyCount: len(replies),
		})
	}
	return threads
}

// RatingSummary computes the rating aggregate over the current snapshot.
// A comment counts iff it is top-level, carries a rating, and its author is
// not the recipe owner. The reply check does not lean on the write-side
// invariant that replies are unrated; a rated reply is still excluded here.
// With no eligible ratings the summary is {0, 0}.
func (d *Discussion) RatingSummary() domain.RatingSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var sum, count int
	for _, c := range d.comments {
		if !c.IsTopLevel() || c.Rating == nil || c.UserID == d.ownerID {
			continue
		}
		sum += *c.Rating
		count++
	}

	if count == 0 {
		return domain.RatingSummary{}
	}
	return domain.RatingSummary{
		AverageRating: float64(sum) / float64(count),
		TotalRatings:  count,
	}
}

func (d *Discussion) AverageRating() float64 {
	return d.RatingSummary().AverageRating
}

func (d *Discussion) TotalRatings() int {
	return d.RatingSummary().TotalRatings
}

// ViewerExistingRating returns the viewer's existing top-level comment, if
// any: the first one in feed order authored by the viewer. Callers use it
// to route "create" versus "update" intents; it is advisory only and the
// store does not enforce uniqueness.
func (d *Discussion) ViewerExistingRating() *domain.Comment {
	if !d.viewer.SignedIn() {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, c := range d.comments {
		if c.IsTopLevel() && c.UserID == d.viewer.ID {
			existing := c
			return &existing
		}
	}
	return nil
}
