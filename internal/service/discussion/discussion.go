package discussion

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dapur-keluarga/internal/domain"
)

// Feed is the remote comment feed a discussion synchronizes against. It
// pushes the full newest-first comment set for one recipe on every change
// and is the authority for write-side checks (authorship, parent depth).
type Feed interface {
	Subscribe(recipeID uuid.UUID, onUpdate func(comments []domain.Comment), onError func(err error)) (cancel func(), err error)
	Create(ctx context.Context, draft domain.CommentDraft) (uuid.UUID, error)
	Update(ctx context.Context, actorID, commentID uuid.UUID, patch domain.CommentPatch) error
	Delete(ctx context.Context, actorID, commentID uuid.UUID) error
}

// Viewer identifies the actor reading and writing through a discussion.
// The zero value is an anonymous, read-only viewer.
type Viewer struct {
	ID        uuid.UUID
	FullName  string
	AvatarURL *string
}

func (v Viewer) SignedIn() bool {
	return v.ID != uuid.Nil
}

// Discussion is the live comment index for one recipe view. It holds the
// latest snapshot delivered by the feed and derives thread and rating views
// from it. Mutations go through the feed and are reflected locally only by
// the next delivery; nothing here writes to the snapshot directly.
//
// A discussion must be closed when the owning view goes away, otherwise its
// feed subscription keeps running.
type Discussion struct {
	feed     Feed
	recipeID uuid.UUID
	ownerID  uuid.UUID
	viewer   Viewer
	log      zerolog.Logger

	mu       sync.RWMutex
	comments []domain.Comment
	degraded bool
	feedErr  error

	changes   chan struct{}
	cancel    func()
	closeOnce sync.Once
}

// Open subscribes to the feed for one recipe. The initial snapshot is
// delivered before Open returns, so reads are valid immediately.
func Open(feed Feed, recipeID, ownerID uuid.UUID, viewer Viewer, log zerolog.Logger) (*Discussion, error) {
	d := &Discussion{
		feed:     feed,
		recipeID: recipeID,
		ownerID:  ownerID,
		viewer:   viewer,
		log:      log.With().Str("component", "discussion").Str("recipe_id", recipeID.String()).Logger(),
		changes:  make(chan struct{}, 1),
	}

	cancel, err := feed.Subscribe(recipeID, d.apply, d.fail)
	if err != nil {
		return nil, err
	}
	d.cancel = cancel

	return d, nil
}

// apply replaces the working set with a full delivery. Deliveries and reads
// are serialized on the mutex; there is no incremental patching.
func (d *Discussion) apply(comments []domain.Comment) {
	d.mu.Lock()
	d.comments = comments
	d.mu.Unlock()
	d.notify()
}

// fail marks the discussion degraded. Subscription errors are terminal:
// the snapshot stays readable but will not move again until the caller
// opens a fresh discussion.
func (d *Discussion) fail(err error) {
	d.mu.Lock()
	d.degraded = true
	d.feedErr = err
	d.mu.Unlock()

	d.log.Error().Err(err).Msg("comment feed subscription failed")
	d.notify()
}

func (d *Discussion) notify() {
	select {
	case d.changes <- struct{}{}:
	default:
	}
}

// Changes signals coalesced snapshot replacements (and the transition to
// degraded). Consumers re-read the views they care about on each signal.
func (d *Discussion) Changes() <-chan struct{} {
	return d.changes
}

// Degraded reports whether the feed subscription has failed, and with what.
func (d *Discussion) Degraded() (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.degraded, d.feedErr
}

func (d *Discussion) RecipeID() uuid.UUID {
	return d.recipeID
}

func (d *Discussion) Viewer() Viewer {
	return d.viewer
}

// Close tears the feed subscription down. Idempotent.
func (d *Discussion) Close() {
	d.closeOnce.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}
	})
}
