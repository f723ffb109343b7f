package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a single entry in a recipe discussion. A comment with a nil
// ParentID is top-level and may carry a star rating; a reply references its
// top-level parent and never carries a rating.
type Comment struct {
	ID           uuid.UUID  `json:"id" db:"comment_id"`
	RecipeID     uuid.UUID  `json:"recipe_id" db:"recipe_id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	ParentID     *uuid.UUID `json:"parent_id" db:"parent_id"`
	Content      string     `json:"content" db:"content"`
	Rating       *int       `json:"rating,omitempty" db:"rating"`
	IsOwnerReply bool       `json:"is_owner_reply" db:"is_owner_reply"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`

	Author *CommentAuthor `json:"author,omitempty"`
}

type CommentAuthor struct {
	ID        uuid.UUID `json:"id" db:"user_id"`
	FullName  string    `json:"full_name" db:"author_full_name"`
	AvatarURL *string   `json:"avatar_url" db:"author_avatar_url"`
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// CommentDraft is what the mutation gateway hands to the feed on create.
// The feed assigns the id and timestamps and stamps IsOwnerReply.
type CommentDraft struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	ParentID *uuid.UUID
	Content  string
	Rating   *int
}

// CommentPatch overwrites content and rating only; author, parent and
// creation time are immutable after creation.
type CommentPatch struct {
	Content string
	Rating  *int
}

// RatingSummary aggregates eligible top-level ratings for one recipe.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// CommentThread is a top-level comment with its direct replies, newest first.
type CommentThread struct {
	Comment
	Replies    []Comment `json:"replies"`
	ReplyCount int       `json:"reply_count"`
}

type CreateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

type CreateReplyInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
