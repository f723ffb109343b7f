package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dapur-keluarga/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]domain.Comment, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (comment_id, recipe_id, user_id, parent_id, content, rating, is_owner_reply)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.RecipeID, comment.UserID, comment.ParentID,
		comment.Content, comment.Rating, comment.IsOwnerReply,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	query := `SELECT * FROM comments WHERE comment_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, rating = $3, updated_at = NOW()
		WHERE comment_id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.Content, comment.Rating,
	).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Soft delete of the single row; replies keep their parent_id and
	// surface only if the parent ever reappears.
	query := `UPDATE comments SET deleted_at = NOW() WHERE comment_id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ListByRecipe returns the full live comment set for a recipe, newest first.
// The discussion feed pushes this snapshot to every subscriber on change.
func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT
			c.comment_id, c.recipe_id, c.user_id, c.parent_id, c.content, c.rating,
			c.is_owner_reply, c.created_at, c.updated_at,
			u.user_id, u.full_name AS author_full_name, u.avatar_url AS author_avatar_url
		FROM comments c
		INNER JOIN users u ON c.user_id = u.user_id
		WHERE c.recipe_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var author domain.CommentAuthor
		err := rows.Scan(
			&c.ID, &c.RecipeID, &c.UserID, &c.ParentID, &c.Content, &c.Rating,
			&c.IsOwnerReply, &c.CreatedAt, &c.UpdatedAt,
			&author.ID, &author.FullName, &author.AvatarURL,
		)
		if err != nil {
			return nil, err
		}
		c.Author = &author
		comments = append(comments, c)
	}

	return comments, rows.Err()
}
