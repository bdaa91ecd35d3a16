package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
)

var commentColumns = []string{"id", "post_id", "author_id", "parent_id", "content", "created_at"}

// CommentRepository handles database operations for forum comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func topLevelCommentsQuery(postID int64) squirrel.SelectBuilder {
	return psql.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"post_id": postID, "parent_id": nil}).
		OrderBy("created_at DESC", "id DESC")
}

func repliesQuery(parentIDs []int64) squirrel.SelectBuilder {
	return psql.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"parent_id": parentIDs}).
		OrderBy("created_at ASC", "id ASC")
}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	sql, args, err := psql.Insert("comments").
		Columns("post_id", "author_id", "parent_id", "content").
		Values(c.PostID, c.AuthorID, c.ParentID, c.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	sql, args, err := psql.Select(commentColumns...).From("comments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get comment query: %w", err)
	}
	c, err := scanComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error getting comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Comment, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListTopLevel lists the post's comments that have no parent
func (r *CommentRepository) ListTopLevel(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return r.list(ctx, topLevelCommentsQuery(postID))
}

// ListReplies lists replies to the given parent comments
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []int64) ([]*models.Comment, error) {
	if len(parentIDs) == 0 {
		return []*models.Comment{}, nil
	}
	return r.list(ctx, repliesQuery(parentIDs))
}

// Delete removes a comment. Replies cascade.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}
