package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

// PostRepository handles database operations for forum posts and likes
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// selectPosts selects posts with their aggregates for viewerID
func selectPosts(viewerID int64) squirrel.SelectBuilder {
	return psql.Select("p.id", "p.author_id", "p.content", "p.image_url", "p.created_at").
		Column("(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count").
		Column("(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count").
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = ?) AS liked_by_me", viewerID)).
		From("posts p")
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &p.ImageURL, &p.CreatedAt, &p.LikeCount, &p.CommentCount, &p.LikedByMe)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// applyPostFilter adds the forum search conditions shared by the page and count queries
func applyPostFilter(q squirrel.SelectBuilder, f PostFilter) squirrel.SelectBuilder {
	q = q.Join("users u ON u.id = p.author_id").
		LeftJoin("profiles pr ON pr.user_id = u.id")

	if term := strings.TrimSpace(f.Query); term != "" {
		pattern := helpers.ContainsPattern(term)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.content": pattern},
			squirrel.ILike{"u.username": pattern},
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
		})
	}
	if f.Role != nil {
		q = q.Where(squirrel.Eq{"pr.role_type": *f.Role})
	}
	return q
}

// postListQueries builds the page query and its matching count query
func postListQueries(f PostFilter) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	page := applyPostFilter(selectPosts(f.ViewerID), f)
	if f.Order == models.PostOrderLikes {
		page = page.OrderBy("like_count DESC", "p.created_at DESC", "p.id DESC")
	} else {
		page = page.OrderBy("p.created_at DESC", "p.id DESC")
	}
	if f.Limit > 0 {
		page = page.Limit(uint64(f.Limit)).Offset(f.Offset)
	}

	count := applyPostFilter(psql.Select("COUNT(*)").From("posts p"), f)
	return page, count
}

// Create inserts a post
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	sql, args, err := psql.Insert("posts").
		Columns("author_id", "content", "image_url").
		Values(p.AuthorID, p.Content, p.ImageURL).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create post query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its aggregates
func (r *PostRepository) GetByID(ctx context.Context, id, viewerID int64) (*models.Post, error) {
	sql, args, err := selectPosts(viewerID).Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get post query: %w", err)
	}
	p, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	return p, nil
}

// List returns one page of the forum feed and the total number of matches
func (r *PostRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, int64, error) {
	pageQuery, countQuery := postListQueries(f)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build post count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	sql, args, err := pageQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build post list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning post row")
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// Delete removes a post. Likes and comments cascade.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// ToggleLike removes the user's like when present and adds it otherwise
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("error removing like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, userID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.ErrPostNotFound
		}
		return false, fmt.Errorf("error adding like: %w", err)
	}
	return true, nil
}

// CountLikes returns the number of likes on a post
func (r *PostRepository) CountLikes(ctx context.Context, postID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting likes: %w", err)
	}
	return n, nil
}
