package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

type postRepository struct {
	s *Store
}

// postLocked returns a copy of the post with its aggregates for viewerID
func (s *Store) postLocked(id, viewerID int64) (*models.Post, bool) {
	p, ok := s.posts[id]
	if !ok {
		return nil, false
	}
	cp := *p
	cp.Author = nil
	cp.LikeCount, cp.CommentCount = 0, 0
	for k := range s.likes {
		if k.postID == id {
			cp.LikeCount++
		}
	}
	_, cp.LikedByMe = s.likes[likeKey{postID: id, userID: viewerID}]
	for _, c := range s.comments {
		if c.PostID == id {
			cp.CommentCount++
		}
	}
	return &cp, true
}

func (s *Store) matchesPostFilterLocked(p *models.Post, f repositories.PostFilter) bool {
	author := s.users[p.AuthorID]
	if author == nil {
		return false
	}
	if f.Role != nil {
		profile := s.profiles[p.AuthorID]
		if profile == nil || profile.RoleType != *f.Role {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(f.Query))
	if term == "" {
		return true
	}
	for _, field := range []string{p.Content, author.Username, author.FirstName, author.LastName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (r *postRepository) Create(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.AuthorID]; !ok {
		return apperrors.ErrUserNotFound
	}
	p.ID = r.s.nextID("posts")
	p.CreatedAt = r.s.now()
	stored := *p
	stored.Author = nil
	r.s.posts[p.ID] = &stored
	return nil
}

func (r *postRepository) GetByID(_ context.Context, id, viewerID int64) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.postLocked(id, viewerID); ok {
		return p, nil
	}
	return nil, apperrors.ErrPostNotFound
}

func (r *postRepository) List(_ context.Context, f repositories.PostFilter) ([]*models.Post, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := []*models.Post{}
	for id, p := range r.s.posts {
		if !r.s.matchesPostFilterLocked(p, f) {
			continue
		}
		loaded, _ := r.s.postLocked(id, f.ViewerID)
		posts = append(posts, loaded)
	}

	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if f.Order == models.PostOrderLikes && a.LikeCount != b.LikeCount {
			return a.LikeCount > b.LikeCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := len(posts)
	start, end := helpers.CalculateSliceIndices(f.Offset, f.Limit, total)
	return posts[start:end], int64(total), nil
}

func (r *postRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(r.s.posts, id)
	for k := range r.s.likes {
		if k.postID == id {
			delete(r.s.likes, k)
		}
	}
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *postRepository) ToggleLike(_ context.Context, postID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[postID]; !ok {
		return false, apperrors.ErrPostNotFound
	}
	key := likeKey{postID: postID, userID: userID}
	if _, liked := r.s.likes[key]; liked {
		delete(r.s.likes, key)
		return false, nil
	}
	r.s.likes[key] = r.s.now()
	return true, nil
}

func (r *postRepository) CountLikes(_ context.Context, postID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for k := range r.s.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[c.PostID]; !ok {
		return apperrors.ErrPostNotFound
	}
	if c.ParentID != nil {
		if _, ok := r.s.comments[*c.ParentID]; !ok {
			return apperrors.ErrCommentNotFound
		}
	}
	c.ID = r.s.nextID("comments")
	c.CreatedAt = r.s.now()
	stored := *c
	stored.Author, stored.Replies = nil, nil
	r.s.comments[c.ID] = &stored
	return nil
}

func (r *commentRepository) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c, ok := r.s.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.ErrCommentNotFound
}

func (r *commentRepository) collect(match func(*models.Comment) bool, newestFirst bool) []*models.Comment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comments := []*models.Comment{}
	for _, c := range r.s.comments {
		if match(c) {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt) == newestFirst
		}
		return (a.ID > b.ID) == newestFirst
	})
	return comments
}

func (r *commentRepository) ListTopLevel(_ context.Context, postID int64) ([]*models.Comment, error) {
	return r.collect(func(c *models.Comment) bool {
		return c.PostID == postID && c.ParentID == nil
	}, true), nil
}

func (r *commentRepository) ListReplies(_ context.Context, parentIDs []int64) ([]*models.Comment, error) {
	parents := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	return r.collect(func(c *models.Comment) bool {
		return c.ParentID != nil && parents[*c.ParentID]
	}, false), nil
}

func (r *commentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return apperrors.ErrCommentNotFound
	}
	r.s.deleteCommentLocked(id)
	return nil
}

// deleteCommentLocked removes the comment and, recursively, its replies
func (s *Store) deleteCommentLocked(id int64) {
	delete(s.comments, id)
	for cid, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			s.deleteCommentLocked(cid)
		}
	}
}
