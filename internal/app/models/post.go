package models

import "time"

// Post is a forum entry
type Post struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Aggregates computed per query
	LikeCount    int  `json:"likeCount"`
	LikedByMe    bool `json:"likedByMe"`
	CommentCount int  `json:"commentCount"`

	Author *User `json:"author,omitempty"`
}

// Comment belongs to a post and optionally replies to a top-level comment
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author  *User      `json:"author,omitempty"`
	Replies []*Comment `json:"replies,omitempty"`
}

// IsTopLevel reports whether the comment has no parent
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// ThreadRootID returns the ID a reply to this comment must attach to, which
// keeps nesting at one level.
func (c *Comment) ThreadRootID() int64 {
	if c.ParentID != nil {
		return *c.ParentID
	}
	return c.ID
}
