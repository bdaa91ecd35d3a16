package dto

import (
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
)

// CreatePostRequest represents a new forum post
type CreatePostRequest struct {
	Content  string `json:"content" binding:"required,notblank,max=10000"`
	ImageURL string `json:"imageUrl" binding:"omitempty,url,max=500"`
}

// CreateCommentRequest represents a comment or, with ParentID, a reply
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,notblank,max=5000"`
	ParentID *int64 `json:"parentId" binding:"omitempty,gt=0"`
}

// ForumQuery holds the feed query string
type ForumQuery struct {
	Q      string `form:"q"`
	Author string `form:"filtro_autor"`
	Order  string `form:"ordem"`
}

// PostResponse is the feed view of a post
type PostResponse struct {
	ID           int64        `json:"id"`
	Content      string       `json:"content"`
	ImageURL     *string      `json:"imageUrl,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	Author       *UserSummary `json:"author,omitempty"`
	LikeCount    int          `json:"likeCount"`
	LikedByMe    bool         `json:"likedByMe"`
	CommentCount int          `json:"commentCount"`
	IsAuthor     bool         `json:"isAuthor"`
}

// CommentResponse is a comment with its replies
type CommentResponse struct {
	ID        int64             `json:"id"`
	ParentID  *int64            `json:"parentId,omitempty"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	Author    *UserSummary      `json:"author,omitempty"`
	IsAuthor  bool              `json:"isAuthor"`
	Replies   []CommentResponse `json:"replies,omitempty"`
}

// PostDetailResponse is a post with its threaded comments
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// ForumFeedResponse is a page of the feed with the filters that were applied
type ForumFeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
	Query      string         `json:"q,omitempty"`
	Author     string         `json:"filtroAutor,omitempty"`
	Order      string         `json:"ordem"`
}

// LikeResponse reports the state after a toggle
type LikeResponse struct {
	PostID    int64 `json:"postId"`
	Liked     bool  `json:"liked"`
	LikeCount int   `json:"likeCount"`
}

// ToPostResponse converts a post as seen by viewerID
func ToPostResponse(p *models.Post, viewerID int64) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		Author:       ToUserSummary(p.Author),
		LikeCount:    p.LikeCount,
		LikedByMe:    p.LikedByMe,
		CommentCount: p.CommentCount,
		IsAuthor:     p.AuthorID == viewerID,
	}
}

// ToCommentResponse converts a comment and its replies
func ToCommentResponse(c *models.Comment, viewerID int64) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    ToUserSummary(c.Author),
		IsAuthor:  c.AuthorID == viewerID,
	}
	for _, r := range c.Replies {
		resp.Replies = append(resp.Replies, ToCommentResponse(r, viewerID))
	}
	return resp
}
