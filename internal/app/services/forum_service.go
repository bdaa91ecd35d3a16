package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

// ForumService runs the social feed: posts, likes and threaded comments
type ForumService interface {
	Feed(ctx context.Context, viewerID int64, query dto.ForumQuery, page, size int) (*dto.ForumFeedResponse, error)
	CreatePost(ctx context.Context, userID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, viewerID, postID int64) (*dto.PostDetailResponse, error)
	AddComment(ctx context.Context, userID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ToggleLike(ctx context.Context, userID, postID int64) (*dto.LikeResponse, error)
	DeletePost(ctx context.Context, userID, postID int64) error
	// DeleteComment returns the ID of the post the comment belonged to
	DeleteComment(ctx context.Context, userID, commentID int64) (int64, error)
}

type forumServiceImpl struct {
	postRepo    repositories.IPostRepository
	commentRepo repositories.ICommentRepository
	userRepo    repositories.IUserRepository
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewForumService creates a new ForumService
func NewForumService(
	postRepo repositories.IPostRepository,
	commentRepo repositories.ICommentRepository,
	userRepo repositories.IUserRepository,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) ForumService {
	return &forumServiceImpl{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		authz:       authz,
		logger:      logger,
	}
}

// Feed lists posts matching q and the author role filter, in the requested order
func (s *forumServiceImpl) Feed(ctx context.Context, viewerID int64, query dto.ForumQuery, page, size int) (*dto.ForumFeedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	filter := repositories.PostFilter{
		ViewerID: viewerID,
		Query:    strings.TrimSpace(query.Q),
		Order:    models.ParsePostOrder(query.Order),
		Offset:   offset,
		Limit:    limit,
	}
	if role, ok := models.ParseRoleType(query.Author); ok {
		filter.Role = &role
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list posts")
		return nil, err
	}
	if err := s.hydratePosts(ctx, posts...); err != nil {
		return nil, err
	}

	resp := &dto.ForumFeedResponse{
		Posts:      make([]dto.PostResponse, 0, len(posts)),
		Pagination: helpers.NewPaginationInfo(total, page, size),
		Query:      filter.Query,
		Order:      string(filter.Order),
	}
	if filter.Role != nil {
		resp.Author = strings.ToLower(string(*filter.Role))
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, dto.ToPostResponse(p, viewerID))
	}
	return resp, nil
}

// CreatePost publishes a post by the caller
func (s *forumServiceImpl) CreatePost(ctx context.Context, userID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &models.Post{
		AuthorID: userID,
		Content:  strings.TrimSpace(req.Content),
		ImageURL: helpers.NilIfEmpty(strings.TrimSpace(req.ImageURL)),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to create post")
		return nil, err
	}
	s.logger.Info().Int64("postID", post.ID).Int64("authorID", userID).Msg("Post created")

	stored, err := s.postRepo.GetByID(ctx, post.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.hydratePosts(ctx, stored); err != nil {
		return nil, err
	}
	resp := dto.ToPostResponse(stored, userID)
	return &resp, nil
}

// GetPost returns the post with its top-level comments, newest first, each
// carrying its replies oldest first
func (s *forumServiceImpl) GetPost(ctx context.Context, viewerID, postID int64) (*dto.PostDetailResponse, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	top, err := s.commentRepo.ListTopLevel(ctx, postID)
	if err != nil {
		return nil, err
	}
	parentIDs := make([]int64, 0, len(top))
	byID := make(map[int64]*models.Comment, len(top))
	for _, c := range top {
		parentIDs = append(parentIDs, c.ID)
		byID[c.ID] = c
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range replies {
		if parent, ok := byID[*r.ParentID]; ok {
			parent.Replies = append(parent.Replies, r)
		}
	}

	if err := s.hydratePosts(ctx, post); err != nil {
		return nil, err
	}
	if err := s.hydrateComments(ctx, append(append([]*models.Comment{}, top...), replies...)); err != nil {
		return nil, err
	}

	resp := &dto.PostDetailResponse{
		Post:     dto.ToPostResponse(post, viewerID),
		Comments: make([]dto.CommentResponse, 0, len(top)),
	}
	for _, c := range top {
		resp.Comments = append(resp.Comments, dto.ToCommentResponse(c, viewerID))
	}
	return resp, nil
}

// AddComment attaches a comment to the post. A reply to a reply is stored
// under that reply's top-level comment.
func (s *forumServiceImpl) AddComment(ctx context.Context, userID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  strings.TrimSpace(req.Content),
	}
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.ErrInvalidParent
		}
		rootID := parent.ThreadRootID()
		comment.ParentID = &rootID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("postID", postID).Msg("Failed to create comment")
		return nil, err
	}
	if err := s.hydrateComments(ctx, []*models.Comment{comment}); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("commentID", comment.ID).Int64("postID", postID).Msg("Comment added")
	resp := dto.ToCommentResponse(comment, userID)
	return &resp, nil
}

// ToggleLike adds the caller's like, or removes it when already present
func (s *forumServiceImpl) ToggleLike(ctx context.Context, userID, postID int64) (*dto.LikeResponse, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}
	liked, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{PostID: postID, Liked: liked, LikeCount: count}, nil
}

// DeletePost removes a post with its likes and comments. Only the author may do this.
func (s *forumServiceImpl) DeletePost(ctx context.Context, userID, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if err := s.authz.CanDeletePost(userID, post); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.logger.Info().Int64("postID", postID).Msg("Post deleted")
	return nil
}

func (s *forumServiceImpl) DeleteComment(ctx context.Context, userID, commentID int64) (int64, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if err := s.authz.CanDeleteComment(userID, comment); err != nil {
		return 0, err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return 0, err
	}
	s.logger.Info().Int64("commentID", commentID).Int64("postID", comment.PostID).Msg("Comment deleted")
	return comment.PostID, nil
}

func (s *forumServiceImpl) hydratePosts(ctx context.Context, posts ...*models.Post) error {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	users, err := loadUsers(ctx, s.userRepo, ids...)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Author = users[p.AuthorID]
	}
	return nil
}

func (s *forumServiceImpl) hydrateComments(ctx context.Context, comments []*models.Comment) error {
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	users, err := loadUsers(ctx, s.userRepo, ids...)
	if err != nil {
		return err
	}
	for _, c := range comments {
		c.Author = users[c.AuthorID]
	}
	return nil
}
