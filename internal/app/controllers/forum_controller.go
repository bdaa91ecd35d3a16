package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

// ForumController handles the feed, posts, comments and likes
type ForumController struct {
	forumService services.ForumService
	logger       zerolog.Logger
}

// NewForumController creates a new ForumController
func NewForumController(forumService services.ForumService, logger zerolog.Logger) *ForumController {
	return &ForumController{
		forumService: forumService,
		logger:       logger,
	}
}

// Feed godoc
// @Summary Forum feed
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param q query string false "Text in the content or the author's name"
// @Param filtro_autor query string false "mentor or student (aliases accepted)"
// @Param ordem query string false "recent (default) or likes"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ForumFeedResponse}
// @Router /forum [get]
func (c *ForumController) Feed(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var query dto.ForumQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	feed, err := c.forumService.Feed(ctx.Request.Context(), userID, query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed))
}

// CreatePost godoc
// @Summary Publish a post
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse}
// @Router /forum/posts [post]
func (c *ForumController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	req, ok := requestBody[dto.CreatePostRequest](ctx)
	if !ok {
		return
	}
	post, err := c.forumService.CreatePost(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(post, ForumPage))
}

// GetPost godoc
// @Summary Post with its comments
// @Description Top-level comments newest first, each with its replies oldest first
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostDetailResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /forum/posts/{id} [get]
func (c *ForumController) GetPost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "id", "post")
	if !ok {
		return
	}
	detail, err := c.forumService.GetPost(ctx.Request.Context(), userID, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// AddComment godoc
// @Summary Comment on a post or reply to a comment
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.APIResponse "Parent belongs to another post"
// @Router /forum/posts/{id}/comments [post]
func (c *ForumController) AddComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "id", "post")
	if !ok {
		return
	}
	req, ok := requestBody[dto.CreateCommentRequest](ctx)
	if !ok {
		return
	}
	comment, err := c.forumService.AddComment(ctx.Request.Context(), userID, postID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(comment, PostPage(postID)))
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Description The redirect is the referring page, or the post detail
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse}
// @Router /forum/posts/{id}/like [post]
func (c *ForumController) ToggleLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "id", "post")
	if !ok {
		return
	}
	like, err := c.forumService.ToggleLike(ctx.Request.Context(), userID, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	redirect := localRedirect(ctx, ctx.GetHeader("Referer"), PostPage(postID))
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(like, redirect))
}

// DeletePost godoc
// @Summary Delete a post
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Only the author can delete"
// @Router /forum/posts/{id} [delete]
func (c *ForumController) DeletePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := idParam(ctx, "id", "post")
	if !ok {
		return
	}
	if err := c.forumService.DeletePost(ctx.Request.Context(), userID, postID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(dto.SuccessResponse{Message: "Post deleted"}, ForumPage))
}

// DeleteComment godoc
// @Summary Delete a comment and its replies
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Only the author can delete"
// @Router /forum/comments/{id} [delete]
func (c *ForumController) DeleteComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	commentID, ok := idParam(ctx, "id", "comment")
	if !ok {
		return
	}
	postID, err := c.forumService.DeleteComment(ctx.Request.Context(), userID, commentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(dto.SuccessResponse{Message: "Comment deleted"}, PostPage(postID)))
}
