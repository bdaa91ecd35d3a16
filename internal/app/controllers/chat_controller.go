package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// ChatController handles direct messages
type ChatController struct {
	chatService services.ChatService
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		logger:      logger,
	}
}

// ListContacts godoc
// @Summary Chat list
// @Description Users the caller exchanged messages with, most recent first, with unread counts
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ContactResponse}
// @Router /chat [get]
func (c *ChatController) ListContacts(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	contacts, err := c.chatService.ListContacts(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(contacts))
}

// Room godoc
// @Summary Conversation with a user
// @Description Returns the messages oldest first and marks the other user's messages as read
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param username path string true "Other user's username"
// @Success 200 {object} dto.APIResponse{data=dto.ChatRoomResponse}
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /chat/{username} [get]
func (c *ChatController) Room(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	room, err := c.chatService.OpenRoom(ctx.Request.Context(), userID, ctx.Param("username"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(room))
}

// Send godoc
// @Summary Send a message
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Recipient username"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse "Empty message or message to self"
// @Failure 404 {object} dto.APIResponse "Recipient not found"
// @Router /chat/{username} [post]
func (c *ChatController) Send(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	req, ok := requestBody[dto.SendMessageRequest](ctx)
	if !ok {
		return
	}
	username := ctx.Param("username")
	msg, err := c.chatService.Send(ctx.Request.Context(), userID, username, req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Str("to", username).Msg("Failed to send message")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(msg, ChatRoomPage(username)))
}

// MarkNotificationRead godoc
// @Summary Mark one message as read
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.APIResponse "Only the recipient can mark a message"
// @Router /notifications/{id}/read [post]
func (c *ChatController) MarkNotificationRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	messageID, ok := idParam(ctx, "id", "message")
	if !ok {
		return
	}
	msg, err := c.chatService.MarkNotificationRead(ctx.Request.Context(), userID, messageID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(msg))
}
