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
	"github.com/yigit/mentorhub/internal/pkg/websocket"
)

// ChatService handles direct messages between users
type ChatService interface {
	ListContacts(ctx context.Context, userID int64) ([]dto.ContactResponse, error)
	OpenRoom(ctx context.Context, userID int64, username string) (*dto.ChatRoomResponse, error)
	Send(ctx context.Context, userID int64, username string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	SendMessageByUsername(ctx context.Context, senderID int64, recipientUsername, content string) error
	MarkNotificationRead(ctx context.Context, userID, messageID int64) (*dto.MessageResponse, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type chatServiceImpl struct {
	messageRepo repositories.IMessageRepository
	userRepo    repositories.IUserRepository
	authz       *auth.AuthorizationService
	notifier    Notifier
	logger      zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	messageRepo repositories.IMessageRepository,
	userRepo repositories.IUserRepository,
	authz *auth.AuthorizationService,
	notifier Notifier,
	logger zerolog.Logger,
) ChatService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &chatServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		authz:       authz,
		notifier:    notifier,
		logger:      logger,
	}
}

// ListContacts returns everyone the user exchanged messages with, most recent
// conversation first, with the unread count from each
func (s *chatServiceImpl) ListContacts(ctx context.Context, userID int64) ([]dto.ContactResponse, error) {
	ids, err := s.messageRepo.ListContactIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := loadUsers(ctx, s.userRepo, ids...)
	if err != nil {
		return nil, err
	}
	unread, err := s.messageRepo.CountUnreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}

	contacts := make([]dto.ContactResponse, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		contacts = append(contacts, dto.ContactResponse{UserSummary: *dto.ToUserSummary(u), Unread: unread[id]})
	}
	return contacts, nil
}

// OpenRoom returns the conversation with username and marks their messages to the caller as read
func (s *chatServiceImpl) OpenRoom(ctx context.Context, userID int64, username string) (*dto.ChatRoomResponse, error) {
	other, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	marked, err := s.messageRepo.MarkConversationRead(ctx, userID, other.ID)
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		s.notifier.SendToUser(other.ID, websocket.EventMessageRead, map[string]int64{
			"readerId": userID,
			"count":    marked,
		})
	}

	messages, err := s.messageRepo.ListConversation(ctx, userID, other.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ChatRoomResponse{
		With:     *dto.ToUserSummary(other),
		Messages: make([]dto.MessageResponse, 0, len(messages)),
		MarkedAs: marked,
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, dto.ToMessageResponse(m, userID))
	}
	return resp, nil
}

// Send stores a message to username and pushes it to their open sockets
func (s *chatServiceImpl) Send(ctx context.Context, userID int64, username string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	recipient, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	msg, err := s.send(ctx, userID, recipient, req.Content)
	if err != nil {
		return nil, err
	}
	resp := dto.ToMessageResponse(msg, userID)
	return &resp, nil
}

// SendMessageByUsername is the entry point for messages arriving over a websocket
func (s *chatServiceImpl) SendMessageByUsername(ctx context.Context, senderID int64, recipientUsername, content string) error {
	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return err
	}
	_, err = s.send(ctx, senderID, recipient, content)
	return err
}

func (s *chatServiceImpl) send(ctx context.Context, senderID int64, recipient *models.User, content string) (*models.Message, error) {
	if recipient.ID == senderID {
		return nil, apperrors.ErrSelfMessage
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "message content is required")
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Content:     content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		s.logger.Error().Err(err).Int64("senderID", senderID).Int64("recipientID", recipient.ID).Msg("Failed to store message")
		return nil, err
	}

	s.notifier.SendToUser(recipient.ID, websocket.EventMessage, dto.ToMessageResponse(msg, recipient.ID))
	s.notifier.SendToUser(senderID, websocket.EventMessage, dto.ToMessageResponse(msg, senderID))
	s.logger.Debug().Int64("messageID", msg.ID).Int64("senderID", senderID).Int64("recipientID", recipient.ID).Msg("Message sent")
	return msg, nil
}

// MarkNotificationRead sets the read flag of one message addressed to the caller
func (s *chatServiceImpl) MarkNotificationRead(ctx context.Context, userID, messageID int64) (*dto.MessageResponse, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanMarkRead(userID, msg); err != nil {
		return nil, err
	}
	if !msg.Read {
		if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
			return nil, err
		}
		msg.Read = true
	}
	resp := dto.ToMessageResponse(msg, userID)
	return &resp, nil
}

// CountUnread returns how many messages to the user are unread
func (s *chatServiceImpl) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
