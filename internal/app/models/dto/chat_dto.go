package dto

import (
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
)

// SendMessageRequest represents a direct message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000" example:"Hi! Do you have time on Friday?"`
}

// MessageResponse is the view of a direct message
type MessageResponse struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"senderId"`
	RecipientID int64     `json:"recipientId"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sentAt"`
	Read        bool      `json:"read"`
	Mine        bool      `json:"mine"`
}

// ChatRoomResponse is the conversation with one other user
type ChatRoomResponse struct {
	With     UserSummary       `json:"with"`
	Messages []MessageResponse `json:"messages"`
	MarkedAs int64             `json:"markedRead"`
}

// ContactResponse is a chat list entry
type ContactResponse struct {
	UserSummary
	Unread int `json:"unread"`
}

// ToMessageResponse converts a message as seen by viewerID
func ToMessageResponse(m *models.Message, viewerID int64) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		SentAt:      m.SentAt,
		Read:        m.Read,
		Mine:        m.SenderID == viewerID,
	}
}
