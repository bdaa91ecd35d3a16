package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MessageSender persists a chat message sent over a socket
type MessageSender interface {
	SendMessageByUsername(ctx context.Context, senderID int64, recipientUsername, content string) error
}

// MessageHandler stores chat frames that clients send over their socket, so a
// client can chat without a separate POST.
type MessageHandler struct {
	sender  MessageSender
	hub     *Hub
	timeout time.Duration
	logger  zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(sender MessageSender, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		sender:  sender,
		hub:     hub,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Start consumes inbound frames until ctx is done
func (h *MessageHandler) Start(ctx context.Context) {
	messages := make(chan *Inbound, 64)
	h.hub.AddMessageListener(messages)

	go func() {
		defer h.hub.RemoveMessageListener(messages)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-messages:
				h.handle(ctx, msg)
			}
		}
	}()
}

func (h *MessageHandler) handle(parent context.Context, msg *Inbound) {
	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	if err := h.sender.SendMessageByUsername(ctx, msg.SenderID, msg.To, msg.Content); err != nil {
		h.logger.Warn().
			Err(err).
			Int64("senderID", msg.SenderID).
			Str("to", msg.To).
			Msg("Failed to store websocket message")
		return
	}

	h.logger.Debug().Int64("senderID", msg.SenderID).Str("to", msg.To).Msg("WebSocket message stored")
}
