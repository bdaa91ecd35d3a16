package models

import "time"

// Message is a direct message between two users
type Message struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    int64     `json:"senderId" db:"sender_id"`
	RecipientID int64     `json:"recipientId" db:"recipient_id"`
	Content     string    `json:"content" db:"content"`
	SentAt      time.Time `json:"sentAt" db:"sent_at"`
	Read        bool      `json:"read" db:"read"`

	// Related entities
	Sender    *User `json:"sender,omitempty"`
	Recipient *User `json:"recipient,omitempty"`
}

// Involves reports whether userID is the sender or the recipient
func (m *Message) Involves(userID int64) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

// Counterpart returns the other participant's ID as seen from userID
func (m *Message) Counterpart(userID int64) int64 {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}
