package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

type messageRepository struct {
	s *Store
}

func (r *messageRepository) Create(_ context.Context, m *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[m.SenderID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if _, ok := r.s.users[m.RecipientID]; !ok {
		return apperrors.ErrUserNotFound
	}

	m.ID = r.s.nextID("messages")
	if m.SentAt.IsZero() {
		m.SentAt = r.s.now()
	}
	stored := *m
	stored.Sender, stored.Recipient = nil, nil
	r.s.messages[m.ID] = &stored
	return nil
}

func (r *messageRepository) GetByID(_ context.Context, id int64) (*models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if m, ok := r.s.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, apperrors.ErrMessageNotFound
}

func (r *messageRepository) ListConversation(_ context.Context, a, b int64) ([]*models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	messages := []*models.Message{}
	for _, m := range r.s.messages {
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			cp := *m
			messages = append(messages, &cp)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].SentAt.Equal(messages[j].SentAt) {
			return messages[i].SentAt.Before(messages[j].SentAt)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

func (r *messageRepository) ListContactIDs(_ context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	last := make(map[int64]time.Time)
	for _, m := range r.s.messages {
		if !m.Involves(userID) || m.SenderID == m.RecipientID {
			continue
		}
		other := m.Counterpart(userID)
		if m.SentAt.After(last[other]) {
			last[other] = m.SentAt
		}
	}

	ids := make([]int64, 0, len(last))
	for id := range last {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if !last[ids[i]].Equal(last[ids[j]]) {
			return last[ids[i]].After(last[ids[j]])
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

func (r *messageRepository) CountUnreadBySender(_ context.Context, recipientID int64) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int)
	for _, m := range r.s.messages {
		if m.RecipientID == recipientID && !m.Read {
			counts[m.SenderID]++
		}
	}
	return counts, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	counts, _ := r.CountUnreadBySender(ctx, recipientID)
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

func (r *messageRepository) MarkConversationRead(_ context.Context, recipientID, senderID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, m := range r.s.messages {
		if m.RecipientID == recipientID && m.SenderID == senderID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *messageRepository) MarkRead(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[id]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	m.Read = true
	return nil
}
