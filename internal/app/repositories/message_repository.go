package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

var messageColumns = []string{"id", "sender_id", "recipient_id", "content", "sent_at", "read"}

// MessageRepository handles database operations for direct messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.SentAt, &m.Read); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create stores a message. SentAt is kept when set, otherwise the database clock is used.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	insert := psql.Insert("messages").
		Columns("sender_id", "recipient_id", "content", "sent_at").
		Suffix("RETURNING id, sent_at")
	if m.SentAt.IsZero() {
		insert = insert.Values(m.SenderID, m.RecipientID, m.Content, squirrel.Expr("NOW()"))
	} else {
		insert = insert.Values(m.SenderID, m.RecipientID, m.Content, m.SentAt)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build create message query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.SentAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// GetByID retrieves a message
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := psql.Select(messageColumns...).From("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get message query: %w", err)
	}
	m, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error getting message: %w", err)
	}
	return m, nil
}

func conversationQuery(a, b int64) squirrel.SelectBuilder {
	return psql.Select(messageColumns...).
		From("messages").
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"sender_id": a}, squirrel.Eq{"recipient_id": b}},
			squirrel.And{squirrel.Eq{"sender_id": b}, squirrel.Eq{"recipient_id": a}},
		}).
		OrderBy("sent_at ASC", "id ASC")
}

// ListConversation lists the messages between two users, oldest first
func (r *MessageRepository) ListConversation(ctx context.Context, a, b int64) ([]*models.Message, error) {
	sql, args, err := conversationQuery(a, b).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build conversation query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing conversation: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning message row")
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func contactIDsQuery(userID int64) squirrel.SelectBuilder {
	return psql.Select().
		Column(squirrel.Expr("CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS contact_id", userID)).
		Column("MAX(sent_at) AS last_sent_at").
		From("messages").
		Where(squirrel.Or{squirrel.Eq{"sender_id": userID}, squirrel.Eq{"recipient_id": userID}}).
		Where(squirrel.Expr("sender_id <> recipient_id")).
		GroupBy("contact_id").
		OrderBy("last_sent_at DESC")
}

// ListContactIDs lists distinct conversation partners
func (r *MessageRepository) ListContactIDs(ctx context.Context, userID int64) ([]int64, error) {
	sql, args, err := contactIDsQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contacts query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var (
			id   int64
			last any
		)
		if err := rows.Scan(&id, &last); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountUnreadBySender counts unread incoming messages grouped by sender
func (r *MessageRepository) CountUnreadBySender(ctx context.Context, recipientID int64) (map[int64]int, error) {
	sql, args, err := psql.Select("sender_id", "COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"recipient_id": recipientID, "read": false}).
		GroupBy("sender_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unread query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting unread messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var sender int64
		var n int
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, err
		}
		counts[sender] = n
	}
	return counts, rows.Err()
}

// CountUnread counts every unread message addressed to recipientID
func (r *MessageRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read = FALSE`, recipientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return n, nil
}

// MarkConversationRead flags the unread messages senderID sent to recipientID
func (r *MessageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID int64) (int64, error) {
	sql, args, err := psql.Update("messages").
		Set("read", true).
		Where(squirrel.Eq{"recipient_id": recipientID, "sender_id": senderID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark read query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking conversation read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkRead flags a single message
func (r *MessageRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE messages SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
