package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/db"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

var meetingColumns = []string{"m.id", "m.title", "m.starts_at", "m.link", "m.requester_id", "m.created_at", "m.updated_at"}

// MeetingRepository handles database operations for meetings and their invitees
type MeetingRepository struct {
	pg *db.PostgresDB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(pg *db.PostgresDB) *MeetingRepository {
	return &MeetingRepository{pg: pg}
}

func scanMeeting(row pgx.Row) (*models.Meeting, error) {
	var m models.Meeting
	err := row.Scan(&m.ID, &m.Title, &m.StartsAt, &m.Link, &m.RequesterID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Invitees = []*models.User{}
	return &m, nil
}

// visibleMeetingsQuery selects meetings userID requested or is invited to
func visibleMeetingsQuery(userID int64, from, to *time.Time) squirrel.SelectBuilder {
	q := psql.Select(meetingColumns...).
		From("meetings m").
		Where(squirrel.Or{
			squirrel.Eq{"m.requester_id": userID},
			squirrel.Expr("EXISTS (SELECT 1 FROM meeting_invitees mi WHERE mi.meeting_id = m.id AND mi.user_id = ?)", userID),
		}).
		OrderBy("m.starts_at ASC", "m.id ASC")
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"m.starts_at": *from})
	}
	if to != nil {
		q = q.Where(squirrel.Lt{"m.starts_at": *to})
	}
	return q
}

func inviteesQuery(meetingIDs []int64) squirrel.SelectBuilder {
	return selectUsers("mi.meeting_id").
		Join("meeting_invitees mi ON mi.user_id = u.id").
		Where(squirrel.Eq{"mi.meeting_id": meetingIDs}).
		OrderBy("u.username")
}

func insertInvitees(ctx context.Context, tx pgx.Tx, meetingID int64, inviteeIDs []int64) error {
	ids := uniqueIDs(inviteeIDs)
	if len(ids) == 0 {
		return nil
	}
	insert := psql.Insert("meeting_invitees").Columns("meeting_id", "user_id")
	for _, id := range ids {
		insert = insert.Values(meetingID, id)
	}
	sql, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build invitees query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding invitees: %w", err)
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Create inserts the meeting and its invitees in one transaction
func (r *MeetingRepository) Create(ctx context.Context, m *models.Meeting, inviteeIDs []int64) error {
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("meetings").
			Columns("title", "starts_at", "link", "requester_id").
			Values(m.Title, m.StartsAt, m.Link, m.RequesterID).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create meeting query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return fmt.Errorf("error creating meeting: %w", err)
		}
		return insertInvitees(ctx, tx, m.ID, inviteeIDs)
	})
	if err != nil {
		return err
	}
	return r.loadInvitees(ctx, []*models.Meeting{m})
}

// GetByID retrieves a meeting with its invitees
func (r *MeetingRepository) GetByID(ctx context.Context, id int64) (*models.Meeting, error) {
	sql, args, err := psql.Select(meetingColumns...).From("meetings m").Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get meeting query: %w", err)
	}
	m, err := scanMeeting(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("error getting meeting: %w", err)
	}
	if err := r.loadInvitees(ctx, []*models.Meeting{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// Update saves the meeting and optionally replaces its invitees
func (r *MeetingRepository) Update(ctx context.Context, m *models.Meeting, inviteeIDs *[]int64) error {
	err := r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Update("meetings").
			Set("title", m.Title).
			Set("starts_at", m.StartsAt).
			Set("link", m.Link).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": m.ID}).
			Suffix("RETURNING updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build update meeting query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&m.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrMeetingNotFound
			}
			return fmt.Errorf("error updating meeting: %w", err)
		}

		if inviteeIDs == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM meeting_invitees WHERE meeting_id = $1`, m.ID); err != nil {
			return fmt.Errorf("error clearing invitees: %w", err)
		}
		return insertInvitees(ctx, tx, m.ID, *inviteeIDs)
	})
	if err != nil {
		return err
	}
	return r.loadInvitees(ctx, []*models.Meeting{m})
}

// Delete removes a meeting. Invitee rows cascade.
func (r *MeetingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pg.Pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMeetingNotFound
	}
	return nil
}

// ListVisible lists the meetings userID can see within the optional bounds
func (r *MeetingRepository) ListVisible(ctx context.Context, userID int64, from, to *time.Time) ([]*models.Meeting, error) {
	sql, args, err := visibleMeetingsQuery(userID, from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build visible meetings query: %w", err)
	}
	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing meetings: %w", err)
	}
	defer rows.Close()

	meetings := []*models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning meeting row")
			return nil, err
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadInvitees(ctx, meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// loadInvitees attaches invitees to the meetings with a single query
func (r *MeetingRepository) loadInvitees(ctx context.Context, meetings []*models.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Meeting, len(meetings))
	ids := make([]int64, 0, len(meetings))
	for _, m := range meetings {
		m.Invitees = []*models.User{}
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}

	sql, args, err := inviteesQuery(ids).ToSql()
	if err != nil {
		return fmt.Errorf("build invitees query: %w", err)
	}
	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading invitees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var meetingID int64
		u, err := scanUser(rows, &meetingID)
		if err != nil {
			return err
		}
		if m, ok := byID[meetingID]; ok {
			m.Invitees = append(m.Invitees, u)
		}
	}
	return rows.Err()
}
