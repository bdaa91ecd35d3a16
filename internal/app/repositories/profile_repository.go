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
)

var profileColumns = []string{
	"id", "user_id", "role_type", "bio", "age", "profession", "education",
	"company", "phone", "photo_url", "created_at", "updated_at",
}

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.RoleType, &p.Bio, &p.Age, &p.Profession, &p.Education,
		&p.Company, &p.Phone, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func ensureProfileQuery(userID int64, role models.RoleType) (string, []interface{}, error) {
	return psql.Insert("profiles").
		Columns("user_id", "role_type").
		Values(userID, role).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
}

// EnsureProfile inserts a default profile unless one exists and returns the stored row
func (r *ProfileRepository) EnsureProfile(ctx context.Context, userID int64, role models.RoleType) (*models.Profile, error) {
	if !role.IsValid() {
		role = models.RoleStudent
	}
	sql, args, err := ensureProfileQuery(userID, role)
	if err != nil {
		return nil, fmt.Errorf("build ensure profile query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("error ensuring profile: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

// GetByUserID retrieves the profile of a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile query: %w", err)
	}
	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, fmt.Errorf("error getting profile: %w", err)
	}
	return p, err
}

// Update saves the editable profile fields. The role is not editable here.
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	sql, args, err := psql.Update("profiles").
		Set("bio", p.Bio).
		Set("age", p.Age).
		Set("profession", p.Profession).
		Set("education", p.Education).
		Set("company", p.Company).
		Set("phone", p.Phone).
		Set("photo_url", p.PhotoURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": p.UserID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}
