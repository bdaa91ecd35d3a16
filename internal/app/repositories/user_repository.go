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

// userColumns is the column list read by scanUser. Profile columns come from a
// LEFT JOIN and may be NULL.
var userColumns = []string{
	"u.id", "u.username", "u.email", "u.password", "u.first_name", "u.last_name",
	"u.is_active", "u.last_login_at", "u.created_at", "u.updated_at",
	"pr.id", "pr.role_type", "pr.bio", "pr.age", "pr.profession", "pr.education",
	"pr.company", "pr.phone", "pr.photo_url", "pr.created_at", "pr.updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	pg *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pg *db.PostgresDB) *UserRepository {
	return &UserRepository{pg: pg}
}

func selectUsers(extra ...string) squirrel.SelectBuilder {
	cols := append(append([]string{}, extra...), userColumns...)
	return psql.Select(cols...).
		From("users u").
		LeftJoin("profiles pr ON pr.user_id = u.id")
}

// scanUser reads userColumns, after any leading destinations in prefix
func scanUser(row pgx.Row, prefix ...any) (*models.User, error) {
	var (
		u         models.User
		profileID *int64
		role      *string
		bio       *string
		age       *int
		prof      *string
		edu       *string
		company   *string
		phone     *string
		photo     *string
		pCreated  *time.Time
		pUpdated  *time.Time
	)

	dest := append(append([]any{}, prefix...),
		&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
		&profileID, &role, &bio, &age, &prof, &edu, &company, &phone, &photo, &pCreated, &pUpdated,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if profileID != nil {
		u.Profile = &models.Profile{
			ID:         *profileID,
			UserID:     u.ID,
			RoleType:   models.RoleType(deref(role)),
			Bio:        deref(bio),
			Age:        age,
			Profession: deref(prof),
			Education:  deref(edu),
			Company:    deref(company),
			Phone:      deref(phone),
			PhotoURL:   photo,
		}
		if pCreated != nil {
			u.Profile.CreatedAt = *pCreated
		}
		if pUpdated != nil {
			u.Profile.UpdatedAt = *pUpdated
		}
	}
	return &u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// mapUserWriteError translates unique violations into domain errors
func mapUserWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUsersUsernameKey):
		return apperrors.ErrUsernameAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintUsersEmailKey):
		return apperrors.ErrEmailAlreadyExists
	default:
		return err
	}
}

// Create inserts the user and its profile in one transaction
func (r *UserRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("users").
			Columns("username", "email", "password", "first_name", "last_name", "is_active").
			Values(user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.IsActive).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create user query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			if mapped := mapUserWriteError(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		profile.UserID = user.ID
		if err := insertProfile(ctx, tx, profile); err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

func insertProfile(ctx context.Context, q db.Querier, p *models.Profile) error {
	sql, args, err := psql.Insert("profiles").
		Columns("user_id", "role_type", "bio", "age", "profession", "education", "company", "phone", "photo_url").
		Values(p.UserID, p.RoleType, p.Bio, p.Age, p.Profession, p.Education, p.Company, p.Phone, p.PhotoURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create profile query: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("error creating profile: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := selectUsers().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query: %w", err)
	}
	user, err := scanUser(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.username": username})
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(u.email) = LOWER(?)", email))
}

// GetByIDs retrieves users in bulk
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	result := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	users, err := r.list(ctx, selectUsers().Where(squirrel.Eq{"u.id": ids}))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *UserRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}
	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning user row")
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update saves the account fields of a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Update("users").
		Set("username", user.Username).
		Set("email", user.Email).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("is_active", user.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}

	if err := r.pg.Pool.QueryRow(ctx, sql, args...).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		if mapped := mapUserWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.pg.Pool.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

func listByRoleQuery(role models.RoleType, activeOnly bool) squirrel.SelectBuilder {
	q := selectUsers().Where(squirrel.Eq{"pr.role_type": role}).OrderBy("u.username")
	if activeOnly {
		q = q.Where(squirrel.Eq{"u.is_active": true})
	}
	return q
}

// ListByRole lists users with the given profile role
func (r *UserRepository) ListByRole(ctx context.Context, role models.RoleType, activeOnly bool) ([]*models.User, error) {
	return r.list(ctx, listByRoleQuery(role, activeOnly))
}

// ListExcept lists active users other than userID
func (r *UserRepository) ListExcept(ctx context.Context, userID int64) ([]*models.User, error) {
	return r.list(ctx, selectUsers().
		Where(squirrel.NotEq{"u.id": userID}).
		Where(squirrel.Eq{"u.is_active": true}).
		OrderBy("u.username"))
}
