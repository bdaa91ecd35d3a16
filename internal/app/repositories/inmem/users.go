package inmem

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

type userRepository struct {
	s *Store
}

// checkUniqueLocked mirrors the users_username_key and users_email_key constraints
func (s *Store) checkUniqueLocked(u *models.User) error {
	for _, other := range s.users {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
		if strings.EqualFold(other.Email, u.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	return nil
}

func (r *userRepository) Create(_ context.Context, user *models.User, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkUniqueLocked(user); err != nil {
		return err
	}

	now := r.s.now()
	user.ID = r.s.nextID("users")
	user.CreatedAt, user.UpdatedAt = now, now

	profile.ID = r.s.nextID("profiles")
	profile.UserID = user.ID
	profile.CreatedAt, profile.UpdatedAt = now, now

	stored := *user
	stored.Profile = nil
	r.s.users[user.ID] = &stored
	r.s.profiles[user.ID] = copyProfile(profile)
	user.Profile = profile
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u, ok := r.s.userLocked(id); ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, u := range r.s.users {
		if match(u) {
			found, _ := r.s.userLocked(id)
			return found, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[int64]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.userLocked(id); ok {
			result[id] = u
		}
	}
	return result, nil
}

func (r *userRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orig, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if err := r.s.checkUniqueLocked(user); err != nil {
		return err
	}

	orig.Username = user.Username
	orig.Email = user.Email
	orig.FirstName = user.FirstName
	orig.LastName = user.LastName
	orig.IsActive = user.IsActive
	orig.UpdatedAt = r.s.now()
	user.UpdatedAt = orig.UpdatedAt
	return nil
}

func (r *userRepository) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *userRepository) list(match func(*models.User, *models.Profile) bool) []*models.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []*models.User{}
	for id, u := range r.s.users {
		if match(u, r.s.profiles[id]) {
			found, _ := r.s.userLocked(id)
			users = append(users, found)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r *userRepository) ListByRole(_ context.Context, role models.RoleType, activeOnly bool) ([]*models.User, error) {
	return r.list(func(u *models.User, p *models.Profile) bool {
		return p != nil && p.RoleType == role && (!activeOnly || u.IsActive)
	}), nil
}

func (r *userRepository) ListExcept(_ context.Context, userID int64) ([]*models.User, error) {
	return r.list(func(u *models.User, _ *models.Profile) bool {
		return u.ID != userID && u.IsActive
	}), nil
}

type profileRepository struct {
	s *Store
}

func (r *profileRepository) EnsureProfile(_ context.Context, userID int64, role models.RoleType) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if p, ok := r.s.profiles[userID]; ok {
		return copyProfile(p), nil
	}

	p := models.NewDefaultProfile(userID, role)
	p.ID = r.s.nextID("profiles")
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.profiles[userID] = p
	return copyProfile(p), nil
}

func (r *profileRepository) GetByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.profiles[userID]; ok {
		return copyProfile(p), nil
	}
	return nil, apperrors.ErrProfileNotFound
}

func (r *profileRepository) Update(_ context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orig, ok := r.s.profiles[profile.UserID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	updated := copyProfile(profile)
	updated.ID = orig.ID
	updated.RoleType = orig.RoleType
	updated.CreatedAt = orig.CreatedAt
	updated.UpdatedAt = r.s.now()
	r.s.profiles[profile.UserID] = updated
	profile.UpdatedAt = updated.UpdatedAt
	return nil
}
