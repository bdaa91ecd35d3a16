// Package inmem implements the repository interfaces in process memory. It
// backs the "memory" database driver and the service tests.
package inmem

import (
	"sync"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
)

type likeKey struct {
	postID int64
	userID int64
}

// Store holds every table behind one lock so cross-table reads stay consistent
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq map[string]int64

	users    map[int64]*models.User
	profiles map[int64]*models.Profile // keyed by user ID
	messages map[int64]*models.Message
	meetings map[int64]*models.Meeting
	invitees map[int64][]int64 // meeting ID -> user IDs
	tasks    map[int64]*models.Task
	posts    map[int64]*models.Post
	likes    map[likeKey]time.Time
	comments map[int64]*models.Comment
}

// NewStore creates an empty store using the wall clock for timestamps
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		seq:      make(map[string]int64),
		users:    make(map[int64]*models.User),
		profiles: make(map[int64]*models.Profile),
		messages: make(map[int64]*models.Message),
		meetings: make(map[int64]*models.Meeting),
		invitees: make(map[int64][]int64),
		tasks:    make(map[int64]*models.Task),
		posts:    make(map[int64]*models.Post),
		likes:    make(map[likeKey]time.Time),
		comments: make(map[int64]*models.Comment),
	}
}

// SetClock replaces the timestamp source
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// nextID must be called with the write lock held
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// NewRepositories returns repositories backed by a fresh store
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:    &userRepository{s: s},
		Profiles: &profileRepository{s: s},
		Messages: &messageRepository{s: s},
		Meetings: &meetingRepository{s: s},
		Tasks:    &taskRepository{s: s},
		Posts:    &postRepository{s: s},
		Comments: &commentRepository{s: s},
	}
}

func copyProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Age != nil {
		age := *p.Age
		cp.Age = &age
	}
	if p.PhotoURL != nil {
		url := *p.PhotoURL
		cp.PhotoURL = &url
	}
	return &cp
}

// userLocked returns a copy of the user with its profile attached
func (s *Store) userLocked(id int64) (*models.User, bool) {
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	cp.Profile = copyProfile(s.profiles[id])
	return &cp, true
}
