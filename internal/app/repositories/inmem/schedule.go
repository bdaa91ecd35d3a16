package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

type meetingRepository struct {
	s *Store
}

// meetingLocked returns a copy of the meeting with invitees loaded
func (s *Store) meetingLocked(id int64) (*models.Meeting, bool) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, false
	}
	cp := *m
	cp.Requester = nil
	cp.Invitees = []*models.User{}
	for _, uid := range s.invitees[id] {
		if u, ok := s.userLocked(uid); ok {
			cp.Invitees = append(cp.Invitees, u)
		}
	}
	sort.Slice(cp.Invitees, func(i, j int) bool { return cp.Invitees[i].Username < cp.Invitees[j].Username })
	return &cp, true
}

func (s *Store) setInviteesLocked(meetingID int64, ids []int64) error {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.users[id]; !ok {
			return apperrors.ErrUserNotFound
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	s.invitees[meetingID] = unique
	return nil
}

func (r *meetingRepository) Create(_ context.Context, m *models.Meeting, inviteeIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[m.RequesterID]; !ok {
		return apperrors.ErrUserNotFound
	}

	id := r.s.nextID("meetings")
	if err := r.s.setInviteesLocked(id, inviteeIDs); err != nil {
		return err
	}

	now := r.s.now()
	m.ID = id
	m.CreatedAt, m.UpdatedAt = now, now
	stored := *m
	stored.Requester, stored.Invitees = nil, nil
	r.s.meetings[id] = &stored

	loaded, _ := r.s.meetingLocked(id)
	m.Invitees = loaded.Invitees
	return nil
}

func (r *meetingRepository) GetByID(_ context.Context, id int64) (*models.Meeting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if m, ok := r.s.meetingLocked(id); ok {
		return m, nil
	}
	return nil, apperrors.ErrMeetingNotFound
}

func (r *meetingRepository) Update(_ context.Context, m *models.Meeting, inviteeIDs *[]int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orig, ok := r.s.meetings[m.ID]
	if !ok {
		return apperrors.ErrMeetingNotFound
	}
	if inviteeIDs != nil {
		if err := r.s.setInviteesLocked(m.ID, *inviteeIDs); err != nil {
			return err
		}
	}

	orig.Title = m.Title
	orig.StartsAt = m.StartsAt
	orig.Link = m.Link
	orig.UpdatedAt = r.s.now()
	m.UpdatedAt = orig.UpdatedAt

	loaded, _ := r.s.meetingLocked(m.ID)
	m.Invitees = loaded.Invitees
	return nil
}

func (r *meetingRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.meetings[id]; !ok {
		return apperrors.ErrMeetingNotFound
	}
	delete(r.s.meetings, id)
	delete(r.s.invitees, id)
	return nil
}

func (r *meetingRepository) ListVisible(_ context.Context, userID int64, from, to *time.Time) ([]*models.Meeting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	meetings := []*models.Meeting{}
	for id := range r.s.meetings {
		m, _ := r.s.meetingLocked(id)
		if !m.VisibleTo(userID) {
			continue
		}
		if from != nil && m.StartsAt.Before(*from) {
			continue
		}
		if to != nil && !m.StartsAt.Before(*to) {
			continue
		}
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool {
		if !meetings[i].StartsAt.Equal(meetings[j].StartsAt) {
			return meetings[i].StartsAt.Before(meetings[j].StartsAt)
		}
		return meetings[i].ID < meetings[j].ID
	})
	return meetings, nil
}

type taskRepository struct {
	s *Store
}

func (r *taskRepository) Create(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[t.OwnerID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if _, ok := r.s.users[t.CreatorID]; !ok {
		return apperrors.ErrUserNotFound
	}

	now := r.s.now()
	t.ID = r.s.nextID("tasks")
	t.CreatedAt, t.UpdatedAt = now, now
	stored := *t
	stored.Owner, stored.Creator = nil, nil
	r.s.tasks[t.ID] = &stored
	return nil
}

func (r *taskRepository) GetByID(_ context.Context, id int64) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if t, ok := r.s.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrTaskNotFound
}

func (r *taskRepository) Update(_ context.Context, t *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orig, ok := r.s.tasks[t.ID]
	if !ok {
		return apperrors.ErrTaskNotFound
	}
	orig.Title = t.Title
	orig.Info = t.Info
	orig.DueDate = t.DueDate
	orig.Done = t.Done
	orig.UpdatedAt = r.s.now()
	t.UpdatedAt = orig.UpdatedAt
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return apperrors.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *taskRepository) ListVisible(_ context.Context, userID int64, pendingOnly bool) ([]*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := []*models.Task{}
	for _, t := range r.s.tasks {
		if !t.VisibleTo(userID) || (pendingOnly && t.Done) {
			continue
		}
		cp := *t
		tasks = append(tasks, &cp)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}
