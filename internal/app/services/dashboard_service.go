package services

import (
	"context"

	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

// DashboardService composes the day view and the calendar
type DashboardService interface {
	Dashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error)
	Calendar(ctx context.Context, userID int64) (*dto.CalendarResponse, error)
}

type dashboardServiceImpl struct {
	meetings MeetingService
	tasks    TaskService
	chat     ChatService
	clock    Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(meetings MeetingService, tasks TaskService, chat ChatService, clock Clock) DashboardService {
	return &dashboardServiceImpl{meetings: meetings, tasks: tasks, chat: chat, clock: clock}
}

// Dashboard shows today's meetings and tasks with the unread message count
func (s *dashboardServiceImpl) Dashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error) {
	meetings, err := s.meetings.ListToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.chat.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		Date:          helpers.FormatDate(s.clock.Today()),
		Meetings:      meetings,
		Tasks:         tasks,
		Notifications: unread,
	}, nil
}

// Calendar shows upcoming meetings and pending tasks by bucket
func (s *dashboardServiceImpl) Calendar(ctx context.Context, userID int64) (*dto.CalendarResponse, error) {
	meetings, err := s.meetings.ListUpcoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CalendarResponse{Meetings: meetings, Tasks: tasks}, nil
}
