package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	jwtauth "github.com/yigit/mentorhub/internal/pkg/auth"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
	"github.com/yigit/mentorhub/internal/pkg/presence"
)

// Clock supplies "now" and the application time zone that defines "today"
type Clock struct {
	Location *time.Location
	nowFn    func() time.Time
}

// NewClock returns a clock for loc. A nil now uses the wall clock.
func NewClock(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{Location: loc, nowFn: now}
}

// Now returns the current instant in the application time zone
func (c Clock) Now() time.Time {
	return c.nowFn().In(c.Location)
}

// Today returns midnight of the current day in the application time zone
func (c Clock) Today() time.Time {
	return helpers.StartOfDay(c.nowFn(), c.Location)
}

// Notifier pushes realtime events to a user's open sockets
type Notifier interface {
	SendToUser(userID int64, eventType string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) SendToUser(int64, string, interface{}) {}

// Services holds every service instance
type Services struct {
	Auth          AuthService
	User          UserService
	Meeting       MeetingService
	Task          TaskService
	Chat          ChatService
	Forum         ForumService
	Dashboard     DashboardService
	Authorization *auth.AuthorizationService
}

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Repos    *repositories.Repositories
	JWT      *jwtauth.JWTService
	Presence presence.Tracker
	Notifier Notifier
	Clock    Clock
	Logger   zerolog.Logger

	// PasswordCost is the bcrypt cost for new passwords; zero means auth.BcryptCost
	PasswordCost int
}

// NewServices wires every service from deps
func NewServices(deps Dependencies) *Services {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	authz := auth.NewAuthorizationService(deps.Repos.Users)
	chat := NewChatService(deps.Repos.Messages, deps.Repos.Users, authz, deps.Notifier, deps.Logger)
	meetings := NewMeetingService(deps.Repos.Meetings, deps.Repos.Users, authz, deps.Clock, deps.Logger)
	tasks := NewTaskService(deps.Repos.Tasks, deps.Repos.Users, authz, deps.Clock, deps.Logger)

	return &Services{
		Auth:          NewAuthService(deps.Repos.Users, deps.JWT, deps.Clock, deps.PasswordCost, deps.Logger),
		User:          NewUserService(deps.Repos.Users, deps.Repos.Profiles, deps.Presence, deps.Clock, deps.Logger),
		Meeting:       meetings,
		Task:          tasks,
		Chat:          chat,
		Forum:         NewForumService(deps.Repos.Posts, deps.Repos.Comments, deps.Repos.Users, authz, deps.Logger),
		Dashboard:     NewDashboardService(meetings, tasks, chat, deps.Clock),
		Authorization: authz,
	}
}

// loadUsers fetches the distinct users referenced by ids
func loadUsers(ctx context.Context, repo repositories.IUserRepository, ids ...int64) (map[int64]*models.User, error) {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return repo.GetByIDs(ctx, unique)
}
