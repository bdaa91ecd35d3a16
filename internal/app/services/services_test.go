package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories/inmem"
	"github.com/yigit/mentorhub/internal/pkg/auth"
	"github.com/yigit/mentorhub/internal/pkg/presence"
	"golang.org/x/crypto/bcrypt"
)

// brt keeps the tests independent of the host tz database
var brt = time.FixedZone("BRT", -3*60*60)

type sentEvent struct {
	userID    int64
	eventType string
	data      interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) SendToUser(userID int64, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, eventType: eventType, data: data})
}

func (n *recordingNotifier) forUser(userID int64) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.events {
		if e.userID == userID {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	svc      *Services
	store    *inmem.Store
	notifier *recordingNotifier
	presence *presence.MemoryTracker
	now      time.Time
}

// newFixture runs the services against in-memory repositories at 2024-06-10 12:00 BRT
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    inmem.NewStore(),
		notifier: &recordingNotifier{},
		presence: presence.NewMemoryTracker(5 * time.Minute),
		now:      time.Date(2024, 6, 10, 12, 0, 0, 0, brt),
	}
	tick := f.now
	f.store.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})

	f.svc = NewServices(Dependencies{
		Repos: f.store.Repositories(),
		JWT: auth.NewJWTService(auth.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "mentorhub.test",
		}),
		Presence: f.presence,
		Notifier: f.notifier,
		Clock:    NewClock(brt, func() time.Time { return f.now }),
		Logger:   zerolog.Nop(),

		PasswordCost: bcrypt.MinCost,
	})
	return f
}

func (f *fixture) register(t *testing.T, username string, role models.RoleType) int64 {
	t.Helper()
	resp, err := f.svc.Auth.Register(context.Background(), &dto.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "Secret123!",
		FirstName: username,
		RoleType:  string(role),
	})
	require.NoError(t, err)
	return resp.User.ID
}
