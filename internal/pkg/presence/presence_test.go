package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tr := NewMemoryTracker(5 * time.Minute)

	require.NoError(t, tr.Touch(ctx, 1, now.Add(-time.Minute)))
	require.NoError(t, tr.Touch(ctx, 2, now.Add(-10*time.Minute)))
	require.NoError(t, tr.Touch(ctx, 3, now))
	// an older touch never moves last-seen backwards
	require.NoError(t, tr.Touch(ctx, 3, now.Add(-time.Hour)))

	online, err := tr.Online(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 3: true}, online)
	assert.Equal(t, "memory", tr.Name())

	online, err = tr.Online(ctx, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestPresenceKey(t *testing.T) {
	assert.Equal(t, "mentorhub:presence:last_seen", presenceKey("mentorhub"))
	assert.Equal(t, "presence:last_seen", presenceKey(""))
}

func TestParseMembers(t *testing.T) {
	assert.Equal(t, map[int64]bool{4: true, 9: true}, parseMembers([]string{"4", "junk", "9"}))
}

func TestTrackersImplementInterface(t *testing.T) {
	var _ Tracker = (*MemoryTracker)(nil)
	var _ Tracker = (*RedisTracker)(nil)
}
