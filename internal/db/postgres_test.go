package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorhub/internal/config"
)

func databaseConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "6543"
	cfg.Database.User = "mentor"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "mentorhub"
	cfg.Database.MaxOpenConns = 8
	cfg.Database.MaxIdleConns = 2
	cfg.Database.ConnMaxLifetime = "30m"
	return cfg
}

func TestPoolConfigFrom(t *testing.T) {
	pc, err := poolConfigFrom(databaseConfig())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.EqualValues(t, 6543, pc.ConnConfig.Port)
	assert.Equal(t, "mentorhub", pc.ConnConfig.Database)
	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.HealthCheckPeriod)
	assert.Equal(t, "mentorhub", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfigFromClampsMinConns(t *testing.T) {
	cfg := databaseConfig()
	cfg.Database.MaxOpenConns = 3
	cfg.Database.MaxIdleConns = 10

	pc, err := poolConfigFrom(cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pc.MinConns)
}

func TestPoolConfigFromBadLifetime(t *testing.T) {
	cfg := databaseConfig()
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := poolConfigFrom(cfg)
	assert.ErrorContains(t, err, "connection max lifetime")
}
