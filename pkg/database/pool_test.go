package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDatabaseReusesConnection(t *testing.T) {
	t.Cleanup(ResetPool)
	cfg := DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "a.db")}

	first, err := GetDatabase(cfg)
	require.NoError(t, err)
	second, err := GetDatabase(cfg)
	require.NoError(t, err)
	assert.Same(t, first, second)

	stats := GetConnectionStats()
	assert.Equal(t, "connected", stats["status"])
	assert.Equal(t, "sqlite", stats["driver"])

	cfg.SQLitePath = filepath.Join(t.TempDir(), "b.db")
	third, err := GetDatabase(cfg)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Error(t, first.HealthCheck())

	ResetPool()
	assert.Equal(t, "no_connection", GetConnectionStats()["status"])
}
