package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/utils"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "portal.db"))
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "error")
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version")
	assert.True(t, strings.HasPrefix(out, "portal "))
}

func TestTokenCommand(t *testing.T) {
	setupEnv(t)
	out := run(t, "token", "--user", "12", "--email", "ops@example.com")

	claims, err := utils.NewJWTService("cli-secret").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
}

func TestMigrateAndSpaceCommands(t *testing.T) {
	setupEnv(t)
	run(t, "migrate")
	run(t, "space", "add", "--business-key", "fuso", "--language", "ja", "--name", "FUSO JP")

	out := run(t, "space", "list")
	var spaces []models.Space
	require.NoError(t, json.Unmarshal([]byte(out), &spaces))
	require.Len(t, spaces, 1)
	assert.Equal(t, "FUSO JP", spaces[0].Name)
}
