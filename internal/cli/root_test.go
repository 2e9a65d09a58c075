package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-membership/internal/config"
	"github.com/tendant/simple-membership/pkg/auth"
	"github.com/tendant/simple-membership/pkg/domain"
	"github.com/tendant/simple-membership/pkg/repository"
)

const testSecret = "test-secret-key-that-is-32-chars!"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(discardLogger(), new(slog.LevelVar))
	require.NotNil(t, cmd)
	assert.Equal(t, "simple-membership", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(discardLogger(), new(slog.LevelVar))

	for _, name := range []string{"serve", "token"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "Command %s should exist", name)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestTokenCommandFlags(t *testing.T) {
	cmd := NewRootCommand(discardLogger(), new(slog.LevelVar))
	tokenCmd, _, err := cmd.Find([]string{"token"})
	require.NoError(t, err)

	principalFlag := tokenCmd.Flags().Lookup("principal")
	require.NotNil(t, principalFlag)
	assert.Equal(t, "p", principalFlag.Shorthand)
	assert.NotNil(t, tokenCmd.Flags().Lookup("ttl"))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "simple-membership")
	t.Setenv("STORE_BACKEND", "memory")

	cmd := NewRootCommand(discardLogger(), new(slog.LevelVar))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"token", "--principal", "alice"})

	require.NoError(t, cmd.Execute())

	tokens := auth.NewTokenService(auth.TokenConfig{
		JWTSecret: []byte(testSecret),
		Issuer:    "simple-membership",
	})
	p, err := tokens.ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, domain.MustParsePrincipal("alice"), p)
}

func TestTokenCommand_MissingPrincipal(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cmd := NewRootCommand(discardLogger(), new(slog.LevelVar))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"token"})

	assert.Error(t, cmd.Execute())
}

func TestTokenCommand_AnonymousRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cmd := NewRootCommand(discardLogger(), new(slog.LevelVar))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"token", "--principal", domain.AnonymousPrincipal.String()})

	assert.ErrorIs(t, cmd.Execute(), domain.ErrInvalidToken)
}

func TestLoadConfig_AppliesLogLevel(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "debug")

	level := new(slog.LevelVar)
	cfg, err := loadConfig(level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, slog.LevelDebug, level.Level())
}

func TestLoadConfig_Error(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	_, err := loadConfig(level)
	require.Error(t, err)
	assert.Equal(t, slog.LevelWarn, level.Level(), "level is untouched on failure")
}

func TestTokenCommand_SetsLogLevel(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")

	level := new(slog.LevelVar)
	cmd := NewRootCommand(discardLogger(), level)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"token", "--principal", "alice"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, slog.LevelError, level.Level())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := openStore(ctx, &config.Config{StoreBackend: config.StoreMemory})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &repository.MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := openStore(ctx, &config.Config{
			StoreBackend: config.StoreSQLite,
			SQLitePath:   filepath.Join(t.TempDir(), "memberships.db"),
		})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &repository.SQLiteStore{}, store)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := openStore(ctx, &config.Config{StoreBackend: "mongo"})
		assert.Error(t, err)
	})
}
