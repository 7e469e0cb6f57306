package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OPENAI_API_KEY", "DATABASE_URL", "PORT", "SECRET_KEY", "FLASK_DEBUG", "CHATROOM_SESSION_ID"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()

	assert.Equal(t, "sqlite:///travelroom.db", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "shared_chatroom_session", cfg.ChatroomSessionID)
	assert.False(t, cfg.HasLLM())
	assert.Equal(t, 1000, cfg.ReplaySize)
	assert.Equal(t, 50, cfg.CatchupSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("PORT", "9090")
	t.Setenv("FLASK_DEBUG", "true")
	t.Setenv("CHATROOM_SESSION_ID", "room-1")

	cfg := Load()

	assert.True(t, cfg.HasLLM())
	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "room-1", cfg.ChatroomSessionID)
}
