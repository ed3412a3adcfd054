package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-chat-reminder/internal/config"
)

// clearEnvVars blanks every variable Load reads; t.Setenv restores them.
func clearEnvVars(t *testing.T) {
	t.Helper()

	envVars := []string{
		"SERVER_HOST",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"LOG_LEVEL",
		"APP_ENV",
		"NODE_ENV",
		"LOCAL_DATA_PATH",
		"REMOTE_STORE",
		"REMINDERS_PATH",
		"WORKFLOW_DIR",
		"GITHUB_TOKEN",
		"GITHUB_OWNER",
		"GITHUB_REPO",
		"GITHUB_BRANCH",
		"GITHUB_API_URL",
		"GIT_REPO_PATH",
		"GIT_AUTHOR_NAME",
		"GIT_AUTHOR_EMAIL",
		"CHATWORK_API_TOKEN",
		"CHATWORK_BASE_URL",
		"CHATWORK_RATE_LIMIT",
		"CHATWORK_RATE_BURST",
		"NATS_URL",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoadSuccess(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "./data/reminders.json", cfg.Storage.LocalPath)
		assert.Equal(t, "github", cfg.Storage.RemoteStore)
		assert.Equal(t, "data/reminders.json", cfg.Storage.RemindersPath)
		assert.Equal(t, ".github/workflows", cfg.Storage.WorkflowDir)
		assert.Equal(t, "reminder-bot", cfg.Git.AuthorName)
		assert.Equal(t, "https://api.chatwork.com/v2", cfg.Chatwork.BaseURL)
		assert.Equal(t, 1.0, cfg.Chatwork.RatePerSecond)
		assert.Equal(t, 5, cfg.Chatwork.Burst)
		assert.False(t, cfg.PubSub.Enabled())
		assert.False(t, cfg.Storage.UseRemote())
	})

	t.Run("values from environment", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("SERVER_HOST", "localhost")
		t.Setenv("SERVER_PORT", "3000")
		t.Setenv("SERVER_READ_TIMEOUT", "5s")
		t.Setenv("NODE_ENV", "production")
		t.Setenv("REMOTE_STORE", "GIT")
		t.Setenv("GIT_REPO_PATH", "/srv/reminders")
		t.Setenv("CHATWORK_RATE_LIMIT", "0.5")
		t.Setenv("NATS_URL", "nats://localhost:4222")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "localhost:3000", cfg.Server.Address())
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, "git", cfg.Storage.RemoteStore)
		assert.Equal(t, 0.5, cfg.Chatwork.RatePerSecond)
		assert.True(t, cfg.PubSub.Enabled())
		assert.True(t, cfg.Storage.UseRemote())
	})

	t.Run("APP_ENV wins over NODE_ENV", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("APP_ENV", "staging")
		t.Setenv("NODE_ENV", "production")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "staging", cfg.Env)
	})
}

func TestLoadError(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "invalid port", key: "SERVER_PORT", value: "http"},
		{name: "invalid read timeout", key: "SERVER_READ_TIMEOUT", value: "soon"},
		{name: "invalid write timeout", key: "SERVER_WRITE_TIMEOUT", value: "10"},
		{name: "invalid rate", key: "CHATWORK_RATE_LIMIT", value: "fast"},
		{name: "negative rate", key: "CHATWORK_RATE_LIMIT", value: "-1"},
		{name: "invalid burst", key: "CHATWORK_RATE_BURST", value: "0"},
		{name: "unknown remote store", key: "REMOTE_STORE", value: "s3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := config.Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestUseRemoteSuccess(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected bool
	}{
		{
			name: "production with complete github credentials",
			env: map[string]string{
				"APP_ENV": "production", "GITHUB_TOKEN": "ghp_x", "GITHUB_OWNER": "acme", "GITHUB_REPO": "bot",
			},
			expected: true,
		},
		{
			name: "development never uses remote",
			env: map[string]string{
				"APP_ENV": "development", "GITHUB_TOKEN": "ghp_x", "GITHUB_OWNER": "acme", "GITHUB_REPO": "bot",
			},
			expected: false,
		},
		{
			name: "placeholder token",
			env: map[string]string{
				"APP_ENV": "production", "GITHUB_TOKEN": "your_github_personal_access_token_here", "GITHUB_OWNER": "acme", "GITHUB_REPO": "bot",
			},
			expected: false,
		},
		{
			name: "missing repo",
			env: map[string]string{
				"APP_ENV": "production", "GITHUB_TOKEN": "ghp_x", "GITHUB_OWNER": "acme",
			},
			expected: false,
		},
		{
			name: "git store without path",
			env: map[string]string{
				"APP_ENV": "production", "REMOTE_STORE": "git",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			require.NoError(t, err)

			assert.Equal(t, tt.expected, cfg.Storage.UseRemote())
		})
	}
}

func TestServerConfigAddressSuccess(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ServerConfig
		expected string
	}{
		{name: "default", cfg: config.ServerConfig{Host: "0.0.0.0", Port: 8080}, expected: "0.0.0.0:8080"},
		{name: "localhost", cfg: config.ServerConfig{Host: "localhost", Port: 3000}, expected: "localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.Address())
		})
	}
}
