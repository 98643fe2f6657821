package flags

import (
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/openshift/videa/pkg/events"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected logger.LogLevel
		wantErr  bool
	}{
		{value: "info", expected: logger.Info},
		{value: "warn", expected: logger.Warn},
		{value: "error", expected: logger.Error},
		{value: "silent", expected: logger.Silent},
		{value: "debug", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			f := NewPostgresDatabaseFlags()
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f.BindFlags(fs)

			err := fs.Parse([]string{"--db-log-level", tc.value})
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, logger.LogLevel(f.LogLevel))
			assert.Equal(t, tc.value, f.LogLevel.String())
		})
	}
}

func TestDatabaseDSNFromEnvironment(t *testing.T) {
	t.Setenv("VIDEA_DATABASE_DSN", "postgresql://videa@db:5432/videa")
	assert.Equal(t, "postgresql://videa@db:5432/videa", NewPostgresDatabaseFlags().DSN)

	t.Setenv("VIDEA_DATABASE_DSN", "")
	assert.Equal(t, defaultDSN, NewPostgresDatabaseFlags().DSN)
}

func TestAIFlags(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		provider string
		enabled  bool
	}{
		{
			name: "openai without endpoint or key",
		},
		{
			name:     "openai compatible endpoint",
			args:     []string{"--ai-endpoint", "http://localhost:8000/v1", "--ai-model", "llama"},
			provider: "openai",
			enabled:  true,
		},
		{
			name: "anthropic without key",
			args: []string{"--ai-provider", "anthropic"},
		},
		{
			name: "disabled",
			args: []string{"--ai-provider", "none", "--ai-endpoint", "http://localhost:8000/v1"},
		},
		{
			name:    "unknown provider",
			args:    []string{"--ai-provider", "watson"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewAIFlags()
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f.BindFlags(fs)
			require.NoError(t, fs.Parse(tc.args))

			completer, err := f.GetCompleter(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if !tc.enabled {
				assert.Nil(t, completer)
				return
			}
			require.NotNil(t, completer)
			assert.Equal(t, tc.provider, completer.Name())
		})
	}
}

func TestAIModelDefaults(t *testing.T) {
	f := &AIFlags{Provider: ProviderAnthropic}
	assert.Equal(t, defaultModels[ProviderAnthropic], f.model())
	f.Model = "custom"
	assert.Equal(t, "custom", f.model())
}

func TestEventFlagsWithoutBroker(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	f := NewEventFlags()
	f.BindFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))

	publisher, err := f.GetPublisher()
	require.NoError(t, err)
	assert.Equal(t, events.Noop{}, publisher)
	assert.Equal(t, events.DefaultExchange, f.Exchange)
}

func TestCacheFlagsWithoutRedis(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	f := NewCacheFlags()
	f.BindFlags(pflag.NewFlagSet("test", pflag.ContinueOnError))

	c, err := f.GetCacheClient()
	require.NoError(t, err)
	assert.Nil(t, c)
}
