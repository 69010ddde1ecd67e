package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	conf, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", conf.AppConfig.LogLevel)
	assert.Equal(t, "ui-probe", conf.AppConfig.ServiceName)
	assert.Equal(t, EngineChromium, conf.BrowserConfig.Engine)
	assert.True(t, conf.BrowserConfig.Headless)
	assert.Equal(t, 30000, conf.BrowserConfig.Timeout)
	assert.Equal(t, time.Duration(0), conf.ProbeConfig.SegmentTimeout)
	assert.Equal(t, time.Second, conf.ProbeConfig.QueryTimeout)
	assert.Equal(t, time.Second, conf.ProbeConfig.PollAttempt)
	assert.Equal(t, time.Second, conf.ProbeConfig.PollInterval)
	assert.Equal(t, StrategyStackScan, conf.ProbeConfig.VisibilityStrategy)
	assert.False(t, conf.ProbeConfig.RetryAllErrors)
}

func TestGetConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BROWSER_ENGINE", "firefox")
	t.Setenv("PROBE_POLL_ATTEMPT", "250ms")
	t.Setenv("PROBE_VISIBILITY_STRATEGY", "containment")
	t.Setenv("PROBE_RETRY_ALL_ERRORS", "true")

	conf, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, EngineFirefox, conf.BrowserConfig.Engine)
	assert.Equal(t, 250*time.Millisecond, conf.ProbeConfig.PollAttempt)
	assert.Equal(t, StrategyContainment, conf.ProbeConfig.VisibilityStrategy)
	assert.True(t, conf.ProbeConfig.RetryAllErrors)
}

func TestGetConfigRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown engine", key: "BROWSER_ENGINE", value: "netscape"},
		{name: "unknown strategy", key: "PROBE_VISIBILITY_STRATEGY", value: "vibes"},
		{name: "negative timeout", key: "PROBE_QUERY_TIMEOUT", value: "-1s"},
		{name: "zero attempt", key: "PROBE_POLL_ATTEMPT", value: "0s"},
		{name: "empty viewport", key: "BROWSER_VIEWPORT_WIDTH", value: "0"},
		{name: "malformed duration", key: "PROBE_POLL_INTERVAL", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := GetConfig()
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
