package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/prmon/internal/webhook"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
service:
  log_level: debug
  log_format: json
monitor:
  host: 127.0.0.1
  max_link_depth: 5
  gh_path: /usr/local/bin/gh
  events:
    - check_run
    - issue_comment
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Service.LogLevel)
	assert.Equal(t, "json", cfg.Service.LogFormat)
	assert.Equal(t, 5, cfg.Monitor.MaxLinkDepth)
	assert.Equal(t, "/usr/local/bin/gh", cfg.Monitor.GHPath)
	assert.Equal(t, []string{"check_run", "issue_comment"}, cfg.Monitor.Events)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
service:
  log_level: warn
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Service.LogLevel)
	assert.Equal(t, "text", cfg.Service.LogFormat)
	assert.Equal(t, "127.0.0.1", cfg.Monitor.Host)
	assert.Equal(t, 3, cfg.Monitor.MaxLinkDepth)
	assert.Equal(t, "gh", cfg.Monitor.GHPath)
	assert.Equal(t, webhook.SubscribedEvents, cfg.Monitor.Events)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "service: [unclosed")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad log level",
			content: "service:\n  log_level: verbose\n",
			wantErr: "service.log_level",
		},
		{
			name:    "bad log format",
			content: "service:\n  log_format: xml\n",
			wantErr: "service.log_format",
		},
		{
			name:    "negative depth",
			content: "monitor:\n  max_link_depth: -1\n",
			wantErr: "monitor.max_link_depth",
		},
		{
			name:    "unknown event type",
			content: "monitor:\n  events:\n    - push\n",
			wantErr: "unsupported event type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadEnvInterpolation(t *testing.T) {
	t.Setenv("PRMON_TEST_GH", "/opt/gh/bin/gh")
	path := writeConfig(t, `
monitor:
  gh_path: ${PRMON_TEST_GH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/gh/bin/gh", cfg.Monitor.GHPath)
}

func TestLoadEnvInterpolationUndefinedLeftAsIs(t *testing.T) {
	path := writeConfig(t, `
monitor:
  gh_path: ${PRMON_TEST_UNDEFINED_VAR}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${PRMON_TEST_UNDEFINED_VAR}", cfg.Monitor.GHPath)
}

func TestFingerprint(t *testing.T) {
	path := writeConfig(t, "service:\n  log_level: info\n")

	first, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte("service:\n  log_level: debug\n"), 0644))
	changed, err := Fingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}
