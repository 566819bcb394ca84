package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFirstRunWritesTemplate(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested")

	cfg, warning, err := Load(base)
	require.NoError(t, err)
	assert.NoError(t, warning)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(Path(base))
	require.NoError(t, err)
	assert.Contains(t, string(data), "// tlog configuration")

	// The written template must itself load back to the defaults.
	again, warning, err := Load(base)
	require.NoError(t, err)
	assert.NoError(t, warning)
	assert.Equal(t, Default().LogLevel, again.LogLevel)
	assert.Equal(t, Default().WindowDays, again.WindowDays)
	assert.Equal(t, Default().Storage, again.Storage)
	assert.Equal(t, Default().Report.Mode, again.Report.Mode)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	base := t.TempDir()
	content := `// comment
{
  // another
  "storage": {"backend": "sqlite"},
  "report": {"mode": "http", "oauth": {"token_url": "https://id.example/token", "client_id": "me", "scopes": ["log"]}}
}`
	require.NoError(t, os.WriteFile(Path(base), []byte(content), 0o600))

	cfg, warning, err := Load(base)
	require.NoError(t, err)
	assert.NoError(t, warning)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultWindowDays, cfg.WindowDays)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, ReportModeHTTP, cfg.Report.Mode)
	assert.True(t, cfg.Report.OAuth.Enabled())
	assert.Equal(t, []string{"log"}, cfg.Report.OAuth.Scopes)
}

func TestLoadInvalidJSON(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(Path(base), []byte("{not json"), 0o600))

	cfg, _, err := Load(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete the file")
	assert.Equal(t, Default(), cfg)
}

func TestStripLineComments(t *testing.T) {
	in := "  // gone\n{\"a\": \"http://x\"}\n\t// also gone\n"
	assert.Equal(t, "{\"a\": \"http://x\"}\n\n", string(stripLineComments([]byte(in))))
}

func TestOAuthEnabled(t *testing.T) {
	assert.False(t, OAuthConfig{}.Enabled())
	assert.False(t, OAuthConfig{TokenURL: "https://x"}.Enabled())
	assert.True(t, OAuthConfig{TokenURL: "https://x", ClientID: "c"}.Enabled())
}
