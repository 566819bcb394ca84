package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for tlog, stored in <data dir>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// WindowDays is how many past days the calendar shows besides today.
	WindowDays int           `json:"window_days"`
	Storage    StorageConfig `json:"storage"`
	Report     ReportConfig  `json:"report"`
}

// StorageConfig selects the event log backend.
type StorageConfig struct {
	// Backend is "json" (single rewritten file) or "sqlite".
	Backend string `json:"backend"`
}

// ReportConfig controls how report URLs are dispatched.
type ReportConfig struct {
	// Mode is "browser" (open the URL) or "http" (request it directly).
	Mode string `json:"mode"`
	// Token is a static bearer token for http mode.
	Token string      `json:"token"`
	OAuth OAuthConfig `json:"oauth"`
}

// OAuthConfig holds OAuth2 client-credentials settings for http mode.
type OAuthConfig struct {
	TokenURL     string   `json:"token_url"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether enough is configured to request tokens.
func (o OAuthConfig) Enabled() bool {
	return o.TokenURL != "" && o.ClientID != ""
}

const (
	DefaultLogLevel   = "warn"
	DefaultWindowDays = 7
	DefaultBackend    = "json"
	ReportModeBrowser = "browser"
	ReportModeHTTP    = "http"
	FileName          = "config.json"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		LogLevel:   DefaultLogLevel,
		WindowDays: DefaultWindowDays,
		Storage:    StorageConfig{Backend: DefaultBackend},
		Report:     ReportConfig{Mode: ReportModeBrowser},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tlog configuration
//
// All settings are optional; the defaults below work out of the box.
{
  // Log verbosity on stderr: debug, info, warn or error.
  "log_level": "warn",

  // Number of past days shown by the calendar in addition to today.
  "window_days": 7,

  "storage": {
    // "json"   – timedb.json, rewritten on every entry (default)
    // "sqlite" – timedb.sqlite
    "backend": "json"
  },

  // ── Reporting ───────────────────────────────────────────────────────────
  // Define the URL template with:  tlog do 'R https://host/log?issue={#}&sec={@sec}&start={@start}'
  "report": {
    // "browser" – open the expanded URL in the default browser (default)
    // "http"    – request the expanded URL directly
    "mode": "browser",

    // Static bearer token sent in http mode.
    "token": "",

    // OAuth2 client-credentials flow for http mode. Used when token_url and
    // client_id are set; takes precedence over "token".
    "oauth": {
      "token_url": "",
      "client_id": "",
      "client_secret": "",
      "scopes": []
    }
  }
}
`

// Path returns the config file location inside base.
func Path(base string) string {
	return filepath.Join(base, FileName)
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. The returned warning is non-nil when the template could not be written;
// the defaults are still usable in that case.
func Load(base string) (cfg Config, warning error, err error) {
	path := Path(base)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			warning = fmt.Errorf("could not create config file %s: %w", path, writeErr)
		}
		return Default(), warning, nil
	}
	if err != nil {
		return Default(), nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return Default(), nil, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	if cfg.Report.Mode == "" {
		cfg.Report.Mode = ReportModeBrowser
	}

	return cfg, nil, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
