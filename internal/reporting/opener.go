package reporting

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Tiliavir/tlog/internal/config"
)

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct {
	// GOOS overrides runtime.GOOS; empty means the running platform.
	GOOS string
}

// Open implements Opener.
func (b BrowserOpener) Open(ctx context.Context, url string) error {
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args := launcher(goos, url)
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func launcher(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// HTTPOpener requests the URL directly instead of showing it to the user.
type HTTPOpener struct {
	Client *http.Client
}

// Open implements Opener. Any non-2xx response is an error.
func (h *HTTPOpener) Open(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("report request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("report endpoint returned %d: %s", resp.StatusCode, body)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

const requestTimeout = 30 * time.Second

// NewHTTPClient builds the client used in http mode. OAuth2 client
// credentials win over a static token; with neither the client is plain.
// A base *http.Client can be supplied through ctx under oauth2.HTTPClient.
func NewHTTPClient(ctx context.Context, cfg config.ReportConfig) *http.Client {
	var client *http.Client
	switch {
	case cfg.OAuth.Enabled():
		cc := &clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
		}
		client = cc.Client(ctx)
	case cfg.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		client = oauth2.NewClient(ctx, ts)
	default:
		if base, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok {
			return base
		}
		client = &http.Client{}
	}
	client.Timeout = requestTimeout
	return client
}

// NewOpener returns the Opener selected by cfg.Mode.
func NewOpener(ctx context.Context, cfg config.ReportConfig) (Opener, error) {
	switch cfg.Mode {
	case "", config.ReportModeBrowser:
		return BrowserOpener{}, nil
	case config.ReportModeHTTP:
		return &HTTPOpener{Client: NewHTTPClient(ctx, cfg)}, nil
	default:
		return nil, fmt.Errorf("unknown report mode %q (want %q or %q)", cfg.Mode, config.ReportModeBrowser, config.ReportModeHTTP)
	}
}
