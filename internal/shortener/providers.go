package shortener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

const (
	bitlyEndpoint   = "https://api-ssl.bitly.com/v4/shorten"
	tinyURLEndpoint = "https://tinyurl.com/api-create.php"
	isGdEndpoint    = "https://is.gd/create.php"
)

// Bitly shortens links through the authenticated Bitly v4 API. It sits first
// in the chain when an access token is configured.
type Bitly struct {
	endpoint   string
	httpClient *http.Client
}

// NewBitly creates a Bitly provider. The bearer token is carried by an
// [oauth2] static token source so every request is authenticated uniformly.
// An optional base client supplies transport overrides for testing.
func NewBitly(token string, base *http.Client) *Bitly {
	ctx := context.Background()
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return &Bitly{endpoint: bitlyEndpoint, httpClient: client}
}

func (b *Bitly) Name() string { return "bitly" }

func (b *Bitly) Shorten(ctx context.Context, longURL string) (string, error) {
	body := strings.NewReader(fmt.Sprintf(`{"long_url":%q,"domain":"bit.ly"}`, longURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return "", fmt.Errorf("bitly API error (status %d): %s", resp.StatusCode, errResp.Message)
		}
		return "", fmt.Errorf("bitly API error: status %d", resp.StatusCode)
	}

	var payload struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Link == "" {
		return "", fmt.Errorf("bitly returned an empty link")
	}
	return payload.Link, nil
}

// TinyURL shortens links through the free, unauthenticated TinyURL API.
type TinyURL struct {
	endpoint   string
	httpClient *http.Client
}

// NewTinyURL creates a TinyURL provider. A nil client falls back to
// [http.DefaultClient].
func NewTinyURL(client *http.Client) *TinyURL {
	if client == nil {
		client = http.DefaultClient
	}
	return &TinyURL{endpoint: tinyURLEndpoint, httpClient: client}
}

func (t *TinyURL) Name() string { return "tinyurl" }

func (t *TinyURL) Shorten(ctx context.Context, longURL string) (string, error) {
	target := fmt.Sprintf("%s?url=%s", t.endpoint, url.QueryEscape(longURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tinyurl error: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	// TinyURL reports failures in the body with a 200 status.
	short := strings.TrimSpace(string(raw))
	if strings.HasPrefix(short, "Error") || !strings.Contains(short, "tinyurl.com") {
		return "", fmt.Errorf("tinyurl rejected the URL")
	}
	return short, nil
}

// IsGd shortens links through the free, unauthenticated is.gd API.
type IsGd struct {
	endpoint   string
	httpClient *http.Client
}

// NewIsGd creates an IsGd provider. A nil client falls back to
// [http.DefaultClient].
func NewIsGd(client *http.Client) *IsGd {
	if client == nil {
		client = http.DefaultClient
	}
	return &IsGd{endpoint: isGdEndpoint, httpClient: client}
}

func (g *IsGd) Name() string { return "is.gd" }

func (g *IsGd) Shorten(ctx context.Context, longURL string) (string, error) {
	form := strings.NewReader("format=simple&url=" + url.QueryEscape(longURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, form)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("is.gd error: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	short := strings.TrimSpace(string(raw))
	if strings.Contains(short, "Error") || !strings.Contains(short, "is.gd") {
		return "", fmt.Errorf("is.gd rejected the URL")
	}
	return short, nil
}
