package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/shared"
	"golang.org/x/time/rate"
)

const oembedEndpoint = "https://www.youtube.com/oembed"

// videoIDPatterns cover the supported YouTube link shapes. Order matters only
// for readability; all capture the same 11-character identifier.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/live/([a-zA-Z0-9_-]{11})`),
}

// bareVideoID matches an 11-character identifier given without any URL.
var bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video identifier out of a YouTube
// link, or accepts a bare identifier verbatim. The second return value is
// false when the input matches no known shape. Mobile subdomains
// (m.youtube.com) match via the bare youtube.com patterns.
func ExtractVideoID(input string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	if bareVideoID.MatchString(input) {
		return input, true
	}
	return "", false
}

// WatchURL derives the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

// EmbedURL derives the embed URL for a video ID.
func EmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", id)
}

// ThumbnailURL derives the stored thumbnail URL for a video ID. hqdefault is
// published for effectively every video, unlike maxresdefault.
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
}

// ThumbnailFallbacks returns thumbnail variants for a video ID from highest to
// lowest resolution.
func ThumbnailFallbacks(id string) []string {
	variants := []string{"maxresdefault", "hqdefault", "mqdefault", "default"}
	urls := make([]string, len(variants))
	for i, v := range variants {
		urls[i] = fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", id, v)
	}
	return urls
}

// TrackFromID reconstructs a full track record from its lossy shared
// projection using the fixed derivation rules.
func TrackFromID(id, title, author string) models.Track {
	return models.Track{
		ID:           id,
		Title:        title,
		Author:       author,
		ThumbnailURL: ThumbnailURL(id),
		URL:          WatchURL(id),
		EmbedURL:     EmbedURL(id),
	}
}

// OEmbedService fetches display metadata for single videos via the public
// YouTube oEmbed endpoint.
type OEmbedService struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOEmbedService creates an OEmbedService. A nil client falls back to
// [http.DefaultClient]. Lookups are limited to a small steady rate since they
// happen once per added video.
func NewOEmbedService(client *http.Client) *OEmbedService {
	if client == nil {
		client = http.DefaultClient
	}
	return &OEmbedService{
		endpoint:   oembedEndpoint,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
	}
}

// Lookup fetches title and author for a video ID and returns a fully derived
// track record.
func (s *OEmbedService) Lookup(ctx context.Context, id string) (*models.Track, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("url", WatchURL(id))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: oembed status %d for video %s", shared.ErrAPIRequest, resp.StatusCode, id)
	}

	var payload struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	track := TrackFromID(id, payload.Title, payload.AuthorName)
	return &track, nil
}

// ResolveThumbnail returns the highest-resolution thumbnail variant that the
// image host answers for. It never returns an error: when every probe fails
// the lowest-resolution variant is returned so the caller always has a URL to
// render.
func (s *OEmbedService) ResolveThumbnail(ctx context.Context, id string) string {
	fallbacks := ThumbnailFallbacks(id)
	for _, candidate := range fallbacks {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, candidate, nil)
		if err != nil {
			continue
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return candidate
		}
	}
	return fallbacks[len(fallbacks)-1]
}
