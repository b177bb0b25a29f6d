package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	helpers "github.com/desertthunder/ytmix/internal/testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short URL with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"legacy v URL", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch URL with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"live URL", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"mobile URL", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"bare ID", "dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"not a link", "just some words", "", false},
		{"other site", "https://vimeo.com/123456", "", false},
		{"short ID", "https://youtu.be/abc", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Errorf("id = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDerivedURLs(t *testing.T) {
	const id = "dQw4w9WgXcQ"

	if got := WatchURL(id); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("WatchURL = %s", got)
	}
	if got := EmbedURL(id); got != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("EmbedURL = %s", got)
	}
	if got := ThumbnailURL(id); got != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Errorf("ThumbnailURL = %s", got)
	}

	fallbacks := ThumbnailFallbacks(id)
	if len(fallbacks) != 4 {
		t.Fatalf("expected 4 fallbacks, got %d", len(fallbacks))
	}
	if !strings.Contains(fallbacks[0], "maxresdefault") || !strings.Contains(fallbacks[3], "/default.jpg") {
		t.Errorf("fallback order wrong: %v", fallbacks)
	}
}

func TestTrackFromID(t *testing.T) {
	track := TrackFromID("dQw4w9WgXcQ", "Never Gonna Give You Up", "Rick Astley")

	if track.ID != "dQw4w9WgXcQ" || track.Title != "Never Gonna Give You Up" {
		t.Errorf("track = %+v", track)
	}
	if track.URL == "" || track.EmbedURL == "" || track.ThumbnailURL == "" {
		t.Error("derived URLs should all be populated")
	}
}

func TestOEmbedLookup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		rt := helpers.NewSeqRoundTripper().
			Add(helpers.JSONResponse(http.StatusOK, `{"title":"Never Gonna Give You Up","author_name":"Rick Astley"}`), nil)
		svc := NewOEmbedService(&http.Client{Transport: rt})

		track, err := svc.Lookup(context.Background(), "dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if track.Title != "Never Gonna Give You Up" || track.Author != "Rick Astley" {
			t.Errorf("track = %+v", track)
		}

		req := rt.Requests[0]
		q := req.URL.Query()
		if q.Get("format") != "json" {
			t.Errorf("format param = %s", q.Get("format"))
		}
		if !strings.Contains(q.Get("url"), "dQw4w9WgXcQ") {
			t.Errorf("url param = %s", q.Get("url"))
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		rt := helpers.NewSeqRoundTripper().
			Add(helpers.TextResponse(http.StatusNotFound, "Not Found"), nil)
		svc := NewOEmbedService(&http.Client{Transport: rt})

		if _, err := svc.Lookup(context.Background(), "aaaaaaaaaaa"); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		rt := helpers.NewSeqRoundTripper().
			Add(helpers.JSONResponse(http.StatusOK, "not json"), nil)
		svc := NewOEmbedService(&http.Client{Transport: rt})

		if _, err := svc.Lookup(context.Background(), "dQw4w9WgXcQ"); err == nil {
			t.Error("expected error for malformed body")
		}
	})
}

func TestResolveThumbnail(t *testing.T) {
	t.Run("FirstVariantWins", func(t *testing.T) {
		rt := helpers.NewSeqRoundTripper().
			Add(helpers.TextResponse(http.StatusOK, ""), nil)
		svc := NewOEmbedService(&http.Client{Transport: rt})

		got := svc.ResolveThumbnail(context.Background(), "dQw4w9WgXcQ")
		if !strings.Contains(got, "maxresdefault") {
			t.Errorf("expected maxres variant, got %s", got)
		}
	})

	t.Run("FallsThrough", func(t *testing.T) {
		rt := helpers.NewSeqRoundTripper().
			Add(helpers.TextResponse(http.StatusNotFound, ""), nil).
			Add(helpers.TextResponse(http.StatusOK, ""), nil)
		svc := NewOEmbedService(&http.Client{Transport: rt})

		got := svc.ResolveThumbnail(context.Background(), "dQw4w9WgXcQ")
		if !strings.Contains(got, "hqdefault") {
			t.Errorf("expected hq variant, got %s", got)
		}
	})

	t.Run("AllProbesFail", func(t *testing.T) {
		rt := helpers.NewSeqRoundTripper().
			Add(helpers.TextResponse(http.StatusNotFound, ""), nil)
		svc := NewOEmbedService(&http.Client{Transport: rt})

		// Every probe 404s; the lowest-resolution variant still comes back.
		got := svc.ResolveThumbnail(context.Background(), "dQw4w9WgXcQ")
		if !strings.HasSuffix(got, "/default.jpg") {
			t.Errorf("expected default variant, got %s", got)
		}
	})
}
