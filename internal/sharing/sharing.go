// Package sharing implements the playlist share link codec.
//
// A playlist is projected down to id/title/author per track, wrapped in a
// versioned [models.SharedPlaylist], serialized to JSON, percent-escaped and
// base64url-encoded into a URL fragment of the form
//
//	<base>#shared=<token>
//
// Decoding is forgiving: an absent, malformed or unknown-version fragment
// yields no playlist rather than an error, so future token versions degrade
// silently on old clients. Derived URLs are regenerated from each video ID on
// decode.
package sharing

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/services"
	"github.com/desertthunder/ytmix/internal/shared"
)

const (
	// TokenVersion is the share token format written by this encoder.
	TokenVersion = 1

	// MaxShareTracks is the hard per-link track ceiling.
	MaxShareTracks = 50

	// MaxLinkLength is the practical link-length ceiling across browsers and
	// chat platforms.
	MaxLinkLength = 8000

	fragmentPrefix = "#shared="
)

var fragmentPattern = regexp.MustCompile(`#shared=(.+)`)

// Codec encodes and decodes share links against a fixed base URL.
type Codec struct {
	BaseURL string
}

// NewCodec creates a Codec for the given base URL (origin plus path).
func NewCodec(baseURL string) *Codec {
	return &Codec{BaseURL: baseURL}
}

// ShareCheck reports whether a playlist can be shared and, when it cannot, why.
type ShareCheck struct {
	Allowed bool
	Reason  error
}

// Encode serializes a playlist into a complete share link. Fails with
// [shared.ErrTooManyTracks] above [MaxShareTracks] and with
// [shared.ErrEncodingFailure] if serialization cannot complete.
func (c *Codec) Encode(playlist models.Playlist) (string, error) {
	if len(playlist) > MaxShareTracks {
		return "", fmt.Errorf("%w: %d tracks", shared.ErrTooManyTracks, len(playlist))
	}

	token, err := c.encodeToken(playlist, time.Now().UnixMilli())
	if err != nil {
		return "", err
	}

	return c.BaseURL + fragmentPrefix + token, nil
}

func (c *Codec) encodeToken(playlist models.Playlist, created int64) (string, error) {
	payload := models.SharedPlaylist{
		Videos:  make([]models.SharedTrack, len(playlist)),
		Created: created,
		Version: TokenVersion,
	}
	for i, t := range playlist {
		payload.Videos[i] = models.SharedTrack{ID: t.ID, Title: t.Title, Author: t.Author}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrEncodingFailure, err)
	}

	escaped := url.QueryEscape(string(raw))
	return base64.URLEncoding.EncodeToString([]byte(escaped)), nil
}

// Decode reconstructs a playlist from a share link or bare fragment. The
// second return value is false when the fragment is absent, malformed or a
// version this decoder does not understand.
func (c *Codec) Decode(input string) (models.Playlist, bool) {
	m := fragmentPattern.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}

	escaped, err := base64.URLEncoding.DecodeString(m[1])
	if err != nil {
		return nil, false
	}

	raw, err := url.QueryUnescape(string(escaped))
	if err != nil {
		return nil, false
	}

	var payload models.SharedPlaylist
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}

	if payload.Version != TokenVersion {
		return nil, false
	}

	playlist := make(models.Playlist, len(payload.Videos))
	for i, v := range payload.Videos {
		playlist[i] = services.TrackFromID(v.ID, v.Title, v.Author)
	}
	return playlist, true
}

// EstimateEncodedLength returns the length of the share link Encode would
// produce for the playlist, for pre-flight UI feedback. Playlists that cannot
// be serialized report an impossible length so CanShare denies them.
func (c *Codec) EstimateEncodedLength(playlist models.Playlist) int {
	token, err := c.encodeToken(playlist, time.Now().UnixMilli())
	if err != nil {
		return MaxLinkLength + 1
	}
	return len(c.BaseURL) + len(fragmentPrefix) + len(token)
}

// CanShare reports whether the playlist fits within the sharing limits. Both
// ceilings are hard; callers must not attempt Encode when denied.
func (c *Codec) CanShare(playlist models.Playlist) ShareCheck {
	if len(playlist) == 0 {
		return ShareCheck{Allowed: false, Reason: shared.ErrEmptyPlaylist}
	}
	if len(playlist) > MaxShareTracks {
		return ShareCheck{Allowed: false, Reason: shared.ErrTooManyTracks}
	}
	if c.EstimateEncodedLength(playlist) > MaxLinkLength {
		return ShareCheck{Allowed: false, Reason: shared.ErrLinkTooLong}
	}
	return ShareCheck{Allowed: true}
}

// StripFragment removes a share fragment from a link, for display after a
// shared playlist has been imported.
func StripFragment(link string) string {
	if i := strings.Index(link, "#"); i >= 0 {
		return link[:i]
	}
	return link
}
