package models

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Track represents one playable video in a playlist.
//
// ID is the natural key (11-character YouTube video identifier). Duplicate IDs
// are permitted within a playlist. The URL fields are derived from ID and are
// dropped when the playlist is projected for sharing.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	ThumbnailURL string `json:"thumbnail"`
	URL          string `json:"url"`
	EmbedURL     string `json:"embedUrl"`
}

// Playlist is an ordered sequence of tracks. Insertion order is playback and
// display order.
type Playlist []Track

// Append adds a track to the end of the playlist.
func (p *Playlist) Append(t Track) {
	*p = append(*p, t)
}

// RemoveAt removes the track at index i. Returns an error if i is out of range.
func (p *Playlist) RemoveAt(i int) error {
	if i < 0 || i >= len(*p) {
		return fmt.Errorf("index %d out of range (playlist has %d tracks)", i, len(*p))
	}
	*p = append((*p)[:i], (*p)[i+1:]...)
	return nil
}

// Move relocates the track at index from to index to, shifting tracks between
// them. Returns an error if either index is out of range.
func (p *Playlist) Move(from, to int) error {
	n := len(*p)
	if from < 0 || from >= n {
		return fmt.Errorf("source index %d out of range (playlist has %d tracks)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("destination index %d out of range (playlist has %d tracks)", to, n)
	}
	if from == to {
		return nil
	}
	t := (*p)[from]
	*p = append((*p)[:from], (*p)[from+1:]...)
	rest := append([]Track{t}, (*p)[to:]...)
	*p = append((*p)[:to], rest...)
	return nil
}

// Shuffle reorders the whole playlist in place using the provided source. A
// nil source is seeded from the current time. This is a library reorder,
// distinct from shuffle playback mode.
func (p Playlist) Shuffle(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(p), func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})
}

// Filter returns the tracks whose title or author contains the query,
// case-insensitively, preserving order. An empty query returns the playlist
// unchanged.
func (p Playlist) Filter(query string) Playlist {
	if query == "" {
		return p
	}
	matched := make(Playlist, 0, len(p))
	for _, t := range p {
		if containsFold(t.Title, query) || containsFold(t.Author, query) {
			matched = append(matched, t)
		}
	}
	return matched
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// RepeatMode controls what happens when the playing track ends.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota // stop after the last track
	RepeatAll                   // wrap to the first track after the last
	RepeatOne                   // replay the current track
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// ParseRepeatMode converts a mode name to a RepeatMode.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch s {
	case "off":
		return RepeatOff, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	default:
		return RepeatOff, fmt.Errorf("unknown repeat mode %q", s)
	}
}

// Cycle returns the next mode in the off → all → one → off rotation.
func (m RepeatMode) Cycle() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// SharedTrack is the lossy per-track projection embedded in share links.
type SharedTrack struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// SharedPlaylist is the versioned payload serialized into a share link
// fragment. Created is a unix millisecond timestamp.
type SharedPlaylist struct {
	Videos  []SharedTrack `json:"videos"`
	Created int64         `json:"created"`
	Version int           `json:"version"`
}
