// Package models defines the domain entities for the ytmix playlist player.
//
// The package contains two categories of types:
//
// 1. Playback entities:
//   - [Track] : One playable unit, keyed by an 11-character YouTube video ID
//   - [Playlist] : Ordered track sequence with position-based mutation helpers
//   - [RepeatMode] : Playback repeat semantics (off, all, one)
//
// 2. Sharing projections:
//   - [SharedPlaylist] : Versioned, lossy projection of a playlist for link encoding
//   - [SharedTrack] : The id/title/author triple that survives the projection
//
// Tracks are immutable once added. The thumbnail, watch and embed URLs are
// derived deterministically from the video ID and are regenerated on decode
// rather than carried in shared form.
package models
