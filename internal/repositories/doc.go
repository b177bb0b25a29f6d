// Package repositories implements SQLite persistence for the playlist.
//
// The playlist is stored as a single ordered table; position is the playback
// order and the whole list is replaced atomically on every save. [Store]
// wraps [PlaylistRepository] with the best-effort semantics the player wants:
// persistence failures are logged and swallowed, never surfaced as playback
// errors.
package repositories
