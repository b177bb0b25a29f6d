package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/services"
	"github.com/desertthunder/ytmix/internal/shared"
)

// PlaylistRepository persists the ordered playlist in SQLite.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Replace atomically swaps the stored playlist for the given one.
func (r *PlaylistRepository) Replace(playlist models.Playlist) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	query := `
		INSERT INTO tracks (id, position, video_id, title, author)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, track := range playlist {
		if _, err := tx.Exec(query, shared.GenerateID(), i, track.ID, track.Title, track.Author); err != nil {
			return fmt.Errorf("failed to insert track %q: %w", track.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}
	return nil
}

// Load returns the stored playlist in playback order. Derived URLs are
// rebuilt from the video ID rather than stored.
func (r *PlaylistRepository) Load() (models.Playlist, error) {
	query := `
		SELECT video_id, title, author
		FROM tracks
		ORDER BY position ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var playlist models.Playlist
	for rows.Next() {
		var videoID, title, author string
		if err := rows.Scan(&videoID, &title, &author); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		playlist = append(playlist, services.TrackFromID(videoID, title, author))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}

	return playlist, nil
}

// Clear removes every stored track.
func (r *PlaylistRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}
	return nil
}

// Count returns the number of stored tracks.
func (r *PlaylistRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}
