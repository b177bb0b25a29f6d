package repositories

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/shared"
)

// Store is the best-effort persistence facade the player uses. Saves and
// loads never fail the caller: a broken database degrades the app to an
// unsaved playlist, not an error.
type Store struct {
	repo   *PlaylistRepository
	logger *log.Logger
}

// NewStore wraps a PlaylistRepository. A nil logger gets the default.
func NewStore(repo *PlaylistRepository, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{repo: repo, logger: logger}
}

// Save persists the playlist, logging and swallowing any failure.
func (s *Store) Save(playlist models.Playlist) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Replace(playlist); err != nil {
		s.logger.Warn("failed to save playlist", "error", err, "tracks", len(playlist))
	}
}

// Load returns the persisted playlist, or an empty one when nothing is
// stored or the load fails.
func (s *Store) Load() models.Playlist {
	if s.repo == nil {
		return nil
	}
	playlist, err := s.repo.Load()
	if err != nil {
		s.logger.Warn("failed to load playlist", "error", err)
		return nil
	}
	return playlist
}

// Clear drops the persisted playlist, logging and swallowing any failure.
func (s *Store) Clear() {
	if s.repo == nil {
		return
	}
	if err := s.repo.Clear(); err != nil {
		s.logger.Warn("failed to clear playlist", "error", err)
	}
}
