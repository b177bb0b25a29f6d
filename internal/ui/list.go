package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytmix/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track   models.Track
	playing bool
}

func (i trackItem) FilterValue() string { return i.track.Title }

func (i trackItem) Title() string {
	if i.playing {
		return "▶ " + i.track.Title
	}
	return i.track.Title
}

func (i trackItem) Description() string {
	if i.track.Author == "" {
		return i.track.ID
	}
	return i.track.Author
}
