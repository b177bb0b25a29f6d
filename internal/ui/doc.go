// Package ui implements the interactive terminal player using bubbletea's
// Elm architecture.
//
// The single view shows the playlist with the bound track highlighted, a
// transport line (position, duration, repeat and shuffle state) and
// contextual help via charmbracelet/bubbles/help. The [Model] polls the
// playback session on a frame tick; the session is the single source of
// truth and the view never caches playback state between frames.
//
// Keyboard transport follows common player conventions: space toggles
// play/pause, n/p skip, arrows seek, +/- adjust volume, m mutes, s and r
// toggle shuffle and repeat.
package ui
