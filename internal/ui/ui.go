package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/player"
	"github.com/desertthunder/ytmix/internal/repositories"
	"github.com/desertthunder/ytmix/internal/shared"
)

// frameInterval is the UI refresh cadence. The session is polled once per
// frame; playback state never lives in the model between frames.
const frameInterval = 250 * time.Millisecond

const seekStep = 5.0

type frameMsg time.Time

// Model represents the player TUI state.
type Model struct {
	session *player.Session
	store   *repositories.Store

	trackList list.Model
	help      help.Model
	keys      keyMap

	width     int
	height    int
	lastIndex int
}

// NewModel creates a player TUI over the given session. The store receives
// the playlist on every mutation and on quit; it may be backed by a nil
// repository when persistence is disabled.
func NewModel(session *player.Session, store *repositories.Store) *Model {
	m := &Model{
		session:   session,
		store:     store,
		help:      help.New(),
		keys:      newKeyMap(),
		lastIndex: -1,
	}

	m.trackList = list.New(m.buildItems(), list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = "ytmix"
	m.trackList.SetShowHelp(false)
	m.trackList.SetShowStatusBar(false)
	return m
}

// Init starts the frame tick.
func (m *Model) Init() tea.Cmd {
	return m.frame()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case frameMsg:
		if idx := m.session.Snapshot().CurrentIndex; idx != m.lastIndex {
			m.lastIndex = idx
			m.trackList.SetItems(m.buildItems())
		}
		return m, m.frame()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

// View renders the playlist, the transport line and contextual help.
func (m *Model) View() string {
	return fmt.Sprintf("%s\n%s\n\n%s",
		m.trackList.View(),
		m.transportLine(),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list's filter input swallow keys while it is active.
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.store.Save(m.session.Playlist())
		m.session.Teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.play):
		if idx := m.trackList.Index(); idx >= 0 {
			if err := m.session.PlayAt(idx); err == nil {
				m.lastIndex = idx
				m.trackList.SetItems(m.buildItems())
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.toggle):
		m.session.SetPlaying(!m.session.Snapshot().IsPlaying)
		return m, nil

	case key.Matches(msg, m.keys.next):
		m.session.Next()
		return m, nil

	case key.Matches(msg, m.keys.previous):
		m.session.Previous()
		return m, nil

	case key.Matches(msg, m.keys.seekBack):
		snap := m.session.Snapshot()
		m.session.Seek(snap.CurrentTime - seekStep)
		return m, nil

	case key.Matches(msg, m.keys.seekFwd):
		snap := m.session.Snapshot()
		target := snap.CurrentTime + seekStep
		if snap.Duration > 0 && target > snap.Duration {
			target = snap.Duration
		}
		m.session.Seek(target)
		return m, nil

	case key.Matches(msg, m.keys.volUp):
		m.session.SetVolume(m.session.Snapshot().Volume + 5)
		return m, nil

	case key.Matches(msg, m.keys.volDown):
		m.session.SetVolume(m.session.Snapshot().Volume - 5)
		return m, nil

	case key.Matches(msg, m.keys.mute):
		m.session.ToggleMute()
		return m, nil

	case key.Matches(msg, m.keys.shuffle):
		m.session.SetShuffle(!m.session.Snapshot().Shuffle)
		return m, nil

	case key.Matches(msg, m.keys.repeat):
		m.session.CycleRepeatMode()
		return m, nil

	case key.Matches(msg, m.keys.remove):
		if idx := m.trackList.Index(); idx >= 0 {
			if err := m.session.RemoveAt(idx); err == nil {
				m.lastIndex = m.session.Snapshot().CurrentIndex
				m.trackList.SetItems(m.buildItems())
				m.store.Save(m.session.Playlist())
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) buildItems() []list.Item {
	playlist := m.session.Playlist()
	current := m.session.Snapshot().CurrentIndex

	items := make([]list.Item, len(playlist))
	for i, track := range playlist {
		items[i] = trackItem{track: track, playing: i == current}
	}
	return items
}

// transportLine renders the one-line playback status under the list.
func (m *Model) transportLine() string {
	snap := m.session.Snapshot()
	if snap.Track == nil {
		return styles.help.Render("nothing playing")
	}

	state := "⏸"
	if snap.IsPlaying {
		state = "▶"
	}

	var flags []string
	if snap.Shuffle {
		flags = append(flags, "shuffle")
	}
	if snap.RepeatMode != models.RepeatOff {
		flags = append(flags, "repeat "+snap.RepeatMode.String())
	}
	if snap.Muted {
		flags = append(flags, "muted")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = "  " + styles.warn.Render("["+strings.Join(flags, ", ")+"]")
	}

	return fmt.Sprintf("%s %s  %s / %s  vol %d%%%s",
		state,
		styles.ok.Render(snap.Track.Title),
		shared.FormatTimestamp(snap.CurrentTime),
		shared.FormatTimestamp(snap.Duration),
		snap.Volume,
		suffix,
	)
}
