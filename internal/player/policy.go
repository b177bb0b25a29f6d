package player

import (
	"math/rand"
	"time"

	"github.com/desertthunder/ytmix/internal/models"
)

// Navigator computes the next and previous playlist index from the repeat
// mode, shuffle flag, current index and playlist length. It keeps no playback
// history; shuffle is a fresh selection on every call.
type Navigator struct {
	rng *rand.Rand
}

// NewNavigator creates a Navigator. A nil source seeds one from the current
// time.
func NewNavigator(rng *rand.Rand) *Navigator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Navigator{rng: rng}
}

// NextIndex returns the index to play after current, or false when playback
// should stop. Shuffle takes precedence over the repeat mode for selection;
// repeat-one is resolved by the session before navigation is consulted.
func (n *Navigator) NextIndex(mode models.RepeatMode, shuffle bool, current, length int) (int, bool) {
	if length == 0 || current < 0 {
		return 0, false
	}

	if shuffle {
		return n.randomOther(current, length), true
	}

	if current+1 < length {
		return current + 1, true
	}
	if mode == models.RepeatAll {
		return 0, true
	}
	return 0, false
}

// PreviousIndex returns the index before current, or false at the start of
// the playlist. There is no wraparound on previous regardless of repeat mode.
func (n *Navigator) PreviousIndex(mode models.RepeatMode, shuffle bool, current, length int) (int, bool) {
	if length == 0 || current <= 0 {
		return 0, false
	}
	return current - 1, true
}

// CanGoNext reports whether NextIndex would produce an index, without
// consuming randomness.
func (n *Navigator) CanGoNext(mode models.RepeatMode, shuffle bool, current, length int) bool {
	if length == 0 || current < 0 {
		return false
	}
	return shuffle || current < length-1 || mode == models.RepeatAll
}

// CanGoPrevious reports whether PreviousIndex would produce an index.
func (n *Navigator) CanGoPrevious(current int) bool {
	return current > 0
}

// randomOther picks a uniformly random index in [0, length) that differs from
// current whenever length > 1.
func (n *Navigator) randomOther(current, length int) int {
	if length == 1 {
		return current
	}
	idx := n.rng.Intn(length - 1)
	if idx >= current {
		idx++
	}
	return idx
}
