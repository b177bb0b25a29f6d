package models

import (
	"math/rand"
	"testing"
)

func fixture() Playlist {
	return Playlist{
		{ID: "aaaaaaaaaaa", Title: "First Song", Author: "Alpha"},
		{ID: "bbbbbbbbbbb", Title: "Second Song", Author: "Beta"},
		{ID: "ccccccccccc", Title: "Third Song", Author: "Gamma"},
	}
}

func TestPlaylistMutation(t *testing.T) {
	t.Run("Append", func(t *testing.T) {
		p := fixture()
		p.Append(Track{ID: "ddddddddddd", Title: "Fourth"})
		if len(p) != 4 || p[3].ID != "ddddddddddd" {
			t.Errorf("playlist = %v", p)
		}
	})

	t.Run("RemoveAt", func(t *testing.T) {
		p := fixture()
		if err := p.RemoveAt(1); err != nil {
			t.Fatalf("RemoveAt failed: %v", err)
		}
		if len(p) != 2 || p[1].ID != "ccccccccccc" {
			t.Errorf("playlist = %v", p)
		}
		if err := p.RemoveAt(5); err == nil {
			t.Error("expected error for out-of-range index")
		}
		if err := p.RemoveAt(-1); err == nil {
			t.Error("expected error for negative index")
		}
	})

	t.Run("MoveForward", func(t *testing.T) {
		p := fixture()
		if err := p.Move(0, 2); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		want := []string{"bbbbbbbbbbb", "ccccccccccc", "aaaaaaaaaaa"}
		for i, id := range want {
			if p[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, p[i].ID, id)
			}
		}
	})

	t.Run("MoveBackward", func(t *testing.T) {
		p := fixture()
		if err := p.Move(2, 0); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		want := []string{"ccccccccccc", "aaaaaaaaaaa", "bbbbbbbbbbb"}
		for i, id := range want {
			if p[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, p[i].ID, id)
			}
		}
	})

	t.Run("MoveNoop", func(t *testing.T) {
		p := fixture()
		if err := p.Move(1, 1); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if p[1].ID != "bbbbbbbbbbb" {
			t.Error("same-index move should not change anything")
		}
	})

	t.Run("MoveOutOfRange", func(t *testing.T) {
		p := fixture()
		if err := p.Move(0, 9); err == nil {
			t.Error("expected error for out-of-range destination")
		}
		if err := p.Move(-1, 0); err == nil {
			t.Error("expected error for negative source")
		}
	})
}

func TestPlaylistShuffle(t *testing.T) {
	p := fixture()
	seen := map[string]bool{}
	p.Shuffle(rand.New(rand.NewSource(3)))

	if len(p) != 3 {
		t.Fatalf("shuffle changed length to %d", len(p))
	}
	for _, track := range p {
		seen[track.ID] = true
	}
	if len(seen) != 3 {
		t.Error("shuffle lost or duplicated tracks")
	}
}

func TestPlaylistFilter(t *testing.T) {
	p := fixture()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty query returns all", "", 3},
		{"title match", "second", 1},
		{"author match", "GAMMA", 1},
		{"partial match", "Song", 3},
		{"no match", "zebra", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Filter(tc.query); len(got) != tc.want {
				t.Errorf("Filter(%q) returned %d tracks, want %d", tc.query, len(got), tc.want)
			}
		})
	}
}

func TestRepeatMode(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		if RepeatOff.String() != "off" || RepeatAll.String() != "all" || RepeatOne.String() != "one" {
			t.Error("repeat mode names wrong")
		}
	})

	t.Run("Parse", func(t *testing.T) {
		for _, name := range []string{"off", "all", "one"} {
			mode, err := ParseRepeatMode(name)
			if err != nil {
				t.Fatalf("ParseRepeatMode(%q) failed: %v", name, err)
			}
			if mode.String() != name {
				t.Errorf("round trip %q -> %s", name, mode)
			}
		}
		if _, err := ParseRepeatMode("sometimes"); err == nil {
			t.Error("expected error for unknown mode")
		}
	})

	t.Run("Cycle", func(t *testing.T) {
		if RepeatOff.Cycle() != RepeatAll || RepeatAll.Cycle() != RepeatOne || RepeatOne.Cycle() != RepeatOff {
			t.Error("cycle order wrong")
		}
	})
}
