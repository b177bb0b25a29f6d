package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytmix/internal/models"
	"github.com/desertthunder/ytmix/internal/repositories"
	"github.com/desertthunder/ytmix/internal/services"
	"github.com/desertthunder/ytmix/internal/shared"
	"github.com/desertthunder/ytmix/internal/sharing"
	"github.com/desertthunder/ytmix/internal/shortener"
	tu "github.com/desertthunder/ytmix/internal/testing"
	"github.com/urfave/cli/v3"
)

type stubProvider struct {
	name  string
	short string
	err   error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Shorten(ctx context.Context, longURL string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.short, nil
}

type testEnv struct {
	runner *Runner
	store  *repositories.Store
	codec  *sharing.Codec
	output *bytes.Buffer
}

func newTestEnv(t *testing.T, oembedClient *http.Client, providers []shortener.Provider) *testEnv {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	logger := shared.NewLogger(&bytes.Buffer{})
	store := repositories.NewStore(repositories.NewPlaylistRepository(db), logger)
	codec := sharing.NewCodec("https://ytmix.app/")
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Store:  store,
		OEmbed: services.NewOEmbedService(oembedClient),
		Codec:  codec,
		Chain:  shortener.NewChain(providers, logger),
		Logger: logger,
		Output: output,
	})

	return &testEnv{runner: runner, store: store, codec: codec, output: output}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "ytmix", Commands: e.runner.register()}
	return app.Run(context.Background(), append([]string{"ytmix"}, args...))
}

func seedPlaylist(e *testEnv) models.Playlist {
	playlist := models.Playlist{
		services.TrackFromID("dQw4w9WgXcQ", "Never Gonna Give You Up", "Rick Astley"),
		services.TrackFromID("9bZkp7q19f0", "Gangnam Style", "PSY"),
		services.TrackFromID("kJQP7kiw5Fk", "Despacito", "Luis Fonsi"),
	}
	e.store.Save(playlist)
	return playlist
}

func TestNewRunner(t *testing.T) {
	t.Run("with all dependencies provided", func(t *testing.T) {
		config := shared.DefaultConfig()
		logger := shared.NewLogger(nil)
		output := &bytes.Buffer{}

		runner := NewRunner(RunnerOpts{
			Config: config,
			Logger: logger,
			Output: output,
		})

		if runner.config != config {
			t.Error("expected config to be set")
		}
		if runner.logger != logger {
			t.Error("expected logger to be set")
		}
		if runner.output != output {
			t.Error("expected output to be set")
		}
	})

	t.Run("with nil options uses defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil || runner.logger == nil {
			t.Error("expected default config and logger")
		}
		if runner.output != os.Stdout {
			t.Error("expected output to default to os.Stdout")
		}
		if runner.store == nil || runner.oembed == nil || runner.codec == nil || runner.chain == nil {
			t.Error("expected default collaborators")
		}
	})
}

func TestAddCommand(t *testing.T) {
	t.Run("adds a resolved track", func(t *testing.T) {
		rt := tu.NewSeqRoundTripper().
			Add(tu.JSONResponse(http.StatusOK, `{"title":"Never Gonna Give You Up","author_name":"Rick Astley"}`), nil)
		env := newTestEnv(t, &http.Client{Transport: rt}, nil)

		if err := env.run(t, "add", "https://youtu.be/dQw4w9WgXcQ"); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		playlist := env.store.Load()
		if len(playlist) != 1 || playlist[0].ID != "dQw4w9WgXcQ" {
			t.Errorf("stored playlist = %v", playlist)
		}
		if !strings.Contains(env.output.String(), "Rick Astley") {
			t.Errorf("output = %q", env.output.String())
		}
	})

	t.Run("rejects non-links", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		err := env.run(t, "add", "just some words")
		if !errors.Is(err, shared.ErrInvalidLink) {
			t.Errorf("err = %v, want ErrInvalidLink", err)
		}
	})

	t.Run("surfaces lookup failures", func(t *testing.T) {
		rt := tu.NewSeqRoundTripper().
			Add(tu.TextResponse(http.StatusNotFound, "Not Found"), nil)
		env := newTestEnv(t, &http.Client{Transport: rt}, nil)

		if err := env.run(t, "add", "dQw4w9WgXcQ"); err == nil {
			t.Error("expected error for unresolvable video")
		}
		if got := env.store.Load(); len(got) != 0 {
			t.Error("failed lookup must not modify the playlist")
		}
	})
}

func TestListCommand(t *testing.T) {
	t.Run("plain listing", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		seedPlaylist(env)

		if err := env.run(t, "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		out := env.output.String()
		if !strings.Contains(out, " 1. Rick Astley - Never Gonna Give You Up") {
			t.Errorf("output = %q", out)
		}
		if !strings.Contains(out, " 3. Luis Fonsi - Despacito") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("filtered", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		seedPlaylist(env)

		if err := env.run(t, "list", "--query", "psy"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		out := env.output.String()
		if !strings.Contains(out, "Gangnam Style") || strings.Contains(out, "Despacito") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		seedPlaylist(env)

		if err := env.run(t, "list", "--json"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(env.output.String(), `"id": "dQw4w9WgXcQ"`) {
			t.Errorf("output = %q", env.output.String())
		}
	})

	t.Run("empty", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		if err := env.run(t, "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(env.output.String(), "empty") {
			t.Errorf("output = %q", env.output.String())
		}
	})
}

func TestRemoveCommand(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	seedPlaylist(env)

	if err := env.run(t, "remove", "2"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	playlist := env.store.Load()
	if len(playlist) != 2 || playlist[1].ID != "kJQP7kiw5Fk" {
		t.Errorf("playlist after remove = %v", playlist)
	}

	if err := env.run(t, "remove", "9"); err == nil {
		t.Error("expected error for out-of-range position")
	}
	if err := env.run(t, "remove", "zero"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestMoveCommand(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	seedPlaylist(env)

	if err := env.run(t, "move", "3", "1"); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	playlist := env.store.Load()
	if playlist[0].ID != "kJQP7kiw5Fk" || playlist[1].ID != "dQw4w9WgXcQ" {
		t.Errorf("playlist after move = %v", playlist)
	}
}

func TestShuffleCommand(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	seedPlaylist(env)

	if err := env.run(t, "shuffle"); err != nil {
		t.Fatalf("shuffle failed: %v", err)
	}
	if got := env.store.Load(); len(got) != 3 {
		t.Errorf("shuffle changed track count to %d", len(got))
	}

	empty := newTestEnv(t, nil, nil)
	if err := empty.run(t, "shuffle"); !errors.Is(err, shared.ErrEmptyPlaylist) {
		t.Errorf("err = %v, want ErrEmptyPlaylist", err)
	}
}

func TestClearCommand(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	seedPlaylist(env)

	if err := env.run(t, "clear"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if got := env.store.Load(); len(got) != 0 {
		t.Errorf("playlist after clear = %v", got)
	}
}

func TestShareCommand(t *testing.T) {
	t.Run("prints the full link", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		seedPlaylist(env)

		if err := env.run(t, "share"); err != nil {
			t.Fatalf("share failed: %v", err)
		}
		link := strings.TrimSpace(env.output.String())
		if !strings.Contains(link, "#shared=") {
			t.Fatalf("output = %q", link)
		}
		if _, ok := env.codec.Decode(link); !ok {
			t.Error("printed link does not decode")
		}
	})

	t.Run("empty playlist denied", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		if err := env.run(t, "share"); !errors.Is(err, shared.ErrEmptyPlaylist) {
			t.Errorf("err = %v, want ErrEmptyPlaylist", err)
		}
	})

	t.Run("shortened", func(t *testing.T) {
		providers := []shortener.Provider{
			&stubProvider{name: "bitly", err: errors.New("status 403")},
			&stubProvider{name: "tinyurl", short: "https://tinyurl.com/2abcde"},
		}
		env := newTestEnv(t, nil, providers)
		seedPlaylist(env)

		if err := env.run(t, "share", "--shorten"); err != nil {
			t.Fatalf("share failed: %v", err)
		}
		if got := strings.TrimSpace(env.output.String()); got != "https://tinyurl.com/2abcde" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("shortening failure falls back to the full link", func(t *testing.T) {
		providers := []shortener.Provider{
			&stubProvider{name: "tinyurl", err: errors.New("down")},
		}
		env := newTestEnv(t, nil, providers)
		seedPlaylist(env)

		if err := env.run(t, "share", "--shorten"); err != nil {
			t.Fatalf("share failed: %v", err)
		}
		if !strings.Contains(env.output.String(), "#shared=") {
			t.Errorf("output = %q", env.output.String())
		}
	})
}

func TestOpenCommand(t *testing.T) {
	t.Run("imports a shared link", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		link, err := env.codec.Encode(models.Playlist{
			services.TrackFromID("dQw4w9WgXcQ", "Never Gonna Give You Up", "Rick Astley"),
		})
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}

		if err := env.run(t, "open", link); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		playlist := env.store.Load()
		if len(playlist) != 1 || playlist[0].ID != "dQw4w9WgXcQ" {
			t.Errorf("stored playlist = %v", playlist)
		}
	})

	t.Run("rejects plain links", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		seedPlaylist(env)

		err := env.run(t, "open", "https://ytmix.app/")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("err = %v, want ErrInvalidArgument", err)
		}
		// A failed import never clobbers the stored playlist.
		if got := env.store.Load(); len(got) != 3 {
			t.Errorf("playlist after failed open = %d tracks", len(got))
		}
	})
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	seedPlaylist(env)

	path := filepath.Join(t.TempDir(), "playlist.csv")
	if err := env.run(t, "export", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	tu.AssertFileExists(t, path)
	if content := tu.MustReadFile(t, path); !strings.Contains(content, "dQw4w9WgXcQ") {
		t.Errorf("export content = %q", content)
	}
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	env := newTestEnv(t, nil, nil)

	// First run creates the config from the embedded template, then opens
	// the database it names.
	if err := env.run(t, "setup"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	tu.AssertFileExists(t, filepath.Join(dir, "ytmix.db"))
}
