package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmix/internal/formatter"
	"github.com/desertthunder/ytmix/internal/player"
	"github.com/desertthunder/ytmix/internal/repositories"
	"github.com/desertthunder/ytmix/internal/services"
	"github.com/desertthunder/ytmix/internal/shared"
	"github.com/desertthunder/ytmix/internal/sharing"
	"github.com/desertthunder/ytmix/internal/shortener"
	"github.com/desertthunder/ytmix/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	store  *repositories.Store
	oembed *services.OEmbedService
	codec  *sharing.Codec
	chain  *shortener.Chain
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Store  *repositories.Store
	OEmbed *services.OEmbedService
	Codec  *sharing.Codec
	Chain  *shortener.Chain
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = repositories.NewStore(nil, opts.Logger)
	}
	if opts.OEmbed == nil {
		opts.OEmbed = services.NewOEmbedService(nil)
	}
	if opts.Codec == nil {
		opts.Codec = sharing.NewCodec(opts.Config.Sharing.BaseURL)
	}
	if opts.Chain == nil {
		opts.Chain = shortener.NewChain(nil, opts.Logger)
	}

	return &Runner{
		config: opts.Config,
		store:  opts.Store,
		oembed: opts.OEmbed,
		codec:  opts.Codec,
		chain:  opts.Chain,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// SetLogger swaps the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, addCommand, listCommand, removeCommand, moveCommand,
		shuffleCommand, clearCommand, shareCommand, openCommand,
		exportCommand, playCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Setup initializes the configuration file and the database schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}
	if loaded, err := shared.LoadConfig(configPath); err == nil {
		config = loaded
	} else {
		r.logger.Warn("failed to load config, using defaults", "error", err)
	}

	r.logger.Info("initializing database", "path", config.Storage.Path)

	db, err := shared.NewDatabase(config.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return r.writePlain("setup complete: %s\n", config.Storage.Path)
}

// Add resolves a link or ID to a track via oEmbed and appends it.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("link")
	if input == "" {
		return fmt.Errorf("%w: link or video ID", shared.ErrMissingArgument)
	}

	id, ok := services.ExtractVideoID(input)
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrInvalidLink, input)
	}

	track, err := r.oembed.Lookup(ctx, id)
	if err != nil {
		return fmt.Errorf("video %s not found: %w", id, err)
	}

	playlist := r.store.Load()
	playlist.Append(*track)
	r.store.Save(playlist)

	return r.writePlain("added %s - %s (%d tracks)\n", track.Author, track.Title, len(playlist))
}

// List prints the playlist, optionally filtered.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	playlist := r.store.Load().Filter(cmd.String("query"))

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	if len(playlist) == 0 {
		return r.writePlain("playlist is empty\n")
	}
	for i, track := range playlist {
		author := track.Author
		if author == "" {
			author = "Unknown"
		}
		if err := r.writePlain("%2d. %s - %s\n", i+1, author, track.Title); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the track at a 1-based position.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	pos, err := parsePosition(cmd.StringArg("position"))
	if err != nil {
		return err
	}

	playlist := r.store.Load()
	if err := playlist.RemoveAt(pos - 1); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	r.store.Save(playlist)

	return r.writePlain("removed track %d (%d remaining)\n", pos, len(playlist))
}

// Move relocates a track between 1-based positions.
func (r *Runner) Move(ctx context.Context, cmd *cli.Command) error {
	from, err := parsePosition(cmd.StringArg("from"))
	if err != nil {
		return err
	}
	to, err := parsePosition(cmd.StringArg("to"))
	if err != nil {
		return err
	}

	playlist := r.store.Load()
	if err := playlist.Move(from-1, to-1); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	r.store.Save(playlist)

	return r.writePlain("moved track %d to %d\n", from, to)
}

// Shuffle randomly reorders the stored playlist.
func (r *Runner) Shuffle(ctx context.Context, cmd *cli.Command) error {
	playlist := r.store.Load()
	if len(playlist) == 0 {
		return shared.ErrEmptyPlaylist
	}

	playlist.Shuffle(nil)
	r.store.Save(playlist)

	return r.writePlain("shuffled %d tracks\n", len(playlist))
}

// Clear removes every stored track.
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	r.store.Clear()
	return r.writePlain("playlist cleared\n")
}

// Share encodes the playlist into a share link, optionally shortened.
func (r *Runner) Share(ctx context.Context, cmd *cli.Command) error {
	playlist := r.store.Load()

	if check := r.codec.CanShare(playlist); !check.Allowed {
		return check.Reason
	}

	link, err := r.codec.Encode(playlist)
	if err != nil {
		return err
	}

	if cmd.Bool("shorten") {
		result := r.chain.Shorten(ctx, link)
		if result.Success {
			r.logger.Info("link shortened", "provider", result.Provider)
			return r.writePlain("%s\n", result.ShortURL)
		}
		// The full link still works; shortening is best-effort.
		r.logger.Warn("shortening failed, returning full link", "error", result.Err)
	}

	return r.writePlain("%s\n", link)
}

// Open imports a shared playlist link, replacing the local playlist.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	link := cmd.StringArg("link")
	if link == "" {
		return fmt.Errorf("%w: share link", shared.ErrMissingArgument)
	}

	playlist, ok := r.codec.Decode(link)
	if !ok {
		return fmt.Errorf("%w: not a shared playlist link", shared.ErrInvalidArgument)
	}

	r.store.Save(playlist)
	return r.writePlain("imported %d tracks\n", len(playlist))
}

// Export writes the playlist to a file in a format picked by extension.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	playlist := r.store.Load()
	if len(playlist) == 0 {
		return shared.ErrEmptyPlaylist
	}

	if err := formatter.WriteExport(playlist, path); err != nil {
		return err
	}
	return r.writePlain("exported %d tracks to %s\n", len(playlist), path)
}

// Play opens the interactive terminal player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	playlist := r.store.Load()

	// A shared link on the command line takes precedence over the stored
	// playlist and replaces it.
	if link := cmd.String("link"); link != "" {
		decoded, ok := r.codec.Decode(link)
		if !ok {
			return fmt.Errorf("%w: not a shared playlist link", shared.ErrInvalidArgument)
		}
		playlist = decoded
		r.store.Save(playlist)
	}

	if len(playlist) == 0 {
		return shared.ErrEmptyPlaylist
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ytmix-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	session := player.NewSession(
		player.NewHeadlessFactory(0),
		player.NewClockScheduler(0),
		player.NewNavigator(nil),
		fileLogger,
		player.Options{Volume: r.config.Player.Volume, Rate: r.config.Player.Rate},
	)
	session.SetPlaylist(playlist)
	defer session.Teardown()

	model := ui.NewModel(session, r.store)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func parsePosition(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: position", shared.ErrMissingArgument)
	}
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 1 {
		return 0, fmt.Errorf("%w: position %q", shared.ErrInvalidArgument, raw)
	}
	return pos, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
