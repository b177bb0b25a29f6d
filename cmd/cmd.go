// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and run database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "add",
		Aliases: []string{"a"},
		Usage:   "Add a video to the playlist by link or ID",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "link"},
		},
		Action: r.Add,
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show the playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Filter tracks by title or author",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.List,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Remove the track at a position (1-based)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "position"},
		},
		Action: r.Remove,
	}
}

func moveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "move",
		Usage: "Move a track between positions (1-based)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "from"},
			&cli.StringArg{Name: "to"},
		},
		Action: r.Move,
	}
}

func shuffleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "shuffle",
		Usage:  "Reorder the whole playlist randomly",
		Action: r.Shuffle,
	}
}

func clearCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Remove every track from the playlist",
		Action: r.Clear,
	}
}

func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Encode the playlist into a share link",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "shorten",
				Aliases: []string{"s"},
				Usage:   "Shorten the link through the provider chain",
			},
		},
		Action: r.Share,
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Import a shared playlist link, replacing the local playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "link"},
		},
		Action: r.Open,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the playlist to a file (.csv, .md or plain text)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.Export,
	}
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Open the interactive player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "link",
				Usage: "Play a shared playlist link instead of the local playlist",
			},
		},
		Action: r.Play,
	}
}
