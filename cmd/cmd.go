// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/charsheet/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// sheetsCommand handles character sheet CRUD through the API client
func sheetsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sheets",
		Aliases: []string{"sheet", "s"},
		Usage:   "Character sheet operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all character sheets",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + formatList() + ")",
						Value:   string(formatter.FormatText),
					},
				),
				Action: r.SheetsList,
			},
			{
				Name:      "get",
				Usage:     "Show a single character sheet",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.SheetsGet,
			},
			{
				Name:  "create",
				Usage: "Create a character sheet",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Character name",
					},
					&cli.StringFlag{
						Name:  "class",
						Usage: "Character class",
					},
					&cli.IntFlag{
						Name:  "level",
						Usage: "Character level",
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Free-form notes",
					},
					&cli.StringSliceFlag{
						Name:  "set",
						Usage: "Set a field as field=value (repeatable)",
					},
				),
				Action: r.SheetsCreate,
			},
			{
				Name:      "update",
				Usage:     "Update fields on an existing character sheet",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: append(jsonFlags(),
					&cli.StringSliceFlag{
						Name:     "set",
						Usage:    "Set a field as field=value (repeatable)",
						Required: true,
					},
				),
				Action: r.SheetsUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a character sheet",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.SheetsDelete,
			},
		},
	}
}

// healthCommand checks the configured API server
func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the character sheet API is reachable",
		Flags:  jsonFlags(),
		Action: r.Health,
	}
}

// serveCommand runs the reference REST backend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the character sheet API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (default: server.port)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Storage backend: sqlite, memory or redis (default: server.store)",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Bearer token required on /api (default: server.token)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config file with default values",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// exportCommand writes every character sheet to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all character sheets to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (" + formatList() + "); inferred from --output when omitted",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: character_sheets.{ext})",
			},
		},
		Action: r.Export,
	}
}

// importCommand creates character sheets from a draft file
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create character sheets from a JSON, YAML or CSV file",
		Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent workers",
				Value:   4,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Saves per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the import summary as JSON",
			},
		},
		Action: r.Import,
	}
}

// tuiCommand returns the top-level TUI command for interactive sheet management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for character sheets",
		Action:  r.TUI,
	}
}

func formatList() string {
	names := ""
	for i, f := range formatter.Formats {
		if i > 0 {
			names += ", "
		}
		names += string(f)
	}
	return names
}
