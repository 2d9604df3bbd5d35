package main

import (
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles sign-in and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your HOKAGE session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Display name (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email (prompted when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "google",
				Usage: "Sign in with Google through the browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the sign-in URL instead of opening it",
					},
				},
				Action: r.AuthGoogle,
			},
			{
				Name:   "logout",
				Usage:  "Log out and forget the stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the logged-in account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}

// accountCommand handles password management
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Password management",
		Commands: []*cli.Command{
			{
				Name:   "change-password",
				Usage:  "Change the password of the logged-in account",
				Action: r.AccountChangePassword,
			},
			{
				Name:    "forgot-password",
				Aliases: []string{"reset-password"},
				Usage:   "Reset a forgotten password with an emailed code",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email (prompted when omitted)",
					},
				},
				Action: r.AccountForgotPassword,
			},
		},
	}
}

// catalogCommand handles read-only catalog operations
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"anime"},
		Usage:   "Browse the anime catalog",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List catalog entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Only show entries whose title or description contains this text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "show",
				Usage: "Show one catalog entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CatalogShow,
			},
			{
				Name:  "open",
				Usage: "Open an entry's video in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CatalogOpen,
			},
		},
	}
}

// listsCommand handles favourites and watch-later operations
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lists",
		Aliases: []string{"list"},
		Usage:   "Manage your favourites and watch-later lists",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a saved list (favourites or watch-later)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "list"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ListsShow,
			},
			{
				Name:  "toggle",
				Usage: "Add an entry to a list, or remove it if already present",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "list"},
					&cli.StringArg{Name: "id"},
				},
				Action: r.ListsToggle,
			},
			{
				Name:  "remove",
				Usage: "Remove an entry from a list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "list"},
					&cli.StringArg{Name: "id"},
				},
				Action: r.ListsRemove,
			},
			{
				Name:      "export",
				Usage:     "Export a saved list to a file",
				Arguments: []cli.Argument{&cli.StringArg{Name: "list"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path without extension (default: the list name)",
					},
				},
				Action: r.ListsExport,
			},
		},
	}
}

// settingsCommand handles theme and playback preferences
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Theme and playback preferences",
		Commands: []*cli.Command{
			{
				Name:  "theme",
				Usage: "Show the theme, or toggle it between dark and light",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "toggle",
						Usage: "Switch between dark and light",
					},
				},
				Action: r.SettingsTheme,
			},
			{
				Name:  "prefs",
				Usage: "Show or change playback preferences",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "autoplay",
						Usage: "on or off",
					},
					&cli.StringFlag{
						Name:  "notifications",
						Usage: "on or off",
					},
					&cli.StringFlag{
						Name:  "subtitles",
						Usage: "English, Japanese, Spanish, French or None",
					},
					&cli.StringFlag{
						Name:  "quality",
						Usage: "Auto, 1080p, 720p, 480p or 360p",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SettingsPrefs,
			},
		},
	}
}

// apiCommand handles direct calls to the HOKAGE API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the HOKAGE API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
