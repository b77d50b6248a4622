// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// libraryCommand handles shelf listing, position sync, and bulk downloads
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse and sync the remote library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List books on the shelf",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output shelf as CSV",
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "toc",
				Usage: "Print a book's table of contents",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, markdown, json)",
						Value:   "text",
					},
				},
				Action: r.LibraryToc,
			},
			{
				Name:  "sync",
				Usage: "Push unsynced local positions and pull the remote shelf",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibrarySync,
			},
			{
				Name:  "download",
				Usage: "Download book payloads for offline reading",
				Arguments: []cli.Argument{
					&cli.StringArgs{
						Name: "ids",
						Max:  -1,
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to store payloads in",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent downloads",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Download every book on the shelf",
					},
				},
				Action: r.LibraryDownload,
			},
		},
	}
}

// readCommand launches the interactive reader
func readCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "read",
		Aliases: []string{"tui"},
		Usage:   "Open the interactive reader",
		Action:  r.Read,
	}
}

// annotationsCommand handles highlight and note operations
func annotationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "annotations",
		Aliases: []string{"ann"},
		Usage:   "Manage highlights and notes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List annotations for a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
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
				Action: r.AnnotationsList,
			},
			{
				Name:  "export",
				Usage: "Export annotations to a file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.AnnotationsExport,
			},
			{
				Name:  "delete",
				Usage: "Delete an annotation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "book",
						Usage:    "Book content ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Annotation ID to delete",
						Required: true,
					},
				},
				Action: r.AnnotationsDelete,
			},
		},
	}
}

// bookmarksCommand handles bookmark operations
func bookmarksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "bookmarks",
		Aliases: []string{"bm"},
		Usage:   "Manage bookmarks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List bookmarks for a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BookmarksList,
			},
			{
				Name:  "add",
				Usage: "Add a bookmark to a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Bookmark label",
					},
					&cli.StringFlag{
						Name:  "section",
						Usage: "Section title the bookmark belongs to",
					},
				},
				Action: r.BookmarksAdd,
			},
			{
				Name:  "delete",
				Usage: "Delete a bookmark",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "book",
						Usage:    "Book content ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Bookmark ID to delete",
						Required: true,
					},
				},
				Action: r.BookmarksDelete,
			},
		},
	}
}

// apiCommand handles direct calls against the content API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the content server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "put",
				Usage: "Direct PUT with JSON body",
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
				Action: r.APIPut,
			},
			{
				Name:  "delete",
				Usage: "Direct DELETE",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.APIDelete,
			},
		},
	}
}

// setupCommand handles setup operations for the local cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
