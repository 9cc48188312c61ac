package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/mcp"
	"github.com/hpungsan/aas/internal/ops"
	"github.com/hpungsan/aas/internal/web"
)

// stdout is where command output goes; tests swap it.
var stdout io.Writer = os.Stdout

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "aas",
		Usage:   "ASCII Art Studio: turn images into ASCII art",
		Version: Version,
		Commands: []*cli.Command{
			replCmd(env),
			convertCmd(env),
			sessionsCmd(env),
			deleteSessionCmd(env),
			exportCmd(env),
			importCmd(env),
			serveCmd(env),
			mcpCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// replCmd creates the repl command.
func replCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start the interactive studio",
		Action: func(c *cli.Context) error {
			if err := runREPL(env); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// convertCmd creates the convert command.
func convertCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Render one image as ASCII art",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: "Target width in characters"},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "Target height in characters"},
			&cli.Float64Flag{Name: "brightness", Aliases: []string{"b"}, Usage: "Brightness factor (1.0 unchanged)"},
			&cli.Float64Flag{Name: "contrast", Aliases: []string{"c"}, Usage: "Contrast factor (1.0 unchanged)"},
			&cli.StringFlag{Name: "png", Usage: "Also write a PNG preview to this path"},
			&cli.BoolFlag{Name: "json", Usage: "Print the render result as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidParameter("convert requires exactly one image path"))
			}

			loaded, err := env.Load(ops.LoadInput{
				Path:   c.Args().First(),
				Width:  c.Int("width"),
				Height: c.Int("height"),
			})
			if err != nil {
				return outputError(err)
			}

			for _, prop := range []string{"brightness", "contrast"} {
				if !c.IsSet(prop) {
					continue
				}
				_, err := env.Set(ops.SetInput{
					Key:      loaded.Key,
					Property: prop,
					Value:    strconv.FormatFloat(c.Float64(prop), 'f', -1, 64),
				})
				if err != nil {
					return outputError(err)
				}
			}

			if path := c.String("png"); path != "" {
				if _, err := env.RenderPNG(ops.RenderPNGInput{Key: loaded.Key, Path: path}); err != nil {
					return outputError(err)
				}
			}

			out, err := env.Render(ops.RenderInput{Key: loaded.Key})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(out)
			}
			_, err = fmt.Fprintln(stdout, out.Text)
			return err
		},
	}
}

// sessionsCmd creates the sessions command.
func sessionsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "List saved sessions",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max items"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.ListSessions(c.Context, ops.ListSessionsInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteSessionCmd creates the delete-session command.
func deleteSessionCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "delete-session",
		Usage:     "Delete a saved session",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidParameter("delete-session requires a session name"))
			}
			output, err := env.DeleteSession(c.Context, ops.DeleteSessionInput{Name: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a saved session to a .jsonl file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Session name"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (default ~/.aas/exports/<name>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.ExportSession(c.Context, ops.ExportSessionInput{
				Name: c.String("name"),
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a .jsonl session file and save it",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "save-as", Aliases: []string{"s"}, Required: true, Usage: "Name to save the imported session under"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidParameter("import requires a file path"))
			}
			output, err := env.ImportSession(c.Context, ops.ImportSessionInput{
				Path:   c.Args().First(),
				SaveAs: c.String("save-as"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web UI for saved sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(env, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(c.Context, srv, env.Logger)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve studio tools over MCP stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(env, Version)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
