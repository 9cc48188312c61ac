// Package repl runs the interactive studio command loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/aas/internal/command"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/ops"
)

const (
	Banner = "Welcome to ASCII Art Studio!"
	Prompt = "AAS Command Input: "
	Bye    = "Exiting ASCII Art Studio."
)

// REPL reads commands line by line and dispatches them to an ops.Env.
type REPL struct {
	env *ops.Env
	in  io.Reader
	out io.Writer

	// Interactive prints the prompt before each line.
	Interactive bool
}

// New creates a REPL reading from in and writing to out.
func New(env *ops.Env, in io.Reader, out io.Writer) *REPL {
	return &REPL{env: env, in: in, out: out}
}

// Run prints the banner and processes lines until quit, EOF or ctx is done.
// Command errors are printed and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, Banner)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.Interactive {
			fmt.Fprint(r.out, Prompt)
		}
		if !scanner.Scan() {
			if r.Interactive {
				fmt.Fprintln(r.out)
			}
			return scanner.Err()
		}
		if quit := r.Exec(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// Exec runs one input line. Returns true when the line asked to quit.
func (r *REPL) Exec(ctx context.Context, line string) bool {
	cmd, err := command.Parse(line)
	if err != nil {
		r.printError(err)
		return false
	}
	if cmd.Kind == command.KindQuit {
		fmt.Fprintln(r.out, Bye)
		return true
	}
	if err := r.dispatch(ctx, cmd); err != nil {
		r.printError(err)
	}
	return false
}

func (r *REPL) dispatch(ctx context.Context, cmd command.Command) error {
	switch cmd.Kind {
	case command.KindNone:
		return nil
	case command.KindLoadImage:
		out, err := r.env.Load(ops.LoadInput{Path: cmd.Path, Alias: cmd.Alias})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Added: %s\n", out.Key)
	case command.KindLoadSession:
		out, err := r.env.LoadSession(ctx, ops.LoadSessionInput{Name: cmd.Name})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Session loaded from %s (%d images)\n", out.Name, out.ImageCount)
	case command.KindSaveSession:
		out, err := r.env.SaveSession(ctx, ops.SaveSessionInput{Name: cmd.Name})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Session saved as %s\n", out.Name)
	case command.KindInfo:
		fmt.Fprint(r.out, renderInfo(r.env.Info()))
	case command.KindRender:
		out, err := r.env.Render(ops.RenderInput{Key: cmd.Alias})
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, out.Text)
	case command.KindSet:
		out, err := r.env.Set(ops.SetInput{Key: cmd.Alias, Property: string(cmd.Property), Value: cmd.Value})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s of image '%s' set to %s.\n",
			capitalize(string(cmd.Property)), out.Info.Key, cmd.Value)
	case command.KindHelp:
		fmt.Fprint(r.out, HelpText)
	case command.KindSessions:
		out, err := r.env.ListSessions(ctx, ops.ListSessionsInput{Limit: ops.MaxListLimit})
		if err != nil {
			return err
		}
		fmt.Fprint(r.out, renderSessions(out))
	case command.KindExport:
		out, err := r.env.ExportSession(ctx, ops.ExportSessionInput{Path: cmd.Path})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Exported %d images to %s\n", out.ImageCount, out.Path)
	case command.KindImport:
		out, err := r.env.ImportSession(ctx, ops.ImportSessionInput{Path: cmd.Path})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Imported %d images from %s\n", out.ImageCount, cmd.Path)
	case command.KindPNG:
		out, err := r.env.RenderPNG(ops.RenderPNGInput{Key: cmd.Alias, Path: cmd.Path})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Wrote %s (%dx%d)\n", out.Path, out.PixelWidth, out.PixelHeight)
	default:
		return errors.NewInvalidCommand(fmt.Sprintf("unsupported command %s", cmd.Kind))
	}
	return nil
}

// printError reports err. ALREADY_EXISTS is informational.
func (r *REPL) printError(err error) {
	sErr, ok := errors.As(err)
	if !ok {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	switch sErr.Code {
	case errors.ErrAlreadyExists:
		fmt.Fprintf(r.out, "%s\n", sErr.Message)
	case errors.ErrNoCurrentImage:
		fmt.Fprintln(r.out, "No current image selected.")
	default:
		fmt.Fprintf(r.out, "Error: %s\n", sErr.Message)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
