// Package command parses REPL input lines into typed commands.
package command

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/studio"
)

// Kind identifies a parsed command.
type Kind int

const (
	KindNone Kind = iota // blank line
	KindLoadImage
	KindLoadSession
	KindSaveSession
	KindInfo
	KindRender
	KindSet
	KindHelp
	KindQuit
	KindSessions
	KindExport
	KindImport
	KindPNG
)

var kindNames = map[Kind]string{
	KindNone:        "none",
	KindLoadImage:   "load image",
	KindLoadSession: "load session",
	KindSaveSession: "save session",
	KindInfo:        "info",
	KindRender:      "render",
	KindSet:         "set",
	KindHelp:        "help",
	KindQuit:        "quit",
	KindSessions:    "sessions",
	KindExport:      "export",
	KindImport:      "import",
	KindPNG:         "png",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is one parsed input line. Only the fields relevant to Kind are set.
type Command struct {
	Kind     Kind
	Path     string
	Alias    string
	Name     string
	Property studio.Property
	Value    string
}

// Parse tokenizes line with shell quoting rules and resolves it to a Command.
// A blank line yields KindNone. Unknown commands, wrong argument counts and
// unknown properties return INVALID_COMMAND.
func Parse(line string) (Command, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return Command{}, errors.NewInvalidCommand(fmt.Sprintf("cannot parse input: %v", err))
	}
	if len(args) == 0 {
		return Command{Kind: KindNone}, nil
	}

	name, args := strings.ToLower(args[0]), args[1:]
	switch name {
	case "load":
		return parseLoad(args)
	case "save":
		return parseSave(args)
	case "info":
		if len(args) != 0 {
			return usage("info")
		}
		return Command{Kind: KindInfo}, nil
	case "render":
		switch len(args) {
		case 0:
			return Command{Kind: KindRender}, nil
		case 1:
			return Command{Kind: KindRender, Alias: args[0]}, nil
		}
		return usage("render [alias]")
	case "set":
		return parseSet(args)
	case "help":
		return Command{Kind: KindHelp}, nil
	case "quit", "exit":
		return Command{Kind: KindQuit}, nil
	case "sessions":
		if len(args) != 0 {
			return usage("sessions")
		}
		return Command{Kind: KindSessions}, nil
	case "export":
		switch len(args) {
		case 0:
			return Command{Kind: KindExport}, nil
		case 1:
			return Command{Kind: KindExport, Path: args[0]}, nil
		}
		return usage("export [path]")
	case "import":
		if len(args) != 1 {
			return usage("import <path>")
		}
		return Command{Kind: KindImport, Path: args[0]}, nil
	case "png":
		switch len(args) {
		case 1:
			return Command{Kind: KindPNG, Path: args[0]}, nil
		case 2:
			return Command{Kind: KindPNG, Path: args[0], Alias: args[1]}, nil
		}
		return usage("png <path> [alias]")
	}
	return Command{}, errors.NewInvalidCommand(
		fmt.Sprintf("unknown command %q, type 'help' for a list of commands", name))
}

// parseLoad handles:
//
//	load <path> [as <alias>]
//	load image <path> [as <alias>]
//	load session <name>
func parseLoad(args []string) (Command, error) {
	const form = "load [image] <path> [as <alias>] | load session <name>"
	if len(args) == 0 {
		return usage(form)
	}

	switch strings.ToLower(args[0]) {
	case "session":
		if len(args) != 2 {
			return usage("load session <name>")
		}
		return Command{Kind: KindLoadSession, Name: args[1]}, nil
	case "image":
		// "load image" alone loads a file literally named image
		if len(args) > 1 {
			args = args[1:]
		}
	}

	switch {
	case len(args) == 1:
		return Command{Kind: KindLoadImage, Path: args[0]}, nil
	case len(args) == 3 && strings.EqualFold(args[1], "as"):
		return Command{Kind: KindLoadImage, Path: args[0], Alias: args[2]}, nil
	}
	return usage(form)
}

// parseSave handles "save session [as] <name>".
func parseSave(args []string) (Command, error) {
	if len(args) > 0 && strings.EqualFold(args[0], "session") {
		rest := args[1:]
		if len(rest) == 2 && strings.EqualFold(rest[0], "as") {
			rest = rest[1:]
		}
		if len(rest) == 1 {
			return Command{Kind: KindSaveSession, Name: rest[0]}, nil
		}
	}
	return usage("save session <name>")
}

// parseSet handles "set <alias> <property> <value>".
func parseSet(args []string) (Command, error) {
	if len(args) != 3 {
		return usage("set <alias> <width|height|brightness|contrast> <value>")
	}
	prop, err := studio.ParseProperty(args[1])
	if err != nil {
		return Command{}, errors.NewInvalidCommand(fmt.Sprintf("unknown property %q", args[1]))
	}
	return Command{Kind: KindSet, Alias: args[0], Property: prop, Value: args[2]}, nil
}

func usage(form string) (Command, error) {
	return Command{}, errors.NewInvalidCommand("usage: " + form)
}
