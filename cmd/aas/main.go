package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/hpungsan/aas/internal/config"
	"github.com/hpungsan/aas/internal/db"
	"github.com/hpungsan/aas/internal/mcp"
	"github.com/hpungsan/aas/internal/ops"
	"github.com/hpungsan/aas/internal/repl"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"repl": true, "convert": true, "sessions": true, "delete-session": true,
	"export": true, "import": true, "serve": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs the default front end.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// setup loads config, opens the session store and builds the ops environment.
func setup() (*ops.Env, func(), error) {
	baseDir, err := config.BaseDir()
	if err != nil {
		return nil, nil, err
	}
	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	database, err := db.Init(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db.ConfigurePool(database, cfg)

	env, err := ops.NewEnv(database, cfg, logger)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	logger.Debug("studio ready", "base_dir", baseDir, "filter", cfg.ResampleFilter)
	return env, func() { database.Close() }, nil
}

// runREPL runs the interactive studio on stdin/stdout until quit or a signal.
func runREPL(env *ops.Env) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := repl.New(env, os.Stdin, os.Stdout)
	r.Interactive = isTerminal()
	return r.Run(ctx)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	env, cleanup, err := setup()
	if err != nil {
		fatal("%v", err)
	}
	defer cleanup()

	switch {
	case isCLIMode():
		if err := newCLIApp(env).Run(os.Args); err != nil {
			cleanup()
			fatal("%v", err)
		}
	case len(os.Args) < 2 && isTerminal():
		// No args + interactive terminal → studio REPL
		if err := runREPL(env); err != nil {
			cleanup()
			fatal("%v", err)
		}
	case len(os.Args) >= 2 && isTerminal():
		cleanup()
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'aas --help' for usage.\n")
		os.Exit(1)
	default:
		// Piped stdin → MCP server
		if err := mcp.Run(env, Version); err != nil {
			cleanup()
			fatal("%v", err)
		}
	}
}
