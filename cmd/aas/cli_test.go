package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/aas/internal/config"
	"github.com/hpungsan/aas/internal/db"
	"github.com/hpungsan/aas/internal/ops"
)

// setupTestEnv creates an Env backed by a temporary database and AAS_HOME.
func setupTestEnv(t *testing.T) *ops.Env {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv(config.HomeEnv, tmpDir)
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	env, err := ops.NewEnv(database, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEnv failed: %v", err)
	}
	return env
}

// captureStdout redirects command output for the duration of fn.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()
	err := fn()
	return buf.String(), err
}

func writeGrayPNG(t *testing.T, w, h int, v uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	path := filepath.Join(t.TempDir(), "gray.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

// TestCLIConvert tests the convert command.
func TestCLIConvert(t *testing.T) {
	env := setupTestEnv(t)
	app := newCLIApp(env)
	path := writeGrayPNG(t, 100, 100, 128)

	t.Run("default width", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return app.Run([]string{"aas", "convert", path})
		})
		if err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		if len(rows) != 30 || rows[0] != strings.Repeat("=", 50) {
			t.Errorf("got %d rows, first %q", len(rows), rows[0])
		}
	})

	t.Run("json with png", func(t *testing.T) {
		preview := filepath.Join(t.TempDir(), "out.png")
		env := setupTestEnv(t)
		app := newCLIApp(env)
		out, err := captureStdout(t, func() error {
			return app.Run([]string{"aas", "convert", "--width=10", "--brightness=1", "--png", preview, "--json", path})
		})
		if err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		var res ops.RenderOutput
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if res.Width != 10 || res.Height != 6 {
			t.Errorf("dims = %dx%d, want 10x6", res.Width, res.Height)
		}
		if _, err := os.Stat(preview); err != nil {
			t.Errorf("preview not written: %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		err := app.Run([]string{"aas", "convert"})
		assertExitMessage(t, err, "[INVALID_PARAMETER]")
	})

	t.Run("bad contrast", func(t *testing.T) {
		env := setupTestEnv(t)
		err := newCLIApp(env).Run([]string{"aas", "convert", "--contrast=0", path})
		assertExitMessage(t, err, "[INVALID_PARAMETER]")
	})
}

// TestCLISessions tests sessions, export, import and delete-session.
func TestCLISessions(t *testing.T) {
	env := setupTestEnv(t)
	app := newCLIApp(env)
	path := writeGrayPNG(t, 20, 20, 0)

	if _, err := env.Load(ops.LoadInput{Path: path, Alias: "dark"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := env.SaveSession(t.Context(), ops.SaveSessionInput{Name: "Saved One"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"aas", "sessions"})
	})
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	var list ops.ListSessionsOutput
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Name != "Saved One" {
		t.Fatalf("list = %+v", list)
	}

	out, err = captureStdout(t, func() error {
		return app.Run([]string{"aas", "export", "--name", "saved one"})
	})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var exported ops.ExportSessionOutput
	if err := json.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if !strings.HasSuffix(exported.Path, "saved-one.jsonl") {
		t.Errorf("path = %q", exported.Path)
	}

	out, err = captureStdout(t, func() error {
		return app.Run([]string{"aas", "import", "--save-as", "copy", exported.Path})
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, `"current": "dark"`) {
		t.Errorf("import output = %s", out)
	}

	if _, err := captureStdout(t, func() error {
		return app.Run([]string{"aas", "delete-session", "copy"})
	}); err != nil {
		t.Fatalf("delete-session failed: %v", err)
	}
	err = app.Run([]string{"aas", "delete-session", "copy"})
	assertExitMessage(t, err, "[SESSION_NOT_FOUND]")
}

// TestCLIErrorHandling tests error formatting.
func TestCLIErrorHandling(t *testing.T) {
	env := setupTestEnv(t)
	app := newCLIApp(env)

	err := app.Run([]string{"aas", "import", "--save-as", "x", filepath.Join(t.TempDir(), "missing.jsonl")})
	if err == nil {
		t.Fatal("expected error for import outside allowed dirs")
	}

	err = app.Run([]string{"aas", "delete-session"})
	assertExitMessage(t, err, "[INVALID_PARAMETER]")
}

func assertExitMessage(t *testing.T, err error, prefix string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with %s", prefix)
	}
	exitErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("error type = %T, want cli.ExitCoder", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.HasPrefix(err.Error(), prefix) {
		t.Errorf("error = %q, want prefix %s", err.Error(), prefix)
	}
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"aas"}, expected: false},
		{name: "repl command", args: []string{"aas", "repl"}, expected: true},
		{name: "convert command", args: []string{"aas", "convert"}, expected: true},
		{name: "serve command", args: []string{"aas", "serve"}, expected: true},
		{name: "help flag", args: []string{"aas", "--help"}, expected: true},
		{name: "short version flag", args: []string{"aas", "-v"}, expected: true},
		{name: "unknown arg", args: []string{"aas", "--unknown"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isCLIMode(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		args     []string
		expected bool
	}{
		{[]string{"aas"}, false},
		{[]string{"aas", "help"}, true},
		{[]string{"aas", "-h"}, true},
		{[]string{"aas", "--version"}, true},
		{[]string{"aas", "convert"}, false},
	}

	for _, tt := range tests {
		oldArgs := os.Args
		os.Args = tt.args
		result := isHelpOrVersion()
		os.Args = oldArgs
		if result != tt.expected {
			t.Errorf("isHelpOrVersion(%v) = %v, want %v", tt.args, result, tt.expected)
		}
	}
}

// TestHelpWithoutEnv ensures help renders before any store is opened.
func TestHelpWithoutEnv(t *testing.T) {
	app := newCLIApp(nil)
	var buf bytes.Buffer
	app.Writer = &buf
	if err := app.Run([]string{"aas", "--help"}); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, name := range []string{"convert", "sessions", "serve", "mcp"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("help missing %q", name)
		}
	}
}
