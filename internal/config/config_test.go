package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.DefaultWidth != def.DefaultWidth {
		t.Errorf("DefaultWidth = %d, want %d", cfg.DefaultWidth, def.DefaultWidth)
	}
	if cfg.ResampleFilter != "catmullrom" {
		t.Errorf("ResampleFilter = %q, want catmullrom", cfg.ResampleFilter)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"default_width": 80, "resample_filter": "nearest", "max_source_pixels": 1000000}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultWidth != 80 {
		t.Errorf("DefaultWidth = %d, want 80", cfg.DefaultWidth)
	}
	if cfg.ResampleFilter != "nearest" {
		t.Errorf("ResampleFilter = %q, want nearest", cfg.ResampleFilter)
	}
	if cfg.MaxSourcePixels != 1000000 {
		t.Errorf("MaxSourcePixels = %d", cfg.MaxSourcePixels)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want default warn", cfg.LogLevel)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative default_width", `{"default_width": -5}`},
		{"negative max_source_pixels", `{"max_source_pixels": -1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.body)
			if _, err := Load(tmpDir); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoadWithRepo_RejectsNegativeDefaultWidth(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, ".aas"), `{"default_width": -1}`)

	if _, err := LoadWithRepo(t.TempDir(), repoRoot); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["session_save", "studio_set"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "session_save" || cfg.DisabledTools[1] != "studio_set" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"default_width": 60, "disabled_tools": ["session_save"]}`)
	writeConfig(t, filepath.Join(repoRoot, ".aas"), `{"default_width": 100, "disabled_tools": ["session_load"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.DefaultWidth != 100 {
		t.Errorf("DefaultWidth = %d, want 100 (repo override)", cfg.DefaultWidth)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_OnlyGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `{"log_level": "debug"}`)

	cfg, err := LoadWithRepo(globalDir, t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.DefaultWidth != 50 {
		t.Errorf("DefaultWidth = %d, want default 50", cfg.DefaultWidth)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".aas"), `{"allowed_paths": ["/srv/art"]}`)

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(t.TempDir(), subdir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if len(cfg.AllowedPaths) != 1 || cfg.AllowedPaths[0] != "/srv/art" {
		t.Errorf("AllowedPaths = %v, want [/srv/art]", cfg.AllowedPaths)
	}
}

func TestLoadWithRepo_InvalidRepoConfig(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, ".aas"), `[`)

	if _, err := LoadWithRepo(t.TempDir(), repoRoot); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{DefaultWidth: 50, DBMaxOpenConns: 5, ResampleFilter: "catmullrom"}
	overlay := &Config{DefaultWidth: 72}

	result := Merge(base, overlay)

	if result.DefaultWidth != 72 {
		t.Errorf("DefaultWidth = %d, want 72 (overlay)", result.DefaultWidth)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if result.ResampleFilter != "catmullrom" {
		t.Errorf("ResampleFilter = %q, want base value", result.ResampleFilter)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	result := Merge(&Config{AllowUnsafePaths: true}, &Config{})
	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true (base OR overlay)")
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{AllowedPaths: []string{"/a", " /b "}}
	overlay := &Config{AllowedPaths: []string{"/b", "/c", ""}}

	result := Merge(base, overlay)

	want := []string{"/a", "/b", "/c"}
	if len(result.AllowedPaths) != len(want) {
		t.Fatalf("AllowedPaths = %v, want %v", result.AllowedPaths, want)
	}
	for i := range want {
		if result.AllowedPaths[i] != want[i] {
			t.Errorf("AllowedPaths[%d] = %q, want %q", i, result.AllowedPaths[i], want[i])
		}
	}
	if Merge(&Config{}, &Config{}).DisabledTools != nil {
		t.Error("empty merge should yield nil slice")
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}

func TestBaseDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	got, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("BaseDir() = %q, want %q", got, dir)
	}

	exports, err := ExportsDir()
	if err != nil {
		t.Fatalf("ExportsDir() error = %v", err)
	}
	if exports != filepath.Join(dir, "exports") {
		t.Errorf("ExportsDir() = %q", exports)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
