package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points XDG_CONFIG_HOME at a temp dir and returns the todo config
// directory inside it.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	dir := filepath.Join(tempDir, "todo")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	return dir
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Backend)
	}
	if cfg.Theme.Primary == "" || cfg.Theme.DarkBackground == "" {
		t.Error("theme colors should have defaults")
	}
	if !cfg.UX.ConfirmDeletions || !cfg.UX.FetchQuote {
		t.Error("ConfirmDeletions and FetchQuote should default to true")
	}
	if cfg.Notifications.Desktop {
		t.Error("desktop notifications should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#7C3AED" {
		t.Errorf("Theme.Primary = %q, want #7C3AED", cfg.Theme.Primary)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", `
data_dir: /custom/data
backend: sqlite
theme:
  primary: "#FF0000"
  dark_background: "#000000"
ux:
  name: Sam
keys:
  add: "n,a"
log:
  format: json
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.Theme.Primary != "#FF0000" || cfg.Theme.DarkBackground != "#000000" {
		t.Errorf("Theme = %+v", cfg.Theme)
	}
	if cfg.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want default #10B981", cfg.Theme.Accent)
	}
	if cfg.UX.Name != "Sam" || cfg.Keys.Add != "n,a" || cfg.Log.Format != "json" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_TOMLFallback(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.toml", `
backend = "sqlite"

[ux]
name = "Robin"
confirm_deletions = false

[notifications]
desktop = true
`)

	if got := Path(); filepath.Base(got) != "config.toml" {
		t.Fatalf("Path() = %q, want config.toml", got)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.UX.Name != "Robin" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.UX.ConfirmDeletions {
		t.Error("UX.ConfirmDeletions = true, want false from toml")
	}
	if !cfg.UX.FetchQuote {
		t.Error("UX.FetchQuote lost its default")
	}
	if !cfg.Notifications.Desktop {
		t.Error("Notifications.Desktop = false, want true")
	}
}

func TestLoad_YAMLWinsOverTOML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", "backend: file\n")
	writeConfig(t, dir, "config.toml", `backend = "sqlite"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Backend)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", `
theme:
  primary: "#FF0000"
notifications:
  desktop: true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Notifications.Desktop {
		t.Errorf("Notifications.Desktop = %v, want true", cfg.Notifications.Desktop)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.FetchQuote {
		t.Errorf("UX.FetchQuote = %v, want true", cfg.UX.FetchQuote)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "config.yaml", `
ux:
  confirm_deletions: false
  fetch_quote: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
	if cfg.UX.FetchQuote {
		t.Errorf("UX.FetchQuote = %v, want false", cfg.UX.FetchQuote)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad yaml", "config.yaml", "theme: [", "parse"},
		{"bad toml", "config.toml", "backend = ", "parse"},
		{"unknown backend", "config.yaml", "backend: redis", "backend"},
		{"unknown log format", "config.yaml", "log:\n  format: xml", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeConfig(t, dir, tt.file, tt.content)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); filepath.Base(got) != ".todo" {
		t.Errorf("GetDataDir() = %q, want to end with .todo", got)
	}

	cfg.DataDir = "/custom/path"
	if got := cfg.GetDataDir(); got != "/custom/path" {
		t.Errorf("GetDataDir() = %q, want /custom/path", got)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory")
	}
	cfg.DataDir = "~"
	if got := cfg.GetDataDir(); got != home {
		t.Errorf("GetDataDir(~) = %q, want %q", got, home)
	}
	cfg.DataDir = "~/mydata"
	if got := cfg.GetDataDir(); got != filepath.Join(home, "mydata") {
		t.Errorf("GetDataDir(~/mydata) = %q", got)
	}
}

func TestLogFile(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.LogFile(); got != filepath.Join("/data", "todo.log") {
		t.Errorf("LogFile() = %q", got)
	}
	cfg.Log.File = "/var/log/todo.log"
	if got := cfg.LogFile(); got != "/var/log/todo.log" {
		t.Errorf("LogFile() = %q", got)
	}
}

func TestSave(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#SAVED"
	cfg.UX.ConfirmDeletions = false

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" || loaded.Theme.Primary != "#SAVED" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.UX.ConfirmDeletions {
		t.Error("saved false did not survive the round trip")
	}
}

func TestSave_NoConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	if err := Default().Save(); !errors.Is(err, ErrNoConfigDir) {
		t.Errorf("Save() error = %v, want ErrNoConfigDir", err)
	}
}
