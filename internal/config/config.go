// Package config loads user settings for todo. The file lives in the XDG
// config directory (typically ~/.config/todo/config.yaml); a config.toml in
// the same place is read when there is no YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"todo/internal/fsutil"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.todo)
	DataDir string `yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`

	// Backend selects the store: "file" (default) or "sqlite"
	Backend string `yaml:"backend,omitempty" toml:"backend,omitempty"`

	Theme         ThemeConfig        `yaml:"theme,omitempty" toml:"theme,omitempty"`
	Keys          KeysConfig         `yaml:"keys,omitempty" toml:"keys,omitempty"`
	UX            UXConfig           `yaml:"ux,omitempty" toml:"ux,omitempty"`
	Notifications NotificationConfig `yaml:"notifications,omitempty" toml:"notifications,omitempty"`
	Log           LogConfig          `yaml:"log,omitempty" toml:"log,omitempty"`
}

// ThemeConfig holds the palette. Light and dark mode share the accent
// colors and differ in background and text.
type ThemeConfig struct {
	Primary string `yaml:"primary,omitempty" toml:"primary,omitempty"`
	Accent  string `yaml:"accent,omitempty" toml:"accent,omitempty"`
	Muted   string `yaml:"muted,omitempty" toml:"muted,omitempty"`
	Warning string `yaml:"warning,omitempty" toml:"warning,omitempty"`

	DarkBackground  string `yaml:"dark_background,omitempty" toml:"dark_background,omitempty"`
	DarkText        string `yaml:"dark_text,omitempty" toml:"dark_text,omitempty"`
	LightBackground string `yaml:"light_background,omitempty" toml:"light_background,omitempty"`
	LightText       string `yaml:"light_text,omitempty" toml:"light_text,omitempty"`
}

// KeysConfig overrides key bindings. Each field is a comma-separated list,
// e.g. "q,ctrl+c" or "j,down". Empty means the built-in default.
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty" toml:"quit,omitempty"`
	Help     string `yaml:"help,omitempty" toml:"help,omitempty"`
	Up       string `yaml:"up,omitempty" toml:"up,omitempty"`
	Down     string `yaml:"down,omitempty" toml:"down,omitempty"`
	Top      string `yaml:"top,omitempty" toml:"top,omitempty"`
	Bottom   string `yaml:"bottom,omitempty" toml:"bottom,omitempty"`
	Add      string `yaml:"add,omitempty" toml:"add,omitempty"`
	Toggle   string `yaml:"toggle,omitempty" toml:"toggle,omitempty"`
	Edit     string `yaml:"edit,omitempty" toml:"edit,omitempty"`
	Delete   string `yaml:"delete,omitempty" toml:"delete,omitempty"`
	Clear    string `yaml:"clear,omitempty" toml:"clear,omitempty"`
	Export   string `yaml:"export,omitempty" toml:"export,omitempty"`
	DarkMode string `yaml:"dark_mode,omitempty" toml:"dark_mode,omitempty"`
	Search   string `yaml:"search,omitempty" toml:"search,omitempty"`
	Confirm  string `yaml:"confirm,omitempty" toml:"confirm,omitempty"`
	Cancel   string `yaml:"cancel,omitempty" toml:"cancel,omitempty"`
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// Name is appended to the greeting
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`

	// ConfirmDeletions asks before deleting a task
	ConfirmDeletions bool `yaml:"confirm_deletions" toml:"confirm_deletions"` // default: true

	// FetchQuote turns the network quote on or off
	FetchQuote bool `yaml:"fetch_quote" toml:"fetch_quote"` // default: true

	QuoteURL      string `yaml:"quote_url,omitempty" toml:"quote_url,omitempty"`
	QuoteFallback string `yaml:"quote_fallback,omitempty" toml:"quote_fallback,omitempty"`

	// ExportDir is where the TUI writes my-tasks.json
	ExportDir string `yaml:"export_dir,omitempty" toml:"export_dir,omitempty"` // default: "."
}

// NotificationConfig controls desktop popups for store notices.
type NotificationConfig struct {
	Desktop bool `yaml:"desktop" toml:"desktop"`
	Sound   bool `yaml:"sound" toml:"sound"`

	// MinLevel is the quietest notice that pops up: info, success or warning
	MinLevel string `yaml:"min_level,omitempty" toml:"min_level,omitempty"` // default: "success"
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`   // default: "info"
	Format string `yaml:"format,omitempty" toml:"format,omitempty"` // text, json or logfmt
	// File is where the TUI logs; empty means <data_dir>/todo.log
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Backend: "file",
		Theme: ThemeConfig{
			Primary:         "#7C3AED", // Violet
			Accent:          "#10B981", // Emerald
			Muted:           "#6B7280", // Gray
			Warning:         "#F59E0B", // Amber
			DarkBackground:  "#1F2937",
			DarkText:        "#F9FAFB",
			LightBackground: "", // Terminal default
			LightText:       "",
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			FetchQuote:       true,
			ExportDir:        ".",
		},
		Notifications: NotificationConfig{
			MinLevel: "success",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}

// Dir returns the configuration directory (XDG compliant).
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "todo")
}

// Path returns the config file Load would read: config.yaml, or
// config.toml when only that exists. The YAML path is returned when
// neither exists.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return yamlPath
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	path := Path()
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. The format follows the extension.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	var user Config
	var has presence
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &user)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		has = md.IsDefined
	default:
		if err := yaml.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Content) > 0 {
			has = func(path ...string) bool { return yamlHasPath(&doc, path...) }
		}
	}

	cfg.merge(&user, has)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// presence reports whether a key path was written in the config file.
type presence func(path ...string) bool

func setIfNonEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// merge applies the user's settings over c. Strings win when non-empty;
// booleans only when the key is present in the file, so a missing key does
// not turn a true default off. Without presence information booleans are
// left alone.
func (c *Config) merge(other *Config, has presence) {
	setIfNonEmpty(&c.DataDir, other.DataDir)
	setIfNonEmpty(&c.Backend, other.Backend)

	t, o := &c.Theme, other.Theme
	setIfNonEmpty(&t.Primary, o.Primary)
	setIfNonEmpty(&t.Accent, o.Accent)
	setIfNonEmpty(&t.Muted, o.Muted)
	setIfNonEmpty(&t.Warning, o.Warning)
	setIfNonEmpty(&t.DarkBackground, o.DarkBackground)
	setIfNonEmpty(&t.DarkText, o.DarkText)
	setIfNonEmpty(&t.LightBackground, o.LightBackground)
	setIfNonEmpty(&t.LightText, o.LightText)

	k, ko := &c.Keys, other.Keys
	setIfNonEmpty(&k.Quit, ko.Quit)
	setIfNonEmpty(&k.Help, ko.Help)
	setIfNonEmpty(&k.Up, ko.Up)
	setIfNonEmpty(&k.Down, ko.Down)
	setIfNonEmpty(&k.Top, ko.Top)
	setIfNonEmpty(&k.Bottom, ko.Bottom)
	setIfNonEmpty(&k.Add, ko.Add)
	setIfNonEmpty(&k.Toggle, ko.Toggle)
	setIfNonEmpty(&k.Edit, ko.Edit)
	setIfNonEmpty(&k.Delete, ko.Delete)
	setIfNonEmpty(&k.Clear, ko.Clear)
	setIfNonEmpty(&k.Export, ko.Export)
	setIfNonEmpty(&k.DarkMode, ko.DarkMode)
	setIfNonEmpty(&k.Search, ko.Search)
	setIfNonEmpty(&k.Confirm, ko.Confirm)
	setIfNonEmpty(&k.Cancel, ko.Cancel)

	setIfNonEmpty(&c.UX.Name, other.UX.Name)
	setIfNonEmpty(&c.UX.QuoteURL, other.UX.QuoteURL)
	setIfNonEmpty(&c.UX.QuoteFallback, other.UX.QuoteFallback)
	setIfNonEmpty(&c.UX.ExportDir, other.UX.ExportDir)

	setIfNonEmpty(&c.Notifications.MinLevel, other.Notifications.MinLevel)

	setIfNonEmpty(&c.Log.Level, other.Log.Level)
	setIfNonEmpty(&c.Log.Format, other.Log.Format)
	setIfNonEmpty(&c.Log.File, other.Log.File)

	if has == nil {
		return
	}
	if has("ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if has("ux", "fetch_quote") {
		c.UX.FetchQuote = other.UX.FetchQuote
	}
	if has("notifications", "desktop") {
		c.Notifications.Desktop = other.Notifications.Desktop
	}
	if has("notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("backend %q: must be file or sqlite", c.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format %q: must be text, json or logfmt", c.Log.Format)
	}
	switch strings.ToLower(c.Notifications.MinLevel) {
	case "", "info", "success", "warning":
	default:
		return fmt.Errorf("notifications.min_level %q: must be info, success or warning", c.Notifications.MinLevel)
	}
	return nil
}

// ErrNoConfigDir is returned by Save when neither XDG_CONFIG_HOME nor a
// home directory is known.
var ErrNoConfigDir = errors.New("no config directory: set XDG_CONFIG_HOME or HOME")

// Save writes the configuration to config.yaml.
func (c *Config) Save() error {
	dir := Dir()
	if dir == "" {
		return ErrNoConfigDir
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, "config.yaml"), data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandHome(c.DataDir)
}

// LogFile returns where the TUI writes its log.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return ExpandHome(c.Log.File)
	}
	return filepath.Join(c.GetDataDir(), "todo.log")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
