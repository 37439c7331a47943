// Package config handles configuration loading and defaults for taskboard.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/taskboard/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskboard/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// DataDirEnv overrides the configured data directory when set.
const DataDirEnv = "TASKBOARD_DATA_DIR"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.taskboard)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects where the board and history are persisted
	Storage StorageConfig `yaml:"storage,omitempty"`

	// SweepInterval is how often overdue tasks are flagged (Go duration, e.g. "1s")
	SweepInterval string `yaml:"sweep_interval,omitempty"`

	// Log configures the structured log file
	Log LogConfig `yaml:"log,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Notifications configures desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "redis" or "memory"
	Backend string `yaml:"backend,omitempty"` // default: "file"

	// SQLitePath is the database file; relative paths resolve against the data dir
	SQLitePath string `yaml:"sqlite_path,omitempty"` // default: "taskboard.db"

	RedisAddr     string `yaml:"redis_addr,omitempty"` // default: "127.0.0.1:6379"
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`

	// KeyPrefix namespaces keys in shared backends
	KeyPrefix string `yaml:"key_prefix,omitempty"` // default: "taskboard:"
}

// LogConfig defines structured logging settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // default: "info"
	Format string `yaml:"format,omitempty"` // "json" or "console"
	File   string `yaml:"file,omitempty"`   // default: <data_dir>/taskboard.log
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled sends a notification when a task becomes overdue
	Enabled bool `yaml:"enabled,omitempty"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Overdue color for expired tasks (hex)
	Overdue string `yaml:"overdue,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Task keys
	AddTask       string `yaml:"add_task,omitempty"`       // default: "a"
	EditTask      string `yaml:"edit_task,omitempty"`      // default: "e"
	CompleteTask  string `yaml:"complete_task,omitempty"`  // default: "d,enter,space"
	DeleteTask    string `yaml:"delete_task,omitempty"`    // default: "x"
	DuplicateTask string `yaml:"duplicate_task,omitempty"` // default: "y"
	MoveUp        string `yaml:"move_up,omitempty"`        // default: "K,shift+up"
	MoveDown      string `yaml:"move_down,omitempty"`      // default: "J,shift+down"

	// Section keys
	AddSection       string `yaml:"add_section,omitempty"`       // default: "A"
	RenameSection    string `yaml:"rename_section,omitempty"`    // default: "r"
	DeleteSection    string `yaml:"delete_section,omitempty"`    // default: "X"
	ClearSection     string `yaml:"clear_section,omitempty"`     // default: "C"
	DuplicateSection string `yaml:"duplicate_section,omitempty"` // default: "Y"

	// History keys
	ToggleCheck    string `yaml:"toggle_check,omitempty"`    // default: "space"
	RestoreItem    string `yaml:"restore_item,omitempty"`    // default: "u,enter"
	DeleteItem     string `yaml:"delete_item,omitempty"`     // default: "x"
	RestoreChecked string `yaml:"restore_checked,omitempty"` // default: "U"
	DeleteChecked  string `yaml:"delete_checked,omitempty"`  // default: "X"
	UncheckAll     string `yaml:"uncheck_all,omitempty"`     // default: "c"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting items
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Backend:    BackendFile,
			SQLitePath: "taskboard.db",
			RedisAddr:  "127.0.0.1:6379",
			KeyPrefix:  "taskboard:",
		},
		SweepInterval: "1s",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Overdue:    "#EF4444", // Red
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
		},
		Notifications: NotificationConfig{
			Enabled: false,
			Sound:   false,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskboard"
	}
	return filepath.Join(home, ".taskboard")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskboard")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskboard")
}

// Path returns the path to the config file, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from path, merging with defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)
	return cfg, nil
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	mergeString(&c.DataDir, other.DataDir)
	mergeString(&c.SweepInterval, other.SweepInterval)

	mergeString(&c.Storage.Backend, other.Storage.Backend)
	mergeString(&c.Storage.SQLitePath, other.Storage.SQLitePath)
	mergeString(&c.Storage.RedisAddr, other.Storage.RedisAddr)
	mergeString(&c.Storage.RedisPassword, other.Storage.RedisPassword)
	mergeString(&c.Storage.KeyPrefix, other.Storage.KeyPrefix)
	if other.Storage.RedisDB > 0 {
		c.Storage.RedisDB = other.Storage.RedisDB
	}

	mergeString(&c.Log.Level, other.Log.Level)
	mergeString(&c.Log.Format, other.Log.Format)
	mergeString(&c.Log.File, other.Log.File)

	mergeString(&c.Theme.Primary, other.Theme.Primary)
	mergeString(&c.Theme.Accent, other.Theme.Accent)
	mergeString(&c.Theme.Muted, other.Theme.Muted)
	mergeString(&c.Theme.Overdue, other.Theme.Overdue)
	mergeString(&c.Theme.Background, other.Theme.Background)
	mergeString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	mergeString(&k.Quit, o.Quit)
	mergeString(&k.Help, o.Help)
	mergeString(&k.NextPane, o.NextPane)
	mergeString(&k.Pane1, o.Pane1)
	mergeString(&k.Pane2, o.Pane2)
	mergeString(&k.Up, o.Up)
	mergeString(&k.Down, o.Down)
	mergeString(&k.Top, o.Top)
	mergeString(&k.Bottom, o.Bottom)
	mergeString(&k.AddTask, o.AddTask)
	mergeString(&k.EditTask, o.EditTask)
	mergeString(&k.CompleteTask, o.CompleteTask)
	mergeString(&k.DeleteTask, o.DeleteTask)
	mergeString(&k.DuplicateTask, o.DuplicateTask)
	mergeString(&k.MoveUp, o.MoveUp)
	mergeString(&k.MoveDown, o.MoveDown)
	mergeString(&k.AddSection, o.AddSection)
	mergeString(&k.RenameSection, o.RenameSection)
	mergeString(&k.DeleteSection, o.DeleteSection)
	mergeString(&k.ClearSection, o.ClearSection)
	mergeString(&k.DuplicateSection, o.DuplicateSection)
	mergeString(&k.ToggleCheck, o.ToggleCheck)
	mergeString(&k.RestoreItem, o.RestoreItem)
	mergeString(&k.DeleteItem, o.DeleteItem)
	mergeString(&k.RestoreChecked, o.RestoreChecked)
	mergeString(&k.DeleteChecked, o.DeleteChecked)
	mergeString(&k.UncheckAll, o.UncheckAll)
	mergeString(&k.Confirm, o.Confirm)
	mergeString(&k.Cancel, o.Cancel)

	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a node tree we can't tell an explicit false from a missing key.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "storage", "redis_db") {
		c.Storage.RedisDB = other.Storage.RedisDB
	}
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
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

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path. TASKBOARD_DATA_DIR
// wins over the config file.
func (c *Config) GetDataDir() string {
	dir := c.DataDir
	if env := strings.TrimSpace(os.Getenv(DataDirEnv)); env != "" {
		dir = env
	}
	if dir == "" {
		return defaultDataDir()
	}
	return expandHome(dir)
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// SweepEvery returns the parsed sweep interval, or one second when unset or invalid.
func (c *Config) SweepEvery() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.SweepInterval))
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// SQLiteFile resolves the sqlite database path against the data dir.
func (c *Config) SQLiteFile() string {
	p := c.Storage.SQLitePath
	if p == "" {
		p = "taskboard.db"
	}
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.GetDataDir(), p)
}

// LogFile returns the configured log path, defaulting to taskboard.log in the data dir.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	return filepath.Join(c.GetDataDir(), "taskboard.log")
}
