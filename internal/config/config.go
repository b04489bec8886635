// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/correspond-tui/internal/model"
	"github.com/jeranaias/correspond-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete correspond configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Server is the correspondence web application
	Server ServerConfig `toml:"server" json:"server"`

	// User identifies this client to the push channel
	User UserConfig `toml:"user" json:"user"`

	// Push selects and tunes the push transport
	Push PushConfig `toml:"push" json:"push"`

	// Storage selects where drafts are kept
	Storage StorageConfig `toml:"storage" json:"storage"`

	Drafts        DraftsConfig        `toml:"drafts" json:"drafts"`
	Notifications NotificationsConfig `toml:"notifications" json:"notifications"`
	List          ListConfig          `toml:"list" json:"list"`
	UI            UIConfig            `toml:"ui" json:"ui"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	// URL is the base URL of the web application
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds each HTTP request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UserConfig contains the identity announced in the join event.
type UserConfig struct {
	ID   string `toml:"id" json:"id"`
	Room string `toml:"room" json:"room"`
}

// PushConfig contains push transport settings.
type PushConfig struct {
	// Transport is "websocket", "nats" or "loopback"
	Transport string `toml:"transport" json:"transport"`
	// NATSURL is the NATS server used by the nats transport
	NATSURL string `toml:"nats_url" json:"nats_url"`
	// Subject is the NATS subject prefix
	Subject string `toml:"subject" json:"subject"`
	// ReconnectSecs is the minimum spacing between websocket connection attempts
	ReconnectSecs int `toml:"reconnect_secs" json:"reconnect_secs"`
	// PingSecs is the websocket keepalive interval
	PingSecs int `toml:"ping_secs" json:"ping_secs"`
}

// StorageConfig contains draft storage settings.
type StorageConfig struct {
	// Backend is "sqlite", "file" or "memory"
	Backend string `toml:"backend" json:"backend"`
	// DataDir holds the draft database and the log file (default: ~/.correspond)
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// DraftsConfig contains autosave settings.
type DraftsConfig struct {
	// DebounceMs is the quiet period after the last keystroke before saving
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms"`
}

// NotificationsConfig contains toast settings.
type NotificationsConfig struct {
	// DurationMs is the auto-dismiss delay for every severity without its own
	DurationMs int `toml:"duration_ms" json:"duration_ms"`
	// Per-severity overrides; 0 uses DurationMs
	SuccessMs int `toml:"success_ms" json:"success_ms"`
	InfoMs    int `toml:"info_ms" json:"info_ms"`
	WarningMs int `toml:"warning_ms" json:"warning_ms"`
	ErrorMs   int `toml:"error_ms" json:"error_ms"`
	// Capacity is the maximum number of visible toasts
	Capacity int `toml:"capacity" json:"capacity"`
}

// ListConfig contains correspondence list settings.
type ListConfig struct {
	// Limit is how many records a reload fetches
	Limit int `toml:"limit" json:"limit"`
	// ExitDelayMs is how long a deleted row stays visible
	ExitDelayMs int `toml:"exit_delay_ms" json:"exit_delay_ms"`
	// ReloadDelayMs is the pause between a successful delete and the reload
	ReloadDelayMs int `toml:"reload_delay_ms" json:"reload_delay_ms"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowSession displays the session ID in the status bar
	ShowSession bool `toml:"show_session" json:"show_session"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			URL:         "http://127.0.0.1:5000",
			TimeoutSecs: 30,
		},

		User: UserConfig{
			ID:   "anonymous",
			Room: "all_users",
		},

		Push: PushConfig{
			Transport:     "websocket",
			NATSURL:       "nats://127.0.0.1:4222",
			Subject:       "correspondence",
			ReconnectSecs: 3,
			PingSecs:      15,
		},

		Storage: StorageConfig{
			Backend: "sqlite",
		},

		Drafts: DraftsConfig{
			DebounceMs: 1000,
		},

		Notifications: NotificationsConfig{
			DurationMs: 5000,
			Capacity:   5,
		},

		List: ListConfig{
			Limit:         50,
			ExitDelayMs:   300,
			ReloadDelayMs: 1000,
		},

		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

func millis(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// ServerTimeout returns the per-request HTTP timeout.
func (c *Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// PingInterval returns the websocket keepalive interval.
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Push.PingSecs) * time.Second
}

// ReconnectInterval returns the minimum spacing of push connection attempts.
func (c *Config) ReconnectInterval() time.Duration {
	return time.Duration(c.Push.ReconnectSecs) * time.Second
}

// DebounceWindow returns the draft autosave window.
func (c *Config) DebounceWindow() time.Duration { return millis(c.Drafts.DebounceMs) }

// ExitDelay returns the row exit transition delay.
func (c *Config) ExitDelay() time.Duration { return millis(c.List.ExitDelayMs) }

// ReloadDelay returns the pause before reloading after a delete.
func (c *Config) ReloadDelay() time.Duration { return millis(c.List.ReloadDelayMs) }

// NotificationDuration returns the default toast duration.
func (c *Config) NotificationDuration() time.Duration { return millis(c.Notifications.DurationMs) }

// NotificationDurations returns the toast duration for every severity.
func (c *Config) NotificationDurations() map[model.Severity]time.Duration {
	pick := func(ms int) time.Duration {
		if ms == 0 {
			return millis(c.Notifications.DurationMs)
		}
		return millis(ms)
	}
	return map[model.Severity]time.Duration{
		model.SeveritySuccess: pick(c.Notifications.SuccessMs),
		model.SeverityInfo:    pick(c.Notifications.InfoMs),
		model.SeverityWarning: pick(c.Notifications.WarningMs),
		model.SeverityError:   pick(c.Notifications.ErrorMs),
	}
}

// ResolveDataDir returns the data directory, defaulting to the config
// directory.
func (c *Config) ResolveDataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return expandHome(c.Storage.DataDir)
	}
	return ConfigDir()
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the correspond configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".correspond"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default location.
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last. A file that fails to parse is
// reported alongside the defaults so the caller can warn and continue.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err != nil {
			fallback, fbErr := finish(Default())
			if fbErr != nil {
				return nil, fbErr
			}
			return fallback, err
		}
		return cfg, nil
	}
	return finish(Default())
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finish(cfg)
}

// finish applies environment overrides, fills defaults and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if c.User.ID == "" {
		c.User.ID = defaults.User.ID
	}
	if c.User.Room == "" {
		c.User.Room = defaults.User.Room
	}
	if c.Push.Transport == "" {
		c.Push.Transport = defaults.Push.Transport
	}
	if c.Push.NATSURL == "" {
		c.Push.NATSURL = defaults.Push.NATSURL
	}
	if c.Push.Subject == "" {
		c.Push.Subject = defaults.Push.Subject
	}
	if c.Push.ReconnectSecs == 0 {
		c.Push.ReconnectSecs = defaults.Push.ReconnectSecs
	}
	if c.Push.PingSecs == 0 {
		c.Push.PingSecs = defaults.Push.PingSecs
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Drafts.DebounceMs == 0 {
		c.Drafts.DebounceMs = defaults.Drafts.DebounceMs
	}
	if c.Notifications.DurationMs == 0 {
		c.Notifications.DurationMs = defaults.Notifications.DurationMs
	}
	if c.Notifications.Capacity == 0 {
		c.Notifications.Capacity = defaults.Notifications.Capacity
	}
	if c.List.Limit == 0 {
		c.List.Limit = defaults.List.Limit
	}
	if c.List.ExitDelayMs == 0 {
		c.List.ExitDelayMs = defaults.List.ExitDelayMs
	}
	if c.List.ReloadDelayMs == 0 {
		c.List.ReloadDelayMs = defaults.List.ReloadDelayMs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# correspond configuration file\n")
	buf.WriteString("# Generated by correspond - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Server
	if u, err := url.Parse(c.Server.URL); err != nil {
		add("server.url", "invalid URL: %v", err)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("server.url", "scheme must be http or https, got '%s'", u.Scheme)
	} else if u.Host == "" {
		add("server.url", "missing host")
	}
	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		add("server.timeout_secs", "must be between 1 and 600, got %d", c.Server.TimeoutSecs)
	}

	// Push
	validTransports := map[string]bool{"websocket": true, "nats": true, "loopback": true}
	if !validTransports[strings.ToLower(c.Push.Transport)] {
		add("push.transport", "invalid transport '%s', must be one of: websocket, nats, loopback", c.Push.Transport)
	}
	if strings.EqualFold(c.Push.Transport, "nats") {
		if u, err := url.Parse(c.Push.NATSURL); err != nil || u.Host == "" {
			add("push.nats_url", "invalid NATS URL '%s'", c.Push.NATSURL)
		}
	}
	if strings.ContainsAny(c.Push.Subject, " *>") {
		add("push.subject", "subject prefix must not contain spaces or wildcards")
	}
	if c.Push.ReconnectSecs < 1 {
		add("push.reconnect_secs", "must be at least 1, got %d", c.Push.ReconnectSecs)
	}
	if c.Push.PingSecs < 1 {
		add("push.ping_secs", "must be at least 1, got %d", c.Push.PingSecs)
	}

	// Storage
	validBackends := map[string]bool{"sqlite": true, "file": true, "memory": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		add("storage.backend", "invalid backend '%s', must be one of: sqlite, file, memory", c.Storage.Backend)
	}

	// Drafts
	if c.Drafts.DebounceMs < 0 || c.Drafts.DebounceMs > 60000 {
		add("drafts.debounce_ms", "must be between 0 and 60000, got %d", c.Drafts.DebounceMs)
	}

	// Notifications
	for field, ms := range map[string]int{
		"notifications.duration_ms": c.Notifications.DurationMs,
		"notifications.success_ms":  c.Notifications.SuccessMs,
		"notifications.info_ms":     c.Notifications.InfoMs,
		"notifications.warning_ms":  c.Notifications.WarningMs,
		"notifications.error_ms":    c.Notifications.ErrorMs,
	} {
		if ms < 0 {
			add(field, "must not be negative, got %d", ms)
		}
	}
	if c.Notifications.Capacity < 0 {
		add("notifications.capacity", "must not be negative, got %d", c.Notifications.Capacity)
	}

	// List
	if c.List.Limit < 1 || c.List.Limit > 1000 {
		add("list.limit", "must be between 1 and 1000, got %d", c.List.Limit)
	}
	if c.List.ExitDelayMs < 0 {
		add("list.exit_delay_ms", "must not be negative, got %d", c.List.ExitDelayMs)
	}
	if c.List.ReloadDelayMs < 0 {
		add("list.reload_delay_ms", "must not be negative, got %d", c.List.ReloadDelayMs)
	}

	// UI
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		add("ui.theme", "invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CORRESPOND_SERVER_URL: overrides server.url
//   - CORRESPOND_USER: overrides user.id
//   - CORRESPOND_ROOM: overrides user.room
//   - CORRESPOND_TRANSPORT: overrides push.transport
//   - CORRESPOND_NATS_URL: overrides push.nats_url
//   - CORRESPOND_STORAGE: overrides storage.backend
//   - CORRESPOND_DATA_DIR: overrides storage.data_dir
func (c *Config) ApplyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"CORRESPOND_SERVER_URL", &c.Server.URL},
		{"CORRESPOND_USER", &c.User.ID},
		{"CORRESPOND_ROOM", &c.User.Room},
		{"CORRESPOND_TRANSPORT", &c.Push.Transport},
		{"CORRESPOND_NATS_URL", &c.Push.NATSURL},
		{"CORRESPOND_STORAGE", &c.Storage.Backend},
		{"CORRESPOND_DATA_DIR", &c.Storage.DataDir},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "push.transport").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "list.limit").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"server.url",
		"server.timeout_secs",
		"user.id",
		"user.room",
		"push.transport",
		"push.nats_url",
		"push.subject",
		"push.reconnect_secs",
		"push.ping_secs",
		"storage.backend",
		"storage.data_dir",
		"drafts.debounce_ms",
		"notifications.duration_ms",
		"notifications.success_ms",
		"notifications.info_ms",
		"notifications.warning_ms",
		"notifications.error_ms",
		"notifications.capacity",
		"list.limit",
		"list.exit_delay_ms",
		"list.reload_delay_ms",
		"ui.theme",
		"ui.show_session",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
