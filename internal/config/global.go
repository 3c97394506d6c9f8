// Package config provides configuration loading and validation for chatsurface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tessro/chatsurface/internal/paths"
	"github.com/tessro/chatsurface/internal/presentation"
)

// Config represents the chatsurface configuration.
type Config struct {
	// LogLevel controls logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	Animation AnimationConfig `toml:"animation"`
	Layout    LayoutConfig    `toml:"layout"`
	Theme     ThemeConfig     `toml:"theme"`
	Wallpaper WallpaperConfig `toml:"wallpaper"`

	// StringsFile is a YAML file overriding user-visible strings. Relative
	// paths resolve against the config directory.
	StringsFile string `toml:"strings_file"`
}

// AnimationConfig holds transition timings in milliseconds.
type AnimationConfig struct {
	SpringMS     int `toml:"spring_ms"`
	TextResizeMS int `toml:"text_resize_ms"`
	FrameMS      int `toml:"frame_ms"`
}

// LayoutConfig holds surface dimensions in cells.
type LayoutConfig struct {
	// KeyboardInset is the height reserved below the input panel while it
	// has focus.
	KeyboardInset   *int `toml:"keyboard_inset"`
	NavButtonMargin *int `toml:"nav_button_margin"`
	SafeBottom      int  `toml:"safe_bottom"`
}

// ThemeConfig overrides colors of the default theme.
type ThemeConfig struct {
	Name            string `toml:"name"`
	PanelBackground string `toml:"panel_background"`
	PanelStroke     string `toml:"panel_stroke"`
	Accent          string `toml:"accent"`
	Text            string `toml:"text"`
	SecondaryText   string `toml:"secondary_text"`
	Incoming        string `toml:"incoming"`
	Outgoing        string `toml:"outgoing"`
	Destructive     string `toml:"destructive"`
}

// WallpaperConfig selects the chat background.
type WallpaperConfig struct {
	// Kind is "builtin", "color", or "image".
	Kind  string `toml:"kind"`
	Color string `toml:"color"`
	Path  string `toml:"path"`
}

// Defaults.
const (
	DefaultLogLevel        = "info"
	DefaultSpringMS        = 400
	DefaultTextResizeMS    = 100
	DefaultFrameMS         = 16
	DefaultKeyboardInset   = 0
	DefaultNavButtonMargin = 1
)

// Load loads the config from the default path.
// Returns nil config and nil error if the file doesn't exist.
func Load() (*Config, error) {
	path, err := paths.ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the config at path.
// Returns nil config and nil error if the file doesn't exist.
func LoadFromPath(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &ValidationError{
			Field:   strings.Join(keys, ", "),
			Message: "unknown config key",
			Err:     ErrUnknownKey,
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetLogLevel returns the configured log level or the default.
func (c *Config) GetLogLevel() string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// SpringDuration returns the duration of animated state transitions.
func (c *Config) SpringDuration() time.Duration {
	return msOrDefault(c, func(c *Config) int { return c.Animation.SpringMS }, DefaultSpringMS)
}

// TextResizeDuration returns the duration of text panel height changes.
func (c *Config) TextResizeDuration() time.Duration {
	return msOrDefault(c, func(c *Config) int { return c.Animation.TextResizeMS }, DefaultTextResizeMS)
}

// FrameInterval returns the display refresh interval.
func (c *Config) FrameInterval() time.Duration {
	return msOrDefault(c, func(c *Config) int { return c.Animation.FrameMS }, DefaultFrameMS)
}

func msOrDefault(c *Config, get func(*Config) int, def int) time.Duration {
	if c != nil {
		if ms := get(c); ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(def) * time.Millisecond
}

// GetKeyboardInset returns the keyboard inset or the default.
func (c *Config) GetKeyboardInset() int {
	if c != nil && c.Layout.KeyboardInset != nil {
		return *c.Layout.KeyboardInset
	}
	return DefaultKeyboardInset
}

// GetNavButtonMargin returns the navigation button margin or the default.
func (c *Config) GetNavButtonMargin() int {
	if c != nil && c.Layout.NavButtonMargin != nil {
		return *c.Layout.NavButtonMargin
	}
	return DefaultNavButtonMargin
}

// GetSafeBottom returns the bottom safe inset.
func (c *Config) GetSafeBottom() int {
	if c == nil {
		return 0
	}
	return c.Layout.SafeBottom
}

// BuildTheme returns the default theme with configured overrides applied.
func (c *Config) BuildTheme() *presentation.Theme {
	theme := presentation.DefaultTheme()
	if c == nil {
		return theme
	}
	t := c.Theme
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&theme.Name, t.Name)
	set(&theme.PanelBackground, t.PanelBackground)
	set(&theme.PanelStroke, t.PanelStroke)
	set(&theme.Accent, t.Accent)
	set(&theme.Text, t.Text)
	set(&theme.SecondaryText, t.SecondaryText)
	set(&theme.Incoming, t.Incoming)
	set(&theme.Outgoing, t.Outgoing)
	set(&theme.Destructive, t.Destructive)
	return theme
}

// BuildWallpaper returns the configured wallpaper descriptor. The config is
// validated on load, so malformed colors do not reach here.
func (c *Config) BuildWallpaper() presentation.Wallpaper {
	if c == nil {
		return presentation.Wallpaper{}
	}
	switch c.Wallpaper.Kind {
	case "color":
		rgb, _ := parseHexColor(c.Wallpaper.Color)
		return presentation.Wallpaper{Kind: presentation.WallpaperColor, Color: rgb}
	case "image":
		path, _ := paths.ResolveRelative(c.Wallpaper.Path)
		return presentation.Wallpaper{Kind: presentation.WallpaperImage, Path: path}
	default:
		return presentation.Wallpaper{}
	}
}

// LoadStrings reads the strings file, filling missing entries from the
// defaults. Without a strings file the defaults are returned.
func (c *Config) LoadStrings() (*presentation.Strings, error) {
	defaults := presentation.DefaultStrings()
	if c == nil || c.StringsFile == "" {
		return defaults, nil
	}
	path, err := paths.ResolveRelative(c.StringsFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strings file: %w", err)
	}
	var s presentation.Strings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse strings file %s: %w", path, err)
	}
	return s.Merge(defaults), nil
}

func parseHexColor(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(s, "#")) != 6 {
		return 0, ErrInvalidColor
	}
	return uint32(v), nil
}
