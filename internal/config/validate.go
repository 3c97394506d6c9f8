package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrUnknownKey        = errors.New("unknown config key")
	ErrInvalidLogLevel   = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidDuration   = errors.New("duration must not be negative")
	ErrInvalidFrameMS    = errors.New("frame_ms out of range")
	ErrInvalidInset      = errors.New("inset must not be negative")
	ErrInvalidWallpaper  = errors.New("unknown wallpaper kind")
	ErrInvalidColor      = errors.New("color must be #RRGGBB")
	ErrMissingImagePath  = errors.New("image wallpaper requires a path")
	ErrInvalidThemeColor = errors.New("theme color must be #RRGGBB or an ANSI index")
)

// Frame interval bounds in milliseconds.
const (
	MinFrameMS = 4
	MaxFrameMS = 100
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validWallpaperKinds = map[string]bool{
	"":        true,
	"builtin": true,
	"color":   true,
	"image":   true,
}

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every section of the config and returns the first error.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := ValidateLogLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Animation.Validate(); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	return c.Wallpaper.Validate()
}

// ValidateLogLevel validates a log level. Empty means the default.
func ValidateLogLevel(level string) error {
	if level == "" || validLogLevels[strings.ToLower(level)] {
		return nil
	}
	return &ValidationError{
		Field:   "log_level",
		Value:   level,
		Message: "must be debug, info, warn, or error",
		Err:     ErrInvalidLogLevel,
	}
}

// Validate validates the animation timings.
func (a AnimationConfig) Validate() error {
	durations := []struct {
		field string
		ms    int
	}{
		{"animation.spring_ms", a.SpringMS},
		{"animation.text_resize_ms", a.TextResizeMS},
	}
	for _, d := range durations {
		if d.ms < 0 {
			return &ValidationError{
				Field:   d.field,
				Value:   fmt.Sprintf("%d", d.ms),
				Message: "must not be negative",
				Err:     ErrInvalidDuration,
			}
		}
	}
	if a.FrameMS != 0 && (a.FrameMS < MinFrameMS || a.FrameMS > MaxFrameMS) {
		return &ValidationError{
			Field:   "animation.frame_ms",
			Value:   fmt.Sprintf("%d", a.FrameMS),
			Message: fmt.Sprintf("must be between %d and %d", MinFrameMS, MaxFrameMS),
			Err:     ErrInvalidFrameMS,
		}
	}
	return nil
}

// Validate validates the layout dimensions.
func (l LayoutConfig) Validate() error {
	check := func(field string, v int) error {
		if v < 0 {
			return &ValidationError{
				Field:   field,
				Value:   fmt.Sprintf("%d", v),
				Message: "must not be negative",
				Err:     ErrInvalidInset,
			}
		}
		return nil
	}
	if l.KeyboardInset != nil {
		if err := check("layout.keyboard_inset", *l.KeyboardInset); err != nil {
			return err
		}
	}
	if l.NavButtonMargin != nil {
		if err := check("layout.nav_button_margin", *l.NavButtonMargin); err != nil {
			return err
		}
	}
	return check("layout.safe_bottom", l.SafeBottom)
}

// Validate validates theme colors.
func (t ThemeConfig) Validate() error {
	colors := []struct {
		field, value string
	}{
		{"theme.panel_background", t.PanelBackground},
		{"theme.panel_stroke", t.PanelStroke},
		{"theme.accent", t.Accent},
		{"theme.text", t.Text},
		{"theme.secondary_text", t.SecondaryText},
		{"theme.incoming", t.Incoming},
		{"theme.outgoing", t.Outgoing},
		{"theme.destructive", t.Destructive},
	}
	for _, c := range colors {
		if c.value == "" || validThemeColor(c.value) {
			continue
		}
		return &ValidationError{
			Field:   c.field,
			Value:   c.value,
			Message: "must be #RRGGBB or an ANSI color index",
			Err:     ErrInvalidThemeColor,
		}
	}
	return nil
}

func validThemeColor(s string) bool {
	if strings.HasPrefix(s, "#") {
		_, err := parseHexColor(s)
		return err == nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || fmt.Sprint(n) != s {
		return false
	}
	return n >= 0 && n <= 255
}

// Validate validates the wallpaper section.
func (w WallpaperConfig) Validate() error {
	if !validWallpaperKinds[w.Kind] {
		return &ValidationError{
			Field:   "wallpaper.kind",
			Value:   w.Kind,
			Message: "must be builtin, color, or image",
			Err:     ErrInvalidWallpaper,
		}
	}
	switch w.Kind {
	case "color":
		if _, err := parseHexColor(w.Color); err != nil {
			return &ValidationError{
				Field:   "wallpaper.color",
				Value:   w.Color,
				Message: "must be #RRGGBB",
				Err:     ErrInvalidColor,
			}
		}
	case "image":
		if strings.TrimSpace(w.Path) == "" {
			return &ValidationError{
				Field:   "wallpaper.path",
				Message: "required for image wallpapers",
				Err:     ErrMissingImagePath,
			}
		}
	}
	return nil
}
