package config

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestValidateLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", nil},
		{"debug", "debug", nil},
		{"uppercase", "WARN", nil},
		{"unknown", "verbose", ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogLevel(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLogLevel(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{"nil", nil, nil},
		{"empty", &Config{}, nil},
		{"negative spring", &Config{Animation: AnimationConfig{SpringMS: -1}}, ErrInvalidDuration},
		{"frame too fast", &Config{Animation: AnimationConfig{FrameMS: 1}}, ErrInvalidFrameMS},
		{"frame ok", &Config{Animation: AnimationConfig{FrameMS: 16}}, nil},
		{"negative keyboard", &Config{Layout: LayoutConfig{KeyboardInset: intPtr(-2)}}, ErrInvalidInset},
		{"negative safe bottom", &Config{Layout: LayoutConfig{SafeBottom: -1}}, ErrInvalidInset},
		{"ansi theme color", &Config{Theme: ThemeConfig{Incoming: "12"}}, nil},
		{"ansi out of range", &Config{Theme: ThemeConfig{Incoming: "300"}}, ErrInvalidThemeColor},
		{"bad hex theme color", &Config{Theme: ThemeConfig{Accent: "#12345"}}, ErrInvalidThemeColor},
		{"named theme color", &Config{Theme: ThemeConfig{Accent: "purple"}}, ErrInvalidThemeColor},
		{"color wallpaper", &Config{Wallpaper: WallpaperConfig{Kind: "color", Color: "#000000"}}, nil},
		{"bad wallpaper color", &Config{Wallpaper: WallpaperConfig{Kind: "color", Color: "black"}}, ErrInvalidColor},
		{"image wallpaper", &Config{Wallpaper: WallpaperConfig{Kind: "image", Path: "wall.png"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "wallpaper.kind", Value: "video", Message: "must be builtin, color, or image"}
	want := `wallpaper.kind: must be builtin, color, or image (got "video")`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &ValidationError{Field: "wallpaper.path", Message: "required"}
	if err.Error() != "wallpaper.path: required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
