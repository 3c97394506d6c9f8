// Package background renders chat wallpapers and caches the current one.
package background

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"log/slog"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/tessro/chatsurface/internal/presentation"
)

// Resolution is the number of rows a rendered wallpaper has. Terminal cells
// sample it by relative row position.
const Resolution = 64

// Builtin gradient endpoints.
const (
	builtinTop    = "#1e2a3a"
	builtinBottom = "#0f151d"
)

var (
	// ErrNoImagePath is returned for an image wallpaper without a path.
	ErrNoImagePath = errors.New("image wallpaper has no path")
	// ErrUnknownKind is returned for a wallpaper kind no renderer handles.
	ErrUnknownKind = errors.New("unknown wallpaper kind")
)

// Image is a rendered wallpaper: one color per row, top to bottom.
type Image struct {
	Rows []colorful.Color
}

// At returns the color for row y of a surface height rows tall.
func (im *Image) At(y, height int) colorful.Color {
	if im == nil || len(im.Rows) == 0 {
		return colorful.Color{}
	}
	if height <= 1 {
		return im.Rows[0]
	}
	i := y * (len(im.Rows) - 1) / (height - 1)
	i = max(0, min(i, len(im.Rows)-1))
	return im.Rows[i]
}

// Renderer turns a wallpaper descriptor into an image.
type Renderer interface {
	Render(w presentation.Wallpaper) (*Image, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w presentation.Wallpaper) (*Image, error)

// Render implements Renderer.
func (f RendererFunc) Render(w presentation.Wallpaper) (*Image, error) { return f(w) }

// DefaultRenderer renders the builtin gradient, solid colors, and image files.
type DefaultRenderer struct{}

// Render implements Renderer.
func (DefaultRenderer) Render(w presentation.Wallpaper) (*Image, error) {
	switch w.Kind {
	case presentation.WallpaperBuiltin:
		top, _ := colorful.Hex(builtinTop)
		bottom, _ := colorful.Hex(builtinBottom)
		return Gradient(top, bottom), nil
	case presentation.WallpaperColor:
		return Solid(FromRGB(w.Color)), nil
	case presentation.WallpaperImage:
		return renderImage(w.Path)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, w.Kind)
	}
}

// FromRGB converts a 0xRRGGBB value.
func FromRGB(rgb uint32) colorful.Color {
	return colorful.Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
	}
}

// Gradient blends from top to bottom in Lab space.
func Gradient(top, bottom colorful.Color) *Image {
	rows := make([]colorful.Color, Resolution)
	for i := range rows {
		rows[i] = top.BlendLab(bottom, float64(i)/float64(Resolution-1)).Clamped()
	}
	return &Image{Rows: rows}
}

// Solid returns a single-color image.
func Solid(c colorful.Color) *Image {
	rows := make([]colorful.Color, Resolution)
	for i := range rows {
		rows[i] = c
	}
	return &Image{Rows: rows}
}

func renderImage(path string) (*Image, error) {
	if path == "" {
		return nil, ErrNoImagePath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wallpaper: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wallpaper %s: %w", path, err)
	}
	column := resize.Resize(1, Resolution, src, resize.Bilinear)
	b := column.Bounds()
	rows := make([]colorful.Color, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		c, _ := colorful.MakeColor(column.At(b.Min.X, y))
		rows = append(rows, c)
	}
	return &Image{Rows: rows}, nil
}

// Cache keeps the most recently rendered wallpaper. Requesting a different
// wallpaper drops the cached one; failed renders are not cached.
type Cache struct {
	renderer Renderer
	key      presentation.Wallpaper
	image    *Image
	renders  int
}

// NewCache returns an empty cache rendering through r.
func NewCache(r Renderer) *Cache {
	if r == nil {
		r = DefaultRenderer{}
	}
	return &Cache{renderer: r}
}

// Get returns the rendered image for w, rendering it on a miss.
func (c *Cache) Get(w presentation.Wallpaper) (*Image, error) {
	if c.image != nil && c.key == w {
		return c.image, nil
	}
	c.image = nil
	img, err := c.renderer.Render(w)
	if err != nil {
		return nil, err
	}
	c.key = w
	c.image = img
	c.renders++
	slog.Debug("wallpaper rendered", "kind", w.Kind, "path", w.Path, "rows", len(img.Rows))
	return img, nil
}

// Current returns the cached image, or nil.
func (c *Cache) Current() *Image { return c.image }

// Renders returns how many renders succeeded.
func (c *Cache) Renders() int { return c.renders }
