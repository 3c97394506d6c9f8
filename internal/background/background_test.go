package background

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/chatsurface/internal/presentation"
)

func TestCache_LRUOfOne(t *testing.T) {
	calls := 0
	c := NewCache(RendererFunc(func(w presentation.Wallpaper) (*Image, error) {
		calls++
		return Solid(FromRGB(w.Color)), nil
	}))
	red := presentation.Wallpaper{Kind: presentation.WallpaperColor, Color: 0xff0000}
	blue := presentation.Wallpaper{Kind: presentation.WallpaperColor, Color: 0x0000ff}

	first, err := c.Get(red)
	require.NoError(t, err)
	again, err := c.Get(red)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, calls)

	_, err = c.Get(blue)
	require.NoError(t, err)
	_, err = c.Get(red)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "only the latest wallpaper is kept")
	assert.Equal(t, 3, c.Renders())
}

func TestCache_FailedRenderNotCached(t *testing.T) {
	fail := true
	c := NewCache(RendererFunc(func(presentation.Wallpaper) (*Image, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return Solid(FromRGB(0)), nil
	}))
	w := presentation.Wallpaper{Kind: presentation.WallpaperBuiltin}

	_, err := c.Get(w)
	require.Error(t, err)
	assert.Nil(t, c.Current())

	fail = false
	img, err := c.Get(w)
	require.NoError(t, err)
	assert.Same(t, img, c.Current())
}

func TestDefaultRenderer(t *testing.T) {
	r := DefaultRenderer{}

	img, err := r.Render(presentation.Wallpaper{Kind: presentation.WallpaperBuiltin})
	require.NoError(t, err)
	require.Len(t, img.Rows, Resolution)
	top, _, _ := img.Rows[0].RGB255()
	bottom, _, _ := img.Rows[Resolution-1].RGB255()
	assert.NotEqual(t, top, bottom)

	img, err = r.Render(presentation.Wallpaper{Kind: presentation.WallpaperColor, Color: 0x336699})
	require.NoError(t, err)
	assert.Equal(t, "#336699", img.At(10, 20).Hex())

	_, err = r.Render(presentation.Wallpaper{Kind: presentation.WallpaperImage})
	assert.ErrorIs(t, err, ErrNoImagePath)

	_, err = r.Render(presentation.Wallpaper{Kind: presentation.WallpaperKind(99)})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDefaultRenderer_Image(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: 0, G: 128, B: 0, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "wall.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := DefaultRenderer{}.Render(presentation.Wallpaper{Kind: presentation.WallpaperImage, Path: path})
	require.NoError(t, err)
	require.Len(t, img.Rows, Resolution)
	_, g, _ := img.Rows[Resolution/2].RGB255()
	assert.InDelta(t, 128, int(g), 2)
}

func TestImage_At(t *testing.T) {
	img := &Image{Rows: []colorful.Color{{R: 0}, {R: 0.5}, {R: 1}}}
	assert.Equal(t, 0.0, img.At(0, 10).R)
	assert.Equal(t, 1.0, img.At(9, 10).R)
	assert.Equal(t, 0.0, img.At(0, 1).R)

	var empty *Image
	assert.Equal(t, colorful.Color{}, empty.At(3, 10))
}
