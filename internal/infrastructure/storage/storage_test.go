package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("http://localhost:8080/")

	url, err := s.Put(ctx, "images/a.png", []byte("abc"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/images/a.png", url)

	data, ct, err := s.Get(ctx, "images/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, "images/a.png"))
	_, _, err = s.Get(ctx, "images/a.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestInspectRaster(t *testing.T) {
	p := NewImageProcessor()

	info, err := p.Inspect(pngBytes(t, 640, 480), "image/png")
	require.NoError(t, err)
	assert.True(t, info.Raster)
	assert.Equal(t, ".png", info.Ext)
	assert.Equal(t, 640, info.Width)
	assert.Equal(t, 480, info.Height)

	info, err = p.Inspect(jpegBytes(t, 10, 20), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", info.Ext)
	assert.Equal(t, 20, info.Height)
}

func TestInspectRejectsGarbage(t *testing.T) {
	p := NewImageProcessor()

	_, err := p.Inspect([]byte("not really a png"), "image/png")
	assert.Error(t, err)

	_, err = p.Inspect([]byte("GIF89a"), "image/gif")
	assert.Error(t, err)
}

func TestThumbnailFitsSquare(t *testing.T) {
	p := NewImageProcessor()
	data := pngBytes(t, 1200, 600)
	info, err := p.Inspect(data, "image/png")
	require.NoError(t, err)

	thumb, ct, ext, err := p.Thumbnail(data, info)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailSize, cfg.Width)
	assert.Equal(t, ThumbnailSize/2, cfg.Height)
}

func TestThumbnailKeepsJPEG(t *testing.T) {
	p := NewImageProcessor()
	data := jpegBytes(t, 800, 800)
	info, err := p.Inspect(data, "image/jpeg")
	require.NoError(t, err)

	_, ct, ext, err := p.Thumbnail(data, info)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, ".jpg", ext)
}

func TestSVGPassesThrough(t *testing.T) {
	p := NewImageProcessor()
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24"></svg>`)

	info, err := p.Inspect(svg, "image/svg+xml")
	require.NoError(t, err)
	assert.False(t, info.Raster)
	assert.Zero(t, info.Width)

	thumb, ct, ext, err := p.Thumbnail(svg, info)
	require.NoError(t, err)
	assert.Equal(t, svg, thumb)
	assert.Equal(t, "image/svg+xml", ct)
	assert.Equal(t, ".svg", ext)
}
