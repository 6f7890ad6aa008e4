package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const ThumbnailSize = 300

// ImageInfo is what the processor learned about an upload.
type ImageInfo struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
	Raster      bool // false for SVG: no dimensions, no thumbnail
}

type ImageProcessor struct {
	ThumbnailSize int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{ThumbnailSize: ThumbnailSize}
}

// Inspect decodes the header of a sniffed upload. contentType must come
// from content sniffing, not from the client.
func (p *ImageProcessor) Inspect(data []byte, contentType string) (*ImageInfo, error) {
	info := &ImageInfo{ContentType: contentType}
	switch contentType {
	case "image/svg+xml":
		info.Ext = ".svg"
		return info, nil
	case "image/jpeg":
		info.Ext = ".jpg"
	case "image/png":
		info.Ext = ".png"
	case "image/webp":
		info.Ext = ".webp"
	default:
		return nil, fmt.Errorf("unsupported image type %s", contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not an image: %w", err)
	}
	info.Width = cfg.Width
	info.Height = cfg.Height
	info.Raster = true
	return info, nil
}

// Thumbnail fits the image into a ThumbnailSize square. JPEG input stays
// JPEG; PNG and WebP become PNG since there is no WebP encoder.
func (p *ImageProcessor) Thumbnail(data []byte, info *ImageInfo) ([]byte, string, string, error) {
	if !info.Raster {
		return data, info.ContentType, info.Ext, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", fmt.Errorf("cannot decode image: %w", err)
	}

	size := p.ThumbnailSize
	if size <= 0 {
		size = ThumbnailSize
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	b := new(bytes.Buffer)
	if info.ContentType == "image/jpeg" {
		if err := jpeg.Encode(b, thumb, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", "", fmt.Errorf("cannot encode thumbnail: %w", err)
		}
		return b.Bytes(), "image/jpeg", ".jpg", nil
	}
	if err := png.Encode(b, thumb); err != nil {
		return nil, "", "", fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return b.Bytes(), "image/png", ".png", nil
}
