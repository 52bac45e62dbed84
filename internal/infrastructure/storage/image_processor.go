package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge = errors.New("image is too large")
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageFormat   = errors.New("image format not allowed")
)

type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // longest side after normalisation
	Quality      int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxSize:      5 * 1024 * 1024,
		MaxDimension: 1200,
		Quality:      90,
	}
}

// Validate accepts JPEG and PNG files up to MaxSize.
func (p *ImageProcessor) Validate(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w: limit is %dMB", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ErrNotAnImage
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("%w: %s (only jpeg/png)", ErrImageFormat, format)
	}
}

// Normalize fits the image inside MaxDimension x MaxDimension and re-encodes
// it as JPEG. Smaller images keep their size.
func (p *ImageProcessor) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}

	b := img.Bounds()
	if b.Dx() > p.MaxDimension || b.Dy() > p.MaxDimension {
		img = imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}
