// Package thumb prepares the 128x128 JPEG thumbnails attached to delivered
// documents.
package thumb

import (
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// Side is the bounding box Telegram expects for document thumbnails.
const Side = 128

// FromPhoto scales the image at srcPath to fit a Side x Side box, keeping
// aspect ratio, and writes it as JPEG to dstPath.
func FromPhoto(srcPath, dstPath string) error {
	src, err := loadImage(srcPath)
	if err != nil {
		return fmt.Errorf("failed to load thumbnail source: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid thumbnail source dimensions: %dx%d", w, h)
	}

	// Fit into the box without stretching
	tw, th := Side, Side*h/w
	if h > w {
		tw, th = Side*w/h, Side
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, stddraw.Over, nil)

	return saveJPEG(dst, dstPath)
}

// Default writes the fallback thumbnail: a solid blue square.
func Default(dstPath string) error {
	img := image.NewRGBA(image.Rect(0, 0, Side, Side))
	blue := color.RGBA{B: 0xff, A: 0xff}
	stddraw.Draw(img, img.Bounds(), &image.Uniform{C: blue}, image.Point{}, stddraw.Src)
	return saveJPEG(img, dstPath)
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func saveJPEG(img image.Image, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}
